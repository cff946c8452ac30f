package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"labtrack_backend/internals/features/samples/dto"
	"labtrack_backend/internals/features/samples/model"
	helper "labtrack_backend/internals/helpers"
)

const ExportSheet = "Samples"

var ExportHeader = []string{
	"Mã mẫu",
	"Ngày nhận",
	"Khách hàng",
	"Công ty",
	"Loại mẫu",
	"Kỹ thuật viên",
	"SL mẫu",
	"Giá",
	"Trạng thái",
	"Thanh toán",
	"Tháng hóa đơn",
	"Mã kit",
	"Ghi chú",
}

// Export: seluruh hasil filter (tanpa paging, maks ExportOpts) sebagai XLSX.
func (s *Service) Export(ctx context.Context, q dto.ListQuery) ([]byte, error) {
	p := helper.Paging{Page: 1, PageSize: helper.ExportOpts.MaxPerPage}
	rows, _, err := s.store.ListSamples(ctx, Filter{
		Status:        q.Status,
		BillingStatus: q.BillingStatus,
		Customer:      q.Customer,
		Limit:         p.Limit(),
		Offset:        p.Offset(),
	})
	if err != nil {
		return nil, err
	}
	return BuildWorkbook(rows)
}

func exportRow(m model.SampleModel) []any {
	invoice := ""
	if m.InvoiceMonth != nil {
		invoice = m.InvoiceMonth.Format("2006-01")
	}
	note := ""
	if m.Note != nil {
		note = *m.Note
	}
	kitCode := ""
	if m.Kit != nil {
		kitCode = m.Kit.KitCode
	}
	return []any{
		m.SampleCode,
		helper.FormatDate(m.ReceivedAt),
		m.Customer,
		m.CompanySnapshot.Data().Name,
		m.SampleType,
		m.Technician,
		m.SlMau,
		m.Price,
		string(m.Status),
		string(m.BillingStatus),
		invoice,
		kitCode,
		note,
	}
}

// BuildWorkbook menulis header + satu baris per sampel ke satu sheet.
func BuildWorkbook(rows []model.SampleModel) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(ExportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetRow(ExportSheet, "A1", &ExportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(ExportHeader), 1)
	if err := f.SetCellStyle(ExportSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}

	for i, m := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := exportRow(m)
		if err := f.SetSheetRow(ExportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(ExportSheet, "A", "A", 16)
	_ = f.SetColWidth(ExportSheet, "C", "D", 28)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
