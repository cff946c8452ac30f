package dto

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"labtrack_backend/internals/features/samples/model"
	helper "labtrack_backend/internals/helpers"
)

/* =========================================================
   CREATE
========================================================= */

// CreateSampleRequest: POST /api/samples
// Salah satu dari kit_id atau assignNext(+kit_type_id) wajib ada; dicek di service.
type CreateSampleRequest struct {
	KitID            *string                 `json:"kit_id" validate:"omitnil,uuid"`
	AssignNext       bool                    `json:"assignNext"`
	KitTypeID        *string                 `json:"kit_type_id" validate:"omitnil,uuid"`
	Customer         string                  `json:"customer" validate:"required"`
	SampleType       string                  `json:"sample_type" validate:"required"`
	ReceivedAt       string                  `json:"received_at" validate:"required,datetime=2006-01-02"`
	CollectedAt      *string                 `json:"collected_at" validate:"omitnil,datetime=2006-01-02"`
	Technician       string                  `json:"technician" validate:"required"`
	Price            *float64                `json:"price" validate:"required,gte=0"`
	Status           *model.SampleStatus     `json:"status" validate:"omitnil,oneof=draft done approved"`
	BillingStatus    *model.BillingStatus    `json:"billing_status" validate:"omitnil,oneof=unpaid invoiced paid eom_credit"`
	InvoiceMonth     *string                 `json:"invoice_month" validate:"omitnil,month_start,datetime=2006-01-02"`
	CategoryID       string                  `json:"category_id" validate:"required,uuid"`
	CompanySnapshot  *model.CompanySnapshot  `json:"company_snapshot" validate:"required"`
	CustomerSnapshot *model.CustomerSnapshot `json:"customer_snapshot" validate:"required"`
	SlMau            *int                    `json:"sl_mau" validate:"required,gt=0"`
	Note             *string                 `json:"note"`
}

// Pesan validasi sampel (create & update memakai tabel yang sama)
var SampleMessages = map[string]string{
	"kit_id":            "ID kit không hợp lệ",
	"kit_type_id":       "ID loại kit không hợp lệ",
	"customer":          "Khách hàng không được để trống",
	"sample_type":       "Loại mẫu không được để trống",
	"received_at":       "Ngày nhận không hợp lệ",
	"collected_at":      "Ngày lấy mẫu không hợp lệ",
	"technician":        "Kỹ thuật viên không được để trống",
	"price.required":    "Giá không được để trống",
	"price":             "Giá phải ≥ 0",
	"status":            "Trạng thái không hợp lệ",
	"billing_status":    "Trạng thái thanh toán không hợp lệ",
	"invoice_month":     "Tháng hóa đơn không hợp lệ",
	"category_id":       "ID danh mục không hợp lệ",
	"company_snapshot":  "Thông tin công ty không hợp lệ",
	"customer_snapshot": "Thông tin khách hàng không hợp lệ",
	"sl_mau":            "Số lượng mẫu phải > 0",
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}

func (r *CreateSampleRequest) Normalize() {
	r.KitID = trimPtr(r.KitID)
	r.KitTypeID = trimPtr(r.KitTypeID)
	r.Customer = strings.TrimSpace(r.Customer)
	r.SampleType = strings.TrimSpace(r.SampleType)
	r.ReceivedAt = strings.TrimSpace(r.ReceivedAt)
	r.CollectedAt = trimPtr(r.CollectedAt)
	r.Technician = strings.TrimSpace(r.Technician)
	r.InvoiceMonth = trimPtr(r.InvoiceMonth)
	r.CategoryID = strings.TrimSpace(r.CategoryID)
	if r.Note != nil && strings.TrimSpace(*r.Note) == "" {
		r.Note = nil
	}
}

// ToModel: KitID & SampleCode diisi service. Dipanggil setelah validasi lolos.
func (r CreateSampleRequest) ToModel(actor uuid.UUID) model.SampleModel {
	received, _ := helper.ParseDate(r.ReceivedAt)
	collected, _ := helper.ParseDatePtr(r.CollectedAt)
	invoice, _ := helper.ParseDatePtr(r.InvoiceMonth)

	m := model.SampleModel{
		Customer:         r.Customer,
		SampleType:       r.SampleType,
		ReceivedAt:       received,
		CollectedAt:      collected,
		Technician:       r.Technician,
		Status:           model.SampleDraft,
		BillingStatus:    model.BillingUnpaid,
		InvoiceMonth:     invoice,
		CategoryID:       uuid.MustParse(r.CategoryID),
		CompanySnapshot:  datatypes.NewJSONType(*r.CompanySnapshot),
		CustomerSnapshot: datatypes.NewJSONType(*r.CustomerSnapshot),
		Note:             r.Note,
	}
	if r.Price != nil {
		m.Price = *r.Price
	}
	if r.SlMau != nil {
		m.SlMau = *r.SlMau
	}
	if r.Status != nil {
		m.Status = *r.Status
	}
	if r.BillingStatus != nil {
		m.BillingStatus = *r.BillingStatus
	}
	if actor != uuid.Nil {
		a := actor
		m.CreatedBy = &a
	}
	return m
}

/* =========================================================
   UPDATE (PATCH)
========================================================= */

// PatchField: tri-state (absent / null / value)
type PatchField[T any] struct {
	Present bool
	Value   *T
}

func (p *PatchField[T]) UnmarshalJSON(b []byte) error {
	p.Present = true
	if string(b) == "null" {
		p.Value = nil
		return nil
	}
	var v T
	if err := sonic.Unmarshal(b, &v); err != nil {
		return err
	}
	p.Value = &v
	return nil
}

func (p PatchField[T]) Get() (*T, bool) { return p.Value, p.Present }

// UpdateSampleRequest: PATCH /api/samples/:id
// Hanya field yang dikirim yang berubah; null mengosongkan field nullable.
type UpdateSampleRequest struct {
	Customer         PatchField[string]                 `json:"customer"`
	SampleType       PatchField[string]                 `json:"sample_type"`
	ReceivedAt       PatchField[string]                 `json:"received_at"`
	CollectedAt      PatchField[string]                 `json:"collected_at"`
	Technician       PatchField[string]                 `json:"technician"`
	Price            PatchField[float64]                `json:"price"`
	Status           PatchField[model.SampleStatus]     `json:"status"`
	BillingStatus    PatchField[model.BillingStatus]    `json:"billing_status"`
	InvoiceMonth     PatchField[string]                 `json:"invoice_month"`
	CategoryID       PatchField[string]                 `json:"category_id"`
	CompanySnapshot  PatchField[model.CompanySnapshot]  `json:"company_snapshot"`
	CustomerSnapshot PatchField[model.CustomerSnapshot] `json:"customer_snapshot"`
	SlMau            PatchField[int]                    `json:"sl_mau"`
	Note             PatchField[string]                 `json:"note"`
}

func trimField(p *PatchField[string]) {
	if p.Value != nil {
		s := strings.TrimSpace(*p.Value)
		p.Value = &s
	}
}

// nullable string: "" diperlakukan sebagai null
func blankToNull(p *PatchField[string]) {
	trimField(p)
	if p.Value != nil && *p.Value == "" {
		p.Value = nil
	}
}

func (r *UpdateSampleRequest) Normalize() {
	trimField(&r.Customer)
	trimField(&r.SampleType)
	trimField(&r.ReceivedAt)
	trimField(&r.Technician)
	trimField(&r.CategoryID)
	blankToNull(&r.CollectedAt)
	blankToNull(&r.InvoiceMonth)
	if r.Note.Value != nil && strings.TrimSpace(*r.Note.Value) == "" {
		r.Note.Value = nil
	}
}

// checkField: absent → lolos; null hanya boleh untuk field nullable.
func checkField[T any](f PatchField[T], nullable bool, tag, msg string) string {
	if !f.Present {
		return ""
	}
	if f.Value == nil {
		if nullable {
			return ""
		}
		return msg
	}
	if tag != "" && helper.Validate.Var(*f.Value, tag) != nil {
		return msg
	}
	return ""
}

// Validate mengembalikan pesan pelanggaran pertama (urutan field), "" bila valid.
func (r *UpdateSampleRequest) Validate() string {
	m := SampleMessages
	checks := []string{
		checkField(r.Customer, false, "required", m["customer"]),
		checkField(r.SampleType, false, "required", m["sample_type"]),
		checkField(r.ReceivedAt, false, "required,datetime=2006-01-02", m["received_at"]),
		checkField(r.CollectedAt, true, "datetime=2006-01-02", m["collected_at"]),
		checkField(r.Technician, false, "required", m["technician"]),
		checkField(r.Price, false, "gte=0", m["price"]),
		checkField(r.Status, false, "oneof=draft done approved", m["status"]),
		checkField(r.BillingStatus, false, "oneof=unpaid invoiced paid eom_credit", m["billing_status"]),
		checkField(r.InvoiceMonth, true, "month_start,datetime=2006-01-02", m["invoice_month"]),
		checkField(r.CategoryID, false, "required,uuid", m["category_id"]),
		checkField(r.CompanySnapshot, false, "", m["company_snapshot"]),
		checkField(r.CustomerSnapshot, false, "", m["customer_snapshot"]),
		checkField(r.SlMau, false, "gt=0", m["sl_mau"]),
	}
	for _, msg := range checks {
		if msg != "" {
			return msg
		}
	}
	return ""
}

// Apply menerapkan field yang dikirim ke m dan mengembalikan daftar kolom yang berubah.
// Dipanggil setelah Validate lolos.
func (r UpdateSampleRequest) Apply(m *model.SampleModel) []string {
	var cols []string

	if v, ok := r.Customer.Get(); ok {
		m.Customer = *v
		cols = append(cols, "customer")
	}
	if v, ok := r.SampleType.Get(); ok {
		m.SampleType = *v
		cols = append(cols, "sample_type")
	}
	if v, ok := r.ReceivedAt.Get(); ok {
		m.ReceivedAt, _ = helper.ParseDate(*v)
		cols = append(cols, "received_at")
	}
	if v, ok := r.CollectedAt.Get(); ok {
		m.CollectedAt, _ = helper.ParseDatePtr(v)
		cols = append(cols, "collected_at")
	}
	if v, ok := r.Technician.Get(); ok {
		m.Technician = *v
		cols = append(cols, "technician")
	}
	if v, ok := r.Price.Get(); ok {
		m.Price = *v
		cols = append(cols, "price")
	}
	if v, ok := r.Status.Get(); ok {
		m.Status = *v
		cols = append(cols, "status")
	}
	if v, ok := r.BillingStatus.Get(); ok {
		m.BillingStatus = *v
		cols = append(cols, "billing_status")
	}
	if v, ok := r.InvoiceMonth.Get(); ok {
		m.InvoiceMonth, _ = helper.ParseDatePtr(v)
		cols = append(cols, "invoice_month")
	}
	if v, ok := r.CategoryID.Get(); ok {
		m.CategoryID = uuid.MustParse(*v)
		cols = append(cols, "category_id")
	}
	if v, ok := r.CompanySnapshot.Get(); ok {
		m.CompanySnapshot = datatypes.NewJSONType(*v)
		cols = append(cols, "company_snapshot")
	}
	if v, ok := r.CustomerSnapshot.Get(); ok {
		m.CustomerSnapshot = datatypes.NewJSONType(*v)
		cols = append(cols, "customer_snapshot")
	}
	if v, ok := r.SlMau.Get(); ok {
		m.SlMau = *v
		cols = append(cols, "sl_mau")
	}
	if v, ok := r.Note.Get(); ok {
		m.Note = v
		cols = append(cols, "note")
	}
	return cols
}

// Changes: isi request apa adanya untuk diff audit (hanya field yang dikirim)
func (r UpdateSampleRequest) Changes() map[string]any {
	out := map[string]any{}
	put := func(key string, present bool, v any) {
		if present {
			out[key] = v
		}
	}
	put("customer", r.Customer.Present, r.Customer.Value)
	put("sample_type", r.SampleType.Present, r.SampleType.Value)
	put("received_at", r.ReceivedAt.Present, r.ReceivedAt.Value)
	put("collected_at", r.CollectedAt.Present, r.CollectedAt.Value)
	put("technician", r.Technician.Present, r.Technician.Value)
	put("price", r.Price.Present, r.Price.Value)
	put("status", r.Status.Present, r.Status.Value)
	put("billing_status", r.BillingStatus.Present, r.BillingStatus.Value)
	put("invoice_month", r.InvoiceMonth.Present, r.InvoiceMonth.Value)
	put("category_id", r.CategoryID.Present, r.CategoryID.Value)
	put("company_snapshot", r.CompanySnapshot.Present, r.CompanySnapshot.Value)
	put("customer_snapshot", r.CustomerSnapshot.Present, r.CustomerSnapshot.Value)
	put("sl_mau", r.SlMau.Present, r.SlMau.Value)
	put("note", r.Note.Present, r.Note.Value)
	return out
}

/* =========================================================
   RESULTS
========================================================= */

type ResultInput struct {
	MetricCode string   `json:"metric_code" validate:"oneof=CL_GAN WSSV EHP EMS TPD KHUAN MBV DIV1 DANG_KHAC VI_KHUAN_VI_NAM TAM_SOAT"`
	MetricName string   `json:"metric_name" validate:"required"`
	ValueNum   *float64 `json:"value_num"`
	ValueText  *string  `json:"value_text"`
	Unit       *string  `json:"unit"`
	RefLow     *float64 `json:"ref_low"`
	RefHigh    *float64 `json:"ref_high"`
}

// ReplaceResultsRequest: PATCH /api/samples/:id/results
type ReplaceResultsRequest struct {
	Results []ResultInput `json:"results" validate:"min=1,dive"`
}

var ResultMessages = map[string]string{
	"results":     "Phải có ít nhất một kết quả",
	"metric_code": "Mã chỉ số không hợp lệ",
	"metric_name": "Tên chỉ số không được để trống",
}

func (r *ReplaceResultsRequest) Normalize() {
	for i := range r.Results {
		r.Results[i].MetricCode = strings.TrimSpace(r.Results[i].MetricCode)
		r.Results[i].MetricName = strings.TrimSpace(r.Results[i].MetricName)
	}
}

// ToModels: value_text "-" memaksa value_num 0; unit default "".
func (r ReplaceResultsRequest) ToModels(sampleID uuid.UUID) []model.SampleResultModel {
	out := make([]model.SampleResultModel, 0, len(r.Results))
	for i, in := range r.Results {
		row := model.SampleResultModel{
			Position:   i,
			SampleID:   sampleID,
			MetricCode: in.MetricCode,
			MetricName: in.MetricName,
			ValueNum:   in.ValueNum,
			ValueText:  in.ValueText,
			RefLow:     in.RefLow,
			RefHigh:    in.RefHigh,
		}
		if in.ValueText != nil && *in.ValueText == model.NegativeText {
			zero := 0.0
			row.ValueNum = &zero
		}
		if in.Unit != nil {
			row.Unit = *in.Unit
		}
		out = append(out, row)
	}
	return out
}

/* =========================================================
   LIST
========================================================= */

// ListQuery: ?page&pageSize&status&billingStatus&customer
type ListQuery struct {
	Status        string `query:"status"`
	BillingStatus string `query:"billingStatus"`
	Customer      string `query:"customer"`
}

func (q *ListQuery) Normalize() {
	q.Status = strings.TrimSpace(q.Status)
	q.BillingStatus = strings.TrimSpace(q.BillingStatus)
	q.Customer = helper.NormalizeSearch(q.Customer)
}

/* =========================================================
   RESPONSE
========================================================= */

type SampleKitResponse struct {
	ID          uuid.UUID  `json:"id"`
	KitCode     string     `json:"kit_code"`
	Status      string     `json:"status"`
	AssignedAt  *time.Time `json:"assigned_at"`
	BatchCode   *string    `json:"batch_code,omitempty"`
	KitTypeID   *uuid.UUID `json:"kit_type_id,omitempty"`
	KitTypeName *string    `json:"kit_type_name,omitempty"`
}

type ResultResponse struct {
	ID         uuid.UUID `json:"id"`
	SampleID   uuid.UUID `json:"sample_id"`
	MetricCode string    `json:"metric_code"`
	MetricName string    `json:"metric_name"`
	ValueNum   *float64  `json:"value_num"`
	ValueText  *string   `json:"value_text"`
	Unit       string    `json:"unit"`
	RefLow     *float64  `json:"ref_low"`
	RefHigh    *float64  `json:"ref_high"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToResultResponses(rows []model.SampleResultModel) []ResultResponse {
	out := make([]ResultResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ResultResponse{
			ID:         r.ID,
			SampleID:   r.SampleID,
			MetricCode: r.MetricCode,
			MetricName: r.MetricName,
			ValueNum:   r.ValueNum,
			ValueText:  r.ValueText,
			Unit:       r.Unit,
			RefLow:     r.RefLow,
			RefHigh:    r.RefHigh,
			Position:   r.Position,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out
}

type SampleResponse struct {
	ID               uuid.UUID              `json:"id"`
	KitID            uuid.UUID              `json:"kit_id"`
	SampleCode       string                 `json:"sample_code"`
	Customer         string                 `json:"customer"`
	SampleType       string                 `json:"sample_type"`
	ReceivedAt       string                 `json:"received_at"`
	CollectedAt      *string                `json:"collected_at"`
	Technician       string                 `json:"technician"`
	Price            float64                `json:"price"`
	Status           model.SampleStatus     `json:"status"`
	BillingStatus    model.BillingStatus    `json:"billing_status"`
	InvoiceMonth     *string                `json:"invoice_month"`
	CategoryID       uuid.UUID              `json:"category_id"`
	CompanySnapshot  model.CompanySnapshot  `json:"company_snapshot"`
	CustomerSnapshot model.CustomerSnapshot `json:"customer_snapshot"`
	SlMau            int                    `json:"sl_mau"`
	Note             *string                `json:"note"`
	CreatedBy        *uuid.UUID             `json:"created_by"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`

	Kit     *SampleKitResponse `json:"kit,omitempty"`
	Results []ResultResponse   `json:"results,omitempty"`
}

func ToSampleResponse(m model.SampleModel) SampleResponse {
	out := SampleResponse{
		ID:               m.ID,
		KitID:            m.KitID,
		SampleCode:       m.SampleCode,
		Customer:         m.Customer,
		SampleType:       m.SampleType,
		ReceivedAt:       helper.FormatDate(m.ReceivedAt),
		CollectedAt:      helper.FormatDatePtr(m.CollectedAt),
		Technician:       m.Technician,
		Price:            m.Price,
		Status:           m.Status,
		BillingStatus:    m.BillingStatus,
		InvoiceMonth:     helper.FormatDatePtr(m.InvoiceMonth),
		CategoryID:       m.CategoryID,
		CompanySnapshot:  m.CompanySnapshot.Data(),
		CustomerSnapshot: m.CustomerSnapshot.Data(),
		SlMau:            m.SlMau,
		Note:             m.Note,
		CreatedBy:        m.CreatedBy,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if k := m.Kit; k != nil {
		kr := &SampleKitResponse{
			ID:         k.ID,
			KitCode:    k.KitCode,
			Status:     string(k.Status),
			AssignedAt: k.AssignedAt,
		}
		if b := k.Batch; b != nil {
			code := b.BatchCode
			typeID := b.KitTypeID
			kr.BatchCode = &code
			kr.KitTypeID = &typeID
			if b.KitType != nil {
				name := b.KitType.Name
				kr.KitTypeName = &name
			}
		}
		out.Kit = kr
	}
	if m.Results != nil {
		out.Results = ToResultResponses(m.Results)
	}
	return out
}

func ToSampleResponses(rows []model.SampleModel) []SampleResponse {
	out := make([]SampleResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToSampleResponse(r))
	}
	return out
}

type NextCodeResponse struct {
	SampleCode string `json:"sample_code"`
	ReceivedAt string `json:"received_at"`
}
