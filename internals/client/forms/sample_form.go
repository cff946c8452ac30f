package forms

import (
	"strconv"
	"strings"

	sampleDto "labtrack_backend/internals/features/samples/dto"
	"labtrack_backend/internals/features/samples/model"
	helper "labtrack_backend/internals/helpers"
)

// SampleForm: state form sampel (semua string, seperti input browser).
// InvoiceMonth berformat YYYY-MM.
type SampleForm struct {
	AssignNext bool   `json:"assignNext"`
	KitID      string `json:"kit_id"`
	KitTypeID  string `json:"kit_type_id"`

	Customer    string `json:"customer" validate:"required"`
	SampleType  string `json:"sample_type" validate:"required"`
	ReceivedAt  string `json:"received_at" validate:"required"`
	CollectedAt string `json:"collected_at"`
	Technician  string `json:"technician" validate:"required"`

	Price         string `json:"price" validate:"required"`
	Status        string `json:"status" validate:"oneof=draft done approved"`
	BillingStatus string `json:"billing_status" validate:"oneof=unpaid invoiced paid eom_credit"`
	InvoiceMonth  string `json:"invoice_month"`
	CategoryID    string `json:"category_id" validate:"required"`

	CompanyName     string `json:"company_name" validate:"required"`
	CompanyRegion   string `json:"company_region"`
	CompanyProvince string `json:"company_province"`

	CustomerName   string `json:"customer_name" validate:"required"`
	CustomerPhone  string `json:"customer_phone"`
	CustomerRegion string `json:"customer_region"`

	SlMau string `json:"sl_mau" validate:"required"`
	Note  string `json:"note"`
}

var SampleFormMessages = map[string]string{
	"customer":       "Khách hàng không được để trống",
	"sample_type":    "Loại mẫu không được để trống",
	"received_at":    "Ngày nhận không được để trống",
	"technician":     "Kỹ thuật viên không được để trống",
	"price":          "Giá không được để trống",
	"status":         "Trạng thái không hợp lệ",
	"billing_status": "Trạng thái thanh toán không hợp lệ",
	"category_id":    "Vui lòng chọn danh mục",
	"company_name":   "Tên công ty không được để trống",
	"customer_name":  "Tên khách hàng không được để trống",
	"sl_mau":         "Số lượng mẫu không được để trống",
}

const (
	MsgPriceNegative   = "Giá phải ≥ 0"
	MsgSlMauPositive   = "Số lượng mẫu phải > 0"
	MsgKitSelection    = "Vui lòng chọn kit hoặc loại kit"
	MsgInvoiceRequired = "Vui lòng chọn tháng hóa đơn"
)

// NewSampleForm: default form baru
func NewSampleForm() SampleForm {
	return SampleForm{
		AssignNext:    true,
		Status:        string(model.SampleDraft),
		BillingStatus: string(model.BillingUnpaid),
		SlMau:         "1",
	}
}

// FromSample: isi form dari sampel yang sudah ada (edit draft)
func FromSample(s sampleDto.SampleResponse) SampleForm {
	f := SampleForm{
		KitID:         s.KitID.String(),
		Customer:      s.Customer,
		SampleType:    s.SampleType,
		ReceivedAt:    s.ReceivedAt,
		CollectedAt:   deref(s.CollectedAt),
		Technician:    s.Technician,
		Price:         strconv.FormatFloat(s.Price, 'f', -1, 64),
		Status:        string(s.Status),
		BillingStatus: string(s.BillingStatus),
		CategoryID:    s.CategoryID.String(),
		CompanyName:   s.CompanySnapshot.Name,
		CustomerName:  s.CustomerSnapshot.Name,
		SlMau:         strconv.Itoa(s.SlMau),
		Note:          deref(s.Note),
	}
	if m := deref(s.InvoiceMonth); len(m) >= 7 {
		f.InvoiceMonth = m[:7]
	}
	f.CompanyRegion = deref(s.CompanySnapshot.Region)
	f.CompanyProvince = deref(s.CompanySnapshot.Province)
	f.CustomerPhone = deref(s.CustomerSnapshot.Phone)
	f.CustomerRegion = deref(s.CustomerSnapshot.Region)
	return f
}

func (f SampleForm) trimmed() SampleForm {
	f.KitID = strings.TrimSpace(f.KitID)
	f.KitTypeID = strings.TrimSpace(f.KitTypeID)
	f.Customer = strings.TrimSpace(f.Customer)
	f.SampleType = strings.TrimSpace(f.SampleType)
	f.ReceivedAt = strings.TrimSpace(f.ReceivedAt)
	f.CollectedAt = strings.TrimSpace(f.CollectedAt)
	f.Technician = strings.TrimSpace(f.Technician)
	f.Price = strings.TrimSpace(f.Price)
	f.InvoiceMonth = strings.TrimSpace(f.InvoiceMonth)
	f.CategoryID = strings.TrimSpace(f.CategoryID)
	f.CompanyName = strings.TrimSpace(f.CompanyName)
	f.CompanyRegion = strings.TrimSpace(f.CompanyRegion)
	f.CompanyProvince = strings.TrimSpace(f.CompanyProvince)
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.CustomerPhone = strings.TrimSpace(f.CustomerPhone)
	f.CustomerRegion = strings.TrimSpace(f.CustomerRegion)
	f.SlMau = strings.TrimSpace(f.SlMau)
	f.Note = strings.TrimSpace(f.Note)
	return f
}

// Validate: field → pesan; map kosong = valid
func (f SampleForm) Validate() map[string]string {
	f = f.trimmed()
	errs := helper.ValidationMessages(helper.Validate.Struct(f), SampleFormMessages)

	if _, bad := errs["price"]; !bad {
		if p, err := strconv.ParseFloat(f.Price, 64); err != nil || p < 0 {
			errs["price"] = MsgPriceNegative
		}
	}
	if _, bad := errs["sl_mau"]; !bad {
		if n, err := leadingInt(f.SlMau); err != nil || n < 1 {
			errs["sl_mau"] = MsgSlMauPositive
		}
	}
	if (f.AssignNext && f.KitTypeID == "") || (!f.AssignNext && f.KitID == "") {
		errs["kit_type_id"] = MsgKitSelection
	}
	if model.BillingStatus(f.BillingStatus).NeedsInvoiceMonth() && f.InvoiceMonth == "" {
		errs["invoice_month"] = MsgInvoiceRequired
	}
	return errs
}

// ToRequest: panggil setelah Validate kosong
func (f SampleForm) ToRequest() sampleDto.CreateSampleRequest {
	f = f.trimmed()
	price, _ := strconv.ParseFloat(f.Price, 64)
	slMau, _ := leadingInt(f.SlMau)
	status := model.SampleStatus(f.Status)
	billing := model.BillingStatus(f.BillingStatus)

	req := sampleDto.CreateSampleRequest{
		AssignNext:    f.AssignNext,
		Customer:      f.Customer,
		SampleType:    f.SampleType,
		ReceivedAt:    f.ReceivedAt,
		CollectedAt:   optional(f.CollectedAt),
		Technician:    f.Technician,
		Price:         &price,
		Status:        &status,
		BillingStatus: &billing,
		InvoiceMonth:  monthStart(f.InvoiceMonth),
		CategoryID:    f.CategoryID,
		CompanySnapshot: &model.CompanySnapshot{
			Name:     f.CompanyName,
			Region:   optional(f.CompanyRegion),
			Province: optional(f.CompanyProvince),
		},
		CustomerSnapshot: &model.CustomerSnapshot{
			Name:   f.CustomerName,
			Phone:  optional(f.CustomerPhone),
			Region: optional(f.CustomerRegion),
		},
		SlMau: &slMau,
		Note:  optional(f.Note),
	}
	if f.AssignNext {
		req.KitTypeID = optional(f.KitTypeID)
	} else {
		req.KitID = optional(f.KitID)
	}
	return req
}

// ToDraftPatch: payload autosave (PATCH) untuk draft yang sudah ada; status selalu draft
func (f SampleForm) ToDraftPatch() map[string]any {
	f = f.trimmed()
	price := 0.0
	if f.Price != "" {
		price, _ = strconv.ParseFloat(f.Price, 64)
	}
	slMau := 1
	if n, err := leadingInt(f.SlMau); err == nil {
		slMau = n
	}
	return map[string]any{
		"customer":       f.Customer,
		"sample_type":    f.SampleType,
		"received_at":    f.ReceivedAt,
		"collected_at":   optional(f.CollectedAt),
		"technician":     f.Technician,
		"price":          price,
		"status":         string(model.SampleDraft),
		"billing_status": f.BillingStatus,
		"invoice_month":  monthStart(f.InvoiceMonth),
		"category_id":    f.CategoryID,
		"company_snapshot": model.CompanySnapshot{
			Name:     f.CompanyName,
			Region:   optional(f.CompanyRegion),
			Province: optional(f.CompanyProvince),
		},
		"customer_snapshot": model.CustomerSnapshot{
			Name:   f.CustomerName,
			Phone:  optional(f.CustomerPhone),
			Region: optional(f.CustomerRegion),
		},
		"sl_mau": slMau,
		"note":   optional(f.Note),
	}
}

/* ===================== utils ===================== */

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// YYYY-MM → YYYY-MM-01; nilai lain dikirim apa adanya (server yang menolak)
func monthStart(s string) *string {
	if s == "" {
		return nil
	}
	if len(s) == 7 {
		s += "-01"
	}
	return &s
}

// leadingInt: "3" → 3, "3 mẫu" → 3 (seperti input number di browser)
func leadingInt(s string) (int, error) {
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	return strconv.Atoi(s[:end])
}
