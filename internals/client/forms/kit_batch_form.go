package forms

import (
	"strconv"
	"strings"

	kitDto "labtrack_backend/internals/features/kits/dto"
	helper "labtrack_backend/internals/helpers"
)

// KitBatchForm: form buat lô kit (bulk-create)
type KitBatchForm struct {
	BatchCode   string `json:"batch_code" validate:"required"`
	KitTypeID   string `json:"kit_type_id" validate:"required"`
	Supplier    string `json:"supplier" validate:"required"`
	PurchasedAt string `json:"purchased_at" validate:"required"`
	UnitCost    string `json:"unit_cost"`
	Quantity    string `json:"quantity"`
	ExpiresAt   string `json:"expires_at"`
	Note        string `json:"note"`
}

var KitBatchFormMessages = map[string]string{
	"batch_code":   "Mã lô không được để trống",
	"kit_type_id":  "Vui lòng chọn loại kit",
	"supplier":     "Nhà cung cấp không được để trống",
	"purchased_at": "Ngày mua không được để trống",
}

const (
	MsgUnitCostPositive = "Đơn giá phải lớn hơn 0"
	MsgQuantityMin      = "Số lượng phải ≥ 1"
	MsgQuantityMax      = "Số lượng quá lớn (tối đa 100)"
	MsgExpiresAfter     = "Ngày hết hạn phải sau ngày mua"
)

func (f KitBatchForm) trimmed() KitBatchForm {
	f.BatchCode = strings.TrimSpace(f.BatchCode)
	f.KitTypeID = strings.TrimSpace(f.KitTypeID)
	f.Supplier = strings.TrimSpace(f.Supplier)
	f.PurchasedAt = strings.TrimSpace(f.PurchasedAt)
	f.UnitCost = strings.TrimSpace(f.UnitCost)
	f.Quantity = strings.TrimSpace(f.Quantity)
	f.ExpiresAt = strings.TrimSpace(f.ExpiresAt)
	f.Note = strings.TrimSpace(f.Note)
	return f
}

func (f KitBatchForm) Validate() map[string]string {
	f = f.trimmed()
	errs := helper.ValidationMessages(helper.Validate.Struct(f), KitBatchFormMessages)

	if c, err := strconv.ParseFloat(f.UnitCost, 64); err != nil || c <= 0 {
		errs["unit_cost"] = MsgUnitCostPositive
	}

	q, err := leadingInt(f.Quantity)
	switch {
	case err != nil || q < 1:
		errs["quantity"] = MsgQuantityMin
	case q > 100:
		errs["quantity"] = MsgQuantityMax
	}

	if f.ExpiresAt != "" && f.PurchasedAt != "" {
		purchased, okP := helper.ParseDate(f.PurchasedAt)
		expires, okE := helper.ParseDate(f.ExpiresAt)
		if okP && okE && !expires.After(purchased) {
			errs["expires_at"] = MsgExpiresAfter
		}
	}
	return errs
}

// ToRequest: panggil setelah Validate kosong
func (f KitBatchForm) ToRequest() kitDto.BulkCreateRequest {
	f = f.trimmed()
	cost, _ := strconv.ParseFloat(f.UnitCost, 64)
	qty, _ := leadingInt(f.Quantity)
	return kitDto.BulkCreateRequest{
		BatchCode:   f.BatchCode,
		KitTypeID:   f.KitTypeID,
		Supplier:    f.Supplier,
		PurchasedAt: f.PurchasedAt,
		UnitCost:    cost,
		Quantity:    qty,
		ExpiresAt:   optional(f.ExpiresAt),
		Note:        optional(f.Note),
	}
}
