package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"labtrack_backend/internals/features/kits/model"
	helper "labtrack_backend/internals/helpers"
)

/* =========================================================
   REQUEST
========================================================= */

// BulkCreateRequest: POST /api/kits/bulk-create
type BulkCreateRequest struct {
	BatchCode   string  `json:"batch_code" validate:"required"`
	KitTypeID   string  `json:"kit_type_id" validate:"required,uuid"`
	Supplier    string  `json:"supplier" validate:"required"`
	PurchasedAt string  `json:"purchased_at" validate:"required,datetime=2006-01-02"`
	UnitCost    float64 `json:"unit_cost" validate:"gt=0"`
	Quantity    int     `json:"quantity" validate:"min=1,max=100"`
	ExpiresAt   *string `json:"expires_at" validate:"omitnil,datetime=2006-01-02"`
	Note        *string `json:"note"`
}

var BulkCreateMessages = map[string]string{
	"batch_code":   "Mã lô không được để trống",
	"kit_type_id":  "ID loại kit không hợp lệ",
	"supplier":     "Nhà cung cấp không được để trống",
	"purchased_at": "Ngày mua không hợp lệ",
	"unit_cost":    "Đơn giá phải lớn hơn 0",
	"quantity.min": "Số lượng phải ≥ 1",
	"quantity.max": "Số lượng quá lớn",
	"expires_at":   "Ngày hết hạn không hợp lệ",
}

func (r *BulkCreateRequest) Normalize() {
	r.BatchCode = strings.TrimSpace(r.BatchCode)
	r.KitTypeID = strings.TrimSpace(r.KitTypeID)
	r.Supplier = strings.TrimSpace(r.Supplier)
	r.PurchasedAt = strings.TrimSpace(r.PurchasedAt)
	if r.ExpiresAt != nil && strings.TrimSpace(*r.ExpiresAt) == "" {
		r.ExpiresAt = nil
	}
	if r.Note != nil && strings.TrimSpace(*r.Note) == "" {
		r.Note = nil
	}
}

// ToModel: dipanggil setelah validasi lolos (tanggal & uuid sudah valid)
func (r BulkCreateRequest) ToModel() model.KitBatchModel {
	purchased, _ := helper.ParseDate(r.PurchasedAt)
	expires, _ := helper.ParseDatePtr(r.ExpiresAt)
	return model.KitBatchModel{
		BatchCode:   r.BatchCode,
		KitTypeID:   uuid.MustParse(r.KitTypeID),
		Supplier:    r.Supplier,
		PurchasedAt: purchased,
		UnitCost:    r.UnitCost,
		Quantity:    r.Quantity,
		ExpiresAt:   expires,
		Note:        r.Note,
	}
}

// MaxAdjustDelta: batas |delta| per request (harus sama dengan tag validate)
const MaxAdjustDelta = 100000

// BulkAdjustRequest: POST /api/kits/bulk-adjust
type BulkAdjustRequest struct {
	KitTypeID string  `json:"kit_type_id" validate:"required,uuid"`
	Delta     *int    `json:"delta" validate:"required,min=-100000,max=100000"`
	Reason    *string `json:"reason"`
}

var BulkAdjustMessages = map[string]string{
	"kit_type_id": "ID loại kit không hợp lệ",
	"delta":       "Delta phải là số nguyên",
	"delta.min":   MsgDeltaOutOfRange,
	"delta.max":   MsgDeltaOutOfRange,
}

const MsgDeltaOutOfRange = "Delta vượt quá giới hạn cho phép (±100000)"

func (r *BulkAdjustRequest) Normalize() {
	r.KitTypeID = strings.TrimSpace(r.KitTypeID)
	if r.Reason != nil && strings.TrimSpace(*r.Reason) == "" {
		r.Reason = nil
	}
}

/* =========================================================
   RESPONSE
========================================================= */

type BatchResponse struct {
	ID          uuid.UUID `json:"id"`
	BatchCode   string    `json:"batch_code"`
	KitTypeID   uuid.UUID `json:"kit_type_id"`
	Supplier    string    `json:"supplier"`
	PurchasedAt string    `json:"purchased_at"`
	UnitCost    float64   `json:"unit_cost"`
	Quantity    int       `json:"quantity"`
	ExpiresAt   *string   `json:"expires_at"`
	Note        *string   `json:"note"`
	CreatedAt   time.Time `json:"created_at"`
}

func ToBatchResponse(m model.KitBatchModel) BatchResponse {
	return BatchResponse{
		ID:          m.ID,
		BatchCode:   m.BatchCode,
		KitTypeID:   m.KitTypeID,
		Supplier:    m.Supplier,
		PurchasedAt: helper.FormatDate(m.PurchasedAt),
		UnitCost:    m.UnitCost,
		Quantity:    m.Quantity,
		ExpiresAt:   helper.FormatDatePtr(m.ExpiresAt),
		Note:        m.Note,
		CreatedAt:   m.CreatedAt,
	}
}

type KitResponse struct {
	ID         uuid.UUID       `json:"id"`
	BatchID    uuid.UUID       `json:"batch_id"`
	KitCode    string          `json:"kit_code"`
	Status     model.KitStatus `json:"status"`
	AssignedAt *time.Time      `json:"assigned_at"`
	TestedAt   *time.Time      `json:"tested_at"`
	Note       *string         `json:"note"`
	CreatedAt  time.Time       `json:"created_at"`
}

func ToKitResponse(m model.KitModel) KitResponse {
	return KitResponse{
		ID:         m.ID,
		BatchID:    m.BatchID,
		KitCode:    m.KitCode,
		Status:     m.Status,
		AssignedAt: m.AssignedAt,
		TestedAt:   m.TestedAt,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

func ToKitResponses(rows []model.KitModel) []KitResponse {
	out := make([]KitResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToKitResponse(r))
	}
	return out
}

type BulkCreateResponse struct {
	Batch BatchResponse `json:"batch"`
	Kits  []KitResponse `json:"kits"`
	Count int           `json:"count"`
}

type BulkAdjustResponse struct {
	Adjusted int   `json:"adjusted"`
	NewStock int64 `json:"new_stock"`
}

// Availability per kit type; by_status selalu berisi 6 status
type AvailabilityItem struct {
	KitTypeID   uuid.UUID                 `json:"kit_type_id"`
	KitTypeCode string                    `json:"kit_type_code"`
	KitTypeName string                    `json:"kit_type_name"`
	ByStatus    map[model.KitStatus]int64 `json:"by_status"`
	Total       int64                     `json:"total"`
}
