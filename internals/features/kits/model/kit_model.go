package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	dictModel "labtrack_backend/internals/features/dicts/model"
)

type KitStatus string

const (
	KitInStock  KitStatus = "in_stock"
	KitAssigned KitStatus = "assigned"
	KitUsed     KitStatus = "used"
	KitVoid     KitStatus = "void"
	KitExpired  KitStatus = "expired"
	KitLost     KitStatus = "lost"
)

// AllKitStatuses: urutan tetap untuk by_status
var AllKitStatuses = []KitStatus{KitInStock, KitAssigned, KitUsed, KitVoid, KitExpired, KitLost}

func (s KitStatus) Valid() bool {
	for _, v := range AllKitStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type KitBatchModel struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BatchCode   string     `gorm:"column:batch_code;type:varchar(100);not null;uniqueIndex" json:"batch_code"`
	KitTypeID   uuid.UUID  `gorm:"column:kit_type_id;type:uuid;not null" json:"kit_type_id"`
	Supplier    string     `gorm:"column:supplier;type:varchar(200);not null" json:"supplier"`
	PurchasedAt time.Time  `gorm:"column:purchased_at;type:date;not null" json:"purchased_at"`
	UnitCost    float64    `gorm:"column:unit_cost;type:numeric(14,2);not null" json:"unit_cost"`
	Quantity    int        `gorm:"column:quantity;not null" json:"quantity"`
	ExpiresAt   *time.Time `gorm:"column:expires_at;type:date" json:"expires_at"`
	Note        *string    `gorm:"column:note" json:"note"`
	CreatedAt   time.Time  `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`

	KitType *dictModel.KitTypeModel `gorm:"foreignKey:KitTypeID;references:ID" json:"kit_type,omitempty"`
}

func (KitBatchModel) TableName() string { return "kit_batches" }

type KitModel struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	BatchID    uuid.UUID  `gorm:"column:batch_id;type:uuid;not null" json:"batch_id"`
	KitCode    string     `gorm:"column:kit_code;type:varchar(120);not null;uniqueIndex" json:"kit_code"`
	Status     KitStatus  `gorm:"column:status;type:varchar(20);not null;default:in_stock" json:"status"`
	AssignedAt *time.Time `gorm:"column:assigned_at;type:timestamptz" json:"assigned_at"`
	TestedAt   *time.Time `gorm:"column:tested_at;type:timestamptz" json:"tested_at"`
	Note       *string    `gorm:"column:note" json:"note"`
	CreatedAt  time.Time  `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;type:timestamptz;autoUpdateTime" json:"updated_at"`

	Batch *KitBatchModel `gorm:"foreignKey:BatchID;references:ID" json:"batch,omitempty"`
}

func (KitModel) TableName() string { return "kits" }

// KitCode: {batch_code}-{seq} dengan seq 3 digit (001..)
func KitCode(batchCode string, seq int) string {
	return fmt.Sprintf("%s-%03d", batchCode, seq)
}

// NewBatchKits membangun quantity unit in_stock untuk satu batch
func NewBatchKits(batch KitBatchModel) []KitModel {
	kits := make([]KitModel, 0, batch.Quantity)
	for i := 1; i <= batch.Quantity; i++ {
		kits = append(kits, KitModel{
			BatchID: batch.ID,
			KitCode: KitCode(batch.BatchCode, i),
			Status:  KitInStock,
		})
	}
	return kits
}
