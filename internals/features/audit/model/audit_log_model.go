package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AuditAction string

const (
	ActionCreate AuditAction = "CREATE"
	ActionUpdate AuditAction = "UPDATE"
	ActionView   AuditAction = "VIEW"
)

// Entity yang dicatat
const (
	EntityKitBatches    = "kit_batches"
	EntityKits          = "kits"
	EntitySamples       = "samples"
	EntitySampleResults = "sample_results"
)

// AuditLogModel: append-only, tidak pernah dibaca balik oleh service
type AuditLogModel struct {
	ID        int64          `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ActorID   *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actor_id,omitempty"`
	Action    AuditAction    `gorm:"column:action;type:varchar(20);not null" json:"action"`
	Entity    string         `gorm:"column:entity;type:varchar(50);not null" json:"entity"`
	EntityID  string         `gorm:"column:entity_id;type:varchar(64);not null" json:"entity_id"`
	Diff      datatypes.JSON `gorm:"column:diff;type:jsonb;not null" json:"diff"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamptz;autoCreateTime" json:"created_at"`
}

func (AuditLogModel) TableName() string { return "audit_logs" }
