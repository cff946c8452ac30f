package repository

import (
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"labtrack_backend/internals/features/audit/model"
)

type Entry struct {
	ActorID  uuid.UUID
	Action   model.AuditAction
	Entity   string
	EntityID string
	Diff     any
}

// Write menulis satu baris audit di tx yang sedang berjalan.
func Write(tx *gorm.DB, e Entry) error {
	row, err := NewRow(e)
	if err != nil {
		return err
	}
	return tx.Create(&row).Error
}

func NewRow(e Entry) (model.AuditLogModel, error) {
	var diff []byte
	if e.Diff == nil {
		diff = []byte("{}")
	} else {
		b, err := sonic.Marshal(e.Diff)
		if err != nil {
			return model.AuditLogModel{}, err
		}
		diff = b
	}

	row := model.AuditLogModel{
		Action:   e.Action,
		Entity:   e.Entity,
		EntityID: e.EntityID,
		Diff:     datatypes.JSON(diff),
	}
	if e.ActorID != uuid.Nil {
		actor := e.ActorID
		row.ActorID = &actor
	}
	return row, nil
}
