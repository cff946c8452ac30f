package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	auditRepo "labtrack_backend/internals/features/audit/repository"
	"labtrack_backend/internals/features/kits/model"
	"labtrack_backend/internals/features/kits/service"
)

type KitRepository struct {
	DB *gorm.DB
}

func NewKitRepository(db *gorm.DB) *KitRepository {
	return &KitRepository{DB: db}
}

var _ service.Store = (*KitRepository)(nil)

func (r *KitRepository) Tx(ctx context.Context, fn func(tx service.Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&KitRepository{DB: tx})
	})
}

func (r *KitRepository) CreateBatch(ctx context.Context, batch *model.KitBatchModel) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(batch).Error
}

func (r *KitRepository) CreateKits(ctx context.Context, kits []model.KitModel) error {
	if len(kits) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(&kits).Error
}

func (r *KitRepository) BatchIDsByKitType(ctx context.Context, kitTypeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(&model.KitBatchModel{}).
		Where("kit_type_id = ?", kitTypeID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *KitRepository) CountByStatus(ctx context.Context, batchIDs []uuid.UUID, status model.KitStatus) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&model.KitModel{}).
		Where("batch_id IN ? AND status = ?", batchIDs, status).
		Count(&n).Error
	return n, err
}

// PickKits: FOR UPDATE SKIP LOCKED supaya dua adjust paralel tidak mengambil unit yang sama
// limit <= 0 ditolak: gorm membuang LIMIT negatif dan semua baris akan terkunci.
func (r *KitRepository) PickKits(ctx context.Context, batchIDs []uuid.UUID, statuses []model.KitStatus, limit int) ([]model.KitModel, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("pick kits: limit %d tidak valid", limit)
	}
	var kits []model.KitModel
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Select("id", "batch_id", "kit_code", "status", "created_at").
		Where("batch_id IN ? AND status IN ?", batchIDs, statuses).
		Order("created_at ASC, kit_code ASC").
		Limit(limit).
		Find(&kits).Error
	return kits, err
}

// UpdateKitStatus: note hanya ditimpa bila diisi (expiry tidak menghapus alasan adjust)
func (r *KitRepository) UpdateKitStatus(ctx context.Context, ids []uuid.UUID, status model.KitStatus, note *string) error {
	if len(ids) == 0 {
		return nil
	}
	cols := map[string]any{
		"status":     status,
		"updated_at": time.Now(),
	}
	if note != nil {
		cols["note"] = *note
	}
	return r.DB.WithContext(ctx).
		Model(&model.KitModel{}).
		Where("id IN ?", ids).
		Updates(cols).Error
}

// AvailabilityRows: full scan kits ⋈ batch ⋈ kit_type, GROUP BY kit type + status
func (r *KitRepository) AvailabilityRows(ctx context.Context, kitTypeID *uuid.UUID) ([]service.AvailabilityRow, error) {
	q := r.DB.WithContext(ctx).
		Table("kits AS k").
		Select(`kt.id AS kit_type_id, kt.code AS kit_type_code, kt.name AS kit_type_name, k.status AS status, COUNT(*) AS count`).
		Joins("JOIN kit_batches AS b ON b.id = k.batch_id").
		Joins("JOIN kit_types AS kt ON kt.id = b.kit_type_id")
	if kitTypeID != nil {
		q = q.Where("b.kit_type_id = ?", *kitTypeID)
	}

	var rows []service.AvailabilityRow
	err := q.Group("kt.id, kt.code, kt.name, k.status").
		Order("kt.code ASC, k.status ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *KitRepository) ExpirableKits(ctx context.Context, today time.Time) ([]model.KitModel, error) {
	var kits []model.KitModel
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Select("id", "batch_id", "kit_code", "status").
		Where("status = ? AND batch_id IN (?)", model.KitInStock,
			r.DB.Model(&model.KitBatchModel{}).Select("id").Where("expires_at IS NOT NULL AND expires_at < ?", today),
		).
		Order("kit_code ASC").
		Find(&kits).Error
	return kits, err
}

func (r *KitRepository) WriteAudit(ctx context.Context, e auditRepo.Entry) error {
	return auditRepo.Write(r.DB.WithContext(ctx), e)
}
