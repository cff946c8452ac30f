package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	auditRepo "labtrack_backend/internals/features/audit/repository"
	dictModel "labtrack_backend/internals/features/dicts/model"
	kitModel "labtrack_backend/internals/features/kits/model"
	"labtrack_backend/internals/features/samples/model"
	"labtrack_backend/internals/features/samples/service"
	helper "labtrack_backend/internals/helpers"
)

type SampleRepository struct {
	DB *gorm.DB
}

func NewSampleRepository(db *gorm.DB) *SampleRepository {
	return &SampleRepository{DB: db}
}

var _ service.Store = (*SampleRepository)(nil)

func (r *SampleRepository) Tx(ctx context.Context, fn func(tx service.Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&SampleRepository{DB: tx})
	})
}

/* =========================================================
   KIT ASSIGNMENT
========================================================= */

// PickInStockKit: unit in_stock tertua dari kit type, dikunci FOR UPDATE SKIP LOCKED
func (r *SampleRepository) PickInStockKit(ctx context.Context, kitTypeID uuid.UUID) (*kitModel.KitModel, error) {
	var kits []kitModel.KitModel
	err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Select("id", "batch_id", "kit_code", "status", "created_at").
		Where("status = ? AND batch_id IN (?)", kitModel.KitInStock,
			r.DB.Model(&kitModel.KitBatchModel{}).Select("id").Where("kit_type_id = ?", kitTypeID),
		).
		Order("created_at ASC, kit_code ASC").
		Limit(1).
		Find(&kits).Error
	if err != nil || len(kits) == 0 {
		return nil, err
	}
	return &kits[0], nil
}

func (r *SampleRepository) KitTypeName(ctx context.Context, kitTypeID uuid.UUID) (string, error) {
	var names []string
	err := r.DB.WithContext(ctx).
		Model(&dictModel.KitTypeModel{}).
		Where("id = ?", kitTypeID).
		Pluck("name", &names).Error
	if err != nil || len(names) == 0 {
		return "", err
	}
	return names[0], nil
}

func (r *SampleRepository) AssignKit(ctx context.Context, kitID uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).
		Model(&kitModel.KitModel{}).
		Where("id = ?", kitID).
		Updates(map[string]any{
			"status":      kitModel.KitAssigned,
			"assigned_at": at,
			"updated_at":  at,
		}).Error
}

/* =========================================================
   SAMPLES
========================================================= */

// NextSampleCode: counter harian atomik di sisi database
func (r *SampleRepository) NextSampleCode(ctx context.Context, received time.Time) (string, error) {
	var code string
	err := r.DB.WithContext(ctx).
		Raw("SELECT next_sample_code(?::date)", helper.FormatDate(received)).
		Scan(&code).Error
	return code, err
}

func (r *SampleRepository) CreateSample(ctx context.Context, s *model.SampleModel) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(s).Error
}

func (r *SampleRepository) FindSample(ctx context.Context, id uuid.UUID, withRelations bool) (*model.SampleModel, error) {
	q := r.DB.WithContext(ctx)
	if withRelations {
		q = q.Preload("Kit.Batch.KitType").
			Preload("Results", func(db *gorm.DB) *gorm.DB {
				return db.Order(model.ResultOrder)
			})
	}

	var s model.SampleModel
	if err := q.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SampleRepository) filtered(ctx context.Context, f service.Filter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&model.SampleModel{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.BillingStatus != "" {
		q = q.Where("billing_status = ?", f.BillingStatus)
	}
	if f.Customer != "" {
		q = q.Where("customer ILIKE ?", helper.LikeContains(f.Customer))
	}
	return q
}

func (r *SampleRepository) ListSamples(ctx context.Context, f service.Filter) ([]model.SampleModel, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []model.SampleModel
	err := r.filtered(ctx, f).
		Preload("Kit").
		Order("received_at DESC, sample_code DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&rows).Error
	return rows, total, err
}

// UpdateSample hanya menulis kolom di cols (+updated_at); nilai nil ikut ditulis.
func (r *SampleRepository) UpdateSample(ctx context.Context, s *model.SampleModel, cols []string) error {
	s.UpdatedAt = time.Now()
	return r.DB.WithContext(ctx).
		Model(s).
		Select(append(cols, "updated_at")).
		Updates(s).Error
}

/* =========================================================
   RESULTS
========================================================= */

func (r *SampleRepository) ListResults(ctx context.Context, sampleID uuid.UUID) ([]model.SampleResultModel, error) {
	var rows []model.SampleResultModel
	err := r.DB.WithContext(ctx).
		Where("sample_id = ?", sampleID).
		Order(model.ResultOrder).
		Find(&rows).Error
	return rows, err
}

// ReplaceResults: delete + insert; dipanggil di dalam Tx
func (r *SampleRepository) ReplaceResults(ctx context.Context, sampleID uuid.UUID, rows []model.SampleResultModel) error {
	db := r.DB.WithContext(ctx)
	if err := db.Where("sample_id = ?", sampleID).Delete(&model.SampleResultModel{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

func (r *SampleRepository) WriteAudit(ctx context.Context, e auditRepo.Entry) error {
	return auditRepo.Write(r.DB.WithContext(ctx), e)
}
