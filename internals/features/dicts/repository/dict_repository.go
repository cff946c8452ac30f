package repository

import (
	"context"

	"gorm.io/gorm"

	"labtrack_backend/internals/features/dicts/model"
	"labtrack_backend/internals/features/dicts/service"
	helper "labtrack_backend/internals/helpers"
)

type DictRepository struct {
	DB *gorm.DB
}

func NewDictRepository(db *gorm.DB) *DictRepository {
	return &DictRepository{DB: db}
}

var _ service.Store = (*DictRepository)(nil)

// base: is_active + ILIKE di kolom yang diberikan, urut name ASC
func (r *DictRepository) base(ctx context.Context, q service.Query, cols ...string) *gorm.DB {
	tx := r.DB.WithContext(ctx)
	if q.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	if q.Search != "" && len(cols) > 0 {
		pattern := helper.LikeContains(q.Search)
		cond := r.DB.Where(cols[0]+" ILIKE ?", pattern)
		for _, col := range cols[1:] {
			cond = cond.Or(col+" ILIKE ?", pattern)
		}
		tx = tx.Where(cond)
	}
	return tx.Order("name ASC")
}

func (r *DictRepository) Categories(ctx context.Context, q service.Query) ([]model.CategoryModel, error) {
	var rows []model.CategoryModel
	err := r.base(ctx, q, "name", "code").Find(&rows).Error
	return rows, err
}

func (r *DictRepository) Companies(ctx context.Context, q service.Query) ([]model.CompanyModel, error) {
	var rows []model.CompanyModel
	err := r.base(ctx, q, "name", "code").Find(&rows).Error
	return rows, err
}

func (r *DictRepository) Customers(ctx context.Context, q service.Query) ([]model.CustomerModel, error) {
	var rows []model.CustomerModel
	err := r.base(ctx, q, "name", "code", "email").
		Preload("Company", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name")
		}).
		Find(&rows).Error
	return rows, err
}

func (r *DictRepository) KitTypes(ctx context.Context, q service.Query) ([]model.KitTypeModel, error) {
	var rows []model.KitTypeModel
	err := r.base(ctx, q, "name", "code").Find(&rows).Error
	return rows, err
}

func (r *DictRepository) SampleTypes(ctx context.Context, q service.Query) ([]model.SampleTypeModel, error) {
	var rows []model.SampleTypeModel
	err := r.base(ctx, q, "name", "code").Find(&rows).Error
	return rows, err
}

// Costs: tidak punya name → search lewat kit_type / sample_type, urut effective_from DESC
func (r *DictRepository) Costs(ctx context.Context, q service.Query) ([]model.CostCatalogModel, error) {
	tx := r.DB.WithContext(ctx)
	if q.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	if q.Search != "" {
		pattern := helper.LikeContains(q.Search)
		tx = tx.Where(`
			kit_type_id IN (SELECT id FROM kit_types WHERE name ILIKE ? OR code ILIKE ?)
			OR sample_type_id IN (SELECT id FROM sample_types WHERE name ILIKE ? OR code ILIKE ?)
		`, pattern, pattern, pattern, pattern)
	}

	var rows []model.CostCatalogModel
	err := tx.
		Preload("KitType", func(db *gorm.DB) *gorm.DB { return db.Select("id", "code", "name") }).
		Preload("SampleType", func(db *gorm.DB) *gorm.DB { return db.Select("id", "code", "name") }).
		Order("effective_from DESC").
		Find(&rows).Error
	return rows, err
}
