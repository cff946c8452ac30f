package dicts

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"labtrack_backend/internals/features/dicts/model"
)

type entry struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	DefaultSlMau *int   `json:"default_sl_mau"`
}

type DictSeed struct {
	Categories  []entry `json:"categories"`
	KitTypes    []entry `json:"kit_types"`
	SampleTypes []entry `json:"sample_types"`
}

func ParseDicts(data []byte) (*DictSeed, error) {
	var seed DictSeed
	if err := sonic.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode dict seed: %w", err)
	}
	for table, rows := range map[string][]entry{
		"categories":   seed.Categories,
		"kit_types":    seed.KitTypes,
		"sample_types": seed.SampleTypes,
	} {
		seen := map[string]bool{}
		for _, r := range rows {
			code := strings.TrimSpace(r.Code)
			if code == "" || strings.TrimSpace(r.Name) == "" {
				return nil, fmt.Errorf("%s: code/name kosong", table)
			}
			if seen[code] {
				return nil, fmt.Errorf("%s: code %s duplikat", table, code)
			}
			seen[code] = true
		}
	}
	return &seed, nil
}

// SeedDicts: idempotent (ON CONFLICT (code) DO NOTHING)
func SeedDicts(db *gorm.DB, seed *DictSeed, log *zap.Logger) error {
	onCode := clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}

	categories := make([]model.CategoryModel, 0, len(seed.Categories))
	for _, r := range seed.Categories {
		categories = append(categories, model.CategoryModel{Code: r.Code, Name: r.Name, IsActive: true})
	}
	kitTypes := make([]model.KitTypeModel, 0, len(seed.KitTypes))
	for _, r := range seed.KitTypes {
		kitTypes = append(kitTypes, model.KitTypeModel{Code: r.Code, Name: r.Name, DefaultSlMau: r.DefaultSlMau, IsActive: true})
	}
	sampleTypes := make([]model.SampleTypeModel, 0, len(seed.SampleTypes))
	for _, r := range seed.SampleTypes {
		sampleTypes = append(sampleTypes, model.SampleTypeModel{Code: r.Code, Name: r.Name, IsActive: true})
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for table, rows := range map[string]any{
			"categories":   &categories,
			"kit_types":    &kitTypes,
			"sample_types": &sampleTypes,
		} {
			res := tx.Clauses(onCode).Create(rows)
			if res.Error != nil {
				return fmt.Errorf("seed %s: %w", table, res.Error)
			}
			log.Info("✅ seed dict", zap.String("table", table), zap.Int64("inserted", res.RowsAffected))
		}
		return nil
	})
}
