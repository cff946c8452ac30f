package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"labtrack_backend/internals/constants"
	auditModel "labtrack_backend/internals/features/audit/model"
	auditRepo "labtrack_backend/internals/features/audit/repository"
	kitModel "labtrack_backend/internals/features/kits/model"
	"labtrack_backend/internals/features/samples/dto"
	"labtrack_backend/internals/features/samples/model"
	helper "labtrack_backend/internals/helpers"
	"labtrack_backend/internals/metrics"
)

// Filter daftar sampel. Customer sudah dinormalisasi (ILIKE contains).
type Filter struct {
	Status        string
	BillingStatus string
	Customer      string
	Limit         int
	Offset        int
}

// Store: akses data sampel. Store di dalam Tx terikat ke transaksi.
// FindSample mengembalikan gorm.ErrRecordNotFound bila id tidak ada.
type Store interface {
	Tx(ctx context.Context, fn func(tx Store) error) error

	// PickInStockKit mengunci unit in_stock tertua dari kit type; nil bila habis.
	PickInStockKit(ctx context.Context, kitTypeID uuid.UUID) (*kitModel.KitModel, error)
	KitTypeName(ctx context.Context, kitTypeID uuid.UUID) (string, error)
	AssignKit(ctx context.Context, kitID uuid.UUID, at time.Time) error

	NextSampleCode(ctx context.Context, received time.Time) (string, error)
	CreateSample(ctx context.Context, s *model.SampleModel) error
	FindSample(ctx context.Context, id uuid.UUID, withRelations bool) (*model.SampleModel, error)
	ListSamples(ctx context.Context, f Filter) ([]model.SampleModel, int64, error)
	UpdateSample(ctx context.Context, s *model.SampleModel, cols []string) error

	ListResults(ctx context.Context, sampleID uuid.UUID) ([]model.SampleResultModel, error)
	ReplaceResults(ctx context.Context, sampleID uuid.UUID, rows []model.SampleResultModel) error

	WriteAudit(ctx context.Context, e auditRepo.Entry) error
}

type Service struct {
	store Store
	Now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, Now: time.Now}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.NewError(fiber.StatusNotFound, constants.MsgSampleNotFound)
	}
	return err
}

/* =========================================================
   NEXT CODE
========================================================= */

func (s *Service) NextCode(ctx context.Context, receivedAt time.Time) (string, error) {
	return s.store.NextSampleCode(ctx, receivedAt)
}

/* =========================================================
   CREATE
========================================================= */

// Create: pilih kit (opsional), generate kode, insert, audit dalam satu transaksi.
// req diasumsikan sudah lolos validasi DTO.
func (s *Service) Create(ctx context.Context, actor uuid.UUID, req dto.CreateSampleRequest) (*model.SampleModel, error) {
	if req.KitID == nil && !req.AssignNext {
		return nil, fiber.NewError(fiber.StatusBadRequest, constants.MsgKitOrAssignRequired)
	}
	if req.AssignNext && req.KitTypeID == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, constants.MsgKitTypeRequired)
	}

	sample := req.ToModel(actor)
	assignment := "manual"

	err := s.store.Tx(ctx, func(tx Store) error {
		if req.AssignNext {
			assignment = "auto"
			kitTypeID := uuid.MustParse(*req.KitTypeID)
			kit, err := tx.PickInStockKit(ctx, kitTypeID)
			if err != nil {
				return err
			}
			if kit == nil {
				name, err := tx.KitTypeName(ctx, kitTypeID)
				if err != nil {
					return err
				}
				if name == "" {
					name = constants.MsgNoKitLeftFallback
				}
				return fiber.NewError(fiber.StatusConflict, fmt.Sprintf(constants.MsgNoKitLeftFmt, name))
			}
			if err := tx.AssignKit(ctx, kit.ID, s.Now()); err != nil {
				return err
			}
			sample.KitID = kit.ID
		} else {
			sample.KitID = uuid.MustParse(*req.KitID)
		}

		code, err := tx.NextSampleCode(ctx, sample.ReceivedAt)
		if err != nil {
			return err
		}
		sample.SampleCode = code

		if err := tx.CreateSample(ctx, &sample); err != nil {
			switch {
			case helper.IsUniqueViolation(err):
				return fiber.NewError(fiber.StatusConflict, constants.MsgSampleCodeExists)
			case helper.IsForeignKeyViolation(err):
				return fiber.NewError(fiber.StatusConflict, constants.MsgKitUnavailable)
			}
			return err
		}

		return tx.WriteAudit(ctx, auditRepo.Entry{
			ActorID:  actor,
			Action:   auditModel.ActionCreate,
			Entity:   auditModel.EntitySamples,
			EntityID: sample.ID.String(),
			Diff: map[string]any{
				"after": map[string]any{
					"sample_code": sample.SampleCode,
					"kit_id":      sample.KitID,
					"customer":    sample.Customer,
				},
			},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.SamplesCreated.WithLabelValues(assignment).Inc()
	return &sample, nil
}

/* =========================================================
   LIST / GET
========================================================= */

func (s *Service) List(ctx context.Context, q dto.ListQuery, p helper.Paging) ([]model.SampleModel, helper.Pagination, error) {
	rows, total, err := s.store.ListSamples(ctx, Filter{
		Status:        q.Status,
		BillingStatus: q.BillingStatus,
		Customer:      q.Customer,
		Limit:         p.Limit(),
		Offset:        p.Offset(),
	})
	if err != nil {
		return nil, helper.Pagination{}, err
	}
	if rows == nil {
		rows = []model.SampleModel{}
	}
	return rows, helper.BuildPagination(total, p), nil
}

// Get: sampel + kit(batch, kit type) + results; setiap akses dicatat sebagai VIEW.
func (s *Service) Get(ctx context.Context, actor, id uuid.UUID) (*model.SampleModel, error) {
	sample, err := s.store.FindSample(ctx, id, true)
	if err != nil {
		return nil, notFound(err)
	}

	if err := s.store.WriteAudit(ctx, auditRepo.Entry{
		ActorID:  actor,
		Action:   auditModel.ActionView,
		Entity:   auditModel.EntitySamples,
		EntityID: id.String(),
	}); err != nil {
		return nil, err
	}
	return sample, nil
}

/* =========================================================
   UPDATE
========================================================= */

// Update: partial; diff audit {before, after, changes}.
// Tanpa field apa pun, sampel dikembalikan apa adanya tanpa audit.
func (s *Service) Update(ctx context.Context, actor, id uuid.UUID, req dto.UpdateSampleRequest) (*model.SampleModel, error) {
	var after *model.SampleModel

	err := s.store.Tx(ctx, func(tx Store) error {
		before, err := tx.FindSample(ctx, id, false)
		if err != nil {
			return notFound(err)
		}

		next := *before
		cols := req.Apply(&next)
		if len(cols) == 0 {
			after = before
			return nil
		}

		if err := tx.UpdateSample(ctx, &next, cols); err != nil {
			if helper.IsForeignKeyViolation(err) {
				return fiber.NewError(fiber.StatusUnprocessableEntity, dto.SampleMessages["category_id"])
			}
			return err
		}

		after, err = tx.FindSample(ctx, id, false)
		if err != nil {
			return err
		}

		return tx.WriteAudit(ctx, auditRepo.Entry{
			ActorID:  actor,
			Action:   auditModel.ActionUpdate,
			Entity:   auditModel.EntitySamples,
			EntityID: id.String(),
			Diff: map[string]any{
				"before":  dto.ToSampleResponse(*before),
				"after":   dto.ToSampleResponse(*after),
				"changes": req.Changes(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return after, nil
}

/* =========================================================
   RESULTS
========================================================= */

// ReplaceResults: hapus semua hasil lama lalu insert set baru (tidak di-merge).
func (s *Service) ReplaceResults(ctx context.Context, actor, id uuid.UUID, req dto.ReplaceResultsRequest) ([]model.SampleResultModel, error) {
	rows := req.ToModels(id)

	err := s.store.Tx(ctx, func(tx Store) error {
		if _, err := tx.FindSample(ctx, id, false); err != nil {
			return notFound(err)
		}

		before, err := tx.ListResults(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.ReplaceResults(ctx, id, rows); err != nil {
			return err
		}

		return tx.WriteAudit(ctx, auditRepo.Entry{
			ActorID:  actor,
			Action:   auditModel.ActionUpdate,
			Entity:   auditModel.EntitySampleResults,
			EntityID: id.String(),
			Diff: map[string]any{
				"before":    dto.ToResultResponses(before),
				"after":     dto.ToResultResponses(rows),
				"sample_id": id,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

/* =========================================================
   REPORT
========================================================= */

func (s *Service) ReportMessage(ctx context.Context, id uuid.UUID) (*Report, error) {
	sample, err := s.store.FindSample(ctx, id, false)
	if err != nil {
		return nil, notFound(err)
	}
	results, err := s.store.ListResults(ctx, id)
	if err != nil {
		return nil, err
	}
	r := BuildReport(*sample, results)
	return &r, nil
}
