package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"labtrack_backend/internals/constants"
	auditModel "labtrack_backend/internals/features/audit/model"
	auditRepo "labtrack_backend/internals/features/audit/repository"
	"labtrack_backend/internals/features/kits/dto"
	"labtrack_backend/internals/features/kits/model"
	helper "labtrack_backend/internals/helpers"
	"labtrack_backend/internals/metrics"
)

// AvailabilityRow: satu baris hasil GROUP BY (kit_type, status)
type AvailabilityRow struct {
	KitTypeID   uuid.UUID
	KitTypeCode string
	KitTypeName string
	Status      model.KitStatus
	Count       int64
}

// Store: semua akses data ledger. Tx menjalankan fn di satu transaksi;
// Store yang diterima fn terikat ke transaksi itu.
type Store interface {
	Tx(ctx context.Context, fn func(tx Store) error) error

	CreateBatch(ctx context.Context, batch *model.KitBatchModel) error
	CreateKits(ctx context.Context, kits []model.KitModel) error

	BatchIDsByKitType(ctx context.Context, kitTypeID uuid.UUID) ([]uuid.UUID, error)
	CountByStatus(ctx context.Context, batchIDs []uuid.UUID, status model.KitStatus) (int64, error)
	// PickKits mengunci (SKIP LOCKED) maksimal limit unit berstatus salah satu statuses,
	// urut created_at, kit_code.
	PickKits(ctx context.Context, batchIDs []uuid.UUID, statuses []model.KitStatus, limit int) ([]model.KitModel, error)
	UpdateKitStatus(ctx context.Context, ids []uuid.UUID, status model.KitStatus, note *string) error

	AvailabilityRows(ctx context.Context, kitTypeID *uuid.UUID) ([]AvailabilityRow, error)
	ExpirableKits(ctx context.Context, today time.Time) ([]model.KitModel, error)

	WriteAudit(ctx context.Context, e auditRepo.Entry) error
}

type Ledger struct {
	store Store
}

func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

/* =========================================================
   BULK CREATE
========================================================= */

// BulkCreate: batch + quantity unit + audit dalam satu transaksi.
// req diasumsikan sudah lolos validasi DTO.
func (l *Ledger) BulkCreate(ctx context.Context, actor uuid.UUID, req dto.BulkCreateRequest) (*dto.BulkCreateResponse, error) {
	batch := req.ToModel()
	if batch.ExpiresAt != nil && !batch.ExpiresAt.After(batch.PurchasedAt) {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, constants.MsgExpiresBeforeBuy)
	}

	var kits []model.KitModel
	err := l.store.Tx(ctx, func(tx Store) error {
		if err := tx.CreateBatch(ctx, &batch); err != nil {
			switch {
			case helper.IsUniqueViolation(err):
				return fiber.NewError(fiber.StatusConflict, constants.MsgBatchCodeExists)
			case helper.IsForeignKeyViolation(err):
				return fiber.NewError(fiber.StatusUnprocessableEntity, constants.MsgKitTypeNotExists)
			}
			return err
		}

		kits = model.NewBatchKits(batch)
		if err := tx.CreateKits(ctx, kits); err != nil {
			return err
		}

		return tx.WriteAudit(ctx, auditRepo.Entry{
			ActorID:  actor,
			Action:   auditModel.ActionCreate,
			Entity:   auditModel.EntityKitBatches,
			EntityID: batch.ID.String(),
			Diff: map[string]any{
				"after": map[string]any{
					"batch_code":  batch.BatchCode,
					"quantity":    batch.Quantity,
					"kit_type_id": batch.KitTypeID,
				},
			},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.KitsCreated.Add(float64(len(kits)))
	return &dto.BulkCreateResponse{
		Batch: dto.ToBatchResponse(batch),
		Kits:  dto.ToKitResponses(kits),
		Count: len(kits),
	}, nil
}

/* =========================================================
   AVAILABILITY
========================================================= */

// Availability: hitungan per status per kit type (status kosong = 0), urut kit type code.
func (l *Ledger) Availability(ctx context.Context, kitTypeID *uuid.UUID) ([]dto.AvailabilityItem, error) {
	rows, err := l.store.AvailabilityRows(ctx, kitTypeID)
	if err != nil {
		return nil, err
	}
	return Aggregate(rows), nil
}

// Aggregate menggabungkan baris GROUP BY menjadi item per kit type.
// Urutan kit type mengikuti urutan kemunculan pertama di rows.
func Aggregate(rows []AvailabilityRow) []dto.AvailabilityItem {
	out := []dto.AvailabilityItem{}
	index := map[uuid.UUID]int{}

	for _, r := range rows {
		i, ok := index[r.KitTypeID]
		if !ok {
			byStatus := make(map[model.KitStatus]int64, len(model.AllKitStatuses))
			for _, s := range model.AllKitStatuses {
				byStatus[s] = 0
			}
			out = append(out, dto.AvailabilityItem{
				KitTypeID:   r.KitTypeID,
				KitTypeCode: r.KitTypeCode,
				KitTypeName: r.KitTypeName,
				ByStatus:    byStatus,
			})
			i = len(out) - 1
			index[r.KitTypeID] = i
		}
		out[i].ByStatus[r.Status] += r.Count
		out[i].Total += r.Count
	}
	return out
}

/* =========================================================
   BULK ADJUST
========================================================= */

// BulkAdjust memindahkan unit antara in_stock dan void/lost.
// Hitung stok, pilih unit, update, dan audit berada di satu transaksi.
func (l *Ledger) BulkAdjust(ctx context.Context, actor uuid.UUID, kitTypeID uuid.UUID, delta int, reason *string) (*dto.BulkAdjustResponse, error) {
	if delta < -dto.MaxAdjustDelta || delta > dto.MaxAdjustDelta {
		return nil, fiber.NewError(fiber.StatusUnprocessableEntity, dto.MsgDeltaOutOfRange)
	}

	var res dto.BulkAdjustResponse

	err := l.store.Tx(ctx, func(tx Store) error {
		batchIDs, err := tx.BatchIDsByKitType(ctx, kitTypeID)
		if err != nil {
			return err
		}
		if len(batchIDs) == 0 {
			return fiber.NewError(fiber.StatusNotFound, constants.MsgKitTypeNotFound)
		}

		current, err := tx.CountByStatus(ctx, batchIDs, model.KitInStock)
		if err != nil {
			return err
		}

		if delta == 0 {
			res = dto.BulkAdjustResponse{Adjusted: 0, NewStock: current}
			return nil
		}

		var (
			picked []model.KitModel
			target model.KitStatus
		)
		if delta > 0 {
			picked, err = tx.PickKits(ctx, batchIDs, []model.KitStatus{model.KitVoid, model.KitLost}, delta)
			if err != nil {
				return err
			}
			if len(picked) < delta {
				return fiber.NewError(fiber.StatusConflict, fmt.Sprintf(constants.MsgNotEnoughKitsFmt, delta, len(picked)))
			}
			target = model.KitInStock
		} else {
			reduce := -delta
			// cek stok sebelum memilih unit apa pun
			if int64(reduce) > current {
				return fiber.NewError(fiber.StatusConflict, constants.MsgStockExceeded)
			}
			picked, err = tx.PickKits(ctx, batchIDs, []model.KitStatus{model.KitInStock}, reduce)
			if err != nil {
				return err
			}
			// unit sisanya sedang dikunci transaksi lain
			if len(picked) < reduce {
				return fiber.NewError(fiber.StatusConflict, constants.MsgStockExceeded)
			}
			target = model.KitVoid
		}

		ids := kitIDs(picked)
		if err := tx.UpdateKitStatus(ctx, ids, target, reason); err != nil {
			return err
		}

		if err := tx.WriteAudit(ctx, auditRepo.Entry{
			ActorID:  actor,
			Action:   auditModel.ActionUpdate,
			Entity:   auditModel.EntityKits,
			EntityID: kitTypeID.String(),
			Diff: map[string]any{
				"action":  "bulk_adjust",
				"delta":   delta,
				"kit_ids": ids,
				"reason":  reason,
			},
		}); err != nil {
			return err
		}

		newStock := current + int64(len(ids))
		if delta < 0 {
			newStock = current - int64(len(ids))
		}
		res = dto.BulkAdjustResponse{Adjusted: len(ids), NewStock: newStock}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Adjusted > 0 {
		metrics.KitAdjustments.WithLabelValues(direction(delta)).Add(float64(res.Adjusted))
	}
	return &res, nil
}

/* =========================================================
   EXPIRY (cron)
========================================================= */

// ExpireKits: unit in_stock dari batch dengan expires_at < today → expired.
// Mengembalikan jumlah unit yang berubah; audit hanya ditulis bila ada perubahan.
func (l *Ledger) ExpireKits(ctx context.Context, today time.Time) (int, error) {
	today = helper.StartOfDay(today)
	changed := 0

	err := l.store.Tx(ctx, func(tx Store) error {
		kits, err := tx.ExpirableKits(ctx, today)
		if err != nil {
			return err
		}
		if len(kits) == 0 {
			return nil
		}

		ids := kitIDs(kits)
		if err := tx.UpdateKitStatus(ctx, ids, model.KitExpired, nil); err != nil {
			return err
		}
		changed = len(ids)

		codes := make([]string, 0, len(kits))
		for _, k := range kits {
			codes = append(codes, k.KitCode)
		}
		return tx.WriteAudit(ctx, auditRepo.Entry{
			Action:   auditModel.ActionUpdate,
			Entity:   auditModel.EntityKits,
			EntityID: "expiry:" + helper.FormatDate(today),
			Diff: map[string]any{
				"action":    "expire",
				"kit_ids":   ids,
				"kit_codes": codes,
				"as_of":     helper.FormatDate(today),
			},
		})
	})
	if err != nil {
		return 0, err
	}

	if changed > 0 {
		metrics.KitsExpired.Add(float64(changed))
	}
	return changed, nil
}

func kitIDs(kits []model.KitModel) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(kits))
	for _, k := range kits {
		ids = append(ids, k.ID)
	}
	return ids
}

func direction(delta int) string {
	if delta > 0 {
		return "restock"
	}
	return "void"
}
