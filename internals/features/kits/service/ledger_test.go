package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labtrack_backend/internals/constants"
	"labtrack_backend/internals/features/kits/dto"
	"labtrack_backend/internals/features/kits/model"
)

var actor = uuid.MustParse("11111111-2222-3333-4444-555555555555")

func ptr[T any](v T) *T { return &v }

func requireFiberError(t *testing.T, err error, code int, msg string) {
	t.Helper()
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe), "expected *fiber.Error, got %v", err)
	assert.Equal(t, code, fe.Code)
	assert.Equal(t, msg, fe.Message)
}

func createReq(kitTypeID uuid.UUID, code string, qty int) dto.BulkCreateRequest {
	return dto.BulkCreateRequest{
		BatchCode:   code,
		KitTypeID:   kitTypeID.String(),
		Supplier:    "ACME",
		PurchasedAt: "2024-05-01",
		UnitCost:    120000,
		Quantity:    qty,
	}
}

/* ===================== bulk create ===================== */

func TestBulkCreate_ProducesNInStockUnits(t *testing.T) {
	for _, n := range []int{1, 7, 100} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			store := newMemStore()
			kt := store.addKitType("PCR", "PCR kit")

			res, err := NewLedger(store).BulkCreate(context.Background(), actor, createReq(kt, "LOT-2024-001", n))
			require.NoError(t, err)

			assert.Equal(t, n, res.Count)
			require.Len(t, res.Kits, n)
			assert.Equal(t, "LOT-2024-001-001", res.Kits[0].KitCode)
			assert.Equal(t, fmt.Sprintf("LOT-2024-001-%03d", n), res.Kits[n-1].KitCode)
			for _, k := range res.Kits {
				assert.Equal(t, model.KitInStock, k.Status)
				assert.NotEqual(t, uuid.Nil, k.ID)
				assert.Equal(t, res.Batch.ID, k.BatchID)
			}
			assert.Equal(t, n, store.countStatus(model.KitInStock))
			assert.Equal(t, "2024-05-01", res.Batch.PurchasedAt)
		})
	}
}

func TestBulkCreate_WritesAudit(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("PCR", "PCR kit")

	res, err := NewLedger(store).BulkCreate(context.Background(), actor, createReq(kt, "B1", 3))
	require.NoError(t, err)

	require.Len(t, store.audits, 1)
	a := store.audits[0]
	assert.Equal(t, actor, a.ActorID)
	assert.Equal(t, "kit_batches", a.Entity)
	assert.Equal(t, res.Batch.ID.String(), a.EntityID)
	after := a.Diff.(map[string]any)["after"].(map[string]any)
	assert.Equal(t, 3, after["quantity"])
	assert.Equal(t, "B1", after["batch_code"])
}

func TestBulkCreate_DuplicateBatchCode(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("PCR", "PCR kit")
	ledger := NewLedger(store)

	_, err := ledger.BulkCreate(context.Background(), actor, createReq(kt, "DUP", 2))
	require.NoError(t, err)

	_, err = ledger.BulkCreate(context.Background(), actor, createReq(kt, "DUP", 2))
	requireFiberError(t, err, fiber.StatusConflict, constants.MsgBatchCodeExists)
	assert.Len(t, store.kits, 2)
}

func TestBulkCreate_UnknownKitType(t *testing.T) {
	store := newMemStore()

	_, err := NewLedger(store).BulkCreate(context.Background(), actor, createReq(uuid.New(), "B1", 2))
	requireFiberError(t, err, fiber.StatusUnprocessableEntity, constants.MsgKitTypeNotExists)
}

func TestBulkCreate_KitInsertFailureLeavesNoBatch(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("PCR", "PCR kit")
	store.failCreateKits = errBoom

	_, err := NewLedger(store).BulkCreate(context.Background(), actor, createReq(kt, "B1", 5))
	assert.ErrorIs(t, err, errBoom)
	assert.Empty(t, store.batches)
	assert.Empty(t, store.kits)
	assert.Empty(t, store.audits)
}

func TestBulkCreate_ExpiresMustBeAfterPurchase(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("PCR", "PCR kit")

	for _, exp := range []string{"2024-05-01", "2024-04-30"} {
		req := createReq(kt, "B-"+exp, 2)
		req.ExpiresAt = ptr(exp)
		_, err := NewLedger(store).BulkCreate(context.Background(), actor, req)
		requireFiberError(t, err, fiber.StatusUnprocessableEntity, constants.MsgExpiresBeforeBuy)
	}

	req := createReq(kt, "B-ok", 2)
	req.ExpiresAt = ptr("2024-05-02")
	res, err := NewLedger(store).BulkCreate(context.Background(), actor, req)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-02", *res.Batch.ExpiresAt)
}

/* ===================== availability ===================== */

func TestAvailability_CountsAndZeroFill(t *testing.T) {
	store := newMemStore()
	a := store.addKitType("A", "Kit A")
	store.seed(a, "LA", model.KitInStock, model.KitInStock, model.KitUsed)

	items, err := NewLedger(store).Availability(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, a, it.KitTypeID)
	assert.Equal(t, "A", it.KitTypeCode)
	assert.Equal(t, int64(2), it.ByStatus[model.KitInStock])
	assert.Equal(t, int64(1), it.ByStatus[model.KitUsed])
	assert.Equal(t, int64(3), it.Total)
	assert.Len(t, it.ByStatus, 6)
	assert.Equal(t, int64(0), it.ByStatus[model.KitLost])
}

func TestAvailability_FilterByKitType(t *testing.T) {
	store := newMemStore()
	a := store.addKitType("A", "Kit A")
	b := store.addKitType("B", "Kit B")
	store.seed(a, "LA", model.KitInStock)
	store.seed(b, "LB", model.KitVoid, model.KitVoid)

	items, err := NewLedger(store).Availability(context.Background(), &b)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ByStatus[model.KitVoid])
	assert.Equal(t, int64(2), items[0].Total)
}

func TestAvailability_EmptyIsEmptySlice(t *testing.T) {
	items, err := NewLedger(newMemStore()).Availability(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestAggregate_MultipleBatchesSameType(t *testing.T) {
	kt := uuid.New()
	items := Aggregate([]AvailabilityRow{
		{KitTypeID: kt, KitTypeCode: "A", Status: model.KitInStock, Count: 4},
		{KitTypeID: kt, KitTypeCode: "A", Status: model.KitAssigned, Count: 1},
		{KitTypeID: kt, KitTypeCode: "A", Status: model.KitInStock, Count: 2},
	})
	require.Len(t, items, 1)
	assert.Equal(t, int64(6), items[0].ByStatus[model.KitInStock])
	assert.Equal(t, int64(7), items[0].Total)
}

/* ===================== bulk adjust ===================== */

func TestBulkAdjust_ZeroIsNoop(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "L1", model.KitInStock, model.KitInStock, model.KitVoid)

	res, err := NewLedger(store).BulkAdjust(context.Background(), actor, kt, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Adjusted)
	assert.Equal(t, int64(2), res.NewStock)
	assert.Equal(t, 0, store.pickCalls)
	assert.Empty(t, store.audits)
}

func TestBulkAdjust_UnknownKitType(t *testing.T) {
	_, err := NewLedger(newMemStore()).BulkAdjust(context.Background(), actor, uuid.New(), 1, nil)
	requireFiberError(t, err, fiber.StatusNotFound, constants.MsgKitTypeNotFound)
}

func TestBulkAdjust_PositiveNotEnoughUnits(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "L1", model.KitInStock, model.KitVoid, model.KitLost)

	_, err := NewLedger(store).BulkAdjust(context.Background(), actor, kt, 3, nil)
	requireFiberError(t, err, fiber.StatusConflict, "Không đủ kit để điều chỉnh (cần 3, có 2)")

	assert.Equal(t, 1, store.countStatus(model.KitInStock))
	assert.Equal(t, 1, store.countStatus(model.KitVoid))
	assert.Equal(t, 1, store.countStatus(model.KitLost))
	assert.Empty(t, store.audits)
}

func TestBulkAdjust_PositiveExactlyEnough(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "L1", model.KitInStock, model.KitVoid, model.KitLost, model.KitVoid, model.KitUsed)

	res, err := NewLedger(store).BulkAdjust(context.Background(), actor, kt, 3, ptr("kiểm kê"))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Adjusted)
	assert.Equal(t, int64(4), res.NewStock)

	assert.Equal(t, 4, store.countStatus(model.KitInStock))
	assert.Equal(t, 0, store.countStatus(model.KitVoid))
	assert.Equal(t, 0, store.countStatus(model.KitLost))
	assert.Equal(t, 1, store.countStatus(model.KitUsed))

	require.Len(t, store.audits, 1)
	diff := store.audits[0].Diff.(map[string]any)
	assert.Equal(t, "bulk_adjust", diff["action"])
	assert.Equal(t, 3, diff["delta"])
	assert.Len(t, diff["kit_ids"], 3)
	assert.Equal(t, kt.String(), store.audits[0].EntityID)
}

func TestBulkAdjust_NegativeExceedsStockBeforeTouchingUnits(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "L1", model.KitInStock, model.KitInStock, model.KitInStock, model.KitInStock, model.KitInStock)

	_, err := NewLedger(store).BulkAdjust(context.Background(), actor, kt, -10, nil)
	requireFiberError(t, err, fiber.StatusConflict, constants.MsgStockExceeded)

	assert.Equal(t, 0, store.pickCalls)
	assert.Equal(t, 5, store.countStatus(model.KitInStock))
}

func TestBulkAdjust_NegativeVoidsOldestFirst(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "L1", model.KitInStock, model.KitInStock, model.KitInStock)
	oldest := store.kits[0].ID
	newest := store.kits[2].ID

	res, err := NewLedger(store).BulkAdjust(context.Background(), actor, kt, -2, ptr("vỡ"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Adjusted)
	assert.Equal(t, int64(1), res.NewStock)

	assert.Equal(t, model.KitVoid, store.statusOf(oldest))
	assert.Equal(t, model.KitInStock, store.statusOf(newest))
	assert.Equal(t, "vỡ", *store.kits[0].Note)
}

func TestBulkAdjust_OnlyTouchesRequestedKitType(t *testing.T) {
	store := newMemStore()
	a := store.addKitType("A", "Kit A")
	b := store.addKitType("B", "Kit B")
	store.seed(a, "LA", model.KitInStock, model.KitInStock)
	store.seed(b, "LB", model.KitInStock, model.KitInStock)

	_, err := NewLedger(store).BulkAdjust(context.Background(), actor, a, -2, nil)
	require.NoError(t, err)

	items, _ := NewLedger(store).Availability(context.Background(), &b)
	assert.Equal(t, int64(2), items[0].ByStatus[model.KitInStock])
}

/* ===================== expiry ===================== */

func TestExpireKits(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "OLD", model.KitInStock, model.KitAssigned)
	store.seed(kt, "NEW", model.KitInStock)
	store.batches[0].ExpiresAt = ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	store.batches[1].ExpiresAt = ptr(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC))

	n, err := NewLedger(store).ExpireKits(context.Background(), time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.KitExpired, store.kits[0].Status)
	assert.Equal(t, model.KitAssigned, store.kits[1].Status)
	assert.Equal(t, model.KitInStock, store.kits[2].Status)
	require.Len(t, store.audits, 1)
	assert.Equal(t, "expiry:2024-06-15", store.audits[0].EntityID)

	// run kedua: tidak ada perubahan, tidak ada audit baru
	n, err = NewLedger(store).ExpireKits(context.Background(), time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Len(t, store.audits, 1)
}

func TestExpireKits_UsesLocalCalendarDate(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "Y", model.KitInStock)
	store.batches[0].ExpiresAt = ptr(time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC))

	// cron 00:15 waktu lab (UTC+7) = 2024-06-14 17:15 UTC
	ict := time.FixedZone("ICT", 7*3600)
	n, err := NewLedger(store).ExpireKits(context.Background(), time.Date(2024, 6, 15, 0, 15, 0, 0, ict))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.KitExpired, store.kits[0].Status)
	assert.Equal(t, "expiry:2024-06-15", store.audits[0].EntityID)
}

func TestExpireKits_KeepsAdjustReason(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "L", model.KitInStock)
	store.batches[0].ExpiresAt = ptr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	store.kits[0].Note = ptr("trả lại từ kho phụ")

	_, err := NewLedger(store).ExpireKits(context.Background(), time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, store.kits[0].Note)
	assert.Equal(t, "trả lại từ kho phụ", *store.kits[0].Note)
}

func TestBulkAdjust_DeltaOutOfRangeTouchesNothing(t *testing.T) {
	store := newMemStore()
	kt := store.addKitType("A", "Kit A")
	store.seed(kt, "L", model.KitInStock, model.KitInStock, model.KitInStock, model.KitInStock, model.KitInStock)

	for _, delta := range []int{math.MinInt, -dto.MaxAdjustDelta - 1, dto.MaxAdjustDelta + 1, math.MaxInt} {
		res, err := NewLedger(store).BulkAdjust(context.Background(), actor, kt, delta, nil)
		requireFiberError(t, err, fiber.StatusUnprocessableEntity, dto.MsgDeltaOutOfRange)
		assert.Nil(t, res)
	}
	assert.Equal(t, 5, store.countStatus(model.KitInStock))
	assert.Equal(t, 0, store.countStatus(model.KitVoid))
	assert.Equal(t, 0, store.pickCalls)
	assert.Empty(t, store.audits)
}
