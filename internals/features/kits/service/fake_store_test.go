package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	auditRepo "labtrack_backend/internals/features/audit/repository"
	"labtrack_backend/internals/features/kits/model"
)

type kitTypeRow struct {
	id   uuid.UUID
	code string
	name string
}

// memStore: Store in-memory; Tx men-snapshot state dan mengembalikannya saat fn error.
type memStore struct {
	kitTypes map[uuid.UUID]kitTypeRow
	batches  []model.KitBatchModel
	kits     []model.KitModel
	audits   []auditRepo.Entry

	failCreateKits error
	pickCalls      int
	clock          time.Time
}

func newMemStore() *memStore {
	return &memStore{
		kitTypes: map[uuid.UUID]kitTypeRow{},
		clock:    time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addKitType(code, name string) uuid.UUID {
	id := uuid.New()
	m.kitTypes[id] = kitTypeRow{id: id, code: code, name: name}
	return id
}

// seed: satu batch berisi unit dengan status yang diberikan
func (m *memStore) seed(kitTypeID uuid.UUID, code string, statuses ...model.KitStatus) model.KitBatchModel {
	b := model.KitBatchModel{ID: uuid.New(), BatchCode: code, KitTypeID: kitTypeID, Quantity: len(statuses)}
	m.batches = append(m.batches, b)
	for i, s := range statuses {
		m.clock = m.clock.Add(time.Minute)
		m.kits = append(m.kits, model.KitModel{
			ID: uuid.New(), BatchID: b.ID, KitCode: model.KitCode(code, i+1), Status: s, CreatedAt: m.clock,
		})
	}
	return b
}

func (m *memStore) statusOf(id uuid.UUID) model.KitStatus {
	for _, k := range m.kits {
		if k.ID == id {
			return k.Status
		}
	}
	return ""
}

func (m *memStore) countStatus(s model.KitStatus) int {
	n := 0
	for _, k := range m.kits {
		if k.Status == s {
			n++
		}
	}
	return n
}

func (m *memStore) Tx(_ context.Context, fn func(tx Store) error) error {
	batches := append([]model.KitBatchModel(nil), m.batches...)
	kits := append([]model.KitModel(nil), m.kits...)
	audits := append([]auditRepo.Entry(nil), m.audits...)

	if err := fn(m); err != nil {
		m.batches, m.kits, m.audits = batches, kits, audits
		return err
	}
	return nil
}

func (m *memStore) CreateBatch(_ context.Context, b *model.KitBatchModel) error {
	for _, x := range m.batches {
		if x.BatchCode == b.BatchCode {
			return &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"}
		}
	}
	if _, ok := m.kitTypes[b.KitTypeID]; !ok {
		return &pq.Error{Code: "23503", Message: "violates foreign key constraint"}
	}
	b.ID = uuid.New()
	b.CreatedAt = m.clock
	m.batches = append(m.batches, *b)
	return nil
}

func (m *memStore) CreateKits(_ context.Context, kits []model.KitModel) error {
	if m.failCreateKits != nil {
		return m.failCreateKits
	}
	for i := range kits {
		kits[i].ID = uuid.New()
		kits[i].CreatedAt = m.clock
		m.kits = append(m.kits, kits[i])
	}
	return nil
}

func (m *memStore) batchSet(ids []uuid.UUID) map[uuid.UUID]bool {
	set := map[uuid.UUID]bool{}
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func (m *memStore) BatchIDsByKitType(_ context.Context, kitTypeID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, b := range m.batches {
		if b.KitTypeID == kitTypeID {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (m *memStore) CountByStatus(_ context.Context, batchIDs []uuid.UUID, status model.KitStatus) (int64, error) {
	set := m.batchSet(batchIDs)
	var n int64
	for _, k := range m.kits {
		if set[k.BatchID] && k.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memStore) PickKits(_ context.Context, batchIDs []uuid.UUID, statuses []model.KitStatus, limit int) ([]model.KitModel, error) {
	m.pickCalls++
	set := m.batchSet(batchIDs)
	var out []model.KitModel
	for _, k := range m.kits {
		if !set[k.BatchID] {
			continue
		}
		for _, s := range statuses {
			if k.Status == s {
				out = append(out, k)
				break
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	// sama seperti gorm: limit negatif = tanpa LIMIT
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) UpdateKitStatus(_ context.Context, ids []uuid.UUID, status model.KitStatus, note *string) error {
	set := m.batchSet(ids)
	for i := range m.kits {
		if set[m.kits[i].ID] {
			m.kits[i].Status = status
			if note != nil {
				m.kits[i].Note = note
			}
		}
	}
	return nil
}

func (m *memStore) AvailabilityRows(_ context.Context, kitTypeID *uuid.UUID) ([]AvailabilityRow, error) {
	type key struct {
		kt uuid.UUID
		s  model.KitStatus
	}
	counts := map[key]int64{}
	var order []key
	for _, k := range m.kits {
		var b model.KitBatchModel
		for _, x := range m.batches {
			if x.ID == k.BatchID {
				b = x
			}
		}
		if kitTypeID != nil && b.KitTypeID != *kitTypeID {
			continue
		}
		kk := key{b.KitTypeID, k.Status}
		if _, ok := counts[kk]; !ok {
			order = append(order, kk)
		}
		counts[kk]++
	}
	rows := make([]AvailabilityRow, 0, len(order))
	for _, kk := range order {
		kt := m.kitTypes[kk.kt]
		rows = append(rows, AvailabilityRow{KitTypeID: kt.id, KitTypeCode: kt.code, KitTypeName: kt.name, Status: kk.s, Count: counts[kk]})
	}
	return rows, nil
}

func (m *memStore) ExpirableKits(_ context.Context, today time.Time) ([]model.KitModel, error) {
	expired := map[uuid.UUID]bool{}
	for _, b := range m.batches {
		if b.ExpiresAt != nil && b.ExpiresAt.Before(today) {
			expired[b.ID] = true
		}
	}
	var out []model.KitModel
	for _, k := range m.kits {
		if expired[k.BatchID] && k.Status == model.KitInStock {
			out = append(out, k)
		}
	}
	return out, nil
}

func (m *memStore) WriteAudit(_ context.Context, e auditRepo.Entry) error {
	m.audits = append(m.audits, e)
	return nil
}

var errBoom = errors.New("insert failed")
