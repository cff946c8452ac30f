package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	auditRepo "labtrack_backend/internals/features/audit/repository"
	kitModel "labtrack_backend/internals/features/kits/model"
	"labtrack_backend/internals/features/samples/model"
)

type memKit struct {
	kit       kitModel.KitModel
	kitTypeID uuid.UUID
}

// memStore: Store in-memory; Tx mengembalikan state semula bila fn error.
type memStore struct {
	kitTypes map[uuid.UUID]string
	kits     []memKit
	samples  []model.SampleModel
	results  map[uuid.UUID][]model.SampleResultModel
	audits   []auditRepo.Entry
	counters map[string]int

	clock        time.Time
	failCreate   error
	replaceCalls int
}

func newMemStore() *memStore {
	return &memStore{
		kitTypes: map[uuid.UUID]string{},
		results:  map[uuid.UUID][]model.SampleResultModel{},
		counters: map[string]int{},
		clock:    time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) addKitType(name string) uuid.UUID {
	id := uuid.New()
	m.kitTypes[id] = name
	return id
}

func (m *memStore) addKit(kitTypeID uuid.UUID, code string, status kitModel.KitStatus) uuid.UUID {
	m.clock = m.clock.Add(time.Minute)
	k := kitModel.KitModel{ID: uuid.New(), KitCode: code, Status: status, CreatedAt: m.clock}
	m.kits = append(m.kits, memKit{kit: k, kitTypeID: kitTypeID})
	return k.ID
}

func (m *memStore) kitStatus(id uuid.UUID) kitModel.KitStatus {
	for _, k := range m.kits {
		if k.kit.ID == id {
			return k.kit.Status
		}
	}
	return ""
}

func (m *memStore) Tx(_ context.Context, fn func(tx Store) error) error {
	kits := append([]memKit(nil), m.kits...)
	samples := append([]model.SampleModel(nil), m.samples...)
	audits := append([]auditRepo.Entry(nil), m.audits...)
	results := make(map[uuid.UUID][]model.SampleResultModel, len(m.results))
	for k, v := range m.results {
		results[k] = append([]model.SampleResultModel(nil), v...)
	}
	counters := make(map[string]int, len(m.counters))
	for k, v := range m.counters {
		counters[k] = v
	}

	if err := fn(m); err != nil {
		m.kits, m.samples, m.audits, m.results, m.counters = kits, samples, audits, results, counters
		return err
	}
	return nil
}

func (m *memStore) PickInStockKit(_ context.Context, kitTypeID uuid.UUID) (*kitModel.KitModel, error) {
	var cands []kitModel.KitModel
	for _, k := range m.kits {
		if k.kitTypeID == kitTypeID && k.kit.Status == kitModel.KitInStock {
			cands = append(cands, k.kit)
		}
	}
	if len(cands) == 0 {
		return nil, nil
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].CreatedAt.Before(cands[j].CreatedAt) })
	k := cands[0]
	return &k, nil
}

func (m *memStore) KitTypeName(_ context.Context, kitTypeID uuid.UUID) (string, error) {
	return m.kitTypes[kitTypeID], nil
}

func (m *memStore) AssignKit(_ context.Context, kitID uuid.UUID, at time.Time) error {
	for i := range m.kits {
		if m.kits[i].kit.ID == kitID {
			m.kits[i].kit.Status = kitModel.KitAssigned
			t := at
			m.kits[i].kit.AssignedAt = &t
		}
	}
	return nil
}

func (m *memStore) NextSampleCode(_ context.Context, received time.Time) (string, error) {
	day := received.Format("060102")
	m.counters[day]++
	return fmt.Sprintf("%s-%03d", day, m.counters[day]), nil
}

func (m *memStore) CreateSample(_ context.Context, s *model.SampleModel) error {
	if m.failCreate != nil {
		return m.failCreate
	}
	known := false
	for _, k := range m.kits {
		if k.kit.ID == s.KitID {
			known = true
		}
	}
	if !known {
		return &pq.Error{Code: "23503"}
	}
	for _, x := range m.samples {
		if x.SampleCode == s.SampleCode {
			return &pq.Error{Code: "23505"}
		}
	}
	s.ID = uuid.New()
	s.CreatedAt = m.clock
	s.UpdatedAt = m.clock
	m.samples = append(m.samples, *s)
	return nil
}

func (m *memStore) FindSample(_ context.Context, id uuid.UUID, withRelations bool) (*model.SampleModel, error) {
	for _, s := range m.samples {
		if s.ID == id {
			out := s
			if withRelations {
				out.Results = append([]model.SampleResultModel{}, m.results[id]...)
			}
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) ListSamples(_ context.Context, f Filter) ([]model.SampleModel, int64, error) {
	var rows []model.SampleModel
	for _, s := range m.samples {
		if f.Status != "" && string(s.Status) != f.Status {
			continue
		}
		if f.BillingStatus != "" && string(s.BillingStatus) != f.BillingStatus {
			continue
		}
		if f.Customer != "" && !strings.Contains(strings.ToLower(s.Customer), strings.ToLower(f.Customer)) {
			continue
		}
		rows = append(rows, s)
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ReceivedAt.After(rows[j].ReceivedAt) })
	total := int64(len(rows))
	if f.Offset >= len(rows) {
		return nil, total, nil
	}
	end := f.Offset + f.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[f.Offset:end], total, nil
}

func (m *memStore) UpdateSample(_ context.Context, s *model.SampleModel, _ []string) error {
	for i := range m.samples {
		if m.samples[i].ID == s.ID {
			m.samples[i] = *s
			m.samples[i].UpdatedAt = m.clock.Add(time.Hour)
		}
	}
	return nil
}

func (m *memStore) ListResults(_ context.Context, sampleID uuid.UUID) ([]model.SampleResultModel, error) {
	return append([]model.SampleResultModel{}, m.results[sampleID]...), nil
}

func (m *memStore) ReplaceResults(_ context.Context, sampleID uuid.UUID, rows []model.SampleResultModel) error {
	m.replaceCalls++
	for i := range rows {
		rows[i].ID = uuid.New()
	}
	m.results[sampleID] = append([]model.SampleResultModel(nil), rows...)
	return nil
}

func (m *memStore) WriteAudit(_ context.Context, e auditRepo.Entry) error {
	m.audits = append(m.audits, e)
	return nil
}

var _ Store = (*memStore)(nil)
