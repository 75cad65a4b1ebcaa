package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bryentd477/fpa-tracker/resolve"
	"github.com/bryentd477/fpa-tracker/types"
)

// MemoryStore is the in-memory Store used in tests and for running without a
// database. Safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.Record
	order   []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]types.Record{}}
}

func (m *MemoryStore) List(ctx context.Context) ([]types.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]types.Record, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id])
	}
	return out, nil
}

func (m *MemoryStore) Create(ctx context.Context, record types.Record) (types.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	normalized := resolve.NormalizeID(record.FPANumber)
	for _, existing := range m.records {
		if resolve.NormalizeID(existing.FPANumber) == normalized {
			return types.Record{}, fmt.Errorf("%w: %s", ErrDuplicate, record.FPANumber)
		}
	}
	record.ID = uuid.NewString()
	m.records[record.ID] = record
	m.order = append(m.order, record.ID)
	return record, nil
}

func (m *MemoryStore) Update(ctx context.Context, id string, fields map[types.FieldName]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if number, ok := fields[types.FieldFPANumber]; ok {
		normalized := resolve.NormalizeID(number)
		for otherID, existing := range m.records {
			if otherID != id && resolve.NormalizeID(existing.FPANumber) == normalized {
				return fmt.Errorf("%w: %s", ErrDuplicate, number)
			}
		}
	}
	for name, value := range fields {
		record.Apply(name, value)
	}
	m.records[id] = record
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.records, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

var _ Store = (*MemoryStore)(nil)
