// Package memory keeps the lot collection in process memory. Used by tests
// and by ephemeral runs where nothing should touch disk.
package memory

import (
	"context"
	"sync"

	"medibill/backend/internal/domain"
)

type Store struct {
	mu   sync.RWMutex
	lots []domain.LotRecord
}

func New() *Store {
	return &Store{lots: []domain.LotRecord{}}
}

// NewWith seeds the store with an initial collection, copying the slice so
// the caller cannot mutate it afterwards.
func NewWith(lots []domain.LotRecord) *Store {
	s := New()
	s.lots = append(s.lots, lots...)
	return s
}

func (s *Store) LoadLots(_ context.Context) ([]domain.LotRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.LotRecord, len(s.lots))
	copy(out, s.lots)
	return out, nil
}

func (s *Store) ReplaceLots(_ context.Context, lots []domain.LotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lots = make([]domain.LotRecord, len(lots))
	copy(s.lots, lots)
	return nil
}
