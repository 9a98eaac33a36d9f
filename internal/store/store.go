package store

import (
	"context"
	"errors"

	"medibill/backend/internal/domain"
)

var (
	// ErrStoreRead means the backing store exists but could not be parsed.
	// Callers must treat the load as failed rather than proceed on partial
	// data.
	ErrStoreRead = errors.New("inventory store unreadable")
	// ErrStoreWrite means persisting the store failed; the in-memory merge
	// must not be reported as committed.
	ErrStoreWrite = errors.New("inventory store write failed")
)

// Repository owns the persisted lot collection. LoadLots returns the lots
// in persisted order; a missing store is an empty store. ReplaceLots
// overwrites the whole collection atomically.
type Repository interface {
	LoadLots(ctx context.Context) ([]domain.LotRecord, error)
	ReplaceLots(ctx context.Context, lots []domain.LotRecord) error
}
