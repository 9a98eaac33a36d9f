// Package draft persists the in-progress bill across restarts. The draft is
// a convenience cache, not a source of truth: once a bill is committed the
// inventory store is authoritative and the draft is discarded.
package draft

import (
	"context"

	"medibill/backend/internal/domain"
)

// Store saves and restores the session draft. Load returns (nil, nil) when
// no draft exists.
type Store interface {
	Save(ctx context.Context, d domain.SessionDraft) error
	Load(ctx context.Context) (*domain.SessionDraft, error)
	Clear(ctx context.Context) error
}

// NoopStore discards drafts. Used when snapshotting is disabled.
type NoopStore struct{}

func (NoopStore) Save(context.Context, domain.SessionDraft) error { return nil }

func (NoopStore) Load(context.Context) (*domain.SessionDraft, error) { return nil, nil }

func (NoopStore) Clear(context.Context) error { return nil }
