package service

import (
	"context"
	"log"
	"strings"
	"time"

	"medibill/backend/internal/domain"
	"medibill/backend/internal/draft"
	"medibill/backend/internal/lot"
	"medibill/backend/internal/store"
	"medibill/backend/internal/xid"
)

type actorContextKey struct{}

// WithActor attaches the authenticated operator to the context so commits
// can be attributed in the log.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Service is the inventory reconciliation engine plus the read views the
// entry form depends on. Commits are serialized through a single instance;
// the store is single-owner for the process lifetime.
type Service struct {
	repo   store.Repository
	drafts draft.Store
}

func New(repo store.Repository, drafts draft.Store) *Service {
	if drafts == nil {
		drafts = draft.NoopStore{}
	}
	return &Service{repo: repo, drafts: drafts}
}

// CommitItems folds a bill's line items into the inventory. Items whose
// name or batch is blank after trimming are counted in Skipped and dropped.
// An item matching an existing lot's (name, batch) identity accumulates
// quantity into that lot and refreshes last_updated; everything else about
// the existing lot is left as it was. Unmatched items append new lots built
// from the canonical fields only.
func (s *Service) CommitItems(ctx context.Context, items []domain.LineItem) (domain.CommitResult, error) {
	lots, err := s.repo.LoadLots(ctx)
	if err != nil {
		return domain.CommitResult{}, err
	}

	var result domain.CommitResult
	now := time.Now().UTC().Format(time.RFC3339)

	for _, item := range items {
		if !lot.Eligible(item.ItemName, item.Batch) {
			result.Skipped++
			continue
		}

		merged := false
		for i := range lots {
			if !lot.SameLot(lots[i], item) {
				continue
			}
			sum := lot.ParseDecimalOrZero(lots[i].Qty).Add(lot.ParseDecimalOrZero(item.Qty))
			lots[i].Qty = sum.String()
			lots[i].LastUpdated = now
			result.Updated++
			merged = true
			break
		}
		if merged {
			continue
		}

		lots = append(lots, domain.LotRecord{
			ItemName:    strings.TrimSpace(item.ItemName),
			Unit:        strings.TrimSpace(item.Unit),
			Batch:       strings.TrimSpace(item.Batch),
			ExpDt:       strings.TrimSpace(item.ExpDt),
			MRP:         strings.TrimSpace(item.MRP),
			PTR:         strings.TrimSpace(item.PTR),
			GSTPercent:  defaultGST(item.GSTPercent),
			Qty:         strings.TrimSpace(item.Qty),
			AddedAt:     now,
			LastUpdated: now,
		})
		result.Added++
	}

	if err := s.repo.ReplaceLots(ctx, lots); err != nil {
		return domain.CommitResult{}, err
	}

	by := "local"
	if actor, ok := ActorFromContext(ctx); ok {
		by = actor.Username
	}
	log.Printf("[service] commit %s by %s: added=%d updated=%d skipped=%d", xid.New("commit"), by, result.Added, result.Updated, result.Skipped)
	return result, nil
}

// NameIndex groups the store by item name for the search dropdown: one
// representative entry per name, first in store order wins. Keys are
// trimmed but NOT uppercased -- two lots whose names differ only in case
// get separate entries, unlike commit-time identity matching. The entry
// form has always behaved this way; changing it would regroup mixed-case
// names in the search list.
func (s *Service) NameIndex(ctx context.Context) (map[string]domain.IndexEntry, error) {
	lots, err := s.repo.LoadLots(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]domain.IndexEntry, len(lots))
	for _, rec := range lots {
		name := strings.TrimSpace(rec.ItemName)
		if name == "" {
			continue
		}
		if _, exists := index[name]; exists {
			continue
		}
		index[name] = domain.IndexEntry{
			ItemName:   name,
			Unit:       rec.Unit,
			Batch:      rec.Batch,
			ExpDt:      rec.ExpDt,
			MRP:        rec.MRP,
			PTR:        rec.PTR,
			GSTPercent: defaultGST(rec.GSTPercent),
		}
	}
	return index, nil
}

// Batches lists every lot whose item name matches, case-insensitively and
// trimmed, in store order. Used to pick a batch once a name is chosen.
func (s *Service) Batches(ctx context.Context, itemName string) ([]domain.LotRecord, error) {
	lots, err := s.repo.LoadLots(ctx)
	if err != nil {
		return nil, err
	}

	want := lot.Normalize(itemName)
	matches := make([]domain.LotRecord, 0, 4)
	for _, rec := range lots {
		if lot.Normalize(rec.ItemName) == want {
			matches = append(matches, rec)
		}
	}
	return matches, nil
}

// SaveDraft snapshots the in-progress bill. Fire-and-forget: a failed save
// is logged and swallowed, the draft is only a convenience cache.
func (s *Service) SaveDraft(ctx context.Context, d domain.SessionDraft) {
	if err := s.drafts.Save(ctx, d); err != nil {
		log.Printf("[service] WARN: draft save failed: %v", err)
	}
}

// LoadDraft restores the last snapshot, or nil when there is none or the
// snapshot cannot be read.
func (s *Service) LoadDraft(ctx context.Context) *domain.SessionDraft {
	d, err := s.drafts.Load(ctx)
	if err != nil {
		log.Printf("[service] WARN: draft load failed: %v", err)
		return nil
	}
	return d
}

func (s *Service) ClearDraft(ctx context.Context) {
	if err := s.drafts.Clear(ctx); err != nil {
		log.Printf("[service] WARN: draft clear failed: %v", err)
	}
}

func defaultGST(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "0"
	}
	return v
}
