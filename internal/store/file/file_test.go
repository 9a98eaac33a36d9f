package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"medibill/backend/internal/domain"
	"medibill/backend/internal/store"
)

func TestLoadMissingFileIsEmptyStore(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	lots, err := s.LoadLots(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lots) != 0 {
		t.Fatalf("expected empty store, got %d lots", len(lots))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	lots := []domain.LotRecord{
		{ItemName: "PARA", Unit: "STRIP", Batch: "B1", ExpDt: "12/26", MRP: "30", PTR: "22.50", GSTPercent: "12", Qty: "10", AddedAt: "2026-01-05T10:00:00Z", LastUpdated: "2026-01-05T10:00:00Z"},
		{ItemName: "Dolo 650", Batch: "D77", Qty: "4"},
	}
	if err := s.ReplaceLots(ctx, lots); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := s.LoadLots(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(lots, loaded) {
		t.Fatalf("round trip mismatch:\nsaved  %+v\nloaded %+v", lots, loaded)
	}

	// save(load()) must be a no-op on content
	if err := s.ReplaceLots(ctx, loaded); err != nil {
		t.Fatalf("re-save: %v", err)
	}
	again, err := s.LoadLots(ctx)
	if err != nil {
		t.Fatalf("re-load: %v", err)
	}
	if !reflect.DeepEqual(loaded, again) {
		t.Fatalf("save(load()) changed store content")
	}
}

func TestMalformedFileFailsWithStoreReadError(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "inventory.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed malformed file: %v", err)
	}

	_, err = s.LoadLots(context.Background())
	if !errors.Is(err, store.ErrStoreRead) {
		t.Fatalf("expected ErrStoreRead, got %v", err)
	}
}

func TestReplaceOverwritesWholeFile(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ctx := context.Background()

	if err := s.ReplaceLots(ctx, []domain.LotRecord{{ItemName: "A", Batch: "1"}, {ItemName: "B", Batch: "2"}}); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := s.ReplaceLots(ctx, []domain.LotRecord{{ItemName: "C", Batch: "3"}}); err != nil {
		t.Fatalf("second save: %v", err)
	}

	lots, err := s.LoadLots(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(lots) != 1 || lots[0].ItemName != "C" {
		t.Fatalf("expected only the second snapshot, got %+v", lots)
	}
}

func TestReplaceNilWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := s.ReplaceLots(context.Background(), nil); err != nil {
		t.Fatalf("save nil: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, "inventory.json"))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(raw) != "[]\n" {
		t.Fatalf("expected empty JSON array, got %q", string(raw))
	}
}
