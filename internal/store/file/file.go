// Package file persists the inventory as a single pretty-printed JSON array,
// replaced wholesale on every save. The file is the authoritative store for
// a single-operator installation.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"medibill/backend/internal/domain"
	"medibill/backend/internal/store"
)

const inventoryFileName = "inventory.json"

type Store struct {
	path string
}

// New returns a file store rooted at dataDir, creating the directory if
// needed.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{path: filepath.Join(dataDir, inventoryFileName)}, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) LoadLots(_ context.Context) ([]domain.LotRecord, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.LotRecord{}, nil
		}
		return nil, fmt.Errorf("%w: %v", store.ErrStoreRead, err)
	}

	var lots []domain.LotRecord
	if err := json.Unmarshal(raw, &lots); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", store.ErrStoreRead, s.path, err)
	}
	if lots == nil {
		lots = []domain.LotRecord{}
	}
	return lots, nil
}

// ReplaceLots writes the full collection to a temp file in the same
// directory and renames it over the target, so an interrupted write never
// leaves a half-written inventory behind.
func (s *Store) ReplaceLots(_ context.Context, lots []domain.LotRecord) error {
	if lots == nil {
		lots = []domain.LotRecord{}
	}
	payload, err := json.MarshalIndent(lots, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
	}
	payload = append(payload, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.path), inventoryFileName+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
	}
	return nil
}
