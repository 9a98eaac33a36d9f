// Package postgres is the larger-scale drop-in for the flat-file store:
// lots live in a table keyed by the normalized (item, batch) identity, with
// a position column preserving store order so the read views behave exactly
// like the file-backed store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"medibill/backend/internal/domain"
	"medibill/backend/internal/lot"
	"medibill/backend/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS lots (
			item_key     TEXT NOT NULL,
			batch_key    TEXT NOT NULL,
			position     INT  NOT NULL,
			item_name    TEXT NOT NULL,
			unit         TEXT NOT NULL DEFAULT '',
			batch        TEXT NOT NULL,
			exp_dt       TEXT NOT NULL DEFAULT '',
			mrp          TEXT NOT NULL DEFAULT '',
			ptr          TEXT NOT NULL DEFAULT '',
			gst_percent  TEXT NOT NULL DEFAULT '0',
			qty          TEXT NOT NULL DEFAULT '0',
			added_at     TEXT NOT NULL DEFAULT '',
			last_updated TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (item_key, batch_key)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure lots schema: %w", err)
	}
	return nil
}

func (s *Store) LoadLots(ctx context.Context) ([]domain.LotRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT item_name, unit, batch, exp_dt, mrp, ptr, gst_percent, qty, added_at, last_updated
		FROM lots
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreRead, err)
	}
	defer rows.Close()

	lots := make([]domain.LotRecord, 0, 64)
	for rows.Next() {
		var rec domain.LotRecord
		if err := rows.Scan(&rec.ItemName, &rec.Unit, &rec.Batch, &rec.ExpDt, &rec.MRP, &rec.PTR, &rec.GSTPercent, &rec.Qty, &rec.AddedAt, &rec.LastUpdated); err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrStoreRead, err)
		}
		lots = append(lots, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrStoreRead, err)
	}
	return lots, nil
}

// ReplaceLots rewrites the whole table in one transaction, mirroring the
// flat file's whole-buffer replace. Commit volume is human entry speed, so
// the full rewrite stays cheap.
func (s *Store) ReplaceLots(ctx context.Context, lots []domain.LotRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lots`); err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
	}
	for i, rec := range lots {
		itemKey, batchKey := lot.Key(rec.ItemName, rec.Batch)
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lots (item_key, batch_key, position, item_name, unit, batch, exp_dt, mrp, ptr, gst_percent, qty, added_at, last_updated)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`, itemKey, batchKey, i, rec.ItemName, rec.Unit, rec.Batch, rec.ExpDt, rec.MRP, rec.PTR, rec.GSTPercent, rec.Qty, rec.AddedAt, rec.LastUpdated)
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreWrite, err)
	}
	return nil
}
