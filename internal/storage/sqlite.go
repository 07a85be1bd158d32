// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/persistence/sqlite"
)

const kvSchemaVersion = 1

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
	k TEXT PRIMARY KEY,
	v BLOB NOT NULL,
	updated_at_ms INTEGER NOT NULL
);
`

// SQLiteStore keeps values in a single kv table.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path. An existing file
// is integrity-checked first; problems are logged, not fatal.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if _, err := os.Stat(path); err == nil {
		if issues, verr := sqlite.VerifyIntegrity(path, "quick"); verr != nil || issues != nil {
			logger := xglog.WithComponent("storage")
			logger.Warn().
				Err(verr).
				Strs("issues", issues).
				Str(xglog.FieldPath, path).
				Str(xglog.FieldEvent, "storage.integrity_check_failed").
				Msg("sqlite integrity check reported problems")
		}
	}

	db, err := sqlite.Open(path, sqlite.DefaultConfig())
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(ctx, db, kvSchemaVersion, kvSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("kv store: migration failed: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO kv (k, v, updated_at_ms) VALUES (?, ?, ?)
	ON CONFLICT(k) DO UPDATE SET
		v = excluded.v,
		updated_at_ms = excluded.updated_at_ms
	`, key, value, time.Now().UnixMilli())
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key)
	return err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
