// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package sqlite

import (
	"context"
	"crypto/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `CREATE TABLE IF NOT EXISTS kv (k TEXT PRIMARY KEY, v BLOB NOT NULL);`

func TestOpen_AppliesWAL(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "wal.sqlite"), DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", strings.ToLower(mode))
}

func TestMigrate_Idempotent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "m.sqlite"), DefaultConfig())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db, 1, testSchema))
	_, err = db.Exec("INSERT INTO kv (k, v) VALUES ('a', x'01')")
	require.NoError(t, err)

	require.NoError(t, Migrate(ctx, db, 1, testSchema))
	v, err := UserVersion(ctx, db)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestVerifyIntegrity_DetectsCorruption(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "corruptible.sqlite")

	db, err := Open(dbPath, DefaultConfig())
	require.NoError(t, err)
	_, err = db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, data TEXT);")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		_, _ = db.Exec("INSERT INTO test (data) VALUES (printf('%.100c', 'A'));")
	}
	_, _ = db.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	require.NoError(t, db.Close())

	issues, err := VerifyIntegrity(dbPath, "quick")
	require.NoError(t, err)
	require.Nil(t, issues)

	f, err := os.OpenFile(dbPath, os.O_RDWR, 0o644)
	require.NoError(t, err)
	junk := make([]byte, 100)
	_, _ = rand.Read(junk)
	_, err = f.WriteAt(junk, 4096)
	require.NoError(t, f.Close())
	require.NoError(t, err)

	issues, err = VerifyIntegrity(dbPath, "full")
	if err != nil {
		// A corrupted page can also surface as a query error.
		return
	}
	assert.NotEmpty(t, issues)
}
