// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/flipbook/internal/testutil"
	"github.com/ManuGH/flipbook/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsOnly(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("FLIPBOOK_DATA_DIR", dataDir)

	cfg, err := NewLoader("", "1.2.3").Load()
	require.NoError(t, err)

	want := Default()
	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, dataDir, cfg.DataDir)
	assert.Equal(t, want.Server, cfg.Server)
	assert.Equal(t, want.Viewer, cfg.Viewer)
	assert.Equal(t, want.Cache, cfg.Cache)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, "config.yaml", `
dataDir: `+dataDir+`
logLevel: debug
server:
  listen: "127.0.0.1:9090"
viewer:
  autoFlipInterval: 5s
  zoom:
    min: 0.25
    max: 4
    step: 0.5
    initial: 1
`)
	cfg, err := NewLoader(path, "dev").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Listen)
	assert.Equal(t, 5*time.Second, cfg.Viewer.AutoFlipInterval)
	assert.InDelta(t, 4.0, cfg.Viewer.Zoom.Max, 1e-9)
	// Untouched sections keep their defaults.
	assert.Equal(t, Default().Document, cfg.Document)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfig(t, "config.yml", "dataDir: "+dataDir+"\nlogLevel: debug\n")
	t.Setenv("FLIPBOOK_LOG_LEVEL", "warn")
	t.Setenv("FLIPBOOK_AUTOFLIP_INTERVAL", "1500ms")
	t.Setenv("FLIPBOOK_CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("FLIPBOOK_CACHE_BACKEND", "none")

	l := NewLoader(path, "dev")
	cfg, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 1500*time.Millisecond, cfg.Viewer.AutoFlipInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "none", cfg.Cache.Backend)
	assert.Contains(t, l.ConsumedEnvKeys, "FLIPBOOK_LOG_LEVEL")
	assert.Contains(t, l.ConsumedEnvKeys, "FLIPBOOK_CACHE_REDIS_ADDR")
}

func TestLoad_StrictParsing(t *testing.T) {
	t.Setenv("FLIPBOOK_DATA_DIR", t.TempDir())

	t.Run("unknown field", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "viewer:\n  zoomLevel: 3\n")
		_, err := NewLoader(path, "dev").Load()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnknownConfigField)
	})

	t.Run("multiple documents", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "logLevel: info\n---\nlogLevel: debug\n")
		_, err := NewLoader(path, "dev").Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple documents")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfig(t, "config.json", "{}")
		_, err := NewLoader(path, "dev").Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only YAML supported")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeConfig(t, "config.yaml", "")
		_, err := NewLoader(path, "dev").Load()
		require.NoError(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml"), "dev").Load()
		require.Error(t, err)
	})
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Setenv("FLIPBOOK_DATA_DIR", t.TempDir())
	t.Setenv("FLIPBOOK_ZOOM_INITIAL", "9")

	_, err := NewLoader("", "dev").Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, validate.ErrInvalid)
	assert.Contains(t, err.Error(), "viewer.zoom.initial")
}

func TestExampleConfigLoads(t *testing.T) {
	t.Setenv("FLIPBOOK_DATA_DIR", t.TempDir())

	cfg, err := NewLoader(testutil.ExampleConfigPath(t), "dev").Load()
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Server, cfg.Server)
	assert.Equal(t, def.Viewer, cfg.Viewer)
	assert.Equal(t, def.Storage, cfg.Storage)
}
