// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ManuGH/flipbook/internal/config"
	"github.com/ManuGH/flipbook/internal/log"
	"github.com/rs/zerolog"
)

// PerformStartupChecks validates the environment before starting the server.
func PerformStartupChecks(ctx context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("running pre-flight startup checks")

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}
	if err := checkWritableDir(cfg.DataDir); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}
	logger.Info().Str(log.FieldPath, cfg.DataDir).Msg("data directory is writable")

	warnVolatileSetup(logger, cfg)

	if err := ctx.Err(); err != nil {
		return err
	}
	logger.Info().Msg("all startup checks passed")
	return nil
}

// warnVolatileSetup logs configurations that lose analytics or hotspot
// edits on restart.
func warnVolatileSetup(logger zerolog.Logger, cfg config.AppConfig) {
	if strings.EqualFold(cfg.Storage.Backend, "memory") {
		logger.Warn().
			Str("store_backend", cfg.Storage.Backend).
			Msg("in-memory store; analytics and hotspot edits are lost on restart")
	}

	tempDir := filepath.Clean(os.TempDir())
	dataDir := filepath.Clean(cfg.DataDir)
	if tempDir != "." && (dataDir == tempDir || strings.HasPrefix(dataDir, tempDir+string(filepath.Separator))) {
		logger.Warn().
			Str("data_dir", cfg.DataDir).
			Msg("data directory is under temp; stored data may be lost on reboot")
	}

	if cfg.Viewer.SystemClipboard {
		logger.Warn().Msg("system clipboard enabled; share links are copied on the server host")
	}
}
