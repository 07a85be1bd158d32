// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package storage

import (
	"context"
	"errors"
	"time"

	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/metrics"
	"github.com/rs/zerolog"
)

type instrumented struct {
	backend string
	next    Store
	logger  zerolog.Logger
}

// Instrument wraps s so every call is counted, timed and, on failure, logged.
func Instrument(backend string, s Store) Store {
	return &instrumented{
		backend: backend,
		next:    s,
		logger:  xglog.WithComponent("storage").With().Str(xglog.FieldBackend, backend).Logger(),
	}
}

func (i *instrumented) observe(ctx context.Context, op, key string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		outcome = "not_found"
	default:
		outcome = "error"
		logger := xglog.WithContext(ctx, i.logger)
		logger.Warn().
			Err(err).
			Str("op", op).
			Str(xglog.FieldKey, key).
			Str(xglog.FieldEvent, "storage.op_failed").
			Msg("storage operation failed")
	}
	metrics.RecordStorageOp(i.backend, op, outcome, time.Since(start))
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := i.next.Get(ctx, key)
	i.observe(ctx, "get", key, start, err)
	return v, err
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := i.next.Put(ctx, key, value)
	i.observe(ctx, "put", key, start, err)
	return err
}

func (i *instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := i.next.Delete(ctx, key)
	i.observe(ctx, "delete", key, start, err)
	return err
}

// Ping forwards to the wrapped store when it supports health checks.
func (i *instrumented) Ping(ctx context.Context) error {
	if p, ok := i.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (i *instrumented) Close() error { return i.next.Close() }
