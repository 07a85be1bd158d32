// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package storage is the durable key-value port used for analytics logs
// and hotspot configurations. Values are opaque bytes, usually JSON.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a flat key-value store. Implementations are safe for
// concurrent use; concurrent read-modify-write cycles are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Pinger is implemented by stores that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Backend names.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend string
	Dir     string
	Redis   RedisConfig
}

// Open creates the configured store wrapped with metrics and logging.
// An empty backend selects sqlite when Dir is set and memory otherwise.
func Open(ctx context.Context, cfg Config) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = BackendSQLite
		if cfg.Dir == "" {
			backend = BackendMemory
		}
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("storage: %s backend requires a data directory", backend)
		}
		s, err = NewFileStore(filepath.Join(cfg.Dir, "kv"))
	case BackendSQLite:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("storage: %s backend requires a data directory", backend)
		}
		s, err = NewSQLiteStore(ctx, filepath.Join(cfg.Dir, "flipbook.sqlite"))
	case BackendBadger:
		if cfg.Dir == "" {
			return nil, fmt.Errorf("storage: %s backend requires a data directory", backend)
		}
		s, err = NewBadgerStore(filepath.Join(cfg.Dir, "badger"))
	case BackendRedis:
		var rs *RedisStore
		if rs, err = NewRedisStore(ctx, cfg.Redis); err == nil {
			s = Guard("storage."+backend, rs)
		}
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: memory, file, sqlite, badger, redis)", backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(backend, s), nil
}

// GetJSON reads key and decodes it into v.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// PutJSON encodes v and writes it under key.
func PutJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}
