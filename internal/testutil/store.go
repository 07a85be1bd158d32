// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package testutil

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/ManuGH/flipbook/internal/storage"
)

// ErrInjected is returned by FaultyStore while failing.
var ErrInjected = errors.New("injected storage failure")

// FaultyStore wraps a store and fails reads and/or writes on demand.
type FaultyStore struct {
	storage.Store
	failGets atomic.Bool
	failPuts atomic.Bool

	mu   sync.Mutex
	puts int
}

// NewFaultyStore wraps an in-memory store.
func NewFaultyStore() *FaultyStore {
	return &FaultyStore{Store: storage.NewMemoryStore()}
}

func (f *FaultyStore) FailGets(v bool) { f.failGets.Store(v) }
func (f *FaultyStore) FailPuts(v bool) { f.failPuts.Store(v) }

func (f *FaultyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failGets.Load() {
		return nil, ErrInjected
	}
	return f.Store.Get(ctx, key)
}

func (f *FaultyStore) Put(ctx context.Context, key string, value []byte) error {
	if f.failPuts.Load() {
		return ErrInjected
	}
	f.mu.Lock()
	f.puts++
	f.mu.Unlock()
	return f.Store.Put(ctx, key, value)
}

func (f *FaultyStore) Delete(ctx context.Context, key string) error {
	if f.failPuts.Load() {
		return ErrInjected
	}
	return f.Store.Delete(ctx, key)
}

// Puts reports how many writes succeeded.
func (f *FaultyStore) Puts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.puts
}
