// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package storage

import (
	"context"
	"errors"
	"time"

	"github.com/ManuGH/flipbook/internal/resilience"
)

const (
	breakerThreshold    = 5
	breakerResetTimeout = 15 * time.Second
)

type guarded struct {
	next    Store
	breaker *resilience.CircuitBreaker
}

// Guard fails calls to s fast with resilience.ErrCircuitOpen after
// repeated errors. A missing key is not an error here.
func Guard(name string, s Store, opts ...resilience.Option) Store {
	opts = append([]resilience.Option{
		resilience.WithFailurePredicate(func(err error) bool { return !errors.Is(err, ErrNotFound) }),
	}, opts...)
	return &guarded{
		next:    s,
		breaker: resilience.NewCircuitBreaker(name, breakerThreshold, breakerResetTimeout, opts...),
	}
}

func (g *guarded) Get(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := g.breaker.Execute(func() error {
		var err error
		v, err = g.next.Get(ctx, key)
		return err
	})
	return v, err
}

func (g *guarded) Put(ctx context.Context, key string, value []byte) error {
	return g.breaker.Execute(func() error { return g.next.Put(ctx, key, value) })
}

func (g *guarded) Delete(ctx context.Context, key string) error {
	return g.breaker.Execute(func() error { return g.next.Delete(ctx, key) })
}

// Ping bypasses the breaker so health checks see the real backend state.
func (g *guarded) Ping(ctx context.Context) error {
	if p, ok := g.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (g *guarded) Close() error { return g.next.Close() }
