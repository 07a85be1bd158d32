// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/ManuGH/flipbook/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail() error    { return errBoom }
func succeed() error { return nil }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	cb := NewCircuitBreaker("test", 3, 10*time.Second, WithClock(clk))

	for i := 0; i < 2; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errBoom)
	}
	assert.Equal(t, StateClosed, cb.State())

	assert.ErrorIs(t, cb.Execute(fail), errBoom)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, time.Second)

	assert.Error(t, cb.Execute(fail))
	assert.NoError(t, cb.Execute(succeed))
	assert.Error(t, cb.Execute(fail))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbe(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	cb := NewCircuitBreaker("test", 1, 10*time.Second, WithClock(clk))

	require.Error(t, cb.Execute(fail))
	require.Equal(t, StateOpen, cb.State())

	clk.Advance(10 * time.Second)
	require.Error(t, cb.Execute(fail), "failed probe")
	assert.Equal(t, StateOpen, cb.State())

	clk.Advance(10 * time.Second)
	require.NoError(t, cb.Execute(succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_SingleProbe(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	cb := NewCircuitBreaker("test", 1, time.Second, WithClock(clk))
	require.Error(t, cb.Execute(fail))
	clk.Advance(time.Second)

	err := cb.Execute(func() error {
		assert.Equal(t, StateHalfOpen, cb.State())
		assert.ErrorIs(t, cb.Execute(succeed), ErrCircuitOpen, "second caller waits for the probe")
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_FailurePredicate(t *testing.T) {
	notFound := errors.New("not found")
	cb := NewCircuitBreaker("test", 1, time.Second, WithFailurePredicate(func(err error) bool {
		return !errors.Is(err, notFound)
	}))

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return notFound }), notFound)
	}
	assert.Equal(t, StateClosed, cb.State())
}
