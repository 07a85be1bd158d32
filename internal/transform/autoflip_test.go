// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package transform

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/ManuGH/flipbook/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePager struct {
	mu      sync.Mutex
	current int
	n       int
	nexts   int
}

func (p *fakePager) CurrentIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *fakePager) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.n
}

func (p *fakePager) Next() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current >= p.n-1 {
		return false
	}
	p.current++
	p.nexts++
	return true
}

func (p *fakePager) advances() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.nexts
}

const waitFor = 2 * time.Second
const pollEvery = 5 * time.Millisecond

func waitIndex(t *testing.T, p *fakePager, want int) {
	t.Helper()
	require.Eventually(t, func() bool { return p.CurrentIndex() == want }, waitFor, pollEvery)
}

func TestAutoFlip_AdvancesOnEachTick(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := &fakePager{n: 5}
	af := NewAutoFlip(p, time.Second, clk)
	defer af.Close()

	require.True(t, af.Start())
	assert.True(t, af.IsPlaying())

	for want := 1; want <= 3; want++ {
		clk.Advance(time.Second)
		waitIndex(t, p, want)
	}
}

func TestAutoFlip_StopsAtLastPageWithoutAdvancing(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := &fakePager{n: 10, current: 9}
	af := NewAutoFlip(p, time.Second, clk)
	defer af.Close()

	require.True(t, af.Start())
	clk.Advance(time.Second)

	require.Eventually(t, func() bool { return !af.IsPlaying() }, waitFor, pollEvery)
	assert.Equal(t, 9, p.CurrentIndex())
	assert.Zero(t, p.advances())
	require.Eventually(t, func() bool { return clk.ActiveTickers() == 0 }, waitFor, pollEvery)
}

func TestAutoFlip_RunsToEndThenStops(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := &fakePager{n: 3}
	af := NewAutoFlip(p, time.Second, clk)
	defer af.Close()

	af.Start()
	clk.Advance(time.Second)
	waitIndex(t, p, 1)
	clk.Advance(time.Second)
	waitIndex(t, p, 2)
	assert.True(t, af.IsPlaying())

	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return !af.IsPlaying() }, waitFor, pollEvery)
	assert.Equal(t, 2, p.CurrentIndex())

	// A new run can be started after an automatic stop.
	p.mu.Lock()
	p.current = 0
	p.mu.Unlock()
	require.True(t, af.Start())
	clk.Advance(time.Second)
	waitIndex(t, p, 1)
}

func TestAutoFlip_StartStopIdempotent(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := &fakePager{n: 5}
	af := NewAutoFlip(p, time.Second, clk)
	defer af.Close()

	af.Stop() // stopped already
	assert.True(t, af.Start())
	assert.False(t, af.Start())
	assert.Equal(t, 1, clk.ActiveTickers())

	af.Stop()
	af.Stop()
	assert.False(t, af.IsPlaying())
	assert.Equal(t, 0, clk.ActiveTickers())

	clk.Advance(5 * time.Second)
	assert.Equal(t, 0, p.CurrentIndex())
}

func TestAutoFlip_Toggle(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	af := NewAutoFlip(&fakePager{n: 5}, 0, clk)
	defer af.Close()

	assert.Equal(t, DefaultAutoFlipInterval, af.Interval())
	assert.True(t, af.Toggle())
	assert.False(t, af.Toggle())
	assert.True(t, af.Toggle())
}

func TestAutoFlip_IntervalChangeAppliesFromNextTick(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := &fakePager{n: 10}
	af := NewAutoFlip(p, time.Second, clk)
	defer af.Close()

	af.Start()
	clk.Advance(time.Second)
	waitIndex(t, p, 1)

	af.SetInterval(5 * time.Second)
	assert.Equal(t, 5*time.Second, af.Interval())

	// The tick already scheduled under the old interval still fires.
	clk.Advance(time.Second)
	waitIndex(t, p, 2)

	clk.Advance(4 * time.Second)
	assert.Never(t, func() bool { return p.CurrentIndex() != 2 }, 50*time.Millisecond, pollEvery)

	clk.Advance(time.Second)
	waitIndex(t, p, 3)
}

func TestAutoFlip_CloseRefusesStart(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	p := &fakePager{n: 5}
	af := NewAutoFlip(p, time.Second, clk)

	af.Start()
	af.Close()
	assert.False(t, af.IsPlaying())
	assert.False(t, af.Start())

	clk.Advance(10 * time.Second)
	assert.Equal(t, 0, p.CurrentIndex())
	assert.Equal(t, 0, clk.ActiveTickers())
	af.Close()
}

func TestAutoFlip_EmptyPager(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	af := NewAutoFlip(&fakePager{}, time.Second, clk)
	defer af.Close()

	af.Start()
	clk.Advance(time.Second)
	require.Eventually(t, func() bool { return !af.IsPlaying() }, waitFor, pollEvery)
}

func TestAutoFlip_IntervalIsCapped(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	af := NewAutoFlip(&fakePager{n: 3}, 48*time.Hour, clk)
	defer af.Close()
	assert.Equal(t, MaxAutoFlipInterval, af.Interval())

	af.SetInterval(time.Second)
	af.SetInterval(time.Duration(math.MaxInt64))
	assert.Equal(t, MaxAutoFlipInterval, af.Interval())
}
