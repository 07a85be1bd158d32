// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package transform

import (
	"sync"
	"time"

	"github.com/ManuGH/flipbook/internal/clock"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/metrics"
	"github.com/rs/zerolog"
)

const (
	// DefaultAutoFlipInterval is used when no interval is configured.
	DefaultAutoFlipInterval = 3 * time.Second
	// MaxAutoFlipInterval caps the interval; longer values are clamped.
	MaxAutoFlipInterval = 24 * time.Hour
)

// Pager is the navigation surface AutoFlip drives.
type Pager interface {
	CurrentIndex() int
	Len() int
	Next() bool
}

// AutoFlip advances a Pager on a fixed interval. It owns at most one ticker
// and one goroutine; both exist only between Start and the matching stop.
//
// The Pager is called with the AutoFlip lock held, so it must not call back
// into the AutoFlip.
type AutoFlip struct {
	mu       sync.Mutex
	pager    Pager
	clk      clock.Clock
	interval time.Duration
	pending  bool // interval changed since the ticker was armed
	playing  bool
	closed   bool
	stop     chan struct{}
	done     chan struct{}
	logger   zerolog.Logger
}

// NewAutoFlip creates a stopped AutoFlip. A nil clock uses wall time.
func NewAutoFlip(pager Pager, interval time.Duration, clk clock.Clock) *AutoFlip {
	if clk == nil {
		clk = clock.Real{}
	}
	if interval <= 0 {
		interval = DefaultAutoFlipInterval
	}
	interval = min(interval, MaxAutoFlipInterval)
	return &AutoFlip{
		pager:    pager,
		clk:      clk,
		interval: interval,
		logger:   xglog.WithComponent("autoflip"),
	}
}

// Start begins playback. It reports false if already playing or closed.
func (a *AutoFlip) Start() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.playing {
		return false
	}

	ticker := a.clk.NewTicker(a.interval)
	stop := make(chan struct{})
	done := make(chan struct{})
	a.playing = true
	a.pending = false
	a.stop = stop
	a.done = done

	go a.run(ticker, stop, done)

	a.logger.Debug().
		Str(xglog.FieldEvent, "autoflip.started").
		Dur("interval", a.interval).
		Msg("auto-flip started")
	return true
}

// Stop ends playback and waits for the ticker goroutine to exit. It is a
// no-op when not playing.
func (a *AutoFlip) Stop() {
	a.halt("user")
}

// Toggle starts or stops playback and returns the new playing state.
func (a *AutoFlip) Toggle() bool {
	if a.IsPlaying() {
		a.Stop()
		return false
	}
	return a.Start()
}

// Close stops playback for good. Later calls to Start are refused.
func (a *AutoFlip) Close() {
	a.mu.Lock()
	a.closed = true
	a.mu.Unlock()
	a.halt("closed")

	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (a *AutoFlip) halt(reason string) {
	a.mu.Lock()
	if !a.playing {
		a.mu.Unlock()
		return
	}
	a.playing = false
	close(a.stop)
	done := a.done
	a.mu.Unlock()

	<-done
	metrics.IncAutoFlipStop(reason)
	a.logger.Debug().
		Str(xglog.FieldEvent, "autoflip.stopped").
		Str("reason", reason).
		Msg("auto-flip stopped")
}

// SetInterval changes the period. While playing the new period is applied
// when the next tick fires.
func (a *AutoFlip) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	d = min(d, MaxAutoFlipInterval)
	a.mu.Lock()
	defer a.mu.Unlock()
	if d == a.interval {
		return
	}
	a.interval = d
	if a.playing {
		a.pending = true
	}
}

func (a *AutoFlip) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

func (a *AutoFlip) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

func (a *AutoFlip) run(ticker clock.Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !a.tick(ticker) {
				return
			}
		}
	}
}

// tick advances one page. At the last page playback ends instead.
func (a *AutoFlip) tick(ticker clock.Ticker) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.playing {
		return false
	}
	if a.pending {
		ticker.Reset(a.interval)
		a.pending = false
	}

	n := a.pager.Len()
	if n == 0 || a.pager.CurrentIndex() >= n-1 || !a.pager.Next() {
		a.playing = false
		metrics.IncAutoFlipStop("end")
		a.logger.Debug().
			Str(xglog.FieldEvent, "autoflip.reached_end").
			Int(xglog.FieldPageCount, n).
			Msg("auto-flip reached last page")
		return false
	}
	metrics.IncAutoFlipTick()
	return true
}
