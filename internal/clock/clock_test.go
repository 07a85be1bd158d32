// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFake_AdvanceFiresTicker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	fc := NewFake(start)
	tk := fc.NewTicker(time.Second)

	fc.Advance(500 * time.Millisecond)
	select {
	case <-tk.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	fc.Advance(500 * time.Millisecond)
	select {
	case got := <-tk.C():
		assert.Equal(t, start.Add(time.Second), got)
	default:
		t.Fatal("ticker did not fire")
	}
}

func TestFake_StopAndReset(t *testing.T) {
	fc := NewFake(time.Unix(0, 0))
	tk := fc.NewTicker(time.Second)
	require.Equal(t, 1, fc.ActiveTickers())

	tk.Stop()
	assert.Equal(t, 0, fc.ActiveTickers())
	fc.Advance(5 * time.Second)
	select {
	case <-tk.C():
		t.Fatal("stopped ticker fired")
	default:
	}

	tk.Reset(2 * time.Second)
	fc.Advance(time.Second)
	select {
	case <-tk.C():
		t.Fatal("reset ticker fired early")
	default:
	}
	fc.Advance(time.Second)
	select {
	case <-tk.C():
	default:
		t.Fatal("reset ticker did not fire")
	}
}

func TestReal_NowMovesForward(t *testing.T) {
	c := Real{}
	a := c.Now()
	b := c.Now()
	assert.False(t, b.Before(a))
}
