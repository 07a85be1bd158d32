// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZoom_ClampsAtMax(t *testing.T) {
	z := NewZoom(DefaultZoomOptions())
	for i := 0; i < 4; i++ {
		z.ZoomIn()
	}
	assert.Equal(t, 2.0, z.Value())
	assert.False(t, z.CanZoomIn())
	assert.True(t, z.CanZoomOut())

	z.ZoomIn()
	assert.Equal(t, 2.0, z.Value())
}

func TestZoom_ClampsAtMin(t *testing.T) {
	z := NewZoom(DefaultZoomOptions())
	for i := 0; i < 6; i++ {
		z.ZoomOut()
	}
	assert.Equal(t, 0.5, z.Value())
	assert.False(t, z.CanZoomOut())
	assert.True(t, z.CanZoomIn())
}

func TestZoom_ResetAndSet(t *testing.T) {
	z := NewZoom(ZoomOptions{})
	z.ZoomIn()
	assert.Equal(t, 1.25, z.Value())
	assert.Equal(t, 125, z.Percentage())

	assert.Equal(t, 1.0, z.Reset())
	assert.Equal(t, 2.0, z.Set(7))
	assert.Equal(t, 0.5, z.Set(0.1))
	assert.Equal(t, 0.5, z.Set(math.NaN()))
	assert.Equal(t, 1.75, z.Set(1.75))

	assert.Equal(t, ZoomState{Value: 1.75, Percentage: 175, CanZoomIn: true, CanZoomOut: true}, z.State())
}

func TestZoom_NoFloatDrift(t *testing.T) {
	z := NewZoom(ZoomOptions{Min: 0.1, Max: 3, Step: 0.1, Initial: 1})
	for i := 0; i < 3; i++ {
		z.ZoomIn()
	}
	assert.Equal(t, 1.3, z.Value())
}

func TestZoomOptions_Normalized(t *testing.T) {
	opts := ZoomOptions{Min: 1, Max: 0.5, Initial: 9}.normalized()
	assert.Equal(t, 1.0, opts.Max)
	assert.Equal(t, 1.0, opts.Initial)
	assert.Equal(t, 0.25, opts.Step)
}

func TestZoomOptions_ZeroValueTakesDefaults(t *testing.T) {
	assert.Equal(t, DefaultZoomOptions(), ZoomOptions{}.normalized())

	opts := ZoomOptions{Min: 0.25}.normalized()
	assert.Equal(t, 0.25, opts.Min)
	assert.Equal(t, 2.0, opts.Max, "unset max keeps the default ceiling")
}
