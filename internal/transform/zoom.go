// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package transform holds the per-viewer view transforms: zoom, timed
// auto-advance and container-driven sizing. The units share no state.
package transform

import (
	"math"
	"sync"
)

// ZoomOptions bounds a Zoom.
type ZoomOptions struct {
	Min     float64 `yaml:"min" json:"min"`
	Max     float64 `yaml:"max" json:"max"`
	Step    float64 `yaml:"step" json:"step"`
	Initial float64 `yaml:"initial" json:"initial"`
}

// DefaultZoomOptions returns {min 0.5, max 2.0, step 0.25, initial 1.0}.
func DefaultZoomOptions() ZoomOptions {
	return ZoomOptions{Min: 0.5, Max: 2.0, Step: 0.25, Initial: 1.0}
}

func (o ZoomOptions) normalized() ZoomOptions {
	d := DefaultZoomOptions()
	if o.Min <= 0 {
		o.Min = d.Min
	}
	if o.Max <= 0 {
		o.Max = d.Max
	}
	if o.Max < o.Min {
		o.Max = o.Min
	}
	if o.Step <= 0 {
		o.Step = d.Step
	}
	if o.Initial == 0 {
		o.Initial = d.Initial
	}
	o.Initial = math.Min(math.Max(o.Initial, o.Min), o.Max)
	return o
}

// ZoomState is a snapshot of a Zoom.
type ZoomState struct {
	Value      float64 `json:"value"`
	Percentage int     `json:"percentage"`
	CanZoomIn  bool    `json:"canZoomIn"`
	CanZoomOut bool    `json:"canZoomOut"`
}

// Zoom is a clamped scale factor.
type Zoom struct {
	mu    sync.Mutex
	opts  ZoomOptions
	value float64
}

// NewZoom creates a zoom at opts.Initial. Zero fields take defaults.
func NewZoom(opts ZoomOptions) *Zoom {
	opts = opts.normalized()
	return &Zoom{opts: opts, value: opts.Initial}
}

// ZoomIn steps up, clamped to Max.
func (z *Zoom) ZoomIn() float64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.value = z.clamp(z.value + z.opts.Step)
	return z.value
}

// ZoomOut steps down, clamped to Min.
func (z *Zoom) ZoomOut() float64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.value = z.clamp(z.value - z.opts.Step)
	return z.value
}

// Reset returns to the initial value.
func (z *Zoom) Reset() float64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	z.value = z.opts.Initial
	return z.value
}

// Set jumps to level, clamped to [Min, Max].
func (z *Zoom) Set(level float64) float64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	if math.IsNaN(level) {
		return z.value
	}
	z.value = z.clamp(level)
	return z.value
}

func (z *Zoom) Value() float64 {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.value
}

func (z *Zoom) CanZoomIn() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.value < z.opts.Max
}

func (z *Zoom) CanZoomOut() bool {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.value > z.opts.Min
}

// Percentage is the value as a rounded percent, e.g. 125.
func (z *Zoom) Percentage() int {
	return int(math.Round(z.Value() * 100))
}

func (z *Zoom) State() ZoomState {
	z.mu.Lock()
	defer z.mu.Unlock()
	return ZoomState{
		Value:      z.value,
		Percentage: int(math.Round(z.value * 100)),
		CanZoomIn:  z.value < z.opts.Max,
		CanZoomOut: z.value > z.opts.Min,
	}
}

// Options returns the effective bounds.
func (z *Zoom) Options() ZoomOptions { return z.opts }

// clamp also snaps away float drift so repeated steps land on exact values.
func (z *Zoom) clamp(v float64) float64 {
	v = math.Round(v*1e6) / 1e6
	return math.Min(math.Max(v, z.opts.Min), z.opts.Max)
}
