// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package transform

import (
	"math"
	"sync"
)

// Size is a width/height pair in CSS pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SizeOptions constrain Fit.
type SizeOptions struct {
	AspectRatio float64 `yaml:"aspect_ratio" json:"aspectRatio"` // width / height
	MaxWidth    int     `yaml:"max_width" json:"maxWidth"`
	MaxHeight   int     `yaml:"max_height" json:"maxHeight"`
	// Padding is kept free on each side. Zero takes the default, a
	// negative value disables padding.
	Padding int `yaml:"padding" json:"padding"`
}

// DefaultSizeOptions returns the A-series ratio (landscape) with a 1200x800
// ceiling and 40px padding.
func DefaultSizeOptions() SizeOptions {
	return SizeOptions{AspectRatio: 1.414, MaxWidth: 1200, MaxHeight: 800, Padding: 40}
}

// InitialSize is reported before the first container measurement.
var InitialSize = Size{Width: 600, Height: 424}

func (o SizeOptions) normalized() SizeOptions {
	d := DefaultSizeOptions()
	if o.AspectRatio <= 0 {
		o.AspectRatio = d.AspectRatio
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = d.MaxWidth
	}
	if o.MaxHeight <= 0 {
		o.MaxHeight = d.MaxHeight
	}
	switch {
	case o.Padding == 0:
		o.Padding = d.Padding
	case o.Padding < 0:
		o.Padding = 0
	}
	return o
}

// Fit returns the largest size with the configured aspect ratio that fits
// inside container minus padding on each side and within the max bounds.
func Fit(container Size, opts SizeOptions) Size {
	opts = opts.normalized()
	cw := float64(container.Width - 2*opts.Padding)
	ch := float64(container.Height - 2*opts.Padding)

	width := math.Min(cw, float64(opts.MaxWidth))
	height := width / opts.AspectRatio

	if limit := math.Min(ch, float64(opts.MaxHeight)); height > limit {
		height = limit
		width = height * opts.AspectRatio
	}

	return Size{
		Width:  max(0, int(math.Floor(width))),
		Height: max(0, int(math.Floor(height))),
	}
}

// Sizer caches the fitted size and recomputes it only when the observed
// container changes.
type Sizer struct {
	mu        sync.Mutex
	opts      SizeOptions
	container Size
	observed  bool
	size      Size
}

// NewSizer creates a sizer reporting InitialSize until the first Observe.
func NewSizer(opts SizeOptions) *Sizer {
	return &Sizer{opts: opts.normalized(), size: InitialSize}
}

// Observe reports a container measurement. It returns the fitted size and
// whether it was recomputed.
func (s *Sizer) Observe(width, height int) (Size, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := Size{Width: width, Height: height}
	if s.observed && c == s.container {
		return s.size, false
	}
	s.container = c
	s.observed = true
	s.size = Fit(c, s.opts)
	return s.size, true
}

// Size returns the last fitted size.
func (s *Sizer) Size() Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Zoomed scales the fitted size by a zoom factor.
func (s *Sizer) Zoomed(zoom float64) Size {
	sz := s.Size()
	return Size{
		Width:  int(math.Floor(float64(sz.Width) * zoom)),
		Height: int(math.Floor(float64(sz.Height) * zoom)),
	}
}
