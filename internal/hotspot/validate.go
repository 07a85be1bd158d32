// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package hotspot

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid interactive config")

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

const percentEpsilon = 1e-9

// ValidateHotspot checks a single hotspot.
func ValidateHotspot(h Hotspot) error {
	if p := hotspotProblems(h, ""); len(p) > 0 {
		return &ValidationError{Problems: p}
	}
	return nil
}

// ValidateConfig checks a whole configuration.
func ValidateConfig(c Config) error {
	var problems []string
	if strings.TrimSpace(c.DocumentID) == "" {
		problems = append(problems, "documentId is required")
	}
	if c.Version < 1 {
		problems = append(problems, fmt.Sprintf("version must be >= 1, got %d", c.Version))
	}
	seen := make(map[string]struct{}, len(c.Hotspots))
	for i, h := range c.Hotspots {
		prefix := fmt.Sprintf("hotspots[%d]: ", i)
		problems = append(problems, hotspotProblems(h, prefix)...)
		if h.ID == "" {
			continue
		}
		if _, dup := seen[h.ID]; dup {
			problems = append(problems, prefix+fmt.Sprintf("duplicate id %q", h.ID))
		}
		seen[h.ID] = struct{}{}
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func hotspotProblems(h Hotspot, prefix string) []string {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, prefix+fmt.Sprintf(format, args...))
	}
	if strings.TrimSpace(h.ID) == "" {
		add("id is required")
	}
	if h.PageNumber < 1 {
		add("pageNumber must be >= 1, got %d", h.PageNumber)
	}
	if h.Action == nil {
		add("action is required")
	}
	p := h.Position
	for _, f := range []struct {
		name string
		v    float64
	}{{"x", p.X}, {"y", p.Y}, {"width", p.Width}, {"height", p.Height}} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 100 {
			add("position.%s must be within 0-100, got %v", f.name, f.v)
		}
	}
	if p.X+p.Width > 100+percentEpsilon || p.Y+p.Height > 100+percentEpsilon {
		add("position extends beyond the page")
	}
	return problems
}
