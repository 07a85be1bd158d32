// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package flipbook

import (
	"math"

	"github.com/ManuGH/flipbook/internal/document"
)

// DefaultRadius is the number of pages rendered on each side of the cursor.
const DefaultRadius = 2

// Slot is one position in the render window: either a real page or a
// placeholder that only carries the page number for layout.
type Slot struct {
	Index       int            `json:"index"`
	PageNumber  int            `json:"pageNumber"`
	Placeholder bool           `json:"placeholder"`
	Page        *document.Page `json:"page,omitempty"`
}

// WindowStats summarises how much of the document is instantiated.
type WindowStats struct {
	Loaded     int `json:"loaded"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// RenderWindow is the result of ComputeWindow. It holds a reference to the
// page slice and is only valid while that slice is not mutated.
type RenderWindow struct {
	pages []document.Page
	Start int
	End   int // inclusive; End < Start when empty
}

// ComputeWindow returns the real-page range around current. A negative
// radius is treated as zero.
func ComputeWindow(pages []document.Page, current, radius int) RenderWindow {
	n := len(pages)
	if n == 0 {
		return RenderWindow{Start: 0, End: -1}
	}
	if radius < 0 {
		radius = 0
	}
	current = clamp(current, 0, n-1)
	return RenderWindow{
		pages: pages,
		Start: max(0, current-radius),
		End:   min(n-1, current+radius),
	}
}

// Len returns the total number of slots, which equals the page count.
func (w RenderWindow) Len() int { return len(w.pages) }

// InRange reports whether index is rendered for real.
func (w RenderWindow) InRange(index int) bool {
	return index >= w.Start && index <= w.End
}

// At returns the slot for index. Indices outside the page list yield a
// zero Slot and false.
func (w RenderWindow) At(index int) (Slot, bool) {
	if index < 0 || index >= len(w.pages) {
		return Slot{}, false
	}
	if !w.InRange(index) {
		return Slot{Index: index, PageNumber: index + 1, Placeholder: true}, true
	}
	p := w.pages[index]
	num := p.Number
	if num == 0 {
		num = index + 1
	}
	return Slot{Index: index, PageNumber: num, Page: &p}, true
}

// Slots materialises every slot in order.
func (w RenderWindow) Slots() []Slot {
	out := make([]Slot, 0, len(w.pages))
	for i := range w.pages {
		s, _ := w.At(i)
		out = append(out, s)
	}
	return out
}

// Real returns only the pages inside the range.
func (w RenderWindow) Real() []document.Page {
	if w.End < w.Start {
		return nil
	}
	return append([]document.Page(nil), w.pages[w.Start:w.End+1]...)
}

// Stats is computed from the range bounds alone.
func (w RenderWindow) Stats() WindowStats {
	total := len(w.pages)
	loaded := 0
	if w.End >= w.Start {
		loaded = w.End - w.Start + 1
	}
	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(loaded) / float64(total) * 100))
	}
	return WindowStats{Loaded: loaded, Total: total, Percentage: pct}
}
