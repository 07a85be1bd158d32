// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package flipbook holds the navigation state of a single viewer and the
// render window derived from it.
package flipbook

import (
	"sync"

	"github.com/ManuGH/flipbook/internal/document"
	"github.com/ManuGH/flipbook/internal/metrics"
)

// SpreadMode selects single-page or side-by-side display.
type SpreadMode string

const (
	SpreadSingle SpreadMode = "single"
	SpreadDouble SpreadMode = "double"
)

// Valid reports whether m is a known spread mode.
func (m SpreadMode) Valid() bool {
	return m == SpreadSingle || m == SpreadDouble
}

// State is a snapshot of a Navigator.
type State struct {
	Pages        []document.Page `json:"pages"`
	CurrentIndex int             `json:"currentIndex"`
	IsFlipping   bool            `json:"isFlipping"`
	SpreadMode   SpreadMode      `json:"spreadMode"`
}

// EventKind identifies what changed in a Navigator.
type EventKind int

const (
	// EventPagesReplaced means a new document was loaded (or the viewer reset).
	EventPagesReplaced EventKind = iota
	// EventCursorMoved means CurrentIndex changed.
	EventCursorMoved
	// EventSpreadChanged means the spread mode changed.
	EventSpreadChanged
)

// Event is delivered to subscribers after a mutation has been committed.
type Event struct {
	Kind         EventKind
	CurrentIndex int
	Previous     int
	PageCount    int
	SpreadMode   SpreadMode
}

// Navigator owns the page list and the cursor. Every mutator keeps the
// cursor inside [0, len-1] (or 0 for an empty list).
type Navigator struct {
	mu          sync.Mutex
	pages       []document.Page
	current     int
	flipping    bool
	spread      SpreadMode
	subscribers []func(Event)
}

// NewNavigator returns an empty navigator in single spread mode.
func NewNavigator() *Navigator {
	return &Navigator{spread: SpreadSingle}
}

// Subscribe registers fn to be called synchronously after each change.
// Subscribers run outside the navigator lock and may read from it.
func (n *Navigator) Subscribe(fn func(Event)) {
	n.mu.Lock()
	n.subscribers = append(n.subscribers, fn)
	n.mu.Unlock()
}

// SetPages replaces the document and rewinds to the first page.
func (n *Navigator) SetPages(pages []document.Page) {
	n.mu.Lock()
	prev := n.current
	n.pages = append([]document.Page(nil), pages...)
	n.current = 0
	n.flipping = false
	ev := n.eventLocked(EventPagesReplaced, prev)
	subs := n.subscribers
	n.mu.Unlock()

	notify(subs, ev)
}

// GoTo moves the cursor to index, clamped to the page range.
func (n *Navigator) GoTo(index int) {
	n.move(func(cur, count int) int { return index }, "jump")
}

// Next advances one page. It reports false at the last page.
func (n *Navigator) Next() bool {
	return n.move(func(cur, count int) int { return cur + 1 }, "next")
}

// Prev goes back one page. It reports false at the first page.
func (n *Navigator) Prev() bool {
	return n.move(func(cur, count int) int { return cur - 1 }, "prev")
}

func (n *Navigator) move(target func(cur, count int) int, direction string) bool {
	n.mu.Lock()
	count := len(n.pages)
	if count == 0 {
		n.mu.Unlock()
		return false
	}
	prev := n.current
	next := clamp(target(prev, count), 0, count-1)
	if next == prev {
		n.mu.Unlock()
		return false
	}
	n.current = next
	ev := n.eventLocked(EventCursorMoved, prev)
	subs := n.subscribers
	n.mu.Unlock()

	metrics.IncPageFlip(direction)
	notify(subs, ev)
	return true
}

// SetFlipping records whether a page-turn animation is in flight.
func (n *Navigator) SetFlipping(flipping bool) {
	n.mu.Lock()
	n.flipping = flipping
	n.mu.Unlock()
}

// IsFlipping reports whether a page-turn animation is in flight.
func (n *Navigator) IsFlipping() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.flipping
}

// ToggleSpreadMode switches between single and double. The cursor is kept.
func (n *Navigator) ToggleSpreadMode() SpreadMode {
	n.mu.Lock()
	mode := SpreadDouble
	if n.spread == SpreadDouble {
		mode = SpreadSingle
	}
	n.mu.Unlock()

	n.SetSpreadMode(mode)
	return mode
}

// SetSpreadMode sets the spread mode. Unknown modes are ignored.
func (n *Navigator) SetSpreadMode(mode SpreadMode) {
	if !mode.Valid() {
		return
	}
	n.mu.Lock()
	if n.spread == mode {
		n.mu.Unlock()
		return
	}
	n.spread = mode
	ev := n.eventLocked(EventSpreadChanged, n.current)
	subs := n.subscribers
	n.mu.Unlock()

	metrics.IncSpreadModeToggle()
	notify(subs, ev)
}

// SpreadMode returns the current spread mode.
func (n *Navigator) SpreadMode() SpreadMode {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.spread
}

// Reset returns to the empty-document state.
func (n *Navigator) Reset() {
	n.mu.Lock()
	prev := n.current
	n.pages = nil
	n.current = 0
	n.flipping = false
	n.spread = SpreadSingle
	ev := n.eventLocked(EventPagesReplaced, prev)
	subs := n.subscribers
	n.mu.Unlock()

	notify(subs, ev)
}

// State returns a snapshot. The page slice is a copy.
func (n *Navigator) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return State{
		Pages:        append([]document.Page(nil), n.pages...),
		CurrentIndex: n.current,
		IsFlipping:   n.flipping,
		SpreadMode:   n.spread,
	}
}

func (n *Navigator) CurrentIndex() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Navigator) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pages)
}

// CurrentPage returns the page under the cursor, if any.
func (n *Navigator) CurrentPage() (document.Page, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pages) == 0 {
		return document.Page{}, false
	}
	return n.pages[n.current], true
}

// CanNext reports whether the next control should be enabled.
func (n *Navigator) CanNext() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.flipping && n.current < len(n.pages)-1
}

// CanPrev reports whether the previous control should be enabled.
func (n *Navigator) CanPrev() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return !n.flipping && n.current > 0
}

func (n *Navigator) eventLocked(kind EventKind, prev int) Event {
	return Event{
		Kind:         kind,
		CurrentIndex: n.current,
		Previous:     prev,
		PageCount:    len(n.pages),
		SpreadMode:   n.spread,
	}
}

func notify(subs []func(Event), ev Event) {
	for _, fn := range subs {
		fn(ev)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
