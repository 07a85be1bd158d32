// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package urlsync

import (
	"net/url"
	"sync"
)

// Location is the address of the current view. Replace swaps the current
// entry in place and never adds history.
type Location interface {
	Current() *url.URL
	Replace(u *url.URL)
}

// MemoryLocation is a Location held in memory, one per viewer.
type MemoryLocation struct {
	mu       sync.Mutex
	u        url.URL
	replaces int
}

// NewMemoryLocation parses raw as the initial address.
func NewMemoryLocation(raw string) (*MemoryLocation, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &MemoryLocation{u: *u}, nil
}

// Current returns a copy of the address.
func (l *MemoryLocation) Current() *url.URL {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := l.u
	return &u
}

func (l *MemoryLocation) Replace(u *url.URL) {
	if u == nil {
		return
	}
	l.mu.Lock()
	l.u = *u
	l.replaces++
	l.mu.Unlock()
}

// String returns the current address.
func (l *MemoryLocation) String() string {
	return l.Current().String()
}

// Replacements reports how many times Replace was called.
func (l *MemoryLocation) Replacements() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.replaces
}
