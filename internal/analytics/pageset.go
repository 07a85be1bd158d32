// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package analytics

import (
	"encoding/json"
)

// PageSet is an insertion-ordered set of page numbers. It encodes as a
// JSON array in insertion order; decoding keeps the first occurrence of
// each number.
type PageSet struct {
	order []int
	seen  map[int]struct{}
}

// NewPageSet builds a set from pages, dropping duplicates.
func NewPageSet(pages ...int) PageSet {
	var s PageSet
	for _, p := range pages {
		s.Add(p)
	}
	return s
}

// Add inserts p and reports whether it was new.
func (s *PageSet) Add(p int) bool {
	if s.seen == nil {
		s.seen = make(map[int]struct{})
	}
	if _, ok := s.seen[p]; ok {
		return false
	}
	s.seen[p] = struct{}{}
	s.order = append(s.order, p)
	return true
}

func (s PageSet) Has(p int) bool {
	_, ok := s.seen[p]
	return ok
}

func (s PageSet) Len() int { return len(s.order) }

// Values returns the members in insertion order.
func (s PageSet) Values() []int {
	return append([]int(nil), s.order...)
}

// Clone returns an independent copy.
func (s PageSet) Clone() PageSet {
	return NewPageSet(s.order...)
}

func (s PageSet) MarshalJSON() ([]byte, error) {
	if s.order == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.order)
}

func (s *PageSet) UnmarshalJSON(data []byte) error {
	var pages []int
	if err := json.Unmarshal(data, &pages); err != nil {
		return err
	}
	*s = NewPageSet(pages...)
	return nil
}
