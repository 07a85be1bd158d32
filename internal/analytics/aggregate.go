// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package analytics

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TopPagesLimit bounds Analytics.TopPages.
const TopPagesLimit = 5

// PageCount pairs a page number with its view count.
type PageCount struct {
	PageNumber int `json:"pageNumber"`
	Views      int `json:"views"`
}

// Analytics is the aggregate over every known session.
type Analytics struct {
	Sessions       []Session   `json:"sessions"`
	TotalViews     int         `json:"totalViews"`
	TotalTimeSpent int64       `json:"totalTimeSpent"`
	PopularPages   map[int]int `json:"popularPages"`
	LastUpdated    int64       `json:"lastUpdated"`

	TopPages       []PageCount `json:"topPages"`
	UniquePages    int         `json:"uniquePages"`
	AverageDwellMs float64     `json:"averageDwellMs"`
	MedianDwellMs  float64     `json:"medianDwellMs"`
}

// Aggregate computes totals over sessions. Open sessions are measured to nowMs.
func Aggregate(sessions []Session, lastUpdated, nowMs int64) Analytics {
	a := Analytics{
		Sessions:     sessions,
		PopularPages: make(map[int]int),
		LastUpdated:  lastUpdated,
		TopPages:     []PageCount{},
	}
	if a.Sessions == nil {
		a.Sessions = []Session{}
	}

	var dwell []float64
	unique := NewPageSet()
	for _, s := range sessions {
		a.TotalTimeSpent += s.DurationAt(nowMs)
		a.TotalViews += len(s.PageViews)
		for _, v := range s.PageViews {
			a.PopularPages[v.PageNumber]++
			dwell = append(dwell, float64(v.Duration))
		}
		for _, p := range s.ViewedPages.Values() {
			unique.Add(p)
		}
	}
	a.UniquePages = unique.Len()

	if len(dwell) > 0 {
		sort.Float64s(dwell)
		a.AverageDwellMs = stat.Mean(dwell, nil)
		a.MedianDwellMs = stat.Quantile(0.5, stat.Empirical, dwell, nil)
	}

	for page, views := range a.PopularPages {
		a.TopPages = append(a.TopPages, PageCount{PageNumber: page, Views: views})
	}
	sort.Slice(a.TopPages, func(i, j int) bool {
		if a.TopPages[i].Views != a.TopPages[j].Views {
			return a.TopPages[i].Views > a.TopPages[j].Views
		}
		return a.TopPages[i].PageNumber < a.TopPages[j].PageNumber
	})
	if len(a.TopPages) > TopPagesLimit {
		a.TopPages = a.TopPages[:TopPagesLimit]
	}
	return a
}
