// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package analytics

// PageView is the dwell record of one page. Times are Unix milliseconds.
type PageView struct {
	PageNumber int   `json:"pageNumber"`
	Timestamp  int64 `json:"timestamp"`
	Duration   int64 `json:"duration"`
}

// Session is one continuous reading interval.
type Session struct {
	SessionID   string     `json:"sessionId"`
	StartTime   int64      `json:"startTime"`
	EndTime     *int64     `json:"endTime,omitempty"`
	TotalPages  int        `json:"totalPages"`
	ViewedPages PageSet    `json:"viewedPages"`
	PageViews   []PageView `json:"pageViews"`
}

// Closed reports whether EndTime is set.
func (s Session) Closed() bool { return s.EndTime != nil }

// DurationAt returns the session length, measuring an open session to now.
func (s Session) DurationAt(nowMs int64) int64 {
	end := nowMs
	if s.EndTime != nil {
		end = *s.EndTime
	}
	if end < s.StartTime {
		return 0
	}
	return end - s.StartTime
}

func (s Session) clone() Session {
	out := s
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	out.ViewedPages = s.ViewedPages.Clone()
	out.PageViews = append([]PageView(nil), s.PageViews...)
	if out.PageViews == nil {
		out.PageViews = []PageView{}
	}
	return out
}

// record is the persisted shape under StorageKey.
type record struct {
	Sessions    []Session `json:"sessions"`
	LastUpdated int64     `json:"lastUpdated"`
}
