// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package analytics records reading sessions and page dwell times and
// aggregates them for the analytics panel.
package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ManuGH/flipbook/internal/clock"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/metrics"
	"github.com/ManuGH/flipbook/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// StorageKey is the key of the persisted session log.
const StorageKey = "flipbook_analytics"

// Recorder tracks at most one open session. Closed sessions are appended
// to the persisted log; sessions whose write failed are kept in memory
// and offered again on the next write.
type Recorder struct {
	mu     sync.Mutex
	store  storage.Store
	clk    clock.Clock
	logger zerolog.Logger

	current   *Session
	page      int
	pageStart int64
	hasPage   bool
	unsaved   []Session
}

// NewRecorder creates a recorder. A nil store keeps everything in memory.
func NewRecorder(store storage.Store, clk clock.Clock) *Recorder {
	if store == nil {
		store = storage.NewMemoryStore()
	}
	if clk == nil {
		clk = clock.Real{}
	}
	return &Recorder{
		store:  store,
		clk:    clk,
		logger: xglog.WithComponent("analytics"),
	}
}

func (r *Recorder) nowMs() int64 { return r.clk.Now().UnixMilli() }

// StartSession opens a new session and returns its id. A session that is
// still open is discarded (last write wins).
func (r *Recorder) StartSession(ctx context.Context, totalPages int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger := xglog.WithContext(ctx, r.logger)
	if r.current != nil {
		metrics.IncSessionOverwritten()
		logger.Warn().
			Str(xglog.FieldEvent, "analytics.session_overwritten").
			Str(xglog.FieldSessionID, r.current.SessionID).
			Int("page_views", len(r.current.PageViews)).
			Msg("session started while another was open; discarding the open session")
	}

	id := "session_" + uuid.NewString()
	r.current = &Session{
		SessionID:  id,
		StartTime:  r.nowMs(),
		TotalPages: totalPages,
		PageViews:  []PageView{},
	}
	r.hasPage = false
	r.page = 0
	r.pageStart = 0

	metrics.IncSessionStarted()
	logger.Debug().
		Str(xglog.FieldEvent, "analytics.session_started").
		Str(xglog.FieldSessionID, id).
		Int(xglog.FieldPageCount, totalPages).
		Msg("session started")
	return id
}

// EndSession closes the open session and persists it. The page being
// viewed at this point gets no dwell record.
func (r *Recorder) EndSession(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}

	s := *r.current
	end := r.nowMs()
	s.EndTime = &end
	r.current = nil
	r.hasPage = false

	metrics.RecordSessionEnded(s.DurationAt(end))
	r.unsaved = append(r.unsaved, s)
	r.flushLocked(ctx)
}

// flushLocked appends unsaved sessions to the stored log. On failure the
// sessions stay queued.
func (r *Recorder) flushLocked(ctx context.Context) {
	if len(r.unsaved) == 0 {
		return
	}
	logger := xglog.WithContext(ctx, r.logger)

	rec, err := r.readLocked(ctx)
	if err != nil {
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "analytics.save_deferred").
			Int("pending", len(r.unsaved)).
			Msg("cannot read session log; keeping sessions in memory")
		return
	}

	rec.Sessions = append(rec.Sessions, r.unsaved...)
	rec.LastUpdated = r.nowMs()
	if err := storage.PutJSON(ctx, r.store, StorageKey, rec); err != nil {
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "analytics.save_failed").
			Int("pending", len(r.unsaved)).
			Msg("failed to persist sessions; keeping them in memory")
		return
	}
	r.unsaved = nil
}

// readLocked loads the stored log. A missing or corrupt record reads as
// empty; only an unavailable store is an error.
func (r *Recorder) readLocked(ctx context.Context) (record, error) {
	var rec record
	data, err := r.store.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return record{Sessions: []Session{}}, nil
	}
	if err != nil {
		return record{}, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		logger := xglog.WithContext(ctx, r.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "analytics.load_corrupt").
			Msg("stored analytics are corrupt; starting from empty")
		return record{Sessions: []Session{}}, nil
	}
	if rec.Sessions == nil {
		rec.Sessions = []Session{}
	}
	return rec, nil
}

// TrackPageView closes the dwell record of the previous page and starts
// timing pageNumber. It does nothing without an open session.
func (r *Recorder) TrackPageView(pageNumber int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}

	now := r.nowMs()
	if r.hasPage {
		r.current.PageViews = append(r.current.PageViews, PageView{
			PageNumber: r.page,
			Timestamp:  r.pageStart,
			Duration:   now - r.pageStart,
		})
		metrics.IncPageView()
	}
	r.page = pageNumber
	r.pageStart = now
	r.hasPage = true
	r.current.ViewedPages.Add(pageNumber)
}

// CurrentSessionID returns the open session id, or "".
func (r *Recorder) CurrentSessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return ""
	}
	return r.current.SessionID
}

// GetAnalytics aggregates the stored log, unsaved sessions and the open
// session. Storage failures yield the in-memory part only.
func (r *Recorder) GetAnalytics(ctx context.Context) Analytics {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := r.readLocked(ctx)
	if err != nil {
		logger := xglog.WithContext(ctx, r.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "analytics.load_failed").
			Msg("cannot read session log")
		rec = record{Sessions: []Session{}}
	}

	sessions := make([]Session, 0, len(rec.Sessions)+len(r.unsaved)+1)
	sessions = append(sessions, rec.Sessions...)
	for _, s := range r.unsaved {
		sessions = append(sessions, s.clone())
	}
	if r.current != nil {
		sessions = append(sessions, r.current.clone())
	}
	return Aggregate(sessions, rec.LastUpdated, r.nowMs())
}

// Export renders the aggregate as indented JSON.
func (r *Recorder) Export(ctx context.Context) (string, error) {
	data, err := json.MarshalIndent(r.GetAnalytics(ctx), "", "  ")
	if err != nil {
		return "", fmt.Errorf("export analytics: %w", err)
	}
	return string(data), nil
}

// Clear erases the persisted log and any queued sessions. The open
// session is kept.
func (r *Recorder) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsaved = nil
	if err := r.store.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("clear analytics: %w", err)
	}
	return nil
}

// Flush retries writing queued sessions and returns how many are still
// queued afterwards.
func (r *Recorder) Flush(ctx context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked(ctx)
	return len(r.unsaved)
}

// Pending reports how many closed sessions are waiting to be written.
func (r *Recorder) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.unsaved)
}
