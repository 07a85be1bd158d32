// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/ManuGH/flipbook/internal/clock"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/metrics"
	"github.com/ManuGH/flipbook/internal/storage"
	"github.com/ManuGH/flipbook/internal/urlsync"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrTooManyViewers is returned by Create when the limit is reached.
var ErrTooManyViewers = errors.New("too many open viewers")

// DefaultFlushInterval is how often queued analytics writes are retried.
const DefaultFlushInterval = 30 * time.Second

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	// Viewer is the template for every viewer. Location and Clipboard are
	// set per viewer.
	Viewer Options
	// Store backs analytics (namespaced per client) and hotspot configs.
	Store storage.Store
	// BaseURL is the address viewer locations and share links start from.
	BaseURL         string
	SystemClipboard bool
	MaxViewers      int
	FlushInterval   time.Duration
}

// CreateRequest describes a new viewer.
type CreateRequest struct {
	// ClientID scopes the analytics log. Viewers of the same client share
	// it; an empty id scopes it to the viewer.
	ClientID string
	// Query is the initial URL state (page, zoom, view).
	Query url.Values
}

// Manager owns independent viewers keyed by id.
type Manager struct {
	opts   ManagerOptions
	clk    clock.Clock
	logger zerolog.Logger

	mu      sync.RWMutex
	viewers map[string]*Viewer
	closed  bool
}

// NewManager creates a Manager. A nil store keeps everything in memory.
func NewManager(opts ManagerOptions) *Manager {
	if opts.Store == nil {
		opts.Store = storage.NewMemoryStore()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8080/view"
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = DefaultFlushInterval
	}
	clk := opts.Viewer.Clock
	if clk == nil {
		clk = clock.Real{}
		opts.Viewer.Clock = clk
	}
	return &Manager{
		opts:    opts,
		clk:     clk,
		logger:  xglog.WithComponent("viewer.manager"),
		viewers: make(map[string]*Viewer),
	}
}

// Create opens a new empty viewer.
func (m *Manager) Create(ctx context.Context, req CreateRequest) (*Viewer, error) {
	id := uuid.NewString()

	base, err := url.Parse(m.opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	base.RawQuery = req.Query.Encode()
	loc, err := urlsync.NewMemoryLocation(base.String())
	if err != nil {
		return nil, fmt.Errorf("viewer location: %w", err)
	}

	scope := req.ClientID
	if scope == "" {
		scope = id
	}
	opts := m.opts.Viewer
	opts.Location = loc
	opts.AnalyticsStore = storage.Namespace(m.opts.Store, "client:"+scope+":")
	opts.HotspotStore = m.opts.Store
	if m.opts.SystemClipboard {
		opts.Clipboard = urlsync.SystemClipboard{}
	} else {
		opts.Clipboard = &urlsync.MemoryClipboard{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	if m.opts.MaxViewers > 0 && len(m.viewers) >= m.opts.MaxViewers {
		return nil, ErrTooManyViewers
	}
	v, err := New(id, opts)
	if err != nil {
		return nil, err
	}
	m.viewers[id] = v
	metrics.SetActiveViewers(len(m.viewers))

	logger := xglog.WithContext(ctx, m.logger)
	logger.Info().
		Str(xglog.FieldEvent, "viewer.created").
		Str(xglog.FieldViewerID, id).
		Int("active", len(m.viewers)).
		Msg("viewer created")
	return v, nil
}

// Get returns the viewer with id.
func (m *Manager) Get(id string) (*Viewer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.viewers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

// Close tears down the viewer with id.
func (m *Manager) Close(ctx context.Context, id string) error {
	m.mu.Lock()
	v, ok := m.viewers[id]
	if ok {
		delete(m.viewers, id)
		metrics.SetActiveViewers(len(m.viewers))
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	v.Close(ctx)
	return nil
}

// List returns snapshots of all viewers ordered by id.
func (m *Manager) List() []Snapshot {
	m.mu.RLock()
	vs := make([]*Viewer, 0, len(m.viewers))
	for _, v := range m.viewers {
		vs = append(vs, v)
	}
	m.mu.RUnlock()

	out := make([]Snapshot, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ViewerID < out[j].ViewerID })
	return out
}

// Len reports the number of open viewers.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.viewers)
}

// Flush retries queued analytics writes of every viewer and returns the
// number of sessions still queued.
func (m *Manager) Flush(ctx context.Context) int {
	m.mu.RLock()
	vs := make([]*Viewer, 0, len(m.viewers))
	for _, v := range m.viewers {
		vs = append(vs, v)
	}
	m.mu.RUnlock()

	pending := 0
	for _, v := range vs {
		pending += v.recorder.Flush(ctx)
	}
	return pending
}

// Pending reports the number of analytics sessions waiting for storage
// across all viewers.
func (m *Manager) Pending() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, v := range m.viewers {
		n += v.recorder.Pending()
	}
	return n
}

// Run flushes queued analytics periodically until ctx is done, then
// closes every viewer.
func (m *Manager) Run(ctx context.Context) error {
	ticker := m.clk.NewTicker(m.opts.FlushInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.CloseAll(context.WithoutCancel(ctx))
			return nil
		case <-ticker.C():
			if n := m.Flush(ctx); n > 0 {
				m.logger.Warn().
					Str(xglog.FieldEvent, "viewer.flush_pending").
					Int("sessions", n).
					Msg("analytics sessions still waiting for storage")
			}
		}
	}
}

// CloseAll closes every viewer and refuses new ones.
func (m *Manager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	vs := m.viewers
	m.viewers = make(map[string]*Viewer)
	m.closed = true
	metrics.SetActiveViewers(0)
	m.mu.Unlock()

	for _, v := range vs {
		v.Close(ctx)
	}
	if len(vs) > 0 {
		m.logger.Info().
			Str(xglog.FieldEvent, "viewer.all_closed").
			Int("count", len(vs)).
			Msg("closed all viewers")
	}
}
