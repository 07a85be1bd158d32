// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package viewer composes navigation, windowing, zoom, auto-flip, sizing,
// URL sync, analytics and hotspots into one independent viewer instance.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ManuGH/flipbook/internal/analytics"
	"github.com/ManuGH/flipbook/internal/clock"
	"github.com/ManuGH/flipbook/internal/document"
	"github.com/ManuGH/flipbook/internal/flipbook"
	"github.com/ManuGH/flipbook/internal/hotspot"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/storage"
	"github.com/ManuGH/flipbook/internal/transform"
	"github.com/ManuGH/flipbook/internal/urlsync"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned by Manager lookups for unknown viewer ids.
	ErrNotFound = errors.New("viewer not found")
	// ErrClosed is returned by Load after Close.
	ErrClosed = errors.New("viewer closed")
)

// Options configures a Viewer. Zero values take defaults.
type Options struct {
	Zoom             transform.ZoomOptions
	Size             transform.SizeOptions
	AutoFlipInterval time.Duration
	WindowRadius     int

	// AnalyticsStore holds this viewer's session log. HotspotStore holds
	// interactive configurations, shared by every viewer of a document.
	AnalyticsStore storage.Store
	HotspotStore   storage.Store

	// SampleHotspots seeds documents without a stored configuration with
	// the demo hotspots.
	SampleHotspots bool

	Location  urlsync.Location
	Clipboard urlsync.Clipboard
	Clock     clock.Clock
}

// Viewer is one flipbook instance. All methods are safe for concurrent use.
type Viewer struct {
	id     string
	radius int
	sample bool

	nav      *flipbook.Navigator
	zoom     *transform.Zoom
	sizer    *transform.Sizer
	auto     *transform.AutoFlip
	bridge   *urlsync.Bridge
	recorder *analytics.Recorder
	hotspots *hotspot.Registry
	clip     urlsync.Clipboard
	clk      clock.Clock
	logger   zerolog.Logger

	mu         sync.Mutex
	documentID string
	title      string
	loadedAt   time.Time
	closed     bool
}

// New creates an empty viewer with the given id.
func New(id string, opts Options) (*Viewer, error) {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Location == nil {
		loc, err := urlsync.NewMemoryLocation("/")
		if err != nil {
			return nil, fmt.Errorf("viewer location: %w", err)
		}
		opts.Location = loc
	}
	if opts.Clipboard == nil {
		opts.Clipboard = &urlsync.MemoryClipboard{}
	}
	radius := opts.WindowRadius
	if radius <= 0 {
		radius = flipbook.DefaultRadius
	}

	nav := flipbook.NewNavigator()
	v := &Viewer{
		id:       id,
		radius:   radius,
		sample:   opts.SampleHotspots,
		nav:      nav,
		zoom:     transform.NewZoom(opts.Zoom),
		sizer:    transform.NewSizer(opts.Size),
		auto:     transform.NewAutoFlip(nav, opts.AutoFlipInterval, opts.Clock),
		bridge:   urlsync.NewBridge(opts.Location),
		recorder: analytics.NewRecorder(opts.AnalyticsStore, opts.Clock),
		hotspots: hotspot.NewRegistry(opts.HotspotStore, opts.Clock),
		clip:     opts.Clipboard,
		clk:      opts.Clock,
		logger:   xglog.WithComponent("viewer"),
	}
	nav.Subscribe(v.onNavigation)
	return v, nil
}

// ID returns the viewer id.
func (v *Viewer) ID() string { return v.id }

// Navigator exposes the page cursor.
func (v *Viewer) Navigator() *flipbook.Navigator { return v.nav }

// Zoom exposes the zoom state.
func (v *Viewer) Zoom() *transform.Zoom { return v.zoom }

// AutoFlip exposes the auto-advance timer.
func (v *Viewer) AutoFlip() *transform.AutoFlip { return v.auto }

// Analytics exposes the session recorder.
func (v *Viewer) Analytics() *analytics.Recorder { return v.recorder }

// Hotspots exposes the interactive configuration.
func (v *Viewer) Hotspots() *hotspot.Registry { return v.hotspots }

// onNavigation runs after every cursor or spread change. It is called from
// the AutoFlip goroutine too, so it must not touch v.auto.
func (v *Viewer) onNavigation(ev flipbook.Event) {
	switch ev.Kind {
	case flipbook.EventCursorMoved, flipbook.EventPagesReplaced:
		if ev.PageCount == 0 {
			return
		}
		v.recorder.TrackPageView(ev.CurrentIndex + 1)
		v.bridge.Write(urlsync.State{}.WithPage(ev.CurrentIndex))
	case flipbook.EventSpreadChanged:
		v.bridge.Write(urlsync.State{}.WithView(string(ev.SpreadMode)))
	}
}

// Load replaces the document. It ends the running session, stops
// auto-flip, restores zoom and view from the location, loads the
// document's hotspots and opens a new session. The page is restored only
// when the location still describes the same document, that is on the
// first load or a reload of the current one; a different document opens
// on its first page.
func (v *Viewer) Load(ctx context.Context, documentID, title string, pages []document.Page) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	restorePage := v.loadedAt.IsZero() || v.documentID == documentID
	v.documentID = documentID
	v.title = title
	v.loadedAt = v.clk.Now()
	v.mu.Unlock()

	ctx = xglog.ContextWithViewerID(ctx, v.id)
	logger := v.loggerFor(ctx)

	v.auto.Stop()
	v.recorder.EndSession(ctx)

	restore := v.bridge.Read()
	v.nav.SetPages(pages)
	if restore.Page != nil && restorePage {
		v.nav.GoTo(*restore.Page)
	}
	if restore.Zoom != nil {
		v.zoom.Set(*restore.Zoom)
	}
	if restore.View != nil {
		v.nav.SetSpreadMode(flipbook.SpreadMode(*restore.View))
	}
	v.syncURL()

	v.loadHotspots(ctx, documentID)

	sessionID := v.recorder.StartSession(ctx, len(pages))
	if len(pages) > 0 {
		v.recorder.TrackPageView(v.nav.CurrentIndex() + 1)
	}

	logger.Info().
		Str(xglog.FieldEvent, "viewer.document_loaded").
		Str(xglog.FieldDocumentID, documentID).
		Str(xglog.FieldSessionID, sessionID).
		Int(xglog.FieldPageCount, len(pages)).
		Int(xglog.FieldPageIndex, v.nav.CurrentIndex()).
		Msg("document loaded")
	return nil
}

func (v *Viewer) loadHotspots(ctx context.Context, documentID string) {
	found, err := v.hotspots.LoadStored(ctx, documentID)
	if err != nil {
		logger := v.loggerFor(ctx)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "viewer.hotspots_load_failed").
			Str(xglog.FieldDocumentID, documentID).
			Msg("stored interactive config unusable; starting empty")
	}
	if found {
		return
	}
	now := v.clk.Now()
	if v.sample {
		v.hotspots.Load(hotspot.SampleConfig(documentID, now))
		return
	}
	ms := now.UnixMilli()
	v.hotspots.Load(hotspot.Config{
		DocumentID: documentID,
		Hotspots:   []hotspot.Hotspot{},
		Version:    hotspot.CurrentVersion,
		CreatedAt:  ms,
		UpdatedAt:  ms,
	})
}

// loggerFor carries the viewer id and the correlation fields of ctx.
func (v *Viewer) loggerFor(ctx context.Context) zerolog.Logger {
	return xglog.WithContext(xglog.ContextWithViewerID(ctx, v.id), v.logger)
}

// syncURL writes the complete view state into the location.
func (v *Viewer) syncURL() {
	s := urlsync.State{}.
		WithZoom(v.zoom.Value()).
		WithView(string(v.nav.SpreadMode()))
	if v.nav.Len() > 0 {
		s = s.WithPage(v.nav.CurrentIndex())
	}
	v.bridge.Write(s)
}

// ApplyURL applies page, zoom and view from a query string, as when the
// user edits the address. Malformed fields are ignored.
func (v *Viewer) ApplyURL(s urlsync.State) {
	if s.Page != nil {
		v.nav.GoTo(*s.Page)
	}
	if s.Zoom != nil {
		v.SetZoom(*s.Zoom)
	}
	if s.View != nil {
		v.nav.SetSpreadMode(flipbook.SpreadMode(*s.View))
	}
}

func (v *Viewer) Next() bool                            { return v.nav.Next() }
func (v *Viewer) Prev() bool                            { return v.nav.Prev() }
func (v *Viewer) GoTo(index int)                        { v.nav.GoTo(index) }
func (v *Viewer) HandleKey(key string) bool             { return v.nav.HandleKey(key) }
func (v *Viewer) SetFlipping(flipping bool)             { v.nav.SetFlipping(flipping) }
func (v *Viewer) ToggleSpreadMode() flipbook.SpreadMode { return v.nav.ToggleSpreadMode() }

func (v *Viewer) ZoomIn() float64    { return v.afterZoom(v.zoom.ZoomIn()) }
func (v *Viewer) ZoomOut() float64   { return v.afterZoom(v.zoom.ZoomOut()) }
func (v *Viewer) ResetZoom() float64 { return v.afterZoom(v.zoom.Reset()) }

func (v *Viewer) SetZoom(level float64) float64 {
	return v.afterZoom(v.zoom.Set(level))
}

func (v *Viewer) afterZoom(z float64) float64 {
	v.bridge.Write(urlsync.State{}.WithZoom(z))
	return z
}

// Observe reports a container measurement.
func (v *Viewer) Observe(width, height int) transform.Size {
	size, _ := v.sizer.Observe(width, height)
	return size
}

// Window computes the render window around the cursor. A non-positive
// radius uses the viewer default.
func (v *Viewer) Window(radius int) flipbook.RenderWindow {
	if radius <= 0 {
		radius = v.radius
	}
	st := v.nav.State()
	return flipbook.ComputeWindow(st.Pages, st.CurrentIndex, radius)
}

// Page returns the page with the 1-based number.
func (v *Viewer) Page(number int) (document.Page, bool) {
	st := v.nav.State()
	if number < 1 || number > len(st.Pages) {
		return document.Page{}, false
	}
	return st.Pages[number-1], true
}

// ShareLink builds a link carrying the current page, zoom and view.
func (v *Viewer) ShareLink() string {
	return v.bridge.ShareableLink(v.currentURLState())
}

// CopyShareLink copies the share link to the viewer's clipboard.
func (v *Viewer) CopyShareLink(ctx context.Context) (string, bool) {
	return v.bridge.CopyShareableLink(xglog.ContextWithViewerID(ctx, v.id), v.clip, v.currentURLState())
}

func (v *Viewer) currentURLState() urlsync.State {
	s := urlsync.State{}.
		WithPage(v.nav.CurrentIndex()).
		WithZoom(v.zoom.Value()).
		WithView(string(v.nav.SpreadMode()))
	return s
}

// URL returns the synchronised location.
func (v *Viewer) URL() string {
	return v.bridge.Location().Current().String()
}

// ClickHotspot counts a click against the open session and resolves the
// action into a client effect. ok is false for unknown hotspots.
func (v *Viewer) ClickHotspot(ctx context.Context, id string) (ev hotspot.Event, effect *hotspot.Effect, ok bool, err error) {
	ctx = xglog.ContextWithViewerID(ctx, v.id)
	ev, ok = v.hotspots.TrackClick(ctx, id, v.recorder.CurrentSessionID())
	if !ok {
		return hotspot.Event{}, nil, false, nil
	}
	h, _ := v.hotspots.Get(id)
	effect, err = hotspot.Resolve(ctx, h)
	return ev, effect, true, err
}

// Snapshot is the observable state of a viewer.
type Snapshot struct {
	ViewerID     string              `json:"viewerId"`
	DocumentID   string              `json:"documentId,omitempty"`
	Title        string              `json:"title,omitempty"`
	PageCount    int                 `json:"pageCount"`
	CurrentIndex int                 `json:"currentIndex"`
	PageNumber   int                 `json:"pageNumber"`
	IsFlipping   bool                `json:"isFlipping"`
	SpreadMode   flipbook.SpreadMode `json:"spreadMode"`
	CanNext      bool                `json:"canNext"`
	CanPrev      bool                `json:"canPrev"`
	Zoom         transform.ZoomState `json:"zoom"`
	AutoFlip     AutoFlipState       `json:"autoFlip"`
	Size         transform.Size      `json:"size"`
	ZoomedSize   transform.Size      `json:"zoomedSize"`
	SessionID    string              `json:"sessionId,omitempty"`
	URL          string              `json:"url"`
	LoadedAt     *time.Time          `json:"loadedAt,omitempty"`
}

// AutoFlipState is the auto-advance part of a Snapshot.
type AutoFlipState struct {
	Playing    bool  `json:"playing"`
	IntervalMs int64 `json:"intervalMs"`
}

// Snapshot returns the current state.
func (v *Viewer) Snapshot() Snapshot {
	st := v.nav.State()
	z := v.zoom.State()

	v.mu.Lock()
	docID, title, loadedAt := v.documentID, v.title, v.loadedAt
	v.mu.Unlock()

	s := Snapshot{
		ViewerID:     v.id,
		DocumentID:   docID,
		Title:        title,
		PageCount:    len(st.Pages),
		CurrentIndex: st.CurrentIndex,
		IsFlipping:   st.IsFlipping,
		SpreadMode:   st.SpreadMode,
		CanNext:      v.nav.CanNext(),
		CanPrev:      v.nav.CanPrev(),
		Zoom:         z,
		AutoFlip: AutoFlipState{
			Playing:    v.auto.IsPlaying(),
			IntervalMs: v.auto.Interval().Milliseconds(),
		},
		Size:       v.sizer.Size(),
		ZoomedSize: v.sizer.Zoomed(z.Value),
		SessionID:  v.recorder.CurrentSessionID(),
		URL:        v.URL(),
	}
	if len(st.Pages) > 0 {
		s.PageNumber = st.CurrentIndex + 1
	}
	if !loadedAt.IsZero() {
		s.LoadedAt = &loadedAt
	}
	return s
}

// Close stops auto-flip and ends the session. The viewer cannot be
// loaded again afterwards.
func (v *Viewer) Close(ctx context.Context) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.auto.Close()
	ctx = xglog.ContextWithViewerID(ctx, v.id)
	v.recorder.EndSession(ctx)
	logger := v.loggerFor(ctx)
	logger.Debug().Str(xglog.FieldEvent, "viewer.closed").Msg("viewer closed")
}
