// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ManuGH/flipbook/internal/flipbook"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/transform"
	"github.com/ManuGH/flipbook/internal/urlsync"
	"github.com/ManuGH/flipbook/internal/viewer"
	"github.com/go-chi/chi/v5"
)

type createViewerRequest struct {
	// Query is the initial location query, e.g. "page=2&zoom=1.5".
	Query string `json:"query"`
}

// POST /api/v1/viewers
func (s *Server) handleCreateViewer(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if r.ContentLength != 0 && r.Body != nil && r.Body != http.NoBody {
		var req createViewerRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, r, err)
			return
		}
		if req.Query != "" {
			q, err := url.ParseQuery(req.Query)
			if err != nil {
				writeError(w, r, badRequest("invalid query: %v", err))
				return
			}
			query = q
		}
	}

	v, err := s.viewers.Create(r.Context(), viewer.CreateRequest{
		ClientID: r.Header.Get(HeaderClientID),
		Query:    query,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/viewers/"+v.ID())
	writeJSON(w, http.StatusCreated, v.Snapshot())
}

// GET /api/v1/viewers
func (s *Server) handleListViewers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.viewers.List())
}

// GET /api/v1/viewers/{viewerID}
func (s *Server) handleGetViewer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewerFrom(r).Snapshot())
}

// DELETE /api/v1/viewers/{viewerID}
func (s *Server) handleDeleteViewer(w http.ResponseWriter, r *http.Request) {
	if err := s.viewers.Close(r.Context(), viewerFrom(r).ID()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type windowResponse struct {
	Start        int                  `json:"start"`
	End          int                  `json:"end"`
	CurrentIndex int                  `json:"currentIndex"`
	Slots        []flipbook.Slot      `json:"slots"`
	Stats        flipbook.WindowStats `json:"stats"`
}

// GET /api/v1/viewers/{viewerID}/window?radius=N
func (s *Server) handleWindow(w http.ResponseWriter, r *http.Request) {
	radius := 0
	if raw := r.URL.Query().Get("radius"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, badRequest("radius must be a non-negative integer"))
			return
		}
		radius = n
	}
	v := viewerFrom(r)
	win := v.Window(radius)
	slots := win.Slots()
	if slots == nil {
		slots = []flipbook.Slot{}
	}
	writeJSON(w, http.StatusOK, windowResponse{
		Start:        win.Start,
		End:          win.End,
		CurrentIndex: v.Navigator().CurrentIndex(),
		Slots:        slots,
		Stats:        win.Stats(),
	})
}

func pageNumberParam(r *http.Request) (int, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || n < 1 {
		return 0, badRequest("page number must be a positive integer")
	}
	return n, nil
}

// GET /api/v1/viewers/{viewerID}/pages/{number}
func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	n, err := pageNumberParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, ok := viewerFrom(r).Page(n)
	if !ok {
		writeNotFound(w, "page "+strconv.Itoa(n))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type navigationResponse struct {
	Moved    bool            `json:"moved"`
	Snapshot viewer.Snapshot `json:"viewer"`
}

// POST /api/v1/viewers/{viewerID}/navigation/next
func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	v := viewerFrom(r)
	moved := v.Next()
	writeJSON(w, http.StatusOK, navigationResponse{Moved: moved, Snapshot: v.Snapshot()})
}

// POST /api/v1/viewers/{viewerID}/navigation/prev
func (s *Server) handlePrev(w http.ResponseWriter, r *http.Request) {
	v := viewerFrom(r)
	moved := v.Prev()
	writeJSON(w, http.StatusOK, navigationResponse{Moved: moved, Snapshot: v.Snapshot()})
}

type gotoRequest struct {
	Index *int `json:"index"`
}

// POST /api/v1/viewers/{viewerID}/navigation/goto
func (s *Server) handleGoTo(w http.ResponseWriter, r *http.Request) {
	var req gotoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Index == nil {
		writeError(w, r, badRequest("index is required"))
		return
	}
	v := viewerFrom(r)
	before := v.Navigator().CurrentIndex()
	v.GoTo(*req.Index)
	writeJSON(w, http.StatusOK, navigationResponse{
		Moved:    v.Navigator().CurrentIndex() != before,
		Snapshot: v.Snapshot(),
	})
}

type keyRequest struct {
	Key string `json:"key"`
}

type keyResponse struct {
	Handled  bool            `json:"handled"`
	Snapshot viewer.Snapshot `json:"viewer"`
}

// POST /api/v1/viewers/{viewerID}/navigation/key
func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v := viewerFrom(r)
	handled := v.HandleKey(req.Key)
	writeJSON(w, http.StatusOK, keyResponse{Handled: handled, Snapshot: v.Snapshot()})
}

type flippingRequest struct {
	Flipping bool `json:"flipping"`
}

// PUT /api/v1/viewers/{viewerID}/flipping
func (s *Server) handleFlipping(w http.ResponseWriter, r *http.Request) {
	var req flippingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v := viewerFrom(r)
	v.SetFlipping(req.Flipping)
	writeJSON(w, http.StatusOK, v.Snapshot())
}

// POST /api/v1/viewers/{viewerID}/spread/toggle
func (s *Server) handleToggleSpread(w http.ResponseWriter, r *http.Request) {
	v := viewerFrom(r)
	v.ToggleSpreadMode()
	writeJSON(w, http.StatusOK, v.Snapshot())
}

type spreadRequest struct {
	Mode flipbook.SpreadMode `json:"mode"`
}

// PUT /api/v1/viewers/{viewerID}/spread
func (s *Server) handleSetSpread(w http.ResponseWriter, r *http.Request) {
	var req spreadRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if !req.Mode.Valid() {
		writeError(w, r, badRequest("mode must be %q or %q", flipbook.SpreadSingle, flipbook.SpreadDouble))
		return
	}
	v := viewerFrom(r)
	v.Navigator().SetSpreadMode(req.Mode)
	writeJSON(w, http.StatusOK, v.Snapshot())
}

type zoomRequest struct {
	Action string   `json:"action,omitempty"`
	Level  *float64 `json:"level,omitempty"`
}

// POST /api/v1/viewers/{viewerID}/zoom
func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	v := viewerFrom(r)
	switch {
	case req.Level != nil && req.Action == "":
		v.SetZoom(*req.Level)
	case req.Level == nil && req.Action == "in":
		v.ZoomIn()
	case req.Level == nil && req.Action == "out":
		v.ZoomOut()
	case req.Level == nil && req.Action == "reset":
		v.ResetZoom()
	default:
		writeError(w, r, badRequest("set either action (in, out, reset) or level"))
		return
	}
	writeJSON(w, http.StatusOK, v.Snapshot())
}

type autoFlipRequest struct {
	Action     string `json:"action,omitempty"`
	IntervalMs *int64 `json:"intervalMs,omitempty"`
}

// POST /api/v1/viewers/{viewerID}/autoflip
func (s *Server) handleAutoFlip(w http.ResponseWriter, r *http.Request) {
	var req autoFlipRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.IntervalMs != nil && *req.IntervalMs <= 0 {
		writeError(w, r, badRequest("intervalMs must be positive"))
		return
	}
	if req.IntervalMs != nil && *req.IntervalMs > transform.MaxAutoFlipInterval.Milliseconds() {
		writeError(w, r, badRequest("intervalMs must not exceed %d", transform.MaxAutoFlipInterval.Milliseconds()))
		return
	}
	auto := viewerFrom(r).AutoFlip()
	if req.IntervalMs != nil {
		auto.SetInterval(time.Duration(*req.IntervalMs) * time.Millisecond)
	}
	switch req.Action {
	case "start":
		auto.Start()
	case "stop":
		auto.Stop()
	case "toggle":
		auto.Toggle()
	case "":
		if req.IntervalMs == nil {
			writeError(w, r, badRequest("set action (start, stop, toggle) or intervalMs"))
			return
		}
	default:
		writeError(w, r, badRequest("unknown action %q", req.Action))
		return
	}
	writeJSON(w, http.StatusOK, viewerFrom(r).Snapshot())
}

type viewportRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PUT /api/v1/viewers/{viewerID}/viewport
func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	var req viewportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Width < 0 || req.Height < 0 {
		writeError(w, r, badRequest("viewport dimensions must not be negative"))
		return
	}
	v := viewerFrom(r)
	v.Observe(req.Width, req.Height)
	writeJSON(w, http.StatusOK, v.Snapshot())
}

type urlResponse struct {
	URL   string        `json:"url"`
	State urlsync.State `json:"state"`
}

// GET /api/v1/viewers/{viewerID}/url
func (s *Server) handleGetURL(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentURL(viewerFrom(r)))
}

func currentURL(v *viewer.Viewer) urlResponse {
	raw := v.URL()
	resp := urlResponse{URL: raw}
	if u, err := url.Parse(raw); err == nil {
		resp.State = urlsync.Parse(u.Query())
	}
	return resp
}

type applyURLRequest struct {
	Query string `json:"query"`
}

// PUT /api/v1/viewers/{viewerID}/url
func (s *Server) handleApplyURL(w http.ResponseWriter, r *http.Request) {
	var req applyURLRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	q, err := url.ParseQuery(req.Query)
	if err != nil {
		writeError(w, r, badRequest("invalid query: %v", err))
		return
	}
	v := viewerFrom(r)
	v.ApplyURL(urlsync.Parse(q))
	writeJSON(w, http.StatusOK, currentURL(v))
}

type shareResponse struct {
	Link   string `json:"link"`
	Copied *bool  `json:"copied,omitempty"`
}

// GET /api/v1/viewers/{viewerID}/share
func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, shareResponse{Link: viewerFrom(r).ShareLink()})
}

// POST /api/v1/viewers/{viewerID}/share/copy
func (s *Server) handleCopyShare(w http.ResponseWriter, r *http.Request) {
	link, ok := viewerFrom(r).CopyShareLink(r.Context())
	if !ok {
		logger := xglog.WithComponentFromContext(r.Context(), "api")
		logger.Warn().
			Str(xglog.FieldEvent, "api.share_copy_failed").
			Msg("clipboard write failed")
	}
	writeJSON(w, http.StatusOK, shareResponse{Link: link, Copied: &ok})
}
