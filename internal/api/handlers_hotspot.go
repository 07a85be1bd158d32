// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ManuGH/flipbook/internal/hotspot"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/telemetry"
	"github.com/go-chi/chi/v5"
)

// maxImportBody bounds an interactive config import.
const maxImportBody = 4 << 20

// GET /api/v1/viewers/{viewerID}/hotspots[?page=N]
//
// Without page the whole configuration is returned.
func (s *Server) handleListHotspots(w http.ResponseWriter, r *http.Request) {
	reg := viewerFrom(r).Hotspots()
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, r, badRequest("page must be a positive integer"))
			return
		}
		list := reg.ByPage(n)
		if list == nil {
			list = []hotspot.Hotspot{}
		}
		writeJSON(w, http.StatusOK, list)
		return
	}
	cfg, ok := reg.Config()
	if !ok {
		writeError(w, r, hotspot.ErrNoConfig)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// POST /api/v1/viewers/{viewerID}/hotspots
func (s *Server) handleAddHotspot(w http.ResponseWriter, r *http.Request) {
	reg := viewerFrom(r).Hotspots()
	if _, ok := reg.Config(); !ok {
		writeError(w, r, hotspot.ErrNoConfig)
		return
	}
	var h hotspot.Hotspot
	if err := decodeJSON(w, r, &h); err != nil {
		writeError(w, r, err)
		return
	}
	probe := h
	if probe.ID == "" {
		probe.ID = "new"
	}
	if err := hotspot.ValidateHotspot(probe); err != nil {
		writeError(w, r, err)
		return
	}
	added, ok := reg.Add(r.Context(), h)
	if !ok {
		writeJSON(w, http.StatusConflict, errorResponse{Error: "hotspot_exists", Detail: h.ID})
		return
	}
	w.Header().Set("Location", r.URL.Path+"/"+added.ID)
	writeJSON(w, http.StatusCreated, added)
}

// GET /api/v1/viewers/{viewerID}/hotspots/{hotspotID}
func (s *Server) handleGetHotspot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "hotspotID")
	h, ok := viewerFrom(r).Hotspots().Get(id)
	if !ok {
		writeNotFound(w, "hotspot "+id)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// PATCH /api/v1/viewers/{viewerID}/hotspots/{hotspotID}
func (s *Server) handleUpdateHotspot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "hotspotID")
	reg := viewerFrom(r).Hotspots()
	if _, ok := reg.Get(id); !ok {
		writeNotFound(w, "hotspot "+id)
		return
	}
	var p hotspot.Patch
	if err := decodeJSON(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	// An update that would leave the hotspot invalid is dropped and the
	// unchanged hotspot returned.
	h, ok := reg.Update(r.Context(), id, p)
	if !ok {
		writeNotFound(w, "hotspot "+id)
		return
	}
	writeJSON(w, http.StatusOK, h)
}

// DELETE /api/v1/viewers/{viewerID}/hotspots/{hotspotID}
func (s *Server) handleDeleteHotspot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "hotspotID")
	if !viewerFrom(r).Hotspots().Delete(r.Context(), id) {
		writeNotFound(w, "hotspot "+id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type clickResponse struct {
	Event  hotspot.Event   `json:"event"`
	Effect *hotspot.Effect `json:"effect,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// POST /api/v1/viewers/{viewerID}/hotspots/{hotspotID}/click
//
// A click on a hotspot whose target is refused still counts, so the
// response is 200 with the refusal in error.
func (s *Server) handleClickHotspot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "hotspotID")
	v := viewerFrom(r)

	ctx, span := telemetry.StartSpan(r.Context(), tracerName, "hotspot.click",
		telemetry.ViewerAttributes(v.ID(), v.Analytics().CurrentSessionID(),
			v.Navigator().CurrentIndex(), v.Navigator().Len())...)
	defer span.End()

	ev, effect, ok, err := v.ClickHotspot(ctx, id)
	if !ok {
		writeNotFound(w, "hotspot "+id)
		return
	}
	span.SetAttributes(telemetry.HotspotAttributes(id, string(ev.ActionType))...)

	resp := clickResponse{Event: ev, Effect: effect}
	if err != nil {
		telemetry.RecordError(span, err, "hotspot.effect")
		resp.Error = err.Error()
		if !errors.Is(err, hotspot.ErrUnsafeURL) {
			logger := xglog.WithComponentFromContext(ctx, "api")
			logger.Warn().
				Err(err).
				Str(xglog.FieldEvent, "api.hotspot_effect_failed").
				Str(xglog.FieldHotspotID, id).
				Msg("hotspot action could not be resolved")
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/v1/viewers/{viewerID}/hotspots/stats
func (s *Server) handleHotspotStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewerFrom(r).Hotspots().Stats())
}

// GET /api/v1/viewers/{viewerID}/hotspots/events
func (s *Server) handleHotspotEvents(w http.ResponseWriter, r *http.Request) {
	events := viewerFrom(r).Hotspots().Events()
	if events == nil {
		events = []hotspot.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// GET /api/v1/viewers/{viewerID}/hotspots/export
func (s *Server) handleExportHotspots(w http.ResponseWriter, r *http.Request) {
	text, err := viewerFrom(r).Hotspots().Export()
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="interactive-config.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

// PUT /api/v1/viewers/{viewerID}/hotspots/import
//
// The body is the exported document itself.
func (s *Server) handleImportHotspots(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBody))
	if err != nil {
		writeError(w, r, readError(err))
		return
	}
	reg := viewerFrom(r).Hotspots()
	if err := reg.Import(r.Context(), string(data)); err != nil {
		writeError(w, r, err)
		return
	}
	cfg, _ := reg.Config()
	writeJSON(w, http.StatusOK, cfg)
}

type editorState struct {
	EditMode bool             `json:"editMode"`
	Selected *hotspot.Hotspot `json:"selected,omitempty"`
}

type editorRequest struct {
	EditMode *bool   `json:"editMode,omitempty"`
	Selected *string `json:"selected,omitempty"`
}

func currentEditor(reg *hotspot.Registry) editorState {
	st := editorState{EditMode: reg.EditMode()}
	if h, ok := reg.Selected(); ok {
		st.Selected = &h
	}
	return st
}

// GET /api/v1/viewers/{viewerID}/hotspots/editor
func (s *Server) handleGetEditor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentEditor(viewerFrom(r).Hotspots()))
}

// PUT /api/v1/viewers/{viewerID}/hotspots/editor
//
// An empty selected id clears the selection.
func (s *Server) handleSetEditor(w http.ResponseWriter, r *http.Request) {
	var req editorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	reg := viewerFrom(r).Hotspots()
	if req.EditMode != nil {
		reg.SetEditMode(*req.EditMode)
	}
	if req.Selected != nil && !reg.Select(*req.Selected) && *req.Selected != "" {
		writeNotFound(w, "hotspot "+*req.Selected)
		return
	}
	writeJSON(w, http.StatusOK, currentEditor(reg))
}
