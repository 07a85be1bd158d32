// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"io"
	"net/http"
)

// GET /api/v1/viewers/{viewerID}/analytics
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, viewerFrom(r).Analytics().GetAnalytics(r.Context()))
}

// GET /api/v1/viewers/{viewerID}/analytics/export
func (s *Server) handleExportAnalytics(w http.ResponseWriter, r *http.Request) {
	text, err := viewerFrom(r).Analytics().Export(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="flipbook-analytics.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, text)
}

// DELETE /api/v1/viewers/{viewerID}/analytics
func (s *Server) handleClearAnalytics(w http.ResponseWriter, r *http.Request) {
	if err := viewerFrom(r).Analytics().Clear(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
