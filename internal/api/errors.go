// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ManuGH/flipbook/internal/document"
	"github.com/ManuGH/flipbook/internal/hotspot"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/viewer"
)

// maxJSONBody bounds JSON request bodies other than imports and uploads.
const maxJSONBody = 1 << 20

// errorResponse is the body of every non-2xx JSON response.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

var (
	// errBadRequest marks client input errors that carry no sentinel.
	errBadRequest = errors.New("bad request")
	// errConversion marks documents that passed validation but could not
	// be converted.
	errConversion = errors.New("conversion failed")
)

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeNotFound writes a 404 Not Found response
func writeNotFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Detail: what})
}

// writeError maps err onto a status code and error code.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)
	if status >= http.StatusInternalServerError {
		logger := xglog.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "api.request_failed").
			Str(xglog.FieldPath, r.URL.Path).
			Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: code, Detail: err.Error()})
}

func classify(err error) (int, string) {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, viewer.ErrNotFound):
		return http.StatusNotFound, "viewer_not_found"
	case errors.Is(err, viewer.ErrClosed):
		return http.StatusGone, "viewer_closed"
	case errors.Is(err, viewer.ErrTooManyViewers):
		return http.StatusServiceUnavailable, "too_many_viewers"
	case errors.As(err, &maxBytes), errors.Is(err, document.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "file_too_large"
	case errors.Is(err, document.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, "unsupported_file_type"
	case errors.Is(err, document.ErrEmpty), errors.Is(err, document.ErrNoPages):
		return http.StatusUnprocessableEntity, "empty_document"
	case errors.Is(err, hotspot.ErrNoConfig):
		return http.StatusConflict, "no_interactive_config"
	case errors.Is(err, hotspot.ErrInvalidConfig):
		return http.StatusBadRequest, "invalid_interactive_config"
	case errors.Is(err, errConversion):
		return http.StatusUnprocessableEntity, "conversion_failed"
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// decodeJSON decodes a bounded JSON body into v. Unknown fields and
// trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		return badRequest("invalid JSON body: %v", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return badRequest("request body must contain a single JSON object")
	}
	return nil
}
