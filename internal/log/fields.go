// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID  = "request_id"
	FieldViewerID   = "viewer_id"
	FieldSessionID  = "session_id"
	FieldDocumentID = "document_id"
	FieldHotspotID  = "hotspot_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Navigation fields
	FieldPageIndex  = "page_index"
	FieldPageNumber = "page_number"
	FieldPageCount  = "page_count"
	FieldSpreadMode = "spread_mode"
	FieldZoom       = "zoom"

	// Storage fields
	FieldBackend = "backend"
	FieldKey     = "key"

	// Path / URL fields
	FieldPath    = "path"
	FieldURL     = "url"
	FieldBaseURL = "base_url"
)
