// SPDX-License-Identifier: MIT

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Common attribute keys for consistent tracing across the application.
const (
	// HTTP attributes
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	// Viewer attributes
	ViewerIDKey   = "viewer.id"
	SessionIDKey  = "viewer.session_id"
	PageIndexKey  = "viewer.page_index"
	PageCountKey  = "viewer.page_count"
	ZoomScaleKey  = "viewer.zoom_scale"
	SpreadModeKey = "viewer.spread_mode"

	// Document attributes
	DocumentIDKey   = "document.id"
	DocumentTypeKey = "document.content_type"
	DocumentSizeKey = "document.size_bytes"
	DocumentPageKey = "document.pages"
	CacheHitKey     = "document.cache_hit"

	// Hotspot attributes
	HotspotIDKey  = "hotspot.id"
	ActionTypeKey = "hotspot.action_type"

	// Error attributes
	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// ViewerAttributes creates viewer span attributes. Empty ids are omitted.
func ViewerAttributes(viewerID, sessionID string, pageIndex, pageCount int) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 4)
	if viewerID != "" {
		attrs = append(attrs, attribute.String(ViewerIDKey, viewerID))
	}
	if sessionID != "" {
		attrs = append(attrs, attribute.String(SessionIDKey, sessionID))
	}
	return append(attrs,
		attribute.Int(PageIndexKey, pageIndex),
		attribute.Int(PageCountKey, pageCount),
	)
}

// DocumentAttributes creates document conversion span attributes.
func DocumentAttributes(documentID, contentType string, sizeBytes int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(DocumentIDKey, documentID),
		attribute.String(DocumentTypeKey, contentType),
		attribute.Int64(DocumentSizeKey, sizeBytes),
	}
}

// HotspotAttributes creates hotspot click span attributes.
func HotspotAttributes(hotspotID, actionType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HotspotIDKey, hotspotID),
		attribute.String(ActionTypeKey, actionType),
	}
}

// ErrorAttributes creates error-related span attributes.
func ErrorAttributes(_ error, errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
