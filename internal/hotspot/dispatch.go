// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package hotspot

import (
	"context"

	xglog "github.com/ManuGH/flipbook/internal/log"
)

// Handler performs the side effect of each action variant.
type Handler interface {
	OnLink(ctx context.Context, h Hotspot, a LinkAction) error
	OnVideo(ctx context.Context, h Hotspot, a VideoAction) error
	OnAudio(ctx context.Context, h Hotspot, a AudioAction) error
	OnProduct(ctx context.Context, h Hotspot, a ProductAction) error
	OnPopup(ctx context.Context, h Hotspot, a PopupAction) error
}

// Dispatch routes the hotspot's action to handler. Unknown or missing
// actions are logged and skipped.
func Dispatch(ctx context.Context, handler Handler, h Hotspot) error {
	switch a := h.Action.(type) {
	case LinkAction:
		return handler.OnLink(ctx, h, a)
	case VideoAction:
		return handler.OnVideo(ctx, h, a)
	case AudioAction:
		return handler.OnAudio(ctx, h, a)
	case ProductAction:
		return handler.OnProduct(ctx, h, a)
	case PopupAction:
		return handler.OnPopup(ctx, h, a)
	default:
		tag := "<nil>"
		if a != nil {
			tag = string(a.Type())
		}
		logger := xglog.WithComponentFromContext(ctx, "hotspot")
		logger.Warn().
			Str(xglog.FieldEvent, "hotspot.unknown_action").
			Str(xglog.FieldHotspotID, h.ID).
			Str("action_type", tag).
			Msg("unknown hotspot action type")
		return nil
	}
}
