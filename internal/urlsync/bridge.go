// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package urlsync mirrors the viewer state (page, zoom, spread) into the
// query string of a Location and builds shareable links from it.
package urlsync

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"sync"

	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/rs/zerolog"
)

// Query parameter names.
const (
	ParamPage = "page"
	ParamZoom = "zoom"
	ParamView = "view"
)

// View values.
const (
	ViewSingle = "single"
	ViewDouble = "double"
)

// State holds the URL-visible fields. A nil field is unknown on read and
// left untouched on write.
type State struct {
	Page *int     `json:"page,omitempty"`
	Zoom *float64 `json:"zoom,omitempty"`
	View *string  `json:"view,omitempty"`
}

func (s State) WithPage(p int) State {
	s.Page = &p
	return s
}

func (s State) WithZoom(z float64) State {
	s.Zoom = &z
	return s
}

func (s State) WithView(v string) State {
	s.View = &v
	return s
}

// IsZero reports whether no field is set.
func (s State) IsZero() bool {
	return s.Page == nil && s.Zoom == nil && s.View == nil
}

// Bridge reads and writes State through a Location. Writes are
// serialized so concurrent merges do not drop each other's fields.
type Bridge struct {
	mu     sync.Mutex
	loc    Location
	logger zerolog.Logger
}

// NewBridge creates a bridge over loc.
func NewBridge(loc Location) *Bridge {
	return &Bridge{loc: loc, logger: xglog.WithComponent("urlsync")}
}

// Location returns the underlying location.
func (b *Bridge) Location() Location { return b.loc }

// Read parses the current query. Missing or malformed parameters are left nil.
func (b *Bridge) Read() State {
	return b.parse(b.loc.Current().Query())
}

// Parse extracts State from a query string.
func Parse(q url.Values) State {
	return NewBridge(nil).parse(q)
}

func (b *Bridge) parse(q url.Values) State {
	var s State
	if q.Has(ParamPage) {
		raw := q.Get(ParamPage)
		if p, err := strconv.Atoi(raw); err == nil {
			s.Page = &p
		} else {
			b.ignored(ParamPage, raw)
		}
	}
	if q.Has(ParamZoom) {
		raw := q.Get(ParamZoom)
		if z, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(z) && !math.IsInf(z, 0) {
			s.Zoom = &z
		} else {
			b.ignored(ParamZoom, raw)
		}
	}
	if q.Has(ParamView) {
		raw := q.Get(ParamView)
		if raw == ViewSingle || raw == ViewDouble {
			s.View = &raw
		} else {
			b.ignored(ParamView, raw)
		}
	}
	return s
}

func (b *Bridge) ignored(param, raw string) {
	b.logger.Debug().
		Str(xglog.FieldEvent, "urlsync.param_ignored").
		Str("param", param).
		Str("value", raw).
		Msg("ignoring malformed query parameter")
}

// Write merges the supplied fields into the current query and replaces the
// location. Other parameters are kept.
func (b *Bridge) Write(s State) {
	if s.IsZero() {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u := b.loc.Current()
	q := u.Query()
	encode(q, s)
	u.RawQuery = q.Encode()
	b.loc.Replace(u)
}

// ShareableLink builds an absolute link carrying only the supplied fields.
func (b *Bridge) ShareableLink(s State) string {
	cur := b.loc.Current()
	u := url.URL{Scheme: cur.Scheme, Host: cur.Host, Path: cur.Path}
	q := url.Values{}
	encode(q, s)
	u.RawQuery = q.Encode()
	return u.String()
}

// CopyShareableLink writes the share link to cb. Failures are logged and
// reported as false.
func (b *Bridge) CopyShareableLink(ctx context.Context, cb Clipboard, s State) (string, bool) {
	link := b.ShareableLink(s)
	if err := cb.WriteText(ctx, link); err != nil {
		logger := xglog.WithContext(ctx, b.logger)
		logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "urlsync.copy_failed").
			Msg("failed to copy link")
		return link, false
	}
	return link, true
}

func encode(q url.Values, s State) {
	if s.Page != nil {
		q.Set(ParamPage, strconv.Itoa(*s.Page))
	}
	if s.Zoom != nil {
		q.Set(ParamZoom, fmt.Sprintf("%.2f", *s.Zoom))
	}
	if s.View != nil {
		q.Set(ParamView, *s.View)
	}
}
