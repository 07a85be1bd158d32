// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package hotspot manages the clickable regions of a document and the
// actions they trigger.
package hotspot

import (
	"encoding/json"
)

// Position is a rectangle in percent of the page (0-100).
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Style is the optional overlay appearance.
type Style struct {
	BorderColor     string   `json:"borderColor,omitempty"`
	BorderWidth     *float64 `json:"borderWidth,omitempty"`
	BackgroundColor string   `json:"backgroundColor,omitempty"`
	Opacity         *float64 `json:"opacity,omitempty"`
	HoverEffect     string   `json:"hoverEffect,omitempty"` // glow|scale|highlight|none
	Cursor          string   `json:"cursor,omitempty"`      // pointer|help|zoom-in|default
}

func (s *Style) clone() *Style {
	if s == nil {
		return nil
	}
	c := *s
	if s.BorderWidth != nil {
		v := *s.BorderWidth
		c.BorderWidth = &v
	}
	if s.Opacity != nil {
		v := *s.Opacity
		c.Opacity = &v
	}
	return &c
}

// Hotspot is one clickable region. Times are Unix milliseconds.
type Hotspot struct {
	ID          string   `json:"id"`
	PageNumber  int      `json:"pageNumber"`
	Position    Position `json:"position"`
	Action      Action   `json:"-"`
	Style       *Style   `json:"style,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`
	CreatedAt   int64    `json:"createdAt,omitempty"`
	UpdatedAt   int64    `json:"updatedAt,omitempty"`

	ClickCount    int   `json:"clickCount"`
	LastClickedAt int64 `json:"lastClickedAt,omitempty"`
}

func (h Hotspot) clone() Hotspot {
	h.Style = h.Style.clone()
	return h
}

func (h Hotspot) MarshalJSON() ([]byte, error) {
	type alias Hotspot
	action, err := EncodeAction(h.Action)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		alias
		Action json.RawMessage `json:"action"`
	}{alias: alias(h), Action: action})
}

func (h *Hotspot) UnmarshalJSON(data []byte) error {
	type alias Hotspot
	aux := struct {
		*alias
		Action json.RawMessage `json:"action"`
	}{alias: (*alias)(h)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	action, err := DecodeAction(aux.Action)
	if err != nil {
		return err
	}
	h.Action = action
	return nil
}

// Config is the interactive configuration of one document.
type Config struct {
	DocumentID      string    `json:"documentId"`
	Hotspots        []Hotspot `json:"hotspots"`
	DefaultStyle    *Style    `json:"defaultStyle,omitempty"`
	EnableAnalytics *bool     `json:"enableAnalytics,omitempty"`
	ShowIndicators  *bool     `json:"showIndicators,omitempty"`
	Version         int       `json:"version"`
	CreatedAt       int64     `json:"createdAt"`
	UpdatedAt       int64     `json:"updatedAt"`
}

// CurrentVersion is written into new configurations.
const CurrentVersion = 1

func (c Config) clone() Config {
	out := c
	out.Hotspots = make([]Hotspot, len(c.Hotspots))
	for i, h := range c.Hotspots {
		out.Hotspots[i] = h.clone()
	}
	out.DefaultStyle = c.DefaultStyle.clone()
	if c.EnableAnalytics != nil {
		v := *c.EnableAnalytics
		out.EnableAnalytics = &v
	}
	if c.ShowIndicators != nil {
		v := *c.ShowIndicators
		out.ShowIndicators = &v
	}
	return out
}

// Event is one recorded hotspot activation.
type Event struct {
	HotspotID  string     `json:"hotspotId"`
	PageNumber int        `json:"pageNumber"`
	ActionType ActionType `json:"actionType"`
	Timestamp  int64      `json:"timestamp"`
	SessionID  string     `json:"sessionId"`
}

// Patch is a partial hotspot update. Nil fields are left unchanged.
type Patch struct {
	PageNumber  *int      `json:"pageNumber,omitempty"`
	Position    *Position `json:"position,omitempty"`
	Action      Action    `json:"-"`
	Style       *Style    `json:"style,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
}

func (p *Patch) UnmarshalJSON(data []byte) error {
	type alias Patch
	aux := struct {
		*alias
		Action json.RawMessage `json:"action"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	action, err := DecodeAction(aux.Action)
	if err != nil {
		return err
	}
	p.Action = action
	return nil
}

func (p Patch) apply(h *Hotspot) {
	if p.PageNumber != nil {
		h.PageNumber = *p.PageNumber
	}
	if p.Position != nil {
		h.Position = *p.Position
	}
	if p.Action != nil {
		h.Action = p.Action
	}
	if p.Style != nil {
		h.Style = p.Style.clone()
	}
	if p.Title != nil {
		h.Title = *p.Title
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
}

// TopHotspot is one entry of Stats.TopHotspots.
type TopHotspot struct {
	ID     string `json:"id"`
	Clicks int    `json:"clicks"`
}

// Stats summarises click counts.
type Stats struct {
	TotalClicks int          `json:"totalClicks"`
	TopHotspots []TopHotspot `json:"topHotspots"`
}
