// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package hotspot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnsafeURL is returned for link targets outside http, https and mailto.
var ErrUnsafeURL = errors.New("unsafe link target")

// EffectKind tells the client what to do after a click.
type EffectKind string

const (
	EffectNavigate    EffectKind = "navigate"
	EffectEmbedVideo  EffectKind = "embed_video"
	EffectPlayAudio   EffectKind = "play_audio"
	EffectShowProduct EffectKind = "show_product"
	EffectShowPopup   EffectKind = "show_popup"
)

// Effect is the client instruction produced by a click.
type Effect struct {
	Kind      EffectKind `json:"kind"`
	HotspotID string     `json:"hotspotId"`
	URL       string     `json:"url,omitempty"`
	NewTab    bool       `json:"newTab,omitempty"`
	AutoPlay  bool       `json:"autoPlay,omitempty"`
	ProductID string     `json:"productId,omitempty"`
	Title     string     `json:"title,omitempty"`
	Content   string     `json:"content,omitempty"`
	ImageURL  string     `json:"imageUrl,omitempty"`
	Price     *float64   `json:"price,omitempty"`
}

// EffectHandler is a Handler that records the resulting Effect instead
// of performing it.
type EffectHandler struct {
	Effect *Effect
}

// Resolve dispatches h and returns the effect, if any.
func Resolve(ctx context.Context, h Hotspot) (*Effect, error) {
	var eh EffectHandler
	if err := Dispatch(ctx, &eh, h); err != nil {
		return nil, err
	}
	return eh.Effect, nil
}

func (e *EffectHandler) OnLink(_ context.Context, h Hotspot, a LinkAction) error {
	if err := checkURL(a.URL); err != nil {
		return err
	}
	e.Effect = &Effect{Kind: EffectNavigate, HotspotID: h.ID, URL: a.URL, NewTab: a.OpenInNewTab}
	return nil
}

func (e *EffectHandler) OnVideo(_ context.Context, h Hotspot, a VideoAction) error {
	src, err := EmbedURL(a)
	if err != nil {
		return err
	}
	e.Effect = &Effect{Kind: EffectEmbedVideo, HotspotID: h.ID, URL: src, Title: h.Title}
	return nil
}

func (e *EffectHandler) OnAudio(_ context.Context, h Hotspot, a AudioAction) error {
	if err := checkURL(a.AudioURL); err != nil {
		return err
	}
	e.Effect = &Effect{Kind: EffectPlayAudio, HotspotID: h.ID, URL: a.AudioURL, AutoPlay: a.AutoPlay}
	return nil
}

func (e *EffectHandler) OnProduct(_ context.Context, h Hotspot, a ProductAction) error {
	if a.ProductURL != "" {
		if err := checkURL(a.ProductURL); err != nil {
			return err
		}
	}
	e.Effect = &Effect{
		Kind:      EffectShowProduct,
		HotspotID: h.ID,
		ProductID: a.ProductID,
		Title:     a.Name,
		Price:     a.Price,
		URL:       a.ProductURL,
	}
	return nil
}

func (e *EffectHandler) OnPopup(_ context.Context, h Hotspot, a PopupAction) error {
	e.Effect = &Effect{
		Kind:      EffectShowPopup,
		HotspotID: h.ID,
		Title:     a.Title,
		Content:   a.Content,
		ImageURL:  a.ImageURL,
	}
	return nil
}

// EmbedURL returns the player URL for a video action.
func EmbedURL(a VideoAction) (string, error) {
	switch {
	case a.VideoID != "" && a.Platform == PlatformYouTube:
		return "https://www.youtube.com/embed/" + url.PathEscape(a.VideoID), nil
	case a.VideoID != "" && a.Platform == PlatformVimeo:
		return "https://player.vimeo.com/video/" + url.PathEscape(a.VideoID), nil
	case a.VideoURL != "":
		if err := checkURL(a.VideoURL); err != nil {
			return "", err
		}
		return a.VideoURL, nil
	default:
		return "", fmt.Errorf("video action has neither a platform id nor a url")
	}
}

func checkURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return nil
	default:
		return fmt.Errorf("%w: scheme %q", ErrUnsafeURL, u.Scheme)
	}
}
