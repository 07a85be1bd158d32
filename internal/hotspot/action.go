// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package hotspot

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ActionType is the wire tag of an action.
type ActionType string

const (
	ActionLink    ActionType = "link"
	ActionVideo   ActionType = "video"
	ActionAudio   ActionType = "audio"
	ActionProduct ActionType = "product"
	ActionPopup   ActionType = "popup"
)

// VideoPlatform selects how a video id is embedded.
type VideoPlatform string

const (
	PlatformYouTube VideoPlatform = "youtube"
	PlatformVimeo   VideoPlatform = "vimeo"
	PlatformCustom  VideoPlatform = "custom"
)

// Action is the closed set of things a hotspot can do. The concrete types
// are LinkAction, VideoAction, AudioAction, ProductAction, PopupAction and
// UnknownAction for tags this build does not recognise.
type Action interface {
	Type() ActionType
	isAction()
}

type LinkAction struct {
	URL          string
	OpenInNewTab bool
}

type VideoAction struct {
	VideoURL string
	VideoID  string
	Platform VideoPlatform
}

type AudioAction struct {
	AudioURL string
	AutoPlay bool
}

type ProductAction struct {
	ProductID  string
	Name       string
	Price      *float64
	ProductURL string
}

type PopupAction struct {
	Title    string
	Content  string
	ImageURL string
}

// UnknownAction keeps an unrecognised action verbatim so it survives an
// export/import cycle.
type UnknownAction struct {
	Tag string
	Raw json.RawMessage
}

func (LinkAction) Type() ActionType    { return ActionLink }
func (VideoAction) Type() ActionType   { return ActionVideo }
func (AudioAction) Type() ActionType   { return ActionAudio }
func (ProductAction) Type() ActionType { return ActionProduct }
func (PopupAction) Type() ActionType   { return ActionPopup }
func (u UnknownAction) Type() ActionType {
	return ActionType(u.Tag)
}

func (LinkAction) isAction()    {}
func (VideoAction) isAction()   {}
func (AudioAction) isAction()   {}
func (ProductAction) isAction() {}
func (PopupAction) isAction()   {}
func (UnknownAction) isAction() {}

// wireAction is the flat JSON shape: a "type" tag plus the optional fields
// of every variant.
type wireAction struct {
	Type string `json:"type"`

	URL          string `json:"url,omitempty"`
	OpenInNewTab bool   `json:"openInNewTab,omitempty"`

	VideoURL      string `json:"videoUrl,omitempty"`
	VideoID       string `json:"videoId,omitempty"`
	VideoPlatform string `json:"videoPlatform,omitempty"`

	AudioURL string `json:"audioUrl,omitempty"`
	AutoPlay bool   `json:"autoPlay,omitempty"`

	ProductID    string   `json:"productId,omitempty"`
	ProductName  string   `json:"productName,omitempty"`
	ProductPrice *float64 `json:"productPrice,omitempty"`
	ProductURL   string   `json:"productUrl,omitempty"`

	PopupTitle    string `json:"popupTitle,omitempty"`
	PopupContent  string `json:"popupContent,omitempty"`
	PopupImageURL string `json:"popupImageUrl,omitempty"`
}

// EncodeAction renders a in the flat wire shape. A nil action encodes as null.
func EncodeAction(a Action) (json.RawMessage, error) {
	var w wireAction
	switch v := a.(type) {
	case nil:
		return json.RawMessage("null"), nil
	case LinkAction:
		w = wireAction{Type: string(ActionLink), URL: v.URL, OpenInNewTab: v.OpenInNewTab}
	case VideoAction:
		w = wireAction{Type: string(ActionVideo), VideoURL: v.VideoURL, VideoID: v.VideoID, VideoPlatform: string(v.Platform)}
	case AudioAction:
		w = wireAction{Type: string(ActionAudio), AudioURL: v.AudioURL, AutoPlay: v.AutoPlay}
	case ProductAction:
		w = wireAction{Type: string(ActionProduct), ProductID: v.ProductID, ProductName: v.Name, ProductPrice: v.Price, ProductURL: v.ProductURL}
	case PopupAction:
		w = wireAction{Type: string(ActionPopup), PopupTitle: v.Title, PopupContent: v.Content, PopupImageURL: v.ImageURL}
	case UnknownAction:
		if len(v.Raw) > 0 {
			return v.Raw, nil
		}
		w = wireAction{Type: v.Tag}
	default:
		return nil, fmt.Errorf("unsupported action %T", a)
	}
	return json.Marshal(w)
}

// DecodeAction parses the flat wire shape. Unknown tags decode to
// UnknownAction; null or empty input decodes to nil.
func DecodeAction(data []byte) (Action, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	var w wireAction
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	switch ActionType(w.Type) {
	case ActionLink:
		return LinkAction{URL: w.URL, OpenInNewTab: w.OpenInNewTab}, nil
	case ActionVideo:
		return VideoAction{VideoURL: w.VideoURL, VideoID: w.VideoID, Platform: VideoPlatform(w.VideoPlatform)}, nil
	case ActionAudio:
		return AudioAction{AudioURL: w.AudioURL, AutoPlay: w.AutoPlay}, nil
	case ActionProduct:
		return ProductAction{ProductID: w.ProductID, Name: w.ProductName, Price: w.ProductPrice, ProductURL: w.ProductURL}, nil
	case ActionPopup:
		return PopupAction{Title: w.PopupTitle, Content: w.PopupContent, ImageURL: w.PopupImageURL}, nil
	default:
		return UnknownAction{Tag: w.Type, Raw: append(json.RawMessage(nil), trimmed...)}, nil
	}
}
