// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package document

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// ErrNoThumbnail is returned for pages that have no raster content.
var ErrNoThumbnail = errors.New("page has no raster content")

// DefaultThumbnailWidth matches the thumbnail strip of the viewer.
const DefaultThumbnailWidth = 120

// Thumbnail renders a PNG preview of an image page no wider than maxWidth.
func Thumbnail(p Page, maxWidth int) ([]byte, error) {
	if p.Kind != KindImage {
		return nil, ErrNoThumbnail
	}
	if maxWidth <= 0 {
		maxWidth = DefaultThumbnailWidth
	}

	raw, err := decodeDataURI(p.Content)
	if err != nil {
		return nil, err
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode page image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxWidth {
		h = h * maxWidth / w
		w = maxWidth
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var out bytes.Buffer
	if err := png.Encode(&out, dst); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return out.Bytes(), nil
}
