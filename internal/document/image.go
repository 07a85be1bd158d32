// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package document

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ImageEngine turns a single raster image into a one-page document.
type ImageEngine struct{}

// NewImageEngine creates an image engine.
func NewImageEngine() *ImageEngine { return &ImageEngine{} }

// Process implements Processor.
func (e *ImageEngine) Process(ctx context.Context, src Source) ([]Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(src.Data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image %s has no area", src.Name)
	}

	return []Page{{
		ID:      pageID(src, 1),
		Kind:    KindImage,
		Content: dataURI(format, src.Data),
		Width:   cfg.Width,
		Height:  cfg.Height,
		Number:  1,
	}}, nil
}

func dataURI(format string, data []byte) string {
	return "data:image/" + format + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func decodeDataURI(uri string) ([]byte, error) {
	const marker = ";base64,"
	i := bytes.Index([]byte(uri), []byte(marker))
	if i < 0 {
		return nil, fmt.Errorf("content is not a base64 data URI")
	}
	return base64.StdEncoding.DecodeString(uri[i+len(marker):])
}
