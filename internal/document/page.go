// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package document defines the page model produced by document conversion
// and the processor port the viewer consumes it through.
package document

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Kind tells the presentation layer how to draw a page's content.
type Kind string

const (
	KindImage  Kind = "image"
	KindMarkup Kind = "markup"
)

// Page is one renderable unit of a document. Pages are immutable once
// produced; Number is 1-based.
type Page struct {
	ID      string `json:"id"`
	Kind    Kind   `json:"type"`
	Content string `json:"content"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Number  int    `json:"pageNumber"`
}

// Source is an uploaded file awaiting conversion.
type Source struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the payload length in bytes.
func (s Source) Size() int64 { return int64(len(s.Data)) }

// Fingerprint is a stable content hash used for cache keys and document IDs.
func (s Source) Fingerprint() string {
	sum := sha256.Sum256(s.Data)
	return hex.EncodeToString(sum[:])
}

// Processor converts a source file into an ordered page list.
type Processor interface {
	Process(ctx context.Context, src Source) ([]Page, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, src Source) ([]Page, error)

func (f ProcessorFunc) Process(ctx context.Context, src Source) ([]Page, error) {
	return f(ctx, src)
}

func pageID(src Source, number int) string {
	return fmt.Sprintf("%s-p%d", src.Fingerprint()[:12], number)
}
