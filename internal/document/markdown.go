// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// A4 at 96 DPI, used as the intrinsic size of markup pages.
const (
	DefaultMarkupWidth  = 794
	DefaultMarkupHeight = 1123
)

// ErrNoPages is returned when a source converts to zero pages.
var ErrNoPages = errors.New("document has no pages")

// MarkdownEngine converts Markdown into markup pages. Each thematic break
// (---, ***) starts a new page.
type MarkdownEngine struct {
	md     goldmark.Markdown
	Width  int
	Height int
}

// NewMarkdownEngine creates an engine with GitHub-flavoured extensions.
func NewMarkdownEngine() *MarkdownEngine {
	return &MarkdownEngine{
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		Width:  DefaultMarkupWidth,
		Height: DefaultMarkupHeight,
	}
}

// Process implements Processor.
func (e *MarkdownEngine) Process(ctx context.Context, src Source) ([]Page, error) {
	doc := e.md.Parser().Parse(text.NewReader(src.Data))
	renderer := e.md.Renderer()

	var (
		pages []Page
		buf   bytes.Buffer
	)
	flush := func() {
		content := strings.TrimSpace(buf.String())
		buf.Reset()
		if content == "" {
			return
		}
		n := len(pages) + 1
		pages = append(pages, Page{
			ID:      pageID(src, n),
			Kind:    KindMarkup,
			Content: content,
			Width:   e.Width,
			Height:  e.Height,
			Number:  n,
		})
	}

	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if child.Kind() == ast.KindThematicBreak {
			flush()
			continue
		}
		if err := renderer.Render(&buf, src.Data, child); err != nil {
			return nil, fmt.Errorf("render markdown: %w", err)
		}
	}
	flush()

	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return pages, nil
}
