// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package urlsync

import (
	"context"
	"sync"

	"github.com/atotto/clipboard"
)

// Clipboard receives share links.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

var clipboardWrite = clipboard.WriteAll

// SystemClipboard writes to the host clipboard (xclip/xsel, pbcopy or the
// Windows API, depending on platform).
type SystemClipboard struct{}

func (SystemClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return clipboardWrite(text)
}

// MemoryClipboard keeps the last written text.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
	Err  error
}

func (c *MemoryClipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.text = text
	return nil
}

// Text returns the last written text.
func (c *MemoryClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}
