// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package document

import (
	"context"
	"fmt"
	"time"

	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/metrics"
	"github.com/rs/zerolog"
)

// Pipeline validates a source and routes it to the engine for its file type.
type Pipeline struct {
	engines   map[FileType]Processor
	maxSizeMB int
	logger    zerolog.Logger
}

// NewPipeline creates a pipeline with the markdown and image engines registered.
func NewPipeline(maxSizeMB int) *Pipeline {
	p := &Pipeline{
		engines:   make(map[FileType]Processor),
		maxSizeMB: maxSizeMB,
		logger:    xglog.WithComponent("document"),
	}
	p.Register(FileTypeMarkdown, NewMarkdownEngine())
	p.Register(FileTypeImage, NewImageEngine())
	return p
}

// Register installs or replaces the engine for a file type.
func (p *Pipeline) Register(t FileType, engine Processor) {
	p.engines[t] = engine
}

// Process implements Processor.
func (p *Pipeline) Process(ctx context.Context, src Source) ([]Page, error) {
	start := time.Now()
	fileType := DetectFileType(src.Name)

	if err := ValidateSource(src, p.maxSizeMB); err != nil {
		metrics.IncDocumentConversion(string(fileType), "rejected")
		return nil, err
	}

	engine, ok := p.engines[fileType]
	if !ok {
		metrics.IncDocumentConversion(string(fileType), "rejected")
		return nil, &ValidationError{
			Name:   src.Name,
			Reason: fmt.Sprintf("Unsupported file type: %s", src.Name),
			Err:    ErrUnsupportedType,
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := engine.Process(ctx, src)
	if err != nil {
		metrics.IncDocumentConversion(string(fileType), "failed")
		p.logger.Warn().
			Err(err).
			Str(xglog.FieldEvent, "document.convert_failed").
			Str("file", src.Name).
			Msg("document conversion failed")
		return nil, fmt.Errorf("convert %s: %w", src.Name, err)
	}

	metrics.IncDocumentConversion(string(fileType), "success")
	metrics.ObserveDocumentConversion(time.Since(start))
	p.logger.Info().
		Str(xglog.FieldEvent, "document.converted").
		Str("file", src.Name).
		Str("type", string(fileType)).
		Int(xglog.FieldPageCount, len(pages)).
		Msg("document converted")
	return pages, nil
}
