// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ManuGH/flipbook/internal/document"
	xglog "github.com/ManuGH/flipbook/internal/log"
	"github.com/ManuGH/flipbook/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const (
	tracerName = "flipbook/api"

	// documentIDLength is how many hex digits of the content fingerprint
	// form a document id.
	documentIDLength = 16
)

type uploadResponse struct {
	DocumentID string `json:"documentId"`
	Title      string `json:"title"`
	PageCount  int    `json:"pageCount"`
	Viewer     any    `json:"viewer"`
}

// POST /api/v1/viewers/{viewerID}/document
//
// The body is either multipart/form-data with a "file" part or the raw
// file with its name in ?name=.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	limit := int64(s.cfg.MaxUploadMB) << 20
	// Multipart framing needs headroom beyond the file itself; the exact
	// size limit is enforced by document validation.
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)

	src, err := readSource(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ctx, span := telemetry.StartSpan(r.Context(), tracerName, "document.process",
		telemetry.DocumentAttributes("", src.ContentType, src.Size())...)
	defer span.End()

	pages, err := s.proc.Process(ctx, src)
	if err != nil {
		telemetry.RecordError(span, err, "document.process")
		writeError(w, r, conversionError(err))
		return
	}

	docID := src.Fingerprint()[:documentIDLength]
	title := strings.TrimSuffix(filepath.Base(src.Name), filepath.Ext(src.Name))
	span.SetAttributes(
		attribute.String(telemetry.DocumentIDKey, docID),
		attribute.Int(telemetry.DocumentPageKey, len(pages)),
	)

	v := viewerFrom(r)
	if err := v.Load(ctx, docID, title, pages); err != nil {
		telemetry.RecordError(span, err, "viewer.load")
		writeError(w, r, err)
		return
	}

	logger := xglog.WithComponentFromContext(ctx, "api")
	logger.Info().
		Str(xglog.FieldEvent, "api.document_uploaded").
		Str(xglog.FieldDocumentID, docID).
		Int(xglog.FieldPageCount, len(pages)).
		Int64("size_bytes", src.Size()).
		Msg("document uploaded")

	writeJSON(w, http.StatusOK, uploadResponse{
		DocumentID: docID,
		Title:      title,
		PageCount:  len(pages),
		Viewer:     v.Snapshot(),
	})
}

// conversionError keeps validation sentinels and marks everything else
// as a failed conversion.
func conversionError(err error) error {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, document.ErrUnsupportedType),
		errors.Is(err, document.ErrTooLarge),
		errors.Is(err, document.ErrEmpty),
		errors.Is(err, document.ErrNoPages),
		errors.Is(err, context.Canceled),
		errors.As(err, &maxBytes):
		return err
	}
	return fmt.Errorf("%w: %v", errConversion, err)
}

func readSource(r *http.Request) (document.Source, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return readMultipartSource(r)
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		return document.Source{}, badRequest("name query parameter is required for raw uploads")
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return document.Source{}, readError(err)
	}
	return document.Source{Name: name, ContentType: mediaType, Data: data}, nil
}

func readMultipartSource(r *http.Request) (document.Source, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return document.Source{}, badRequest("invalid multipart body: %v", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return document.Source{}, badRequest("multipart body has no file part")
		}
		if err != nil {
			return document.Source{}, readError(err)
		}
		if part.FormName() != "file" {
			_ = part.Close()
			continue
		}
		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return document.Source{}, readError(err)
		}
		name := part.FileName()
		if name == "" {
			name = r.URL.Query().Get("name")
		}
		if name == "" {
			return document.Source{}, badRequest("file part has no file name")
		}
		return document.Source{
			Name:        name,
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}
}

func readError(err error) error {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return err
	}
	return badRequest("read upload: %v", err)
}

// GET /api/v1/viewers/{viewerID}/pages/{number}/thumbnail?width=N
func (s *Server) handleThumbnail(w http.ResponseWriter, r *http.Request) {
	n, err := pageNumberParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	width := s.cfg.ThumbnailWidth
	if raw := r.URL.Query().Get("width"); raw != "" {
		width, err = strconv.Atoi(raw)
		if err != nil || width < 1 || width > 1024 {
			writeError(w, r, badRequest("width must be between 1 and 1024"))
			return
		}
	}
	p, ok := viewerFrom(r).Page(n)
	if !ok {
		writeNotFound(w, "page "+strconv.Itoa(n))
		return
	}
	img, err := document.Thumbnail(p, width)
	if errors.Is(err, document.ErrNoThumbnail) {
		writeNotFound(w, "thumbnail for page "+strconv.Itoa(n))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
