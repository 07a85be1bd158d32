// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package document

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// FileType is the coarse family a source file belongs to.
type FileType string

const (
	FileTypeMarkdown    FileType = "markdown"
	FileTypeImage       FileType = "image"
	FileTypePDF         FileType = "pdf"
	FileTypeSpreadsheet FileType = "spreadsheet"
	FileTypeUnknown     FileType = "unknown"
)

// DefaultMaxSizeMB bounds uploads when no limit is configured.
const DefaultMaxSizeMB = 50

var (
	// ErrUnsupportedType is returned when no engine can convert a source.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrTooLarge is returned when a source exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
	// ErrEmpty is returned for zero-length sources.
	ErrEmpty = errors.New("empty file")
)

// ValidationError carries a human-readable reason for rejecting a source.
type ValidationError struct {
	Name   string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

var extensionTypes = map[string]FileType{
	".md":       FileTypeMarkdown,
	".markdown": FileTypeMarkdown,
	".mdown":    FileTypeMarkdown,
	".png":      FileTypeImage,
	".jpg":      FileTypeImage,
	".jpeg":     FileTypeImage,
	".gif":      FileTypeImage,
	".webp":     FileTypeImage,
	".bmp":      FileTypeImage,
	".tif":      FileTypeImage,
	".tiff":     FileTypeImage,
	".pdf":      FileTypePDF,
	".xlsx":     FileTypeSpreadsheet,
	".xls":      FileTypeSpreadsheet,
	".csv":      FileTypeSpreadsheet,
}

// DetectFileType classifies a file by its extension.
func DetectFileType(name string) FileType {
	ext := strings.ToLower(filepath.Ext(name))
	if t, ok := extensionTypes[ext]; ok {
		return t
	}
	return FileTypeUnknown
}

// ValidateSource checks size and type before conversion is attempted.
func ValidateSource(src Source, maxSizeMB int) error {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultMaxSizeMB
	}
	if len(src.Data) == 0 {
		return &ValidationError{Name: src.Name, Reason: "No file provided.", Err: ErrEmpty}
	}
	maxBytes := int64(maxSizeMB) * 1024 * 1024
	if src.Size() > maxBytes {
		return &ValidationError{
			Name:   src.Name,
			Reason: fmt.Sprintf("File too large. Maximum size is %dMB", maxSizeMB),
			Err:    ErrTooLarge,
		}
	}
	if DetectFileType(src.Name) == FileTypeUnknown {
		return &ValidationError{
			Name:   src.Name,
			Reason: "Unsupported file type. Supported: Markdown, PNG, JPEG, GIF, WebP, BMP, TIFF",
			Err:    ErrUnsupportedType,
		}
	}
	return nil
}
