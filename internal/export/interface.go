// Package export writes conversation transcripts in several formats.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/iksnae/voice-desk/internal"
)

// Exporter defines the interface for all transcript formats
type Exporter interface {
	Export(transcript *internal.Transcript, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, md, yaml, json)", format)
	}
}

// WriteFile exports a transcript to path, creating parent directories.
// An empty extension on path gets the exporter's extension appended.
func WriteFile(transcript *internal.Transcript, format, path string) (string, error) {
	exporter, err := NewExporter(format)
	if err != nil {
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}

	if filepath.Ext(path) == "" {
		path = path + "." + exporter.Extension()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	if err := exporter.Export(transcript, f); err != nil {
		return "", &internal.ExportError{Format: format, Path: path, Err: err}
	}
	return path, nil
}
