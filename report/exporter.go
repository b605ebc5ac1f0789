package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Supported export formats.
const (
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnsupportedFormat is returned for formats other than pdf, csv and xlsx.
var ErrUnsupportedFormat = errors.New("report: unsupported format")

// Renderer turns HTML into PDF bytes.
type Renderer interface {
	RenderHTML(ctx context.Context, html string) ([]byte, error)
}

// Exporter renders documents in every supported format.
type Exporter struct {
	pdf Renderer
}

// NewExporter constructs an Exporter using renderer for PDFs.
func NewExporter(renderer Renderer) *Exporter {
	return &Exporter{pdf: renderer}
}

// NormalizeFormat lower-cases format and reports whether it is supported.
func NormalizeFormat(format string) (string, bool) {
	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case FormatPDF, FormatCSV, FormatXLSX:
		return format, true
	default:
		return format, false
	}
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch format {
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// PDF renders doc through the configured renderer.
func (e *Exporter) PDF(ctx context.Context, doc Document) ([]byte, error) {
	if e == nil || e.pdf == nil {
		return nil, errors.New("report: pdf renderer not configured")
	}
	html, err := BuildHTML(doc)
	if err != nil {
		return nil, err
	}
	data, err := e.pdf.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}
	return data, nil
}

// Render produces doc in format.
func (e *Exporter) Render(ctx context.Context, format string, doc Document) ([]byte, error) {
	format, ok := NormalizeFormat(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	switch format {
	case FormatPDF:
		return e.PDF(ctx, doc)
	case FormatCSV:
		var buf bytes.Buffer
		if err := WriteCSV(&buf, doc); err != nil {
			return nil, fmt.Errorf("report: write csv: %w", err)
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		if err := WriteXLSX(&buf, doc); err != nil {
			return nil, fmt.Errorf("report: write xlsx: %w", err)
		}
		return buf.Bytes(), nil
	}
}
