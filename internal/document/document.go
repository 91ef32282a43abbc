// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document implements the document-to-raster adapter: selected pages
// of a PDF (or EPUB/XPS) rendered to images through MuPDF.
package document

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/jsenko/convert-engine/internal/pagerange"
	"github.com/jsenko/convert-engine/internal/raster"
	"github.com/jsenko/convert-engine/pkg/types"
)

// Converter is the document-to-raster adapter.
type Converter struct {
	Limits raster.Limits
	Logger *slog.Logger
}

// NewConverter builds the adapter.
func NewConverter(limits raster.Limits, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{Limits: limits, Logger: logger}
}

// Convert renders the selected pages in ascending order, one output per page.
// A single page's render failure is logged and skipped; the conversion fails
// only when no page succeeds. Documents use a 72-dpi logical coordinate
// space, so the render scale is dpi/72, which MuPDF applies internally.
func (c *Converter) Convert(ctx context.Context, name string, data []byte, opts types.Options, progress types.ProgressFunc) ([]types.Output, error) {
	if opts.Document == nil {
		return nil, fmt.Errorf("document options missing")
	}
	do := *opts.Document

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	defer doc.Close()
	progress(5)

	total := doc.NumPage()
	if total == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	pages := pagerange.Parse(do.PageRange, total)
	if len(pages) == 0 {
		return nil, fmt.Errorf("page range %q selects none of the %d pages", do.PageRange, total)
	}
	progress(10)

	ext := types.FormatExt(do.Format)
	mime := types.FormatMIME(do.Format)
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	outputs := make([]types.Output, 0, len(pages))
	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(page-1, float64(do.DPI))
		if err != nil {
			c.Logger.Warn("page render failed, skipping",
				"file", name, "page", page, "error", err)
			continue
		}

		if err := c.Limits.Check(img.Bounds().Dx(), img.Bounds().Dy()); err != nil {
			c.Logger.Warn("page exceeds dimension limits, skipping",
				"file", name, "page", page, "error", err)
			continue
		}

		encoded, err := raster.Encode(img, do.Format, do.Quality)
		if err != nil {
			c.Logger.Warn("page encode failed, skipping",
				"file", name, "page", page, "error", err)
			continue
		}

		outputs = append(outputs, types.Output{
			Name:     fmt.Sprintf("%s_page_%d.%s", base, page, ext),
			MIMEType: mime,
			Data:     encoded,
		})

		// The first 10 points cover document load and page-count resolution.
		progress(10 + int(math.Round(float64(i+1)/float64(len(pages))*90)))
	}

	if len(outputs) == 0 {
		return nil, fmt.Errorf("all %d selected pages failed to render", len(pages))
	}

	progress(100)
	return outputs, nil
}
