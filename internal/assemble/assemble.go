// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble implements the raster-to-document adapter: one or more
// images bound into a single PDF, one page per image.
package assemble

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/jsenko/convert-engine/pkg/types"
)

// Builder is the raster-to-document adapter.
type Builder struct{}

// imageTypes maps accepted input MIME types onto fpdf image type tags.
var imageTypes = map[string]string{
	"image/jpeg": "JPG",
	"image/png":  "PNG",
	"image/gif":  "GIF",
}

// Convert lays the image onto a fresh PDF page, fitted inside the margins
// with its aspect ratio preserved, and returns the document.
func (Builder) Convert(ctx context.Context, name string, data []byte, opts types.Options, progress types.ProgressFunc) ([]types.Output, error) {
	if opts.Assemble == nil {
		return nil, fmt.Errorf("assemble options missing")
	}
	ao := *opts.Assemble

	doc, err := Build(ctx, []Page{{Name: name, Data: data}}, ao, progress)
	if err != nil {
		return nil, err
	}

	return []types.Output{{
		Name:     types.OutputName(name, "pdf"),
		MIMEType: "application/pdf",
		Data:     doc,
	}}, nil
}

// Page is one image destined for one PDF page.
type Page struct {
	Name string
	Data []byte
}

// Build renders pages into a single PDF. It backs both the per-file adapter
// and multi-image assembly from the CLI.
func Build(ctx context.Context, pages []Page, opts types.AssembleOptions, progress types.ProgressFunc) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("no images to assemble")
	}

	orientation := "P"
	if opts.Orientation == "landscape" {
		orientation = "L"
	}
	pdf := fpdf.New(orientation, "mm", opts.PageSize, "")
	pdf.SetAutoPageBreak(false, 0)

	pageW, pageH := pdf.GetPageSize()
	availW := pageW - 2*opts.Margin
	availH := pageH - 2*opts.Margin
	if availW <= 0 || availH <= 0 {
		return nil, fmt.Errorf("margin %gmm leaves no drawable area on a %gx%gmm page",
			opts.Margin, pageW, pageH)
	}

	for i, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cfg, format, err := image.DecodeConfig(bytes.NewReader(page.Data))
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", page.Name, err)
		}
		mime := "image/" + format
		tag, ok := imageTypes[mime]
		if !ok {
			return nil, fmt.Errorf("%w: %s cannot be embedded", types.ErrUnsupported, mime)
		}

		// Fit inside the margins preserving aspect ratio.
		ratio := math.Min(availW/float64(cfg.Width), availH/float64(cfg.Height))
		w := float64(cfg.Width) * ratio
		h := float64(cfg.Height) * ratio
		x := opts.Margin + (availW-w)/2
		y := opts.Margin + (availH-h)/2

		imgName := fmt.Sprintf("img%d", i)
		imgOpts := fpdf.ImageOptions{ImageType: tag}
		pdf.RegisterImageOptionsReader(imgName, imgOpts, bytes.NewReader(page.Data))
		pdf.AddPage()
		pdf.ImageOptions(imgName, x, y, w, h, false, imgOpts, 0, "")

		progress(int(math.Round(float64(i+1) / float64(len(pages)) * 90)))
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	progress(100)
	return buf.Bytes(), nil
}
