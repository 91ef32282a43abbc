// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster implements the raster-to-raster adapter and the encoding
// core shared by every adapter that produces image output.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/jsenko/convert-engine/pkg/types"
)

// Limits caps output surface allocation.
type Limits struct {
	// MaxDimension is the largest legal side length in pixels.
	MaxDimension int

	// MaxPixels is the largest legal area in pixels.
	MaxPixels int64
}

// LimitsFrom extracts the allocation ceilings from the engine config.
func LimitsFrom(cfg types.Config) Limits {
	return Limits{MaxDimension: cfg.MaxDimension, MaxPixels: cfg.MaxPixels}
}

// Check validates a requested output size against the ceilings before any
// allocation happens.
func (l Limits) Check(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d is not a drawable size", types.ErrDimensions, w, h)
	}
	if w > l.MaxDimension || h > l.MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds the %d pixel side limit",
			types.ErrDimensions, w, h, l.MaxDimension)
	}
	if int64(w)*int64(h) > l.MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds the %d total pixel limit",
			types.ErrDimensions, w, h, l.MaxPixels)
	}
	return nil
}

// FitDimensions resolves the output size. With neither dimension requested the
// source size is kept; with both, they are used as given; with one, the other
// preserves the source aspect ratio.
func FitDimensions(srcW, srcH, reqW, reqH int) (int, int) {
	switch {
	case reqW <= 0 && reqH <= 0:
		return srcW, srcH
	case reqW > 0 && reqH > 0:
		return reqW, reqH
	case reqW > 0:
		h := int(math.Round(float64(reqW) * float64(srcH) / float64(srcW)))
		if h < 1 {
			h = 1
		}
		return reqW, h
	default:
		w := int(math.Round(float64(reqH) * float64(srcW) / float64(srcH)))
		if w < 1 {
			w = 1
		}
		return w, reqH
	}
}

// Converter is the raster-to-raster adapter.
type Converter struct {
	Limits Limits
}

// Convert decodes data, scales it to the requested dimensions, and re-encodes
// it in the target format. Drawing into a fresh surface discards any source
// metadata, which covers the StripMetadata option without a separate pass.
func (c Converter) Convert(ctx context.Context, name string, data []byte, opts types.Options, progress types.ProgressFunc) ([]types.Output, error) {
	if opts.Raster == nil {
		return nil, fmt.Errorf("raster options missing")
	}
	ro := *opts.Raster

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	progress(10)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	w, h := FitDimensions(bounds.Dx(), bounds.Dy(), ro.Width, ro.Height)
	if err := c.Limits.Check(w, h); err != nil {
		return nil, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	progress(50)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := Encode(dst, ro.Format, ro.Quality)
	if err != nil {
		return nil, err
	}
	progress(100)

	return []types.Output{{
		Name:     types.OutputName(name, types.FormatExt(ro.Format)),
		MIMEType: types.FormatMIME(ro.Format),
		Data:     out,
	}}, nil
}
