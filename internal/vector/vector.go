// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vector implements the vector-to-raster adapter: SVG rendered at a
// scale factor onto an optionally filled surface.
package vector

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/jsenko/convert-engine/internal/raster"
	"github.com/jsenko/convert-engine/pkg/types"
)

// Converter is the vector-to-raster adapter.
type Converter struct {
	Limits raster.Limits
}

// Convert parses the SVG, sizes the output from the intrinsic viewbox times
// the scale factor and the dpi relative to the 96-dpi CSS pixel space, and
// rasterizes onto a transparent or color-filled surface.
func (c Converter) Convert(ctx context.Context, name string, data []byte, opts types.Options, progress types.ProgressFunc) ([]types.Output, error) {
	if opts.Vector == nil {
		return nil, fmt.Errorf("vector options missing")
	}
	vo := *opts.Vector

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing svg: %w", err)
	}
	if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
		return nil, fmt.Errorf("svg has no intrinsic size")
	}
	progress(10)

	scale := vo.Scale
	if scale < 0.1 {
		scale = 0.1
	}
	if scale > 10 {
		scale = 10
	}
	dpi := vo.DPI
	if dpi <= 0 {
		dpi = 96
	}
	factor := scale * float64(dpi) / 96

	w := int(math.Round(icon.ViewBox.W * factor))
	h := int(math.Round(icon.ViewBox.H * factor))
	if err := c.Limits.Check(w, h); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if vo.BackgroundColor != "" {
		bg, err := parseHexColor(vo.BackgroundColor)
		if err != nil {
			return nil, err
		}
		draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	progress(70)

	out, err := raster.Encode(img, vo.Format, 90)
	if err != nil {
		return nil, err
	}
	progress(100)

	return []types.Output{{
		Name:     types.OutputName(name, types.FormatExt(vo.Format)),
		MIMEType: types.FormatMIME(vo.Format),
		Data:     out,
	}}, nil
}

// parseHexColor reads "#rgb" or "#rrggbb".
func parseHexColor(s string) (color.RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("background color %q is not #rgb or #rrggbb", s)
	}
	hex := s[1:]

	digit := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}

	var vals []uint8
	for i := 0; i < len(hex); i++ {
		v, ok := digit(hex[i])
		if !ok {
			return color.RGBA{}, fmt.Errorf("background color %q is not #rgb or #rrggbb", s)
		}
		vals = append(vals, v)
	}

	switch len(vals) {
	case 3:
		return color.RGBA{R: vals[0] * 17, G: vals[1] * 17, B: vals[2] * 17, A: 255}, nil
	case 6:
		return color.RGBA{
			R: vals[0]<<4 | vals[1],
			G: vals[2]<<4 | vals[3],
			B: vals[4]<<4 | vals[5],
			A: 255,
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("background color %q is not #rgb or #rrggbb", s)
}
