// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // webp decode registration

	"github.com/jsenko/convert-engine/pkg/types"
)

// EncoderQuality maps a user 1-100 quality onto the range the lossy encoders
// accept. Out-of-range input is clamped to [1, 100] first, then floored at 10
// to avoid degenerate encodes (the 0.1 floor of a 0-1 quality scale).
func EncoderQuality(q int) int {
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	if q < 10 {
		q = 10
	}
	return q
}

// Encode writes img in the named format. Lossy formats (jpeg, gif's
// quantization aside) take the quality; png, bmp, and tiff ignore it.
func Encode(img image.Image, format string, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch types.FormatExt(format) {
	case "jpg":
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: EncoderQuality(quality)})
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, &gif.Options{NumColors: 256})
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupported, format)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
