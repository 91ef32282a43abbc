// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/jsenko/convert-engine/pkg/types"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 120, B: 220, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func bmpBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestConvert_SingleImage(t *testing.T) {
	opts := types.DefaultOptions(types.RasterToDocument)

	var last int
	outputs, err := Builder{}.Convert(context.Background(), "photo.png", pngBytes(t, 60, 40), opts,
		func(p int) { last = p })
	require.NoError(t, err)
	require.Len(t, outputs, 1)

	assert.Equal(t, "photo.pdf", outputs[0].Name)
	assert.Equal(t, "application/pdf", outputs[0].MIMEType)
	assert.True(t, bytes.HasPrefix(outputs[0].Data, []byte("%PDF")))
	assert.Equal(t, 100, last)
}

func TestBuild_MultiplePages(t *testing.T) {
	pages := []Page{
		{Name: "a.png", Data: pngBytes(t, 30, 30)},
		{Name: "b.png", Data: pngBytes(t, 40, 20)},
	}
	opts := types.AssembleOptions{PageSize: "Letter", Orientation: "landscape", Margin: 5}

	doc, err := Build(context.Background(), pages, opts, func(int) {})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
	// Two page objects in the document.
	assert.Equal(t, 2, bytes.Count(doc, []byte("/Type /Page\n")))
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(context.Background(), nil, types.AssembleOptions{PageSize: "A4", Margin: 10}, func(int) {})
	assert.Error(t, err)
}

func TestBuild_CorruptImage(t *testing.T) {
	pages := []Page{{Name: "bad.png", Data: []byte("nope")}}
	opts := types.AssembleOptions{PageSize: "A4", Orientation: "portrait", Margin: 10}

	_, err := Build(context.Background(), pages, opts, func(int) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding bad.png")
}

func TestBuild_ExcessiveMargin(t *testing.T) {
	pages := []Page{{Name: "a.png", Data: pngBytes(t, 10, 10)}}
	opts := types.AssembleOptions{PageSize: "A4", Orientation: "portrait", Margin: 200}

	_, err := Build(context.Background(), pages, opts, func(int) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "drawable area")
}

func TestConvert_UnsupportedEmbed(t *testing.T) {
	// BMP decodes (the raster package registers it) but fpdf cannot embed it.
	opts := types.DefaultOptions(types.RasterToDocument)
	_, err := Builder{}.Convert(context.Background(), "x.bmp", bmpBytes(t), opts, func(int) {})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnsupported))
}
