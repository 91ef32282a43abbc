// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptionsValidate(t *testing.T) {
	for _, ct := range ConversionTypes {
		t.Run(string(ct), func(t *testing.T) {
			o := DefaultOptions(ct)
			assert.Equal(t, ct, o.Type)
			require.NoError(t, o.Validate())
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "quality over range",
			opts: Options{Type: RasterToRaster, Raster: &RasterOptions{Quality: 101, Format: "jpeg"}},
			want: "quality",
		},
		{
			name: "unsupported dpi",
			opts: Options{Type: DocumentToRaster, Document: &DocumentOptions{DPI: 90, Quality: 85, Format: "png"}},
			want: "dpi",
		},
		{
			name: "scale under range",
			opts: Options{Type: VectorToRaster, Vector: &VectorOptions{Scale: 0.05, DPI: 96, Format: "png"}},
			want: "scale",
		},
		{
			name: "bad ocr format",
			opts: Options{Type: RasterToText, OCR: &OCROptions{Language: "eng", OutputFormat: "xml"}},
			want: "output format",
		},
		{
			name: "bad page size",
			opts: Options{Type: RasterToDocument, Assemble: &AssembleOptions{PageSize: "A3", Orientation: "portrait"}},
			want: "page size",
		},
		{
			name: "variant missing",
			opts: Options{Type: RasterToRaster},
			want: "missing",
		},
		{
			name: "unknown type",
			opts: Options{Type: "docx-to-odt"},
			want: "unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAccepts(t *testing.T) {
	assert.True(t, RasterToRaster.Accepts("image/png"))
	assert.True(t, RasterToRaster.Accepts("Image/JPEG"))
	assert.True(t, VectorToRaster.Accepts("image/svg+xml; charset=utf-8"))
	assert.False(t, RasterToRaster.Accepts("application/pdf"))
	assert.False(t, RasterToDocument.Accepts("image/tiff"))
	assert.False(t, DocumentToRaster.Accepts(""))
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, "image/jpeg", DetectMIME("photo.JPG"))
	assert.Equal(t, "application/pdf", DetectMIME("report.pdf"))
	assert.Equal(t, "image/svg+xml", DetectMIME("logo.svg"))
	assert.Equal(t, "", DetectMIME("notes.docx"))
	assert.Equal(t, "", DetectMIME("noext"))
}

func TestFormatExtAndOutputName(t *testing.T) {
	assert.Equal(t, "jpg", FormatExt("jpeg"))
	assert.Equal(t, "png", FormatExt("PNG"))
	assert.Equal(t, "scan.png", OutputName("in/scan.tiff", "png"))
	assert.Equal(t, "photo.pdf", OutputName("photo.jpg", "pdf"))
}
