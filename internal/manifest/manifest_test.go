// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsenko/convert-engine/pkg/types"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `
type: document-to-raster
document:
  dpi: 300
  quality: 70
  page_range: "1-3"
  format: png
files:
  - report.pdf
  - slides.pdf
`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, types.DocumentToRaster, m.Type)
	assert.Equal(t, []string{"report.pdf", "slides.pdf"}, m.Files)

	opts, err := m.Options()
	require.NoError(t, err)
	require.NotNil(t, opts.Document)
	assert.Equal(t, 300, opts.Document.DPI)
	assert.Equal(t, "1-3", opts.Document.PageRange)
}

func TestLoad_DefaultsWhenVariantOmitted(t *testing.T) {
	path := writeManifest(t, `
type: raster-to-raster
files: [a.png]
`)

	m, err := Load(path)
	require.NoError(t, err)

	opts, err := m.Options()
	require.NoError(t, err)
	require.NotNil(t, opts.Raster)
	assert.Equal(t, 85, opts.Raster.Quality)
	assert.Equal(t, "jpeg", opts.Raster.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "unknown type", content: "type: odt-to-docx\nfiles: [a.odt]\n", want: "unknown"},
		{name: "no files", content: "type: raster-to-raster\n", want: "no files"},
		{name: "bad yaml", content: "type: [unclosed\n", want: "parsing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeManifest(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestOptions_InvalidValues(t *testing.T) {
	path := writeManifest(t, `
type: document-to-raster
document:
  dpi: 90
  quality: 80
  format: jpeg
files: [a.pdf]
`)

	m, err := Load(path)
	require.NoError(t, err)
	_, err = m.Options()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dpi")
}
