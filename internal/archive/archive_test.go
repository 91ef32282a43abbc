// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsenko/convert-engine/pkg/types"
)

func TestPack(t *testing.T) {
	entries := []Entry{
		{Name: "a.jpg", Data: []byte("first")},
		{Name: "b_page_1.png", Data: []byte("second")},
	}

	var buf bytes.Buffer
	require.NoError(t, Pack(&buf, entries))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	got := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		got[f.Name] = string(data)
	}
	assert.Equal(t, "first", got["a.jpg"])
	assert.Equal(t, "second", got["b_page_1.png"])
}

func TestPack_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Pack(&buf, nil))
}

func TestBatchName(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	name := BatchName(types.DocumentToRaster, 7, now)
	assert.Equal(t, "document-to-raster_7files_20260314-150926.zip", name)
}
