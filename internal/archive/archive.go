// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive bundles completed outputs into one zip for download.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"time"

	"github.com/jsenko/convert-engine/pkg/types"
)

// Entry is one named output destined for the archive. Names are taken as
// given; the caller derives them from source filenames and resolves any
// collisions.
type Entry struct {
	Name string
	Data []byte
}

// Pack writes every entry into one zip on w. A packaging failure never
// invalidates the individual outputs; the caller can still offer them one by
// one.
func Pack(w io.Writer, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("nothing to archive")
	}

	zw := zip.NewWriter(w)
	for _, e := range entries {
		f, err := zw.Create(e.Name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("adding %s: %w", e.Name, err)
		}
		if _, err := f.Write(e.Data); err != nil {
			zw.Close()
			return fmt.Errorf("writing %s: %w", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalizing archive: %w", err)
	}
	return nil
}

// BatchName generates an archive filename encoding the conversion type, file
// count, and a timestamp, so repeated runs do not collide.
func BatchName(t types.ConversionType, count int, now time.Time) string {
	return fmt.Sprintf("%s_%dfiles_%s.zip", t, count, now.Format("20060102-150405"))
}
