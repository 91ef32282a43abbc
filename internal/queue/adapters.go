// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package queue

import (
	"log/slog"

	"github.com/jsenko/convert-engine/internal/assemble"
	"github.com/jsenko/convert-engine/internal/document"
	"github.com/jsenko/convert-engine/internal/ocr"
	"github.com/jsenko/convert-engine/internal/raster"
	"github.com/jsenko/convert-engine/internal/vector"
	"github.com/jsenko/convert-engine/pkg/types"
)

// DefaultAdapters wires the production adapter for every conversion type.
func DefaultAdapters(cfg types.Config, logger *slog.Logger) map[types.ConversionType]Adapter {
	limits := raster.LimitsFrom(cfg)
	return map[types.ConversionType]Adapter{
		types.RasterToRaster:   raster.Converter{Limits: limits},
		types.DocumentToRaster: document.NewConverter(limits, logger),
		types.VectorToRaster:   vector.Converter{Limits: limits},
		types.RasterToText:     ocr.NewExtractor(cfg.OCR, logger),
		types.RasterToDocument: assemble.Builder{},
	}
}
