// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package manifest loads a YAML batch description: the conversion type, its
// option record, and the input files, so a whole run can be replayed from one
// file instead of flags.
package manifest

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/jsenko/convert-engine/pkg/types"
)

// Manifest is the on-disk batch description. The option variant sections are
// optional; missing fields fall back to the family defaults.
type Manifest struct {
	Type types.ConversionType `yaml:"type"`

	Raster   *types.RasterOptions   `yaml:"raster,omitempty"`
	Document *types.DocumentOptions `yaml:"document,omitempty"`
	Vector   *types.VectorOptions   `yaml:"vector,omitempty"`
	OCR      *types.OCROptions      `yaml:"ocr,omitempty"`
	Assemble *types.AssembleOptions `yaml:"assemble,omitempty"`

	Files []string `yaml:"files"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if !m.Type.Valid() {
		return nil, fmt.Errorf("manifest conversion type %q is unknown", m.Type)
	}
	if len(m.Files) == 0 {
		return nil, fmt.Errorf("manifest lists no files")
	}
	return &m, nil
}

// Options assembles the full option record: family defaults overlaid with
// whichever variant the manifest provides.
func (m *Manifest) Options() (types.Options, error) {
	o := types.DefaultOptions(m.Type)
	switch m.Type {
	case types.RasterToRaster:
		if m.Raster != nil {
			o.Raster = m.Raster
		}
	case types.DocumentToRaster:
		if m.Document != nil {
			o.Document = m.Document
		}
	case types.VectorToRaster:
		if m.Vector != nil {
			o.Vector = m.Vector
		}
	case types.RasterToText:
		if m.OCR != nil {
			o.OCR = m.OCR
		}
	case types.RasterToDocument:
		if m.Assemble != nil {
			o.Assemble = m.Assemble
		}
	}
	if err := o.Validate(); err != nil {
		return types.Options{}, fmt.Errorf("manifest options: %w", err)
	}
	return o, nil
}
