// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ConversionType selects which adapter and option variant apply to a batch.
type ConversionType string

const (
	RasterToRaster   ConversionType = "raster-to-raster"
	DocumentToRaster ConversionType = "document-to-raster"
	VectorToRaster   ConversionType = "vector-to-raster"
	RasterToText     ConversionType = "raster-to-text"
	RasterToDocument ConversionType = "raster-to-document"
)

// ConversionTypes lists all supported conversion types in display order.
var ConversionTypes = []ConversionType{
	RasterToRaster,
	DocumentToRaster,
	VectorToRaster,
	RasterToText,
	RasterToDocument,
}

// acceptedTypes maps each conversion type to the MIME types it admits at
// submission time.
var acceptedTypes = map[ConversionType][]string{
	RasterToRaster: {
		"image/jpeg", "image/png", "image/gif", "image/bmp",
		"image/tiff", "image/webp",
	},
	DocumentToRaster: {"application/pdf", "application/epub+zip", "application/oxps"},
	VectorToRaster:   {"image/svg+xml"},
	RasterToText: {
		"image/jpeg", "image/png", "image/gif", "image/bmp", "image/tiff",
	},
	// fpdf embeds JPEG, PNG, and GIF only.
	RasterToDocument: {"image/jpeg", "image/png", "image/gif"},
}

// Valid reports whether t is a known conversion type.
func (t ConversionType) Valid() bool {
	_, ok := acceptedTypes[t]
	return ok
}

// AcceptedTypes returns the MIME types admitted for t.
func (t ConversionType) AcceptedTypes() []string {
	return acceptedTypes[t]
}

// Accepts reports whether mimeType is admitted for t. Parameters after a
// semicolon (e.g. "; charset=") are ignored.
func (t ConversionType) Accepts(mimeType string) bool {
	mt := strings.TrimSpace(strings.ToLower(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	for _, a := range acceptedTypes[t] {
		if a == mt {
			return true
		}
	}
	return false
}

// RasterOptions configures raster-to-raster conversion.
type RasterOptions struct {
	// Quality is 1-100; lossless target formats ignore it.
	Quality int `json:"quality" yaml:"quality"`

	// Width and Height request output dimensions in pixels. Zero means "keep";
	// when only one is given the other preserves the source aspect ratio.
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`

	// StripMetadata requests removal of source metadata. Re-encoding through a
	// fresh surface discards it, so this is informational rather than a pass.
	StripMetadata bool `json:"strip_metadata" yaml:"strip_metadata"`

	// Format is the target raster format: jpeg, png, gif, bmp, or tiff.
	Format string `json:"format" yaml:"format"`
}

// DocumentOptions configures document-to-raster conversion.
type DocumentOptions struct {
	// DPI is the render resolution: 72, 150, 300, or 600.
	DPI int `json:"dpi" yaml:"dpi"`

	// Quality is 1-100, applied to lossy page encoding.
	Quality int `json:"quality" yaml:"quality"`

	// PageRange selects pages, e.g. "1-5, 8". Empty means all pages.
	PageRange string `json:"page_range,omitempty" yaml:"page_range,omitempty"`

	// Format is the per-page raster format: jpeg or png.
	Format string `json:"format" yaml:"format"`
}

// VectorOptions configures vector-to-raster conversion.
type VectorOptions struct {
	// Scale multiplies the document's intrinsic size, clamped to [0.1, 10].
	Scale float64 `json:"scale" yaml:"scale"`

	// BackgroundColor is an optional "#rrggbb" fill; empty keeps transparency.
	BackgroundColor string `json:"background_color,omitempty" yaml:"background_color,omitempty"`

	// DPI is the target resolution relative to the 96-dpi CSS pixel space.
	DPI int `json:"dpi" yaml:"dpi"`

	// Format is the target raster format: png or jpeg.
	Format string `json:"format" yaml:"format"`
}

// OCROutputFormat selects the OCR payload shape.
type OCROutputFormat string

const (
	OCRPlain      OCROutputFormat = "plain"
	OCRStructured OCROutputFormat = "structured"
)

// OCROptions configures raster-to-text extraction.
type OCROptions struct {
	// Language is the recognition language code, e.g. "eng".
	Language string `json:"language" yaml:"language"`

	// OutputFormat is plain (decorated text) or structured (JSON).
	OutputFormat OCROutputFormat `json:"output_format" yaml:"output_format"`

	// Confidence requests a mean word-confidence score alongside the text.
	Confidence bool `json:"confidence" yaml:"confidence"`

	// PreserveFormatting keeps the recognizer's whitespace verbatim; when
	// false, blank-line runs and trailing spaces are collapsed.
	PreserveFormatting bool `json:"preserve_formatting" yaml:"preserve_formatting"`
}

// AssembleOptions configures raster-to-document assembly.
type AssembleOptions struct {
	// PageSize is A4 or Letter.
	PageSize string `json:"page_size" yaml:"page_size"`

	// Orientation is portrait or landscape.
	Orientation string `json:"orientation" yaml:"orientation"`

	// Margin is the page margin in millimeters.
	Margin float64 `json:"margin" yaml:"margin"`
}

// Options is a tagged union: Type names the conversion family and exactly one
// variant pointer is populated. Adapters read only their matching variant.
type Options struct {
	Type ConversionType `json:"type" yaml:"type"`

	Raster   *RasterOptions   `json:"raster,omitempty" yaml:"raster,omitempty"`
	Document *DocumentOptions `json:"document,omitempty" yaml:"document,omitempty"`
	Vector   *VectorOptions   `json:"vector,omitempty" yaml:"vector,omitempty"`
	OCR      *OCROptions      `json:"ocr,omitempty" yaml:"ocr,omitempty"`
	Assemble *AssembleOptions `json:"assemble,omitempty" yaml:"assemble,omitempty"`
}

// DefaultOptions returns the default option record for a conversion type.
func DefaultOptions(t ConversionType) Options {
	o := Options{Type: t}
	switch t {
	case RasterToRaster:
		o.Raster = &RasterOptions{Quality: 85, Format: "jpeg"}
	case DocumentToRaster:
		o.Document = &DocumentOptions{DPI: 150, Quality: 85, Format: "jpeg"}
	case VectorToRaster:
		o.Vector = &VectorOptions{Scale: 1.0, DPI: 96, Format: "png"}
	case RasterToText:
		o.OCR = &OCROptions{Language: "eng", OutputFormat: OCRPlain}
	case RasterToDocument:
		o.Assemble = &AssembleOptions{PageSize: "A4", Orientation: "portrait", Margin: 10}
	}
	return o
}

// documentDPIs are the render resolutions the document adapter accepts.
var documentDPIs = map[int]bool{72: true, 150: true, 300: true, 600: true}

// Validate checks the populated variant against its legal ranges and that the
// variant matches Type.
func (o Options) Validate() error {
	switch o.Type {
	case RasterToRaster:
		if o.Raster == nil {
			return fmt.Errorf("raster options missing for %s", o.Type)
		}
		if o.Raster.Quality < 1 || o.Raster.Quality > 100 {
			return fmt.Errorf("quality %d out of range 1-100", o.Raster.Quality)
		}
		if o.Raster.Width < 0 || o.Raster.Height < 0 {
			return fmt.Errorf("negative target dimensions %dx%d", o.Raster.Width, o.Raster.Height)
		}
	case DocumentToRaster:
		if o.Document == nil {
			return fmt.Errorf("document options missing for %s", o.Type)
		}
		if !documentDPIs[o.Document.DPI] {
			return fmt.Errorf("dpi %d not one of 72, 150, 300, 600", o.Document.DPI)
		}
		if o.Document.Quality < 1 || o.Document.Quality > 100 {
			return fmt.Errorf("quality %d out of range 1-100", o.Document.Quality)
		}
	case VectorToRaster:
		if o.Vector == nil {
			return fmt.Errorf("vector options missing for %s", o.Type)
		}
		if o.Vector.Scale < 0.1 || o.Vector.Scale > 10 {
			return fmt.Errorf("scale %g out of range 0.1-10", o.Vector.Scale)
		}
	case RasterToText:
		if o.OCR == nil {
			return fmt.Errorf("ocr options missing for %s", o.Type)
		}
		if o.OCR.OutputFormat != OCRPlain && o.OCR.OutputFormat != OCRStructured {
			return fmt.Errorf("ocr output format %q is not plain or structured", o.OCR.OutputFormat)
		}
		if o.OCR.Language == "" {
			return fmt.Errorf("ocr language is required")
		}
	case RasterToDocument:
		if o.Assemble == nil {
			return fmt.Errorf("assemble options missing for %s", o.Type)
		}
		if o.Assemble.PageSize != "A4" && o.Assemble.PageSize != "Letter" {
			return fmt.Errorf("page size %q is not A4 or Letter", o.Assemble.PageSize)
		}
		if o.Assemble.Orientation != "portrait" && o.Assemble.Orientation != "landscape" {
			return fmt.Errorf("orientation %q is not portrait or landscape", o.Assemble.Orientation)
		}
		if o.Assemble.Margin < 0 {
			return fmt.Errorf("negative margin %g", o.Assemble.Margin)
		}
	default:
		return fmt.Errorf("unknown conversion type %q", o.Type)
	}
	return nil
}

// formatMIME maps output format names to MIME types.
var formatMIME = map[string]string{
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tiff": "image/tiff",
	"pdf":  "application/pdf",
	"txt":  "text/plain",
	"json": "application/json",
}

// FormatMIME returns the MIME type for an output format name, or empty if
// unknown.
func FormatMIME(format string) string {
	return formatMIME[strings.ToLower(format)]
}

// FormatExt returns the filename extension (without dot) for a format name.
func FormatExt(format string) string {
	f := strings.ToLower(format)
	if f == "jpeg" {
		return "jpg"
	}
	return f
}

// extensionMIME maps filename extensions to the MIME types the engine knows.
// mime.TypeByExtension depends on the host table, so the set the engine
// validates against is pinned here.
var extensionMIME = map[string]string{
	".jpg": "image/jpeg", ".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff", ".tiff": "image/tiff",
	".webp": "image/webp",
	".pdf":  "application/pdf",
	".epub": "application/epub+zip",
	".xps":  "application/oxps", ".oxps": "application/oxps",
	".svg": "image/svg+xml",
}

// DetectMIME returns the MIME type implied by a filename's extension, or
// empty when the extension is unknown.
func DetectMIME(name string) string {
	return extensionMIME[strings.ToLower(filepath.Ext(name))]
}

// OutputName substitutes a new extension onto a source filename's basename.
func OutputName(source, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return base + "." + ext
}
