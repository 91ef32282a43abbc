// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// OCRConfig holds settings for the OCR adapter.
type OCRConfig struct {
	// Tesseract is the recognizer binary name or path (default "tesseract").
	Tesseract string `json:"tesseract" yaml:"tesseract"`

	// TessdataDir optionally overrides the language model directory.
	TessdataDir string `json:"tessdata_dir,omitempty" yaml:"tessdata_dir,omitempty"`

	// Language is the default recognition language (default "eng").
	Language string `json:"language" yaml:"language"`
}

// Config holds engine-wide settings enforced at submission and render time.
type Config struct {
	// MaxFileSize is the per-file submission ceiling in bytes (default 200 MiB).
	MaxFileSize int64 `json:"max_file_size" yaml:"max_file_size"`

	// MaxDimension is the largest output side length in pixels.
	MaxDimension int `json:"max_dimension" yaml:"max_dimension"`

	// MaxPixels is the largest output area in pixels.
	MaxPixels int64 `json:"max_pixels" yaml:"max_pixels"`

	// OCR configures the text extraction adapter.
	OCR OCRConfig `json:"ocr" yaml:"ocr"`
}

// DefaultConfig returns the engine defaults. The dimension ceilings mirror
// common rendering-surface limits: 16384 per side, 16384^2 total pixels.
func DefaultConfig() Config {
	return Config{
		MaxFileSize:  200 << 20,
		MaxDimension: 16384,
		MaxPixels:    16384 * 16384,
		OCR: OCRConfig{
			Tesseract: "tesseract",
			Language:  "eng",
		},
	}
}
