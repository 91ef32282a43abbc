// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ocr implements the raster-to-text adapter. Recognition runs through
// tesseract; a TSV pass computes the mean word confidence when requested.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsenko/convert-engine/pkg/types"
)

// Extractor is the OCR adapter.
type Extractor struct {
	cfg    types.OCRConfig
	runner Runner
	logger *slog.Logger
}

// NewExtractor builds an adapter using the exec-backed runner.
func NewExtractor(cfg types.OCRConfig, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: NewRunner(logger), logger: logger}
}

// NewExtractorWithRunner builds an adapter with a caller-supplied runner.
// Tests use this to stub the recognizer.
func NewExtractorWithRunner(cfg types.OCRConfig, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Convert recognizes text in the image and produces either the plain or the
// structured payload per the options.
func (e *Extractor) Convert(ctx context.Context, name string, data []byte, opts types.Options, progress types.ProgressFunc) ([]types.Output, error) {
	if opts.OCR == nil {
		return nil, fmt.Errorf("ocr options missing")
	}
	oo := *opts.OCR
	if oo.Language == "" {
		oo.Language = e.cfg.Language
	}

	// tesseract reads from a path, so the payload goes through a temp file.
	tmp, err := os.CreateTemp("", "ocr-*"+filepath.Ext(name))
	if err != nil {
		return nil, fmt.Errorf("staging image: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("staging image: %w", err)
	}
	tmp.Close()
	progress(10)

	text, err := e.recognize(ctx, tmp.Name(), oo.Language)
	if err != nil {
		return nil, err
	}
	progress(80)

	payload := Payload{
		Source:   name,
		Language: oo.Language,
		Text:     strings.TrimRight(text, "\n"),
	}
	if !oo.PreserveFormatting {
		payload.Text = CollapseWhitespace(payload.Text)
	}

	if oo.Confidence {
		conf, err := e.tsvConfidence(ctx, tmp.Name(), oo.Language)
		if err != nil {
			// A failed confidence pass degrades the payload, not the file.
			e.logger.Warn("confidence pass failed", "file", name, "error", err)
		} else {
			payload.Confidence = conf
			payload.HasConfidence = true
		}
	}
	progress(90)

	var out []byte
	ext := "txt"
	mime := "text/plain"
	switch oo.OutputFormat {
	case types.OCRStructured:
		out, err = BuildStructured(payload)
		if err != nil {
			return nil, err
		}
		ext, mime = "json", "application/json"
	default:
		out = BuildPlain(payload)
	}
	progress(100)

	return []types.Output{{
		Name:     types.OutputName(name, ext),
		MIMEType: mime,
		Data:     out,
	}}, nil
}

// recognize runs tesseract to stdout.
func (e *Extractor) recognize(ctx context.Context, path, lang string) (string, error) {
	args := []string{path, "stdout", "-l", lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w (%s)", err, truncate(strings.TrimSpace(string(errb)), 200))
	}
	return string(out), nil
}

// tsvConfidence runs tesseract in TSV mode and returns the mean word
// confidence on a 0-100 scale.
func (e *Extractor) tsvConfidence(ctx context.Context, path, lang string) (float64, error) {
	args := []string{path, "stdout", "-l", lang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, _, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract tsv: %w", err)
	}

	var sum float64
	var n int
	for i, line := range strings.Split(string(out), "\n") {
		if i == 0 || line == "" {
			continue // header
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[10]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("tsv output carried no word confidences")
	}
	return sum / float64(n), nil
}
