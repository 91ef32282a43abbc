// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsenko/convert-engine/internal/archive"
	"github.com/jsenko/convert-engine/internal/assemble"
	"github.com/jsenko/convert-engine/internal/events"
	"github.com/jsenko/convert-engine/internal/lifecycle"
	"github.com/jsenko/convert-engine/internal/manifest"
	"github.com/jsenko/convert-engine/internal/queue"
	"github.com/jsenko/convert-engine/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert a batch of files",
	Long: `Convert runs the given files through the selected conversion type. Inputs
that fail type or size validation are rejected up front; accepted files are
processed sequentially and each failure is isolated to its own file. Outputs
are written to the output directory, optionally bundled into a single zip.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("type", "t", "", "conversion type (see 'convert-engine formats')")
	convertCmd.Flags().String("manifest", "", "YAML batch manifest (replaces flags and arguments)")
	convertCmd.Flags().StringP("out", "o", "output", "output directory")
	convertCmd.Flags().Bool("zip", false, "bundle all outputs into one zip archive")
	convertCmd.Flags().Bool("combine", false, "bind all images into a single PDF (raster-to-document only)")

	convertCmd.Flags().Int("quality", 85, "encode quality 1-100 (lossy formats)")
	convertCmd.Flags().Int("width", 0, "target width in pixels (0 keeps source)")
	convertCmd.Flags().Int("height", 0, "target height in pixels (0 keeps source)")
	convertCmd.Flags().Bool("strip-metadata", false, "discard source metadata")
	convertCmd.Flags().String("format", "", "target format (default per conversion type)")
	convertCmd.Flags().Int("dpi", 150, "render resolution: 72, 150, 300, or 600")
	convertCmd.Flags().String("page-range", "", `pages to render, e.g. "1-5, 8" (all when empty)`)
	convertCmd.Flags().Float64("scale", 1.0, "vector scale factor 0.1-10")
	convertCmd.Flags().String("background", "", `vector background color "#rrggbb" (transparent when empty)`)
	convertCmd.Flags().String("language", "eng", "OCR language code")
	convertCmd.Flags().String("ocr-format", "plain", "OCR payload shape: plain or structured")
	convertCmd.Flags().Bool("confidence", false, "include OCR confidence score")
	convertCmd.Flags().Bool("preserve-formatting", false, "keep recognizer whitespace verbatim")
	convertCmd.Flags().String("page-size", "A4", "PDF page size: A4 or Letter")
	convertCmd.Flags().String("orientation", "portrait", "PDF orientation: portrait or landscape")
	convertCmd.Flags().Float64("margin", 10, "PDF page margin in millimeters")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	logger := newLogger(cmd)
	cfg := engineConfig()
	out := cmd.Flags().Lookup("out").Value.String()

	paths := args
	var opts types.Options
	if manifestPath, _ := cmd.Flags().GetString("manifest"); manifestPath != "" {
		m, err := manifest.Load(manifestPath)
		if err != nil {
			return err
		}
		opts, err = m.Options()
		if err != nil {
			return err
		}
		paths = m.Files
	} else {
		typeName, _ := cmd.Flags().GetString("type")
		ct := types.ConversionType(typeName)
		if !ct.Valid() {
			return fmt.Errorf("conversion type %q is unknown (see 'convert-engine formats')", typeName)
		}
		var err error
		opts, err = optionsFromFlags(cmd, ct)
		if err != nil {
			return err
		}
	}
	if len(paths) == 0 {
		return fmt.Errorf("no input files given")
	}

	inputs, err := readInputs(paths)
	if err != nil {
		return err
	}

	if combine, _ := cmd.Flags().GetBool("combine"); combine {
		if opts.Type != types.RasterToDocument {
			return fmt.Errorf("--combine applies only to %s", types.RasterToDocument)
		}
		return runCombine(cmd, inputs, opts, out)
	}

	refs, err := lifecycle.NewManager(logger)
	if err != nil {
		return err
	}
	defer refs.Close()

	bus := events.NewBus()
	defer bus.Close()
	ch, token := bus.Subscribe(len(inputs) * 2)
	defer bus.Unsubscribe(token)
	go func() {
		for e := range ch {
			logger.Debug("notice", "level", e.Level, "file_id", e.FileID, "message", e.Message)
		}
	}()

	q, err := queue.New(cfg, opts, queue.DefaultAdapters(cfg, logger), refs, bus, logger)
	if err != nil {
		return err
	}

	_, rejected := q.AddFiles(inputs)
	for _, r := range rejected {
		fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s (%s)\n", r.Name, r.Reason)
	}

	if err := q.Convert(cmd.Context()); err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	var completed, failed int
	var entries []archive.Entry
	used := map[string]int{}
	for _, f := range q.Files() {
		switch f.Status {
		case types.StatusCompleted:
			completed++
			for _, o := range f.Outputs {
				name := uniqueName(used, o.Name)
				if err := os.WriteFile(filepath.Join(out, name), o.Data, 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", name, err)
				}
				entries = append(entries, archive.Entry{Name: name, Data: o.Data})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "converted: %s (%d output(s))\n", f.Name, len(f.Outputs))
		case types.StatusError:
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "failed:  %s (%s)\n", f.Name, f.Error)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nBatch summary: %d converted, %d failed, %d rejected\n",
		completed, failed, len(rejected))

	if zipIt, _ := cmd.Flags().GetBool("zip"); zipIt && len(entries) > 0 {
		name := archive.BatchName(opts.Type, completed, time.Now())
		path := filepath.Join(out, name)
		if err := writeArchive(path, entries); err != nil {
			// Outputs are already on disk; the archive is best-effort extra.
			fmt.Fprintf(cmd.OutOrStdout(), "archive failed: %v (individual outputs were still written)\n", err)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "archived: %s\n", name)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

// runCombine binds every accepted image into one PDF, outside the per-file
// queue path.
func runCombine(cmd *cobra.Command, inputs []queue.Input, opts types.Options, out string) error {
	pages := make([]assemble.Page, 0, len(inputs))
	for _, in := range inputs {
		if !opts.Type.Accepts(in.MIMEType) {
			fmt.Fprintf(cmd.OutOrStdout(), "rejected: %s (type %q is not accepted)\n", in.Name, in.MIMEType)
			continue
		}
		pages = append(pages, assemble.Page{Name: in.Name, Data: in.Data})
	}

	doc, err := assemble.Build(cmd.Context(), pages, *opts.Assemble, func(int) {})
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	name := fmt.Sprintf("combined_%dpages_%s.pdf", len(pages), time.Now().Format("20060102-150405"))
	if err := os.WriteFile(filepath.Join(out, name), doc, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "combined: %d image(s) -> %s\n", len(pages), name)
	return nil
}

// readInputs loads each path and tags it with the MIME type its extension
// implies.
func readInputs(paths []string) ([]queue.Input, error) {
	inputs := make([]queue.Input, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		inputs = append(inputs, queue.Input{
			Name:     filepath.Base(p),
			MIMEType: types.DetectMIME(p),
			Size:     int64(len(data)),
			Data:     data,
		})
	}
	return inputs, nil
}

// optionsFromFlags fills the option variant for ct from the command flags.
func optionsFromFlags(cmd *cobra.Command, ct types.ConversionType) (types.Options, error) {
	o := types.DefaultOptions(ct)
	flags := cmd.Flags()

	format, _ := flags.GetString("format")
	quality, _ := flags.GetInt("quality")

	switch ct {
	case types.RasterToRaster:
		o.Raster.Quality = quality
		o.Raster.Width, _ = flags.GetInt("width")
		o.Raster.Height, _ = flags.GetInt("height")
		o.Raster.StripMetadata, _ = flags.GetBool("strip-metadata")
		if format != "" {
			o.Raster.Format = format
		}
	case types.DocumentToRaster:
		o.Document.DPI, _ = flags.GetInt("dpi")
		o.Document.Quality = quality
		o.Document.PageRange, _ = flags.GetString("page-range")
		if format != "" {
			o.Document.Format = format
		}
	case types.VectorToRaster:
		o.Vector.Scale, _ = flags.GetFloat64("scale")
		o.Vector.BackgroundColor, _ = flags.GetString("background")
		o.Vector.DPI, _ = flags.GetInt("dpi")
		if format != "" {
			o.Vector.Format = format
		}
	case types.RasterToText:
		o.OCR.Language, _ = flags.GetString("language")
		ocrFormat, _ := flags.GetString("ocr-format")
		o.OCR.OutputFormat = types.OCROutputFormat(ocrFormat)
		o.OCR.Confidence, _ = flags.GetBool("confidence")
		o.OCR.PreserveFormatting, _ = flags.GetBool("preserve-formatting")
	case types.RasterToDocument:
		o.Assemble.PageSize, _ = flags.GetString("page-size")
		o.Assemble.Orientation, _ = flags.GetString("orientation")
		o.Assemble.Margin, _ = flags.GetFloat64("margin")
	}

	if err := o.Validate(); err != nil {
		return types.Options{}, err
	}
	return o, nil
}

// uniqueName suffixes duplicate output names so files from same-named sources
// do not overwrite each other in the output directory.
func uniqueName(used map[string]int, name string) string {
	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%d%s", name[:len(name)-len(ext)], n, ext)
}

// writeArchive packs entries into a zip file at path.
func writeArchive(path string, entries []archive.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	if err := archive.Pack(f, entries); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
