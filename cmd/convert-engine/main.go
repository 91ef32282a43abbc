// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the convert-engine CLI. Each engine
// surface is a subcommand: convert runs a batch through the conversion queue,
// formats lists the supported conversion types.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jsenko/convert-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the convert-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "convert-engine",
	Short: "Batch file conversion engine",
	Long: `convert-engine converts batches of images, documents, and vector graphics:
raster format changes, PDF pages rendered to images, OCR text extraction,
SVG rasterization, and images bound into PDFs. Files are processed one at a
time in submission order; one file's failure never aborts the rest of the
batch.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./convert-engine.yaml or ~/.config/convert-engine/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("convert-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "convert-engine"))
		}
	}

	viper.SetEnvPrefix("CONVERT_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// engineConfig merges the engine defaults with any values the config file or
// environment provide.
func engineConfig() types.Config {
	cfg := types.DefaultConfig()
	if v := viper.GetInt64("max_file_size"); v > 0 {
		cfg.MaxFileSize = v
	}
	if v := viper.GetInt("max_dimension"); v > 0 {
		cfg.MaxDimension = v
	}
	if v := viper.GetInt64("max_pixels"); v > 0 {
		cfg.MaxPixels = v
	}
	if v := viper.GetString("ocr.tesseract"); v != "" {
		cfg.OCR.Tesseract = v
	}
	if v := viper.GetString("ocr.tessdata_dir"); v != "" {
		cfg.OCR.TessdataDir = v
	}
	if v := viper.GetString("ocr.language"); v != "" {
		cfg.OCR.Language = v
	}
	return cfg
}

// newLogger builds the CLI logger; debug level when --verbose is set.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
