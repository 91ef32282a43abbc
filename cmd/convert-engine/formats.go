// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsenko/convert-engine/pkg/types"
)

// targetFormats lists the output formats each conversion type can produce.
var targetFormats = map[types.ConversionType]string{
	types.RasterToRaster:   "jpeg, png, gif, bmp, tiff",
	types.DocumentToRaster: "jpeg, png (one image per page)",
	types.VectorToRaster:   "png, jpeg",
	types.RasterToText:     "txt (plain), json (structured)",
	types.RasterToDocument: "pdf",
}

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported conversion types and formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range types.ConversionTypes {
			fmt.Printf("%s\n", t)
			fmt.Printf("  accepts:  %s\n", strings.Join(t.AcceptedTypes(), ", "))
			fmt.Printf("  produces: %s\n", targetFormats[t])
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
