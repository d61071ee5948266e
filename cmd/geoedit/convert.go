package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"geoedit/internal/geom"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Convert geometries between supported formats",
	Long:  `Reads geometries from the input file and writes them to the output file. The formats are chosen by file extension (.geojson, .json, .wkt, .kml, .csv).`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		gs, err := geom.LoadFile(args[0])
		if err != nil {
			return fmt.Errorf("loading %s: %w", args[0], err)
		}
		if err := geom.SaveFile(args[1], gs); err != nil {
			return fmt.Errorf("writing %s: %w", args[1], err)
		}
		fmt.Printf("converted %d geometries to %s\n", len(gs), args[1])
		return nil
	},
}
