package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"geoedit/internal/geom"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check that every geometry in the given files is valid",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bad := 0
		for _, path := range args {
			gs, err := geom.LoadFile(path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			fileBad := 0
			for i, g := range gs {
				if !geom.Valid(g) {
					fmt.Printf("%s: geometry %d (%s) is invalid\n", path, i+1, g.Kind())
					fileBad++
				}
			}
			fmt.Printf("%s: %d geometries, %d invalid\n", path, len(gs), fileBad)
			bad += fileBad
		}
		if bad > 0 {
			return fmt.Errorf("%d invalid geometries", bad)
		}
		return nil
	},
}
