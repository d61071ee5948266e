package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"geoedit/internal/tui"
)

var editCmd = &cobra.Command{
	Use:   "edit [file]",
	Short: "Open the editor, optionally preloading a file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, closeLog, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer closeLog()
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		if err := tui.Run(cfg, logger, path); err != nil {
			return fmt.Errorf("running editor: %w", err)
		}
		return nil
	},
}
