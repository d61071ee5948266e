package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"geoedit/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "geoedit",
	Short: "geoedit - terminal vector geometry editor",
	Long: `Geoedit is a terminal editor for vector geometries. It draws points,
lines, polygons, boxes and circles with snapping, edits their vertices
through drag handles, and transforms whole features about a pivot.
Supported formats: GeoJSON, WKT, KML and CSV.`,
	SilenceUsage:      true,
	DisableAutoGenTag: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to geoedit.yaml (default: nearest in parent directories)")
	rootCmd.AddCommand(editCmd, validateCmd, convertCmd)
}

// loadConfig resolves the config file: the --config flag wins, otherwise
// the nearest geoedit.yaml up the directory tree, otherwise defaults.
func loadConfig() (*config.Config, error) {
	p := configPath
	if p == "" {
		p = config.Find()
	}
	return config.Load(p)
}

// newLogger writes to the configured log file. The terminal itself
// belongs to the editor, so stderr logging is only used outside the TUI.
func newLogger(cfg *config.Config, tui bool) (*log.Logger, func(), error) {
	if cfg.LogFile == "" {
		if tui {
			return log.New(io.Discard), func() {}, nil
		}
		return log.New(os.Stderr), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return log.New(f), func() { f.Close() }, nil
}
