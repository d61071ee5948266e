package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"geoedit/internal/edit"
	"geoedit/internal/geom"
)

const fileName = "geoedit.yaml"

// Config is the contents of geoedit.yaml. Every field is optional;
// omitted fields fall back to the defaults.
type Config struct {
	// DefaultKind is the geometry kind pre-selected when a creation
	// session starts without an explicit kind: point, line, polygon,
	// box or circle.
	DefaultKind string `yaml:"default_kind,omitempty"`

	SnapPixelTolerance    float64 `yaml:"snap_pixel_tolerance,omitempty"`
	SnapAngleToleranceDeg float64 `yaml:"snap_angle_tolerance_deg,omitempty"`
	HandlePixelSize       float64 `yaml:"handle_pixel_size,omitempty"`

	LogFile string `yaml:"log_file,omitempty"`
}

func Default() *Config {
	ec := edit.DefaultConfig()
	return &Config{
		DefaultKind:           geom.KindLine.String(),
		SnapPixelTolerance:    ec.SnapPixelTolerance,
		SnapAngleToleranceDeg: ec.SnapAngleToleranceDeg,
		HandlePixelSize:       ec.HandlePixelSize,
	}
}

var kindNames = map[string]geom.Kind{
	"point":   geom.KindPoint,
	"line":    geom.KindLine,
	"polygon": geom.KindPolygon,
	"box":     geom.KindBox,
	"circle":  geom.KindCircle,
}

// Kind resolves DefaultKind to a geometry kind.
func (c *Config) Kind() (geom.Kind, error) {
	k, ok := kindNames[c.DefaultKind]
	if !ok {
		return 0, fmt.Errorf("unknown geometry kind %q in %s", c.DefaultKind, fileName)
	}
	return k, nil
}

// Edit maps the file settings onto the editing configuration.
func (c *Config) Edit() edit.Config {
	return edit.Config{
		SnapPixelTolerance:    c.SnapPixelTolerance,
		SnapAngleToleranceDeg: c.SnapAngleToleranceDeg,
		HandlePixelSize:       c.HandlePixelSize,
	}
}

// Find walks up from the current working directory looking for
// geoedit.yaml and returns its path, or "" when no config exists.
func Find() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	dir := cwd
	for {
		p := filepath.Join(dir, fileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Load reads and validates the config at path. An empty path means no
// config file and yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", fileName, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if _, err := c.Kind(); err != nil {
		return err
	}
	if c.SnapPixelTolerance <= 0 {
		return fmt.Errorf("'snap_pixel_tolerance' must be positive in %s", fileName)
	}
	if c.SnapAngleToleranceDeg <= 0 || c.SnapAngleToleranceDeg >= 45 {
		return fmt.Errorf("'snap_angle_tolerance_deg' must be between 0 and 45 in %s", fileName)
	}
	if c.HandlePixelSize <= 0 {
		return fmt.Errorf("'handle_pixel_size' must be positive in %s", fileName)
	}
	return nil
}
