package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"geoedit/internal/geom"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "geoedit.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

// TestLoadDefaults checks that an empty path yields the shipped
// defaults.
func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	k, err := c.Kind()
	if err != nil {
		t.Fatalf("Kind: %v", err)
	}
	if k != geom.KindLine {
		t.Errorf("default kind = %v, want line", k)
	}
	ec := c.Edit()
	if ec.SnapPixelTolerance <= 0 || ec.SnapAngleToleranceDeg <= 0 || ec.HandlePixelSize <= 0 {
		t.Errorf("defaults must be usable: %+v", ec)
	}
}

// TestLoadFile checks that file values override defaults and omitted
// fields keep them.
func TestLoadFile(t *testing.T) {
	p := writeConfig(t, "default_kind: polygon\nsnap_pixel_tolerance: 14\n")
	c, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if k, _ := c.Kind(); k != geom.KindPolygon {
		t.Errorf("kind = %v, want polygon", k)
	}
	if c.SnapPixelTolerance != 14 {
		t.Errorf("snap tolerance = %v, want 14", c.SnapPixelTolerance)
	}
	if c.HandlePixelSize != Default().HandlePixelSize {
		t.Errorf("handle size = %v, want the default kept", c.HandlePixelSize)
	}
}

// TestLoadValidation checks each rejection rule.
func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown kind", "default_kind: hexagon\n", "unknown geometry kind"},
		{"negative tolerance", "snap_pixel_tolerance: -1\n", "snap_pixel_tolerance"},
		{"angle too wide", "snap_angle_tolerance_deg: 60\n", "snap_angle_tolerance_deg"},
		{"zero handle size", "handle_pixel_size: 0\n", "handle_pixel_size"},
		{"not yaml", "{{{\n", "parsing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatalf("Load accepted %q", tt.content)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

// TestLoadMissingFile checks the explicit-path error.
func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "geoedit.yaml")); err == nil {
		t.Fatal("a named but missing config file is an error")
	}
}

// TestFind checks the upward walk from a nested working directory.
func TestFind(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "geoedit.yaml"), []byte("default_kind: box\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	got := Find()
	if got == "" {
		t.Fatal("Find should locate the config in an ancestor directory")
	}
	data, err := os.ReadFile(got)
	if err != nil || !strings.Contains(string(data), "box") {
		t.Errorf("Find returned %q, which is not the written config", got)
	}
}
