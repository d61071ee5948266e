package geom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile dispatches on file extension to the matching loader.
func LoadFile(path string) ([]Geometry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		// one geometry per non-empty line
		var out []Geometry
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			gs, err := ParseWKT(line)
			if err != nil {
				return nil, err
			}
			out = append(out, gs...)
		}
		if len(out) == 0 {
			return nil, fmt.Errorf("%s: no geometries", path)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported file: %s", filepath.Ext(path))
}

// SaveFile writes geometries in the format implied by the extension.
func SaveFile(path string, gs []Geometry) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return SaveGeoJSON(path, gs)
	case ".wkt":
		var sb strings.Builder
		for _, g := range gs {
			s, err := EncodeWKT(g)
			if err != nil {
				return err
			}
			sb.WriteString(s)
			sb.WriteByte('\n')
		}
		return os.WriteFile(path, []byte(sb.String()), 0o644)
	}
	return fmt.Errorf("unsupported output format: %s", filepath.Ext(path))
}
