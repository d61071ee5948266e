package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// LoadGeoJSON reads a GeoJSON file and returns typed geometries.
// Supports Point, MultiPoint, LineString, MultiLineString, Polygon and
// MultiPolygon, bare or wrapped in Feature/FeatureCollection. Polygon holes
// are dropped; the editor only handles simple rings.
func LoadGeoJSON(path string) ([]Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var out []Geometry
	parseCoord := func(v any) (Coordinate, bool) {
		a, ok := v.([]any)
		if !ok || len(a) < 2 {
			return Coordinate{}, false
		}
		x, xok := a[0].(float64)
		y, yok := a[1].(float64)
		if !xok || !yok {
			return Coordinate{}, false
		}
		c := Coordinate{X: x, Y: y}
		if len(a) >= 3 {
			if z, ok := a[2].(float64); ok {
				c.Z = z
			}
		}
		return c, true
	}
	parseCoords := func(v any) ([]Coordinate, bool) {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		var cs []Coordinate
		for _, el := range arr {
			if c, ok := parseCoord(el); ok {
				cs = append(cs, c)
			}
		}
		return cs, true
	}
	parseRing := func(v any) ([]Coordinate, bool) {
		cs, ok := parseCoords(v)
		if !ok {
			return nil, false
		}
		// GeoJSON rings repeat the first vertex; the editor does not
		if len(cs) > 1 && cs[0] == cs[len(cs)-1] {
			cs = cs[:len(cs)-1]
		}
		return cs, true
	}
	var walk func(g map[string]any)
	walk = func(g map[string]any) {
		gt, _ := g["type"].(string)
		switch gt {
		case "Point":
			if c, ok := parseCoord(g["coordinates"]); ok {
				out = append(out, NewPoint(c))
			}
		case "MultiPoint":
			if cs, ok := parseCoords(g["coordinates"]); ok {
				for _, c := range cs {
					out = append(out, NewPoint(c))
				}
			}
		case "LineString":
			if cs, ok := parseCoords(g["coordinates"]); ok && len(cs) >= 2 {
				out = append(out, NewLine(cs...))
			}
		case "MultiLineString":
			if arr, ok := g["coordinates"].([]any); ok {
				for _, el := range arr {
					if cs, ok := parseCoords(el); ok && len(cs) >= 2 {
						out = append(out, NewLine(cs...))
					}
				}
			}
		case "Polygon":
			if rings, ok := g["coordinates"].([]any); ok && len(rings) > 0 {
				if cs, ok := parseRing(rings[0]); ok && len(cs) >= 3 {
					out = append(out, NewPolygon(cs...))
				}
			}
		case "MultiPolygon":
			if polys, ok := g["coordinates"].([]any); ok {
				for _, poly := range polys {
					if rings, ok := poly.([]any); ok && len(rings) > 0 {
						if cs, ok := parseRing(rings[0]); ok && len(cs) >= 3 {
							out = append(out, NewPolygon(cs...))
						}
					}
				}
			}
		case "GeometryCollection":
			if gs, ok := g["geometries"].([]any); ok {
				for _, el := range gs {
					if gm, ok := el.(map[string]any); ok {
						walk(gm)
					}
				}
			}
		}
	}
	t, _ := raw["type"].(string)
	switch t {
	case "Feature":
		if g, ok := raw["geometry"].(map[string]any); ok {
			walk(g)
		}
	case "FeatureCollection":
		if fs, ok := raw["features"].([]any); ok {
			for _, f := range fs {
				if fm, ok := f.(map[string]any); ok {
					if g, ok := fm["geometry"].(map[string]any); ok {
						walk(g)
					}
				}
			}
		}
	default:
		if len(raw) > 0 {
			walk(raw)
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no geometries found")
	}
	return out, nil
}

// SaveGeoJSON writes geometries as a FeatureCollection. Boxes are written
// as closed Polygons; circles as a Point with a radius property, since
// GeoJSON has no circle type.
func SaveGeoJSON(path string, gs []Geometry) error {
	features := make([]map[string]any, 0, len(gs))
	coord := func(c Coordinate) []float64 {
		if c.Z != 0 {
			return []float64{c.X, c.Y, c.Z}
		}
		return []float64{c.X, c.Y}
	}
	ring := func(cs []Coordinate) [][]float64 {
		out := make([][]float64, 0, len(cs)+1)
		for _, c := range cs {
			out = append(out, coord(c))
		}
		if len(cs) > 0 {
			out = append(out, coord(cs[0]))
		}
		return out
	}
	for _, g := range gs {
		var geometry map[string]any
		props := map[string]any{}
		switch v := g.(type) {
		case *Point:
			geometry = map[string]any{"type": "Point", "coordinates": coord(v.Pos)}
		case *Line:
			cs := make([][]float64, 0, len(v.Vertices))
			for _, c := range v.Vertices {
				cs = append(cs, coord(c))
			}
			geometry = map[string]any{"type": "LineString", "coordinates": cs}
		case *Polygon:
			geometry = map[string]any{"type": "Polygon", "coordinates": [][][]float64{ring(v.Ring)}}
		case *Box:
			geometry = map[string]any{"type": "Polygon", "coordinates": [][][]float64{ring(v.Coords())}}
		case *Circle:
			geometry = map[string]any{"type": "Point", "coordinates": coord(v.Center)}
			props["radius"] = v.Radius()
		default:
			return fmt.Errorf("save geojson: unsupported kind %v", g.Kind())
		}
		features = append(features, map[string]any{
			"type":       "Feature",
			"geometry":   geometry,
			"properties": props,
		})
	}
	doc := map[string]any{"type": "FeatureCollection", "features": features}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
