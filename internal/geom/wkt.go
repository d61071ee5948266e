package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ParseWKT parses a pragmatic WKT subset into typed geometries.
// Supported: POINT(x y [z]), MULTIPOINT(x y, ...), LINESTRING(x y, ...),
// POLYGON((x y, ...)), plus the non-standard BOX(minx miny, maxx maxy) and
// CIRCLE(cx cy, rx ry) forms the editor writes for its own kinds.
// For multi-ring polygons only the outer ring is kept.
func ParseWKT(wkt string) ([]Geometry, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, errors.New("empty wkt")
	}
	up := strings.ToUpper(s)
	inner := func(open, close string) (string, error) {
		i := strings.Index(s, open)
		j := strings.LastIndex(s, close)
		if i < 0 || j <= i {
			return "", errors.New("wkt: unbalanced parentheses")
		}
		return s[i+len(open) : j], nil
	}
	switch {
	case strings.HasPrefix(up, "MULTIPOINT"):
		block, err := inner("(", ")")
		if err != nil {
			return nil, err
		}
		pts := parseTuples(block)
		if len(pts) == 0 {
			return nil, errors.New("wkt multipoint: no coordinates")
		}
		var out []Geometry
		for _, p := range pts {
			out = append(out, NewPoint(p))
		}
		return out, nil
	case strings.HasPrefix(up, "POINT"):
		block, err := inner("(", ")")
		if err != nil {
			return nil, err
		}
		pts := parseTuples(block)
		if len(pts) == 0 {
			return nil, errors.New("wkt point: no coordinates")
		}
		return []Geometry{NewPoint(pts[0])}, nil
	case strings.HasPrefix(up, "LINESTRING"):
		block, err := inner("(", ")")
		if err != nil {
			return nil, err
		}
		pts := parseTuples(block)
		if len(pts) < 2 {
			return nil, errors.New("wkt linestring: needs 2+ coordinates")
		}
		return []Geometry{NewLine(pts...)}, nil
	case strings.HasPrefix(up, "POLYGON"):
		block, err := inner("((", "))")
		if err != nil {
			return nil, err
		}
		// normalize spaces around ring separators, keep only the outer ring
		norm := strings.ReplaceAll(block, "), (", "),(")
		norm = strings.ReplaceAll(norm, ") , (", "),(")
		outer := strings.Split(norm, "),(")[0]
		pts := parseTuples(outer)
		// drop a closing vertex repeating the first
		if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
			pts = pts[:len(pts)-1]
		}
		if len(pts) < 3 {
			return nil, errors.New("wkt polygon: needs 3+ ring coordinates")
		}
		return []Geometry{NewPolygon(pts...)}, nil
	case strings.HasPrefix(up, "BOX"):
		block, err := inner("(", ")")
		if err != nil {
			return nil, err
		}
		pts := parseTuples(block)
		if len(pts) != 2 {
			return nil, errors.New("wkt box: needs exactly 2 corners")
		}
		return []Geometry{NewBox(pts[0], pts[1])}, nil
	case strings.HasPrefix(up, "CIRCLE"):
		block, err := inner("(", ")")
		if err != nil {
			return nil, err
		}
		pts := parseTuples(block)
		if len(pts) != 2 {
			return nil, errors.New("wkt circle: needs center and radius point")
		}
		return []Geometry{NewCircle(pts[0], pts[1])}, nil
	}
	return nil, errors.New("unsupported wkt type")
}

// parseTuples splits a coordinate block into "x y [z]" tuples, skipping
// malformed entries the way the loaders do.
func parseTuples(block string) []Coordinate {
	var out []Coordinate
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.TrimSpace(tup))
		if len(parts) < 2 {
			continue
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			continue
		}
		c := Coordinate{X: x, Y: y}
		if len(parts) >= 3 {
			if z, err := strconv.ParseFloat(parts[2], 64); err == nil {
				c.Z = z
			}
		}
		out = append(out, c)
	}
	return out
}

// EncodeWKT renders a geometry in the same subset ParseWKT reads.
func EncodeWKT(g Geometry) (string, error) {
	fc := func(c Coordinate) string {
		if c.Z != 0 {
			return fmt.Sprintf("%g %g %g", c.X, c.Y, c.Z)
		}
		return fmt.Sprintf("%g %g", c.X, c.Y)
	}
	join := func(cs []Coordinate) string {
		parts := make([]string, len(cs))
		for i, c := range cs {
			parts[i] = fc(c)
		}
		return strings.Join(parts, ", ")
	}
	switch v := g.(type) {
	case *Point:
		return "POINT (" + fc(v.Pos) + ")", nil
	case *Line:
		return "LINESTRING (" + join(v.Vertices) + ")", nil
	case *Polygon:
		ring := v.Ring
		if len(ring) > 0 {
			ring = append(append([]Coordinate{}, ring...), ring[0])
		}
		return "POLYGON ((" + join(ring) + "))", nil
	case *Box:
		return "BOX (" + fc(v.Corners[0]) + ", " + fc(v.Corners[2]) + ")", nil
	case *Circle:
		return "CIRCLE (" + fc(v.Center) + ", " + fc(v.RadiusPoint) + ")", nil
	}
	return "", fmt.Errorf("encode wkt: unsupported kind %v", g.Kind())
}
