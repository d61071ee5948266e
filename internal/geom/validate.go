package geom

import "math"

// axisEps tolerates degeneracy offsets injected while editing boxes.
const axisEps = 1e-6

// Valid reports structural validity for the given geometry: minimum vertex
// counts, a positive circle radius and axis alignment for boxes. It is a
// pure predicate; callers decide what to do with invalid geometry.
func Valid(g Geometry) bool {
	if g == nil {
		return false
	}
	switch v := g.(type) {
	case *Point:
		return true
	case *Line:
		return len(v.Vertices) >= 2
	case *Polygon:
		return len(v.Ring) >= 3
	case *Box:
		return axisAligned(v.Corners)
	case *Circle:
		return v.Radius() > 0
	}
	return false
}

// axisAligned checks that the four ring-ordered corners describe an
// axis-aligned rectangle: alternating edges are horizontal and vertical.
func axisAligned(c [4]Coordinate) bool {
	rel := (boundsOf(c[:]).Diagonal() + 1) * axisEps
	for i := 0; i < 4; i++ {
		a, b := c[i], c[(i+1)%4]
		sameX := math.Abs(a.X-b.X) <= rel
		sameY := math.Abs(a.Y-b.Y) <= rel
		if !sameX && !sameY {
			return false
		}
	}
	return true
}
