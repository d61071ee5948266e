package geom

import "math"

// Distance2D is the planar distance between a and b, ignoring Z.
func Distance2D(a, b Coordinate) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Distance3D is the full euclidean distance between a and b.
func Distance3D(a, b Coordinate) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dz := b.Z - a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Bearing is the planar angle of the vector a→b in degrees, measured
// counter-clockwise from the positive x axis, normalized to [0, 360).
func Bearing(a, b Coordinate) float64 {
	deg := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}

// AngleDiff is the absolute smallest difference between two angles in
// degrees, in [0, 180].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 360)
	if d > 180 {
		d = 360 - d
	}
	return d
}

// ProjectOnLine projects p onto the infinite line through origin with the
// given bearing (degrees) and returns the closest point on that line.
// Z is carried over from p.
func ProjectOnLine(p, origin Coordinate, bearingDeg float64) Coordinate {
	rad := bearingDeg * math.Pi / 180
	dx, dy := math.Cos(rad), math.Sin(rad)
	t := (p.X-origin.X)*dx + (p.Y-origin.Y)*dy
	return Coordinate{X: origin.X + t*dx, Y: origin.Y + t*dy, Z: p.Z}
}

// ProjectOnSegment returns the closest point to p on the segment a-b and
// the planar distance from p to it.
func ProjectOnSegment(p, a, b Coordinate) (Coordinate, float64) {
	abx, aby := b.X-a.X, b.Y-a.Y
	l2 := abx*abx + aby*aby
	if l2 == 0 {
		return a, Distance2D(p, a)
	}
	t := ((p.X-a.X)*abx + (p.Y-a.Y)*aby) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	q := Coordinate{X: a.X + t*abx, Y: a.Y + t*aby, Z: a.Z + t*(b.Z-a.Z)}
	return q, Distance2D(p, q)
}

// IntersectLines intersects two infinite planar lines, each given by an
// origin point and a bearing in degrees. Returns false if the lines are
// parallel or near-parallel.
func IntersectLines(o1 Coordinate, b1 float64, o2 Coordinate, b2 float64) (Coordinate, bool) {
	r1 := b1 * math.Pi / 180
	r2 := b2 * math.Pi / 180
	d1x, d1y := math.Cos(r1), math.Sin(r1)
	d2x, d2y := math.Cos(r2), math.Sin(r2)
	den := d1x*d2y - d1y*d2x
	if math.Abs(den) < 1e-10 {
		return Coordinate{}, false
	}
	t := ((o2.X-o1.X)*d2y - (o2.Y-o1.Y)*d2x) / den
	return Coordinate{X: o1.X + t*d1x, Y: o1.Y + t*d1y, Z: o1.Z}, true
}

// Rotate2D rotates c about pivot by the given angle in degrees, preserving Z.
func Rotate2D(c, pivot Coordinate, angleDeg float64) Coordinate {
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx, dy := c.X-pivot.X, c.Y-pivot.Y
	return Coordinate{
		X: pivot.X + dx*cos - dy*sin,
		Y: pivot.Y + dx*sin + dy*cos,
		Z: c.Z,
	}
}
