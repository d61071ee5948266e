package edit

import (
	"math"

	"geoedit/internal/geom"
)

// SnapKind is the category of alignment a candidate was corrected toward.
type SnapKind int

const (
	SnapOrthogonal SnapKind = iota
	SnapParallel
	SnapVertex
	SnapEdge
)

func (k SnapKind) String() string {
	switch k {
	case SnapOrthogonal:
		return "orthogonal"
	case SnapParallel:
		return "parallel"
	case SnapVertex:
		return "vertex"
	case SnapEdge:
		return "edge"
	}
	return "unknown"
}

// SnapResult is the corrected coordinate plus, for bearing-derived snaps,
// the index of the reference vertex the correction was computed from.
// Results are ephemeral; the engine recomputes them on every move.
type SnapResult struct {
	Kind     SnapKind
	Coord    geom.Coordinate
	RefIndex int
}

// SnapContext is everything one snap evaluation needs. Prev/PrevPrev are
// the committed vertices behind the one being placed; Next/NextNext give
// the closing-side reference segment when editing a polygon ring, so two
// bearing snaps can be intersected.
type SnapContext struct {
	Candidate geom.Coordinate

	Prev     *geom.Coordinate
	PrevPrev *geom.Coordinate
	PrevIdx  int

	Next     *geom.Coordinate
	NextNext *geom.Coordinate
	NextIdx  int

	// Bearings already used by the geometry, for parallel snapping.
	Bearings []float64

	Neighbors []geom.Geometry

	// Tolerance is in ground units (screen pixels times resolution).
	Tolerance float64
	AngleTol  float64

	// Use3D selects full 3D distance for vertex/edge snaps; ground
	// clamped features stay 2D.
	Use3D bool
}

// lineSnap remembers the reference line so two bearing snaps can be
// intersected.
type lineSnap struct {
	res     SnapResult
	origin  geom.Coordinate
	bearing float64
}

// Snap evaluates every enabled snap kind for the candidate and resolves
// ties: vertex/edge beats a bearing snap only when strictly closer, and
// two bearing snaps from different reference segments are intersected.
// Returns nil when nothing qualifies within tolerance.
func Snap(ctx SnapContext) *SnapResult {
	if ctx.Tolerance <= 0 {
		return nil
	}
	b1 := bearingSnap(ctx, ctx.Prev, ctx.PrevPrev, ctx.PrevIdx)
	b2 := bearingSnap(ctx, ctx.Next, ctx.NextNext, ctx.NextIdx)
	bearing := combineBearing(ctx, b1, b2)

	prox := proximitySnap(ctx)

	switch {
	case bearing == nil:
		return prox
	case prox == nil:
		return bearing
	default:
		// vertex/edge takes precedence only if strictly closer
		db := snapDist(ctx, bearing.Coord)
		dp := snapDist(ctx, prox.Coord)
		if dp < db {
			return prox
		}
		return bearing
	}
}

// bearingSnap tries orthogonal first, then parallel, against the segment
// ending at ref.
func bearingSnap(ctx SnapContext, ref, refPrev *geom.Coordinate, refIdx int) *lineSnap {
	if ref == nil {
		return nil
	}
	candBearing := geom.Bearing(*ref, ctx.Candidate)

	if refPrev != nil {
		base := geom.Bearing(*refPrev, *ref)
		for _, right := range []float64{0, 90, 180, 270} {
			target := math.Mod(base+right, 360)
			if geom.AngleDiff(candBearing, target) > ctx.AngleTol {
				continue
			}
			proj := geom.ProjectOnLine(ctx.Candidate, *ref, target)
			if geom.Distance2D(ctx.Candidate, proj) > ctx.Tolerance {
				continue
			}
			return &lineSnap{
				res:     SnapResult{Kind: SnapOrthogonal, Coord: proj, RefIndex: refIdx},
				origin:  *ref,
				bearing: target,
			}
		}
	}
	for _, b := range ctx.Bearings {
		if geom.AngleDiff(candBearing, b) > ctx.AngleTol &&
			geom.AngleDiff(candBearing, b+180) > ctx.AngleTol {
			continue
		}
		proj := geom.ProjectOnLine(ctx.Candidate, *ref, b)
		if geom.Distance2D(ctx.Candidate, proj) > ctx.Tolerance {
			continue
		}
		return &lineSnap{
			res:     SnapResult{Kind: SnapParallel, Coord: proj, RefIndex: refIdx},
			origin:  *ref,
			bearing: b,
		}
	}
	return nil
}

// combineBearing intersects the two reference lines when both segments
// produced a snap; if the intersection is out of tolerance or the lines
// are near-parallel, the closer single result wins.
func combineBearing(ctx SnapContext, a, b *lineSnap) *SnapResult {
	switch {
	case a == nil && b == nil:
		return nil
	case b == nil:
		return &a.res
	case a == nil:
		return &b.res
	}
	if p, ok := geom.IntersectLines(a.origin, a.bearing, b.origin, b.bearing); ok {
		if geom.Distance2D(ctx.Candidate, p) <= ctx.Tolerance {
			res := a.res
			res.Coord = p
			return &res
		}
	}
	if geom.Distance2D(ctx.Candidate, a.res.Coord) <= geom.Distance2D(ctx.Candidate, b.res.Coord) {
		return &a.res
	}
	return &b.res
}

// proximitySnap snaps to the nearest neighbor vertex within tolerance;
// edge snapping is only attempted when no vertex qualifies.
func proximitySnap(ctx SnapContext) *SnapResult {
	if v := vertexSnap(ctx); v != nil {
		return v
	}
	return edgeSnap(ctx)
}

func snapDist(ctx SnapContext, c geom.Coordinate) float64 {
	if ctx.Use3D {
		return geom.Distance3D(ctx.Candidate, c)
	}
	return geom.Distance2D(ctx.Candidate, c)
}

func vertexSnap(ctx SnapContext) *SnapResult {
	var best *SnapResult
	bestD := ctx.Tolerance
	for _, g := range ctx.Neighbors {
		for _, v := range g.Coords() {
			d := snapDist(ctx, v)
			if d <= bestD {
				bestD = d
				best = &SnapResult{Kind: SnapVertex, Coord: v}
			}
		}
	}
	return best
}

func edgeSnap(ctx SnapContext) *SnapResult {
	var best *SnapResult
	bestD := ctx.Tolerance
	for _, g := range ctx.Neighbors {
		for _, seg := range segmentsOf(g) {
			q, _ := geom.ProjectOnSegment(ctx.Candidate, seg[0], seg[1])
			d := snapDist(ctx, q)
			if d <= bestD {
				bestD = d
				best = &SnapResult{Kind: SnapEdge, Coord: q}
			}
		}
	}
	return best
}

// segmentsOf lists the edges of a geometry: consecutive pairs for lines,
// the closed ring for polygons and boxes. Points and circles have none.
func segmentsOf(g geom.Geometry) [][2]geom.Coordinate {
	cs := g.Coords()
	var closed bool
	switch g.Kind() {
	case geom.KindLine:
		closed = false
	case geom.KindPolygon, geom.KindBox:
		closed = true
	default:
		return nil
	}
	if len(cs) < 2 {
		return nil
	}
	n := len(cs) - 1
	if closed {
		n = len(cs)
	}
	segs := make([][2]geom.Coordinate, 0, n)
	for i := 0; i < n; i++ {
		segs = append(segs, [2]geom.Coordinate{cs[i], cs[(i+1)%len(cs)]})
	}
	return segs
}

// GeometryBearings collects the bearings of every segment, for parallel
// snapping against edges already drawn.
func GeometryBearings(cs []geom.Coordinate, closed bool) []float64 {
	if len(cs) < 2 {
		return nil
	}
	n := len(cs) - 1
	if closed {
		n = len(cs)
	}
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, geom.Bearing(cs[i], cs[(i+1)%len(cs)]))
	}
	return out
}
