package geom

import "math"

// Kind identifies one of the closed set of editable geometry kinds.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindPolygon
	KindBox
	KindCircle
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	case KindBox:
		return "box"
	case KindCircle:
		return "circle"
	}
	return "unknown"
}

// Coordinate is a 2D or 3D position. Z is zero for planar data.
type Coordinate struct {
	X float64
	Y float64
	Z float64
}

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows the box to include c. Callers seed with FromCoord.
func (b *BBox) Extend(c Coordinate) {
	if c.X < b.MinX {
		b.MinX = c.X
	}
	if c.Y < b.MinY {
		b.MinY = c.Y
	}
	if c.X > b.MaxX {
		b.MaxX = c.X
	}
	if c.Y > b.MaxY {
		b.MaxY = c.Y
	}
}

func FromCoord(c Coordinate) BBox {
	return BBox{MinX: c.X, MinY: c.Y, MaxX: c.X, MaxY: c.Y}
}

func (b BBox) Center() Coordinate {
	return Coordinate{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

func (b BBox) Union(o BBox) BBox {
	out := b
	if o.MinX < out.MinX {
		out.MinX = o.MinX
	}
	if o.MinY < out.MinY {
		out.MinY = o.MinY
	}
	if o.MaxX > out.MaxX {
		out.MaxX = o.MaxX
	}
	if o.MaxY > out.MaxY {
		out.MaxY = o.MaxY
	}
	return out
}

// Diagonal is the planar length of the box diagonal.
func (b BBox) Diagonal() float64 {
	dx := b.MaxX - b.MinX
	dy := b.MaxY - b.MinY
	return math.Hypot(dx, dy)
}

// Geometry is the mutable coordinate container shared by all kinds.
// Coords returns the coordinates in the kind's canonical order; SetCoords
// replaces them wholesale. Editors always rebuild the full slice rather
// than patching individual entries.
type Geometry interface {
	Kind() Kind
	Coords() []Coordinate
	SetCoords([]Coordinate) bool
	Bounds() BBox
}

func boundsOf(cs []Coordinate) BBox {
	if len(cs) == 0 {
		return BBox{}
	}
	b := FromCoord(cs[0])
	for _, c := range cs[1:] {
		b.Extend(c)
	}
	return b
}

// Point is a single position.
type Point struct {
	Pos Coordinate
}

func NewPoint(c Coordinate) *Point { return &Point{Pos: c} }

func (p *Point) Kind() Kind           { return KindPoint }
func (p *Point) Coords() []Coordinate { return []Coordinate{p.Pos} }
func (p *Point) Bounds() BBox         { return FromCoord(p.Pos) }

func (p *Point) SetCoords(cs []Coordinate) bool {
	if len(cs) != 1 {
		return false
	}
	p.Pos = cs[0]
	return true
}

// Line is an open string of two or more vertices.
type Line struct {
	Vertices []Coordinate
}

func NewLine(cs ...Coordinate) *Line { return &Line{Vertices: cs} }

func (l *Line) Kind() Kind           { return KindLine }
func (l *Line) Coords() []Coordinate { return l.Vertices }
func (l *Line) Bounds() BBox         { return boundsOf(l.Vertices) }

func (l *Line) SetCoords(cs []Coordinate) bool {
	l.Vertices = cs
	return true
}

// Polygon is a single closed ring. The closing edge from the last vertex
// back to the first is implicit; the first vertex is not repeated.
type Polygon struct {
	Ring []Coordinate
}

func NewPolygon(cs ...Coordinate) *Polygon { return &Polygon{Ring: cs} }

func (p *Polygon) Kind() Kind           { return KindPolygon }
func (p *Polygon) Coords() []Coordinate { return p.Ring }
func (p *Polygon) Bounds() BBox         { return boundsOf(p.Ring) }

func (p *Polygon) SetCoords(cs []Coordinate) bool {
	p.Ring = cs
	return true
}

// Box is an axis-aligned quadrilateral stored as its four corners in ring
// order. Every mutation must keep the corners sharing exactly two distinct
// x values and two distinct y values (up to the degeneracy epsilon).
type Box struct {
	Corners [4]Coordinate
}

// NewBox builds the four corners from an origin corner and the opposite
// corner, ring-ordered origin, (opp.X, origin.Y), opp, (origin.X, opp.Y).
func NewBox(origin, opposite Coordinate) *Box {
	b := &Box{}
	b.SetFromOpposite(origin, opposite)
	return b
}

func (b *Box) SetFromOpposite(origin, opposite Coordinate) {
	b.Corners[0] = origin
	b.Corners[1] = Coordinate{X: opposite.X, Y: origin.Y, Z: origin.Z}
	b.Corners[2] = opposite
	b.Corners[3] = Coordinate{X: origin.X, Y: opposite.Y, Z: origin.Z}
}

func (b *Box) Kind() Kind { return KindBox }

func (b *Box) Coords() []Coordinate {
	return []Coordinate{b.Corners[0], b.Corners[1], b.Corners[2], b.Corners[3]}
}

func (b *Box) Bounds() BBox { return boundsOf(b.Coords()) }

func (b *Box) SetCoords(cs []Coordinate) bool {
	if len(cs) != 4 {
		return false
	}
	copy(b.Corners[:], cs)
	return true
}

// Circle is a center plus a radius control point. The radius is derived,
// never stored, so the two can not drift apart.
type Circle struct {
	Center      Coordinate
	RadiusPoint Coordinate
}

func NewCircle(center, radiusPoint Coordinate) *Circle {
	return &Circle{Center: center, RadiusPoint: radiusPoint}
}

func (c *Circle) Kind() Kind { return KindCircle }

func (c *Circle) Radius() float64 {
	return Distance2D(c.Center, c.RadiusPoint)
}

func (c *Circle) Coords() []Coordinate {
	return []Coordinate{c.Center, c.RadiusPoint}
}

func (c *Circle) Bounds() BBox {
	r := c.Radius()
	return BBox{MinX: c.Center.X - r, MinY: c.Center.Y - r, MaxX: c.Center.X + r, MaxY: c.Center.Y + r}
}

func (c *Circle) SetCoords(cs []Coordinate) bool {
	if len(cs) != 2 {
		return false
	}
	c.Center = cs[0]
	c.RadiusPoint = cs[1]
	return true
}
