package edit

import (
	"fmt"

	"geoedit/internal/event"
	"geoedit/internal/geom"
	"geoedit/internal/view"
)

// degenerateEps returns the offset injected to keep a box from collapsing
// to a line. Relative to the geometry's own extent, with an absolute
// floor for zero-size boxes.
func degenerateEps(scale float64) float64 {
	const floor = 1e-8
	eps := scale * 1e-8
	if eps < floor {
		eps = floor
	}
	return eps
}

// CreateSnapFunc corrects a candidate coordinate against the vertices
// committed so far. closed is true for ring geometries.
type CreateSnapFunc func(cand geom.Coordinate, committed []geom.Coordinate, closed bool) (geom.Coordinate, *SnapResult)

// Creator runs one geometry-creation state machine as a chain handler.
// Created fires once right after the first click with the nascent
// geometry; Finished fires once when this instance ends, with nil if the
// result never became valid.
type Creator struct {
	kind geom.Kind

	Created  event.Signal[geom.Geometry]
	Finished event.Signal[geom.Geometry]

	// LastSnap is the snap applied to the most recent pointer position,
	// for rendering an indicator. Recomputed per move, never persisted.
	LastSnap *SnapResult

	snap    CreateSnapFunc
	machine createMachine
	done    bool
}

// createMachine is the per-kind half of the creator; the table below is
// the only place kinds are enumerated.
type createMachine interface {
	pointer(c *Creator, ev *view.PointerEvent)
	finish(c *Creator)
}

var createMachines = map[geom.Kind]func() createMachine{
	geom.KindPoint:   func() createMachine { return &pointCreate{} },
	geom.KindLine:    func() createMachine { return &lineCreate{} },
	geom.KindPolygon: func() createMachine { return &polygonCreate{} },
	geom.KindBox:     func() createMachine { return &boxCreate{} },
	geom.KindCircle:  func() createMachine { return &circleCreate{} },
}

// NewCreator builds a creation state machine for the kind. snap may be
// nil to disable snapping.
func NewCreator(kind geom.Kind, snap CreateSnapFunc) (*Creator, error) {
	mk, ok := createMachines[kind]
	if !ok {
		return nil, fmt.Errorf("create: unsupported geometry kind %v", kind)
	}
	return &Creator{kind: kind, snap: snap, machine: mk()}, nil
}

func (c *Creator) Kind() geom.Kind { return c.kind }

func (c *Creator) Done() bool { return c.done }

func (c *Creator) HandlePointer(ev *view.PointerEvent) {
	if c.done || !ev.OnGround {
		return
	}
	c.machine.pointer(c, ev)
	ev.Consumed = true
}

func (c *Creator) HandleKey(ev *view.KeyEvent) {
	if c.done {
		return
	}
	switch ev.Name {
	case "enter":
		c.Finish()
		ev.Consumed = true
	case "esc":
		c.Cancel()
		ev.Consumed = true
	}
}

// Finish programmatically ends the current instance; the machine decides
// what the committed geometry is.
func (c *Creator) Finish() {
	if c.done {
		return
	}
	c.machine.finish(c)
}

// Cancel ends the instance signalling no geometry.
func (c *Creator) Cancel() {
	c.commit(nil)
}

func (c *Creator) Destroy() {}

// correct runs the snap function, remembering the result for indicator
// rendering.
func (c *Creator) correct(cand geom.Coordinate, committed []geom.Coordinate, closed bool) geom.Coordinate {
	c.LastSnap = nil
	if c.snap == nil {
		return cand
	}
	out, res := c.snap(cand, committed, closed)
	c.LastSnap = res
	return out
}

// commit validates and fires Finished exactly once. Invalid geometry is
// reported as nil; the session removes the half-created feature.
func (c *Creator) commit(g geom.Geometry) {
	if c.done {
		return
	}
	c.done = true
	c.LastSnap = nil
	if g != nil && !geom.Valid(g) {
		g = nil
	}
	c.Finished.Emit(g)
}

// pointCreate: a single click completes immediately.
type pointCreate struct {
	g *geom.Point
}

func (m *pointCreate) pointer(c *Creator, ev *view.PointerEvent) {
	if ev.Phase != view.PointerClick {
		return
	}
	m.g = geom.NewPoint(ev.Ground)
	c.Created.Emit(m.g)
	c.commit(m.g)
}

func (m *pointCreate) finish(c *Creator) {
	c.commit(nil)
}

// lineCreate appends a vertex per click; the geometry carries one extra
// preview vertex that follows the pointer until the next click.
type lineCreate struct {
	g         *geom.Line
	committed []geom.Coordinate
}

func (m *lineCreate) pointer(c *Creator, ev *view.PointerEvent) {
	switch ev.Phase {
	case view.PointerClick:
		pos := c.correct(ev.Ground, m.committed, false)
		m.committed = append(m.committed, pos)
		if m.g == nil {
			// preview vertex doubles the first until the pointer moves
			m.g = geom.NewLine(pos, pos)
			c.Created.Emit(m.g)
		} else {
			m.sync(pos)
		}
	case view.PointerMove:
		if m.g != nil {
			m.sync(c.correct(ev.Ground, m.committed, false))
		}
	case view.PointerDoubleClick:
		m.finish(c)
	}
}

func (m *lineCreate) sync(preview geom.Coordinate) {
	m.g.Vertices = append(append([]geom.Coordinate{}, m.committed...), preview)
}

func (m *lineCreate) finish(c *Creator) {
	if m.g == nil {
		c.commit(nil)
		return
	}
	// drop the preview vertex; validity is checked at commit, not per click
	m.g.Vertices = m.committed
	c.commit(m.g)
}

// polygonCreate is lineCreate over a ring with a 3-vertex minimum.
type polygonCreate struct {
	g         *geom.Polygon
	committed []geom.Coordinate
}

func (m *polygonCreate) pointer(c *Creator, ev *view.PointerEvent) {
	switch ev.Phase {
	case view.PointerClick:
		pos := c.correct(ev.Ground, m.committed, true)
		m.committed = append(m.committed, pos)
		if m.g == nil {
			m.g = geom.NewPolygon(pos, pos)
			c.Created.Emit(m.g)
		} else {
			m.sync(pos)
		}
	case view.PointerMove:
		if m.g != nil {
			m.sync(c.correct(ev.Ground, m.committed, true))
		}
	case view.PointerDoubleClick:
		m.finish(c)
	}
}

func (m *polygonCreate) sync(preview geom.Coordinate) {
	m.g.Ring = append(append([]geom.Coordinate{}, m.committed...), preview)
}

func (m *polygonCreate) finish(c *Creator) {
	if m.g == nil {
		c.commit(nil)
		return
	}
	m.g.Ring = m.committed
	c.commit(m.g)
}

// boxCreate fixes an origin corner on the first click; pointer movement
// mirrors the origin across the moving corner per axis, and a second
// click commits.
type boxCreate struct {
	g      *geom.Box
	origin geom.Coordinate
	placed bool
}

func (m *boxCreate) pointer(c *Creator, ev *view.PointerEvent) {
	switch ev.Phase {
	case view.PointerClick:
		if !m.placed {
			m.placed = true
			m.origin = ev.Ground
			m.g = geom.NewBox(m.origin, m.offsetFrom(m.origin))
			c.Created.Emit(m.g)
			return
		}
		m.g.SetFromOpposite(m.origin, m.offsetFrom(ev.Ground))
		c.commit(m.g)
	case view.PointerMove:
		if m.placed {
			m.g.SetFromOpposite(m.origin, m.offsetFrom(ev.Ground))
		}
	case view.PointerDoubleClick:
		m.finish(c)
	}
}

// offsetFrom nudges the opposite corner off the origin's axes so the
// quadrilateral never degenerates to a line.
func (m *boxCreate) offsetFrom(opp geom.Coordinate) geom.Coordinate {
	eps := degenerateEps(geom.Distance2D(m.origin, opp))
	if opp.X == m.origin.X {
		opp.X += eps
	}
	if opp.Y == m.origin.Y {
		opp.Y += eps
	}
	return opp
}

func (m *boxCreate) finish(c *Creator) {
	c.commit(m.g)
}

// circleCreate fixes the center, then the pointer sets the radius point.
type circleCreate struct {
	g      *geom.Circle
	placed bool
}

func (m *circleCreate) pointer(c *Creator, ev *view.PointerEvent) {
	switch ev.Phase {
	case view.PointerClick:
		if !m.placed {
			m.placed = true
			m.g = geom.NewCircle(ev.Ground, ev.Ground)
			c.Created.Emit(m.g)
			return
		}
		m.g.RadiusPoint = ev.Ground
		c.commit(m.g)
	case view.PointerMove:
		if m.placed {
			m.g.RadiusPoint = ev.Ground
		}
	case view.PointerDoubleClick:
		m.finish(c)
	}
}

func (m *circleCreate) finish(c *Creator) {
	c.commit(m.g)
}
