package edit

import (
	"fmt"
	"math"

	"geoedit/internal/event"
	"geoedit/internal/geom"
	"geoedit/internal/layer"
)

// EditSnapFunc corrects a dragged handle position. index is the handle
// being dragged within the geometry's coordinate order.
type EditSnapFunc func(cand geom.Coordinate, coords []geom.Coordinate, index int, closed bool) (geom.Coordinate, *SnapResult)

// GeometryEditor keeps a feature's geometry and its handle set mutually
// consistent. A handle drag pushes the new coordinate into the geometry
// by rebuilding the full coordinate array from the ordered handle list;
// an external geometry change resynchronizes the handles. The sync guard
// stops the two directions from feeding back into each other.
type GeometryEditor struct {
	feature *layer.Feature
	handles *HandleSet
	machine editMachine
	guard   syncGuard
	snap    EditSnapFunc

	// Info carries the live segment-length readout during drags.
	Info event.Signal[string]

	// LastSnap is the snap applied to the current drag position.
	LastSnap *SnapResult

	disposers event.Disposers
}

type editMachine interface {
	// closed reports whether the coordinate order wraps (ring kinds).
	closed() bool
	// insertable reports whether vertices can be added and removed.
	insertable() bool
	// minVertices is the count below which removal is refused.
	minVertices() int
	// apply pushes a handle move into the geometry, returning the full
	// rebuilt coordinate array. The editor feeds it to the feature and
	// mirrors any auxiliary handle updates.
	apply(e *GeometryEditor, m HandleMove) []geom.Coordinate
}

var editMachines = map[geom.Kind]func() editMachine{
	geom.KindPoint:   func() editMachine { return pointEdit{} },
	geom.KindLine:    func() editMachine { return vertexListEdit{ring: false, min: 2} },
	geom.KindPolygon: func() editMachine { return vertexListEdit{ring: true, min: 3} },
	geom.KindBox:     func() editMachine { return boxEdit{} },
	geom.KindCircle:  func() editMachine { return circleEdit{} },
}

// NewGeometryEditor builds handles mirroring the feature's coordinates
// and wires the two sync directions. Unsupported geometry (nil, unknown
// kind) returns an error; the caller logs and clears instead of crashing.
func NewGeometryEditor(f *layer.Feature, scratch *layer.Collection, snap EditSnapFunc) (*GeometryEditor, error) {
	if f == nil || f.Geometry == nil {
		return nil, fmt.Errorf("edit: feature has no geometry")
	}
	mk, ok := editMachines[f.Geometry.Kind()]
	if !ok {
		return nil, fmt.Errorf("edit: unsupported geometry kind %v", f.Geometry.Kind())
	}
	e := &GeometryEditor{
		feature: f,
		handles: NewHandleSet(scratch),
		machine: mk(),
		snap:    snap,
	}

	// suppress picking on the edited feature so clicks reach the handles
	prevPicking := f.AllowPicking
	f.AllowPicking = false
	e.disposers.Add(func() { f.AllowPicking = prevPicking })

	for _, c := range f.Geometry.Coords() {
		e.handles.Append(c)
	}
	e.disposers.Add(e.handles.Clear)

	offMoved := e.handles.Moved.Listen(func(m HandleMove) {
		e.guard.do(func() {
			coords := e.machine.apply(e, m)
			e.feature.SetCoords(coords)
			e.emitInfo(m)
		})
	})
	e.disposers.Add(offMoved)

	offChanged := f.Changed.Listen(func(struct{}) {
		// ignore changes this editor just made
		e.guard.do(e.resync)
	})
	e.disposers.Add(offChanged)

	return e, nil
}

func (e *GeometryEditor) Feature() *layer.Feature { return e.feature }

func (e *GeometryEditor) Handles() *HandleSet { return e.handles }

// resync rebuilds handle positions from the geometry after an external
// change, re-growing or shrinking the handle list if the vertex count
// moved.
func (e *GeometryEditor) resync() {
	coords := e.feature.Geometry.Coords()
	for e.handles.Len() > len(coords) {
		e.handles.RemoveAt(e.handles.Len() - 1)
	}
	for e.handles.Len() < len(coords) {
		e.handles.Append(coords[e.handles.Len()])
	}
	for i, c := range coords {
		e.handles.SetPosition(i, c)
	}
}

// Drag moves a handle, snapping the candidate first. This is the entry
// point used by the drag interaction.
func (e *GeometryEditor) Drag(h *layer.Feature, cand geom.Coordinate) {
	e.LastSnap = nil
	if e.snap != nil {
		if i, ok := e.handles.IndexOf(h); ok {
			corrected, res := e.snap(cand, e.feature.Geometry.Coords(), i, e.machine.closed())
			cand = corrected
			e.LastSnap = res
		}
	}
	e.handles.Drag(h, cand)
}

// InsertVertex splices a vertex after edge index i (between vertices i
// and i+1) for kinds that support it.
func (e *GeometryEditor) InsertVertex(edge int, pos geom.Coordinate) bool {
	if !e.machine.insertable() {
		return false
	}
	n := e.handles.Len()
	if n == 0 || edge < 0 || edge >= n {
		return false
	}
	inserted := false
	e.guard.do(func() {
		e.handles.InsertAt(edge+1, pos)
		// rebuilding beats patching once indices shift
		e.feature.SetCoords(e.handles.Positions())
		inserted = true
	})
	return inserted
}

// RemoveVertex splices a vertex out, refusing to drop the geometry below
// its minimum vertex count.
func (e *GeometryEditor) RemoveVertex(i int) bool {
	if !e.machine.insertable() {
		return false
	}
	if e.handles.Len()-1 < e.machine.minVertices() {
		return false
	}
	removed := false
	e.guard.do(func() {
		e.handles.RemoveAt(i)
		e.feature.SetCoords(e.handles.Positions())
		removed = true
	})
	return removed
}

// NearestEdge finds the edge of the edited geometry closest to c within
// tol, for insert-on-edge.
func (e *GeometryEditor) NearestEdge(c geom.Coordinate, tol float64) (int, geom.Coordinate, bool) {
	if !e.machine.insertable() {
		return 0, geom.Coordinate{}, false
	}
	cs := e.feature.Geometry.Coords()
	n := len(cs) - 1
	if e.machine.closed() {
		n = len(cs)
	}
	bestD := tol
	bestI := -1
	var bestQ geom.Coordinate
	for i := 0; i < n; i++ {
		q, d := geom.ProjectOnSegment(c, cs[i], cs[(i+1)%len(cs)])
		if d <= bestD {
			bestD = d
			bestI = i
			bestQ = q
		}
	}
	if bestI < 0 {
		return 0, geom.Coordinate{}, false
	}
	return bestI, bestQ, true
}

func (e *GeometryEditor) emitInfo(m HandleMove) {
	if !e.machine.insertable() {
		return
	}
	cs := e.feature.Geometry.Coords()
	if len(cs) < 2 || m.Index >= len(cs) {
		return
	}
	prev := (m.Index - 1 + len(cs)) % len(cs)
	if !e.machine.closed() && m.Index == 0 {
		prev = 1
	}
	e.Info.Emit(fmt.Sprintf("segment %.3f", geom.Distance2D(cs[prev], cs[m.Index])))
}

// Destroy restores the feature's picking state and removes all markers.
// Safe when the feature was already removed elsewhere.
func (e *GeometryEditor) Destroy() {
	e.disposers.Run()
}

// pointEdit: one handle, 1:1 sync.
type pointEdit struct{}

func (pointEdit) closed() bool     { return false }
func (pointEdit) insertable() bool { return false }
func (pointEdit) minVertices() int { return 1 }

func (pointEdit) apply(e *GeometryEditor, m HandleMove) []geom.Coordinate {
	return []geom.Coordinate{m.To}
}

// vertexListEdit: handles map 1:1 to line or ring coordinates in order.
type vertexListEdit struct {
	ring bool
	min  int
}

func (v vertexListEdit) closed() bool     { return v.ring }
func (v vertexListEdit) insertable() bool { return true }
func (v vertexListEdit) minVertices() int { return v.min }

func (v vertexListEdit) apply(e *GeometryEditor, m HandleMove) []geom.Coordinate {
	return e.handles.Positions()
}

// boxEdit: four handles; a drag projects the dragged coordinate onto
// each adjacent corner's fixed axis so the shape stays an axis-aligned
// rectangle.
type boxEdit struct{}

func (boxEdit) closed() bool     { return true }
func (boxEdit) insertable() bool { return false }
func (boxEdit) minVertices() int { return 4 }

func (boxEdit) apply(e *GeometryEditor, m HandleMove) []geom.Coordinate {
	cs := e.feature.Geometry.Coords()
	if len(cs) != 4 || m.Index < 0 || m.Index > 3 {
		return cs
	}
	old := cs[m.Index]
	eps := degenerateEps(e.feature.Geometry.Bounds().Diagonal())
	to := m.To
	// keep the dragged corner off the opposite corner's axes
	opp := cs[(m.Index+2)%4]
	if math.Abs(to.X-opp.X) < eps {
		to.X = opp.X + eps
	}
	if math.Abs(to.Y-opp.Y) < eps {
		to.Y = opp.Y + eps
	}
	for _, j := range []int{(m.Index + 3) % 4, (m.Index + 1) % 4} {
		adj := cs[j]
		if math.Abs(adj.X-old.X) <= math.Abs(adj.Y-old.Y) {
			// adjacent corner shared the dragged corner's x
			adj.X = to.X
		} else {
			adj.Y = to.Y
		}
		cs[j] = adj
	}
	cs[m.Index] = to
	// mirror the recomputed corners back onto their handles
	for i, c := range cs {
		if i != m.Index {
			e.handles.SetPosition(i, c)
		}
	}
	if to != m.To {
		e.handles.SetPosition(m.Index, to)
	}
	return cs
}

// circleEdit: two handles, center then radius point. Dragging the center
// translates both; dragging the radius point only changes the radius.
type circleEdit struct{}

func (circleEdit) closed() bool     { return false }
func (circleEdit) insertable() bool { return false }
func (circleEdit) minVertices() int { return 2 }

func (circleEdit) apply(e *GeometryEditor, m HandleMove) []geom.Coordinate {
	cs := e.feature.Geometry.Coords()
	if len(cs) != 2 {
		return cs
	}
	center, radiusPt := cs[0], cs[1]
	if m.Index == 0 {
		dx, dy, dz := m.To.X-center.X, m.To.Y-center.Y, m.To.Z-center.Z
		center = m.To
		radiusPt = geom.Coordinate{X: radiusPt.X + dx, Y: radiusPt.Y + dy, Z: radiusPt.Z + dz}
		e.handles.SetPosition(1, radiusPt)
	} else {
		radiusPt = m.To
	}
	return []geom.Coordinate{center, radiusPt}
}
