package edit

import (
	"geoedit/internal/geom"
	"geoedit/internal/layer"
	"geoedit/internal/view"
)

// groundTol converts the configured pixel tolerance into ground units at
// the given coordinate.
func groundTol(vw view.View, cfg Config, at geom.Coordinate) float64 {
	return cfg.SnapPixelTolerance * vw.Resolution(at)
}

// handleDrag is the chain interaction that picks up a handle on pointer
// down, routes moves through the editor (which snaps), and releases on
// up. It consumes every event while a handle is captured.
type handleDrag struct {
	vw       view.View
	cfg      Config
	editor   *GeometryEditor
	captured *layer.Feature
}

func newHandleDrag(vw view.View, cfg Config, e *GeometryEditor) *handleDrag {
	return &handleDrag{vw: vw, cfg: cfg, editor: e}
}

func (d *handleDrag) HandlePointer(ev *view.PointerEvent) {
	if !ev.OnGround {
		return
	}
	switch ev.Phase {
	case view.PointerDown:
		tol := groundTol(d.vw, d.cfg, ev.Ground)
		if h, ok := d.editor.Handles().HitTest(ev.Ground, tol); ok {
			d.captured = h
			ev.Consumed = true
		}
	case view.PointerMove:
		if d.captured != nil {
			d.editor.Drag(d.captured, ev.Ground)
			ev.Consumed = true
		}
	case view.PointerUp:
		if d.captured != nil {
			d.captured = nil
			d.editor.LastSnap = nil
			ev.Consumed = true
		}
	}
}

func (d *handleDrag) HandleKey(*view.KeyEvent) {}

func (d *handleDrag) Destroy() { d.captured = nil }

// vertexEdit adds insert-on-edge (click an edge) and remove (ctrl-click a
// handle) on top of handleDrag for line and polygon editors.
type vertexEdit struct {
	vw     view.View
	cfg    Config
	editor *GeometryEditor
}

func newVertexEdit(vw view.View, cfg Config, e *GeometryEditor) *vertexEdit {
	return &vertexEdit{vw: vw, cfg: cfg, editor: e}
}

func (x *vertexEdit) HandlePointer(ev *view.PointerEvent) {
	if ev.Phase != view.PointerClick || !ev.OnGround {
		return
	}
	tol := groundTol(x.vw, x.cfg, ev.Ground)
	if ev.Ctrl {
		if h, ok := x.editor.Handles().HitTest(ev.Ground, tol); ok {
			if i, ok := x.editor.Handles().IndexOf(h); ok && x.editor.RemoveVertex(i) {
				ev.Consumed = true
			}
		}
		return
	}
	// clicks on a handle belong to the drag interaction
	if _, ok := x.editor.Handles().HitTest(ev.Ground, tol); ok {
		return
	}
	if edge, q, ok := x.editor.NearestEdge(ev.Ground, tol); ok {
		if x.editor.InsertVertex(edge, q) {
			ev.Consumed = true
		}
	}
}

func (x *vertexEdit) HandleKey(*view.KeyEvent) {}

func (x *vertexEdit) Destroy() {}

// featurePick resolves clicks to features for select and edit-features
// sessions. Features with picking suppressed (handles, the edited
// feature itself) are never hit.
type featurePick struct {
	vw      view.View
	cfg     Config
	working *layer.Collection
	onPick  func(f *layer.Feature, additive bool)
}

func newFeaturePick(vw view.View, cfg Config, working *layer.Collection, onPick func(*layer.Feature, bool)) *featurePick {
	return &featurePick{vw: vw, cfg: cfg, working: working, onPick: onPick}
}

func (p *featurePick) HandlePointer(ev *view.PointerEvent) {
	if ev.Phase != view.PointerClick || !ev.OnGround {
		return
	}
	tol := groundTol(p.vw, p.cfg, ev.Ground)
	f := PickFeature(p.working, ev.Ground, tol)
	p.onPick(f, ev.Shift)
	ev.Consumed = true
}

func (p *featurePick) HandleKey(*view.KeyEvent) {}

func (p *featurePick) Destroy() {}

// PickFeature returns the topmost visible, pickable feature within tol
// of c, or nil. Topmost means latest in collection order.
func PickFeature(working *layer.Collection, c geom.Coordinate, tol float64) *layer.Feature {
	fs := working.Features()
	for i := len(fs) - 1; i >= 0; i-- {
		f := fs[i]
		if !f.Visible || !f.AllowPicking || f.Geometry == nil {
			continue
		}
		if featureHit(f.Geometry, c, tol) {
			return f
		}
	}
	return nil
}

func featureHit(g geom.Geometry, c geom.Coordinate, tol float64) bool {
	for _, v := range g.Coords() {
		if geom.Distance2D(c, v) <= tol {
			return true
		}
	}
	for _, seg := range segmentsOf(g) {
		if _, d := geom.ProjectOnSegment(c, seg[0], seg[1]); d <= tol {
			return true
		}
	}
	if cir, ok := g.(*geom.Circle); ok {
		// hit anywhere on the rim
		d := geom.Distance2D(c, cir.Center)
		if d >= cir.Radius()-tol && d <= cir.Radius()+tol {
			return true
		}
	}
	return false
}
