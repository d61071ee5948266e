package edit

import (
	"math"
	"testing"

	"geoedit/internal/geom"
	"geoedit/internal/layer"
)

func newEditorFixture(t *testing.T, g geom.Geometry) (*GeometryEditor, *layer.Feature, *layer.Collection) {
	t.Helper()
	scratch := layer.NewCollection("scratch")
	f := layer.NewFeature(g)
	e, err := NewGeometryEditor(f, scratch, nil)
	if err != nil {
		t.Fatalf("NewGeometryEditor: %v", err)
	}
	return e, f, scratch
}

// TestEditorHandleToGeometry checks that dragging a handle rewrites the
// matching vertex of the edited line.
func TestEditorHandleToGeometry(t *testing.T) {
	e, f, scratch := newEditorFixture(t, geom.NewLine(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 0},
		geom.Coordinate{X: 10, Y: 10},
	))
	defer e.Destroy()

	if e.Handles().Len() != 3 {
		t.Fatalf("handles = %d, want one per vertex", e.Handles().Len())
	}
	if scratch.Len() != 3 {
		t.Fatalf("scratch has %d markers, want 3", scratch.Len())
	}

	e.Drag(e.Handles().At(1), geom.Coordinate{X: 12, Y: 1})

	got := f.Geometry.Coords()
	if got[1].X != 12 || got[1].Y != 1 {
		t.Errorf("vertex 1 = %+v, want (12,1)", got[1])
	}
	if got[0].X != 0 || got[2].Y != 10 {
		t.Error("untouched vertices should not move")
	}
}

// TestEditorGeometryToHandles checks resynchronization after an external
// coordinate change, including a vertex-count change.
func TestEditorGeometryToHandles(t *testing.T) {
	e, f, _ := newEditorFixture(t, geom.NewLine(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 0},
	))
	defer e.Destroy()

	f.SetCoords([]geom.Coordinate{
		{X: 1, Y: 1},
		{X: 5, Y: 5},
		{X: 9, Y: 1},
	})

	if e.Handles().Len() != 3 {
		t.Fatalf("handles = %d after external growth, want 3", e.Handles().Len())
	}
	pos := e.Handles().Positions()
	if pos[1].X != 5 || pos[1].Y != 5 {
		t.Errorf("handle 1 = %+v, want (5,5)", pos[1])
	}

	f.SetCoords([]geom.Coordinate{{X: 2, Y: 2}, {X: 3, Y: 3}})
	if e.Handles().Len() != 2 {
		t.Errorf("handles = %d after external shrink, want 2", e.Handles().Len())
	}
}

// TestEditorSnapApplied checks that the snap function corrects the drag
// target and records the indicator state.
func TestEditorSnapApplied(t *testing.T) {
	scratch := layer.NewCollection("scratch")
	f := layer.NewFeature(geom.NewLine(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 0},
	))
	snap := func(cand geom.Coordinate, coords []geom.Coordinate, index int, closed bool) (geom.Coordinate, *SnapResult) {
		cand.Y = 0
		return cand, &SnapResult{Kind: SnapOrthogonal, Coord: cand}
	}
	e, err := NewGeometryEditor(f, scratch, snap)
	if err != nil {
		t.Fatalf("NewGeometryEditor: %v", err)
	}
	defer e.Destroy()

	e.Drag(e.Handles().At(1), geom.Coordinate{X: 14, Y: 0.3})

	if got := f.Geometry.Coords()[1]; got.Y != 0 || got.X != 14 {
		t.Errorf("vertex 1 = %+v, want snapped to (14,0)", got)
	}
	if e.LastSnap == nil || e.LastSnap.Kind != SnapOrthogonal {
		t.Errorf("LastSnap = %+v, want an orthogonal result", e.LastSnap)
	}
}

// TestEditorBoxCornerDrag checks that corner drags keep the rectangle
// axis aligned from every corner, and that dragging a corner onto the
// opposite one is nudged off it.
func TestEditorBoxCornerDrag(t *testing.T) {
	for idx := 0; idx < 4; idx++ {
		e, f, _ := newEditorFixture(t, geom.NewBox(
			geom.Coordinate{X: 0, Y: 0},
			geom.Coordinate{X: 10, Y: 6},
		))

		e.Drag(e.Handles().At(idx), geom.Coordinate{X: 20, Y: 15})

		if !geom.Valid(f.Geometry) {
			t.Errorf("corner %d: box no longer axis aligned: %+v",
				idx, f.Geometry.Coords())
		}
		// handles must mirror the recomputed corners
		cs := f.Geometry.Coords()
		for i, p := range e.Handles().Positions() {
			if p != cs[i] {
				t.Errorf("corner %d: handle %d = %+v, geometry has %+v", idx, i, p, cs[i])
			}
		}
		e.Destroy()
	}
}

// TestEditorBoxDegenerateDrag drags a corner exactly onto the opposite
// corner and expects the result to stay a rectangle with positive area.
func TestEditorBoxDegenerateDrag(t *testing.T) {
	e, f, _ := newEditorFixture(t, geom.NewBox(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 6},
	))
	defer e.Destroy()

	cs := f.Geometry.Coords()
	opp := cs[2]
	e.Drag(e.Handles().At(0), opp)

	if !geom.Valid(f.Geometry) {
		t.Fatalf("degenerate drag broke the box: %+v", f.Geometry.Coords())
	}
	got := f.Geometry.Coords()[0]
	if got == opp {
		t.Error("dragged corner should be nudged off the opposite corner")
	}
	b := f.Geometry.Bounds()
	if b.MaxX-b.MinX <= 0 || b.MaxY-b.MinY <= 0 {
		t.Errorf("box collapsed: bounds %+v", b)
	}
}

// TestEditorCircleDrag checks the two circle handles: center drags
// translate the radius point, radius drags leave the center alone.
func TestEditorCircleDrag(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		to         geom.Coordinate
		wantCenter geom.Coordinate
		wantRadius float64
	}{
		{
			name:       "center drag translates both",
			index:      0,
			to:         geom.Coordinate{X: 2, Y: 3},
			wantCenter: geom.Coordinate{X: 2, Y: 3},
			wantRadius: 5,
		},
		{
			name:       "radius drag keeps center",
			index:      1,
			to:         geom.Coordinate{X: 0, Y: 7},
			wantCenter: geom.Coordinate{X: 0, Y: 0},
			wantRadius: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, f, _ := newEditorFixture(t, geom.NewCircle(
				geom.Coordinate{X: 0, Y: 0},
				geom.Coordinate{X: 5, Y: 0},
			))
			defer e.Destroy()

			e.Drag(e.Handles().At(tt.index), tt.to)

			circ := f.Geometry.(*geom.Circle)
			if circ.Center != tt.wantCenter {
				t.Errorf("center = %+v, want %+v", circ.Center, tt.wantCenter)
			}
			if math.Abs(circ.Radius()-tt.wantRadius) > 1e-9 {
				t.Errorf("radius = %v, want %v", circ.Radius(), tt.wantRadius)
			}
			// both handles must track the geometry
			pos := e.Handles().Positions()
			if pos[0] != circ.Center {
				t.Errorf("center handle = %+v, want %+v", pos[0], circ.Center)
			}
		})
	}
}

// TestEditorInsertRemoveVertex checks edge insertion, the minimum vertex
// floor, and that fixed-shape kinds refuse both.
func TestEditorInsertRemoveVertex(t *testing.T) {
	e, f, _ := newEditorFixture(t, geom.NewPolygon(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 0},
		geom.Coordinate{X: 10, Y: 10},
	))
	defer e.Destroy()

	if !e.InsertVertex(0, geom.Coordinate{X: 5, Y: 0}) {
		t.Fatal("InsertVertex on a polygon edge should succeed")
	}
	cs := f.Geometry.Coords()
	if len(cs) != 4 || cs[1].X != 5 {
		t.Fatalf("coords after insert = %+v, want the new vertex at index 1", cs)
	}

	if !e.RemoveVertex(1) {
		t.Fatal("RemoveVertex above the minimum should succeed")
	}
	if e.RemoveVertex(0) {
		t.Error("RemoveVertex should refuse to drop a ring below three vertices")
	}
	if len(f.Geometry.Coords()) != 3 {
		t.Errorf("coords = %d, want 3 after the refused removal", len(f.Geometry.Coords()))
	}

	be, _, _ := newEditorFixture(t, geom.NewBox(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 4, Y: 4},
	))
	defer be.Destroy()
	if be.InsertVertex(0, geom.Coordinate{X: 2, Y: 0}) {
		t.Error("boxes have a fixed corner count; insert must refuse")
	}
	if be.RemoveVertex(0) {
		t.Error("boxes have a fixed corner count; remove must refuse")
	}
}

// TestEditorNearestEdge checks edge lookup with the ring-closing edge
// included for polygons.
func TestEditorNearestEdge(t *testing.T) {
	e, _, _ := newEditorFixture(t, geom.NewPolygon(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 0},
		geom.Coordinate{X: 10, Y: 10},
	))
	defer e.Destroy()

	// near the closing edge from (10,10) back to (0,0)
	i, q, ok := e.NearestEdge(geom.Coordinate{X: 5.2, Y: 5.0}, 1)
	if !ok {
		t.Fatal("NearestEdge should find the closing edge")
	}
	if i != 2 {
		t.Errorf("edge index = %d, want the closing edge 2", i)
	}
	if math.Abs(q.X-q.Y) > 1e-9 {
		t.Errorf("projection %+v should lie on the diagonal", q)
	}

	if _, _, ok := e.NearestEdge(geom.Coordinate{X: 50, Y: 50}, 1); ok {
		t.Error("NearestEdge should miss outside the tolerance")
	}
}

// TestEditorDestroy checks that teardown restores picking and removes
// every marker from the scratch collection.
func TestEditorDestroy(t *testing.T) {
	scratch := layer.NewCollection("scratch")
	f := layer.NewFeature(geom.NewPoint(geom.Coordinate{X: 1, Y: 2}))
	e, err := NewGeometryEditor(f, scratch, nil)
	if err != nil {
		t.Fatalf("NewGeometryEditor: %v", err)
	}
	if f.AllowPicking {
		t.Fatal("the edited feature should not be pickable during the session")
	}

	e.Destroy()

	if !f.AllowPicking {
		t.Error("Destroy should restore the picking flag")
	}
	if scratch.Len() != 0 {
		t.Errorf("scratch still holds %d markers after Destroy", scratch.Len())
	}
}

// TestEditorRejectsMissingGeometry checks the constructor error paths.
func TestEditorRejectsMissingGeometry(t *testing.T) {
	scratch := layer.NewCollection("scratch")
	if _, err := NewGeometryEditor(nil, scratch, nil); err == nil {
		t.Error("nil feature should be rejected")
	}
	if _, err := NewGeometryEditor(&layer.Feature{}, scratch, nil); err == nil {
		t.Error("feature without geometry should be rejected")
	}
}
