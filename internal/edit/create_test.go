package edit

import (
	"testing"

	"geoedit/internal/geom"
	"geoedit/internal/view"
)

// TestCreatePoint checks that a single click creates and commits a point
// in one step.
func TestCreatePoint(t *testing.T) {
	c, err := NewCreator(geom.KindPoint, nil)
	if err != nil {
		t.Fatalf("NewCreator: %v", err)
	}
	var created, finished geom.Geometry
	c.Created.Listen(func(g geom.Geometry) { created = g })
	c.Finished.Listen(func(g geom.Geometry) { finished = g })

	c.HandlePointer(pointerAt(view.PointerClick, 3, 7))

	if created == nil || finished == nil {
		t.Fatal("Created and Finished should both have fired")
	}
	if created != finished {
		t.Error("point create should finish with the created geometry")
	}
	p, ok := finished.(*geom.Point)
	if !ok {
		t.Fatalf("finished geometry = %T, want *geom.Point", finished)
	}
	if p.Pos.X != 3 || p.Pos.Y != 7 {
		t.Errorf("point at %+v, want (3,7)", p.Pos)
	}
	if !c.Done() {
		t.Error("creator should be done after the click")
	}
}

// TestCreateLine checks the preview-vertex behavior: the geometry tracks
// the pointer between clicks and the preview is dropped on finish.
func TestCreateLine(t *testing.T) {
	c, err := NewCreator(geom.KindLine, nil)
	if err != nil {
		t.Fatalf("NewCreator: %v", err)
	}
	var g geom.Geometry
	c.Created.Listen(func(gg geom.Geometry) { g = gg })
	var finished geom.Geometry
	c.Finished.Listen(func(gg geom.Geometry) { finished = gg })

	c.HandlePointer(pointerAt(view.PointerClick, 0, 0))
	if g == nil {
		t.Fatal("Created should fire on the first click")
	}
	line := g.(*geom.Line)
	if len(line.Vertices) != 2 {
		t.Fatalf("after first click len = %d, want committed plus preview", len(line.Vertices))
	}

	c.HandlePointer(pointerAt(view.PointerMove, 5, 1))
	if got := line.Vertices[1]; got.X != 5 || got.Y != 1 {
		t.Errorf("preview vertex = %+v, want (5,1)", got)
	}

	c.HandlePointer(pointerAt(view.PointerClick, 5, 1))
	c.HandlePointer(pointerAt(view.PointerMove, 9, 9))
	if len(line.Vertices) != 3 {
		t.Fatalf("after second click len = %d, want 3", len(line.Vertices))
	}

	c.HandlePointer(pointerAt(view.PointerDoubleClick, 9, 9))
	if finished == nil {
		t.Fatal("double click should commit")
	}
	out := finished.(*geom.Line)
	if len(out.Vertices) != 2 {
		t.Errorf("committed line has %d vertices, want the preview dropped", len(out.Vertices))
	}
}

// TestCreateLineSingleVertexInvalid checks that finishing after only one
// click reports no geometry.
func TestCreateLineSingleVertexInvalid(t *testing.T) {
	c, _ := NewCreator(geom.KindLine, nil)
	var finished geom.Geometry
	fired := false
	c.Finished.Listen(func(g geom.Geometry) { finished, fired = g, true })

	c.HandlePointer(pointerAt(view.PointerClick, 0, 0))
	c.HandleKey(&view.KeyEvent{Name: "enter"})

	if !fired {
		t.Fatal("Finished should fire")
	}
	if finished != nil {
		t.Errorf("finished = %v, want nil for a one-vertex line", finished)
	}
}

// TestCreatePolygon checks the ring minimum: two vertices commit as nil,
// three commit as a valid ring.
func TestCreatePolygon(t *testing.T) {
	tests := []struct {
		name   string
		clicks []geom.Coordinate
		valid  bool
	}{
		{"two vertices", []geom.Coordinate{{X: 0, Y: 0}, {X: 4, Y: 0}}, false},
		{"three vertices", []geom.Coordinate{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := NewCreator(geom.KindPolygon, nil)
			var finished geom.Geometry
			c.Finished.Listen(func(g geom.Geometry) { finished = g })
			for _, p := range tt.clicks {
				c.HandlePointer(pointerAt(view.PointerClick, p.X, p.Y))
			}
			c.HandleKey(&view.KeyEvent{Name: "enter"})
			if tt.valid && finished == nil {
				t.Fatal("expected a committed polygon")
			}
			if !tt.valid && finished != nil {
				t.Fatalf("finished = %v, want nil below the ring minimum", finished)
			}
			if tt.valid {
				ring := finished.(*geom.Polygon).Ring
				if len(ring) != len(tt.clicks) {
					t.Errorf("ring has %d vertices, want %d", len(ring), len(tt.clicks))
				}
			}
		})
	}
}

// TestCreateBox checks the two-click corner flow and that the result
// stays axis aligned.
func TestCreateBox(t *testing.T) {
	c, _ := NewCreator(geom.KindBox, nil)
	var finished geom.Geometry
	c.Finished.Listen(func(g geom.Geometry) { finished = g })

	c.HandlePointer(pointerAt(view.PointerClick, 1, 1))
	c.HandlePointer(pointerAt(view.PointerMove, 6, 4))
	c.HandlePointer(pointerAt(view.PointerClick, 6, 4))

	if finished == nil {
		t.Fatal("second click should commit the box")
	}
	b := finished.(*geom.Box)
	if !geom.Valid(b) {
		t.Errorf("committed box %+v is not axis aligned", b.Corners)
	}
	bb := b.Bounds()
	if bb.MinX != 1 || bb.MinY != 1 || bb.MaxX != 6 || bb.MaxY != 4 {
		t.Errorf("bounds = %+v, want 1,1..6,4", bb)
	}
}

// TestCreateBoxDegenerateDrag checks that dragging along one axis still
// yields a valid rectangle via the degeneracy offset.
func TestCreateBoxDegenerateDrag(t *testing.T) {
	c, _ := NewCreator(geom.KindBox, nil)
	var finished geom.Geometry
	c.Finished.Listen(func(g geom.Geometry) { finished = g })

	c.HandlePointer(pointerAt(view.PointerClick, 0, 0))
	c.HandlePointer(pointerAt(view.PointerClick, 10, 0))

	if finished == nil {
		t.Fatal("expected a committed box")
	}
	if !geom.Valid(finished) {
		t.Errorf("box from an axis-only drag should still validate: %+v",
			finished.(*geom.Box).Corners)
	}
}

// TestCreateCircle checks center-then-radius placement and that a
// zero-radius result commits as nil.
func TestCreateCircle(t *testing.T) {
	tests := []struct {
		name   string
		radius geom.Coordinate
		valid  bool
	}{
		{"positive radius", geom.Coordinate{X: 8, Y: 5}, true},
		{"zero radius", geom.Coordinate{X: 5, Y: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := NewCreator(geom.KindCircle, nil)
			var finished geom.Geometry
			c.Finished.Listen(func(g geom.Geometry) { finished = g })

			c.HandlePointer(pointerAt(view.PointerClick, 5, 5))
			c.HandlePointer(pointerAt(view.PointerClick, tt.radius.X, tt.radius.Y))

			if tt.valid {
				circ, ok := finished.(*geom.Circle)
				if !ok {
					t.Fatalf("finished = %v, want a circle", finished)
				}
				if circ.Radius() != 3 {
					t.Errorf("radius = %v, want 3", circ.Radius())
				}
			} else if finished != nil {
				t.Errorf("finished = %v, want nil for a zero radius", finished)
			}
		})
	}
}

// TestCreateCancel checks that escape ends the instance with no geometry
// and that a done creator ignores further input.
func TestCreateCancel(t *testing.T) {
	c, _ := NewCreator(geom.KindLine, nil)
	fires := 0
	var finished geom.Geometry
	c.Finished.Listen(func(g geom.Geometry) { finished, fires = g, fires+1 })

	c.HandlePointer(pointerAt(view.PointerClick, 0, 0))
	c.HandleKey(&view.KeyEvent{Name: "esc"})

	if fires != 1 || finished != nil {
		t.Fatalf("cancel: fires = %d finished = %v, want one nil emission", fires, finished)
	}

	ev := pointerAt(view.PointerClick, 1, 1)
	c.HandlePointer(ev)
	if ev.Consumed {
		t.Error("a done creator should not consume events")
	}
	if fires != 1 {
		t.Errorf("Finished fired %d times, want exactly once", fires)
	}
}

// TestCreateSnapApplied checks that the snap function corrects committed
// vertices and that the indicator state clears on commit.
func TestCreateSnapApplied(t *testing.T) {
	snap := func(cand geom.Coordinate, committed []geom.Coordinate, closed bool) (geom.Coordinate, *SnapResult) {
		if len(committed) == 0 {
			return cand, nil
		}
		cand.X = committed[0].X
		return cand, &SnapResult{Kind: SnapOrthogonal, Coord: cand}
	}
	c, _ := NewCreator(geom.KindLine, snap)
	var finished geom.Geometry
	c.Finished.Listen(func(g geom.Geometry) { finished = g })

	c.HandlePointer(pointerAt(view.PointerClick, 10, 0))
	c.HandlePointer(pointerAt(view.PointerMove, 10.4, 6))
	if c.LastSnap == nil {
		t.Fatal("LastSnap should be set while the pointer is corrected")
	}
	c.HandlePointer(pointerAt(view.PointerClick, 10.4, 6))
	c.HandleKey(&view.KeyEvent{Name: "enter"})

	line := finished.(*geom.Line)
	if line.Vertices[1].X != 10 {
		t.Errorf("second vertex x = %v, want snapped to 10", line.Vertices[1].X)
	}
	if c.LastSnap != nil {
		t.Error("LastSnap should clear on commit")
	}
}

// TestNewCreatorUnknownKind checks the error path for an unsupported
// geometry kind.
func TestNewCreatorUnknownKind(t *testing.T) {
	if _, err := NewCreator(geom.Kind(99), nil); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}
