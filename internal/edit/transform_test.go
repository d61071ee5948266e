package edit

import (
	"math"
	"testing"

	"geoedit/internal/geom"
	"geoedit/internal/layer"
	"geoedit/internal/view"
)

func newTransformFixture(fs ...*layer.Feature) (*Transformer, *fakeView, *layer.Collection) {
	vw := newFakeView()
	scratch := layer.NewCollection("scratch")
	tr := NewTransformer(vw, scratch, DefaultConfig(), quietLogger())
	tr.SetFeatures(fs)
	return tr, vw, scratch
}

// TestTransformerPivot checks that the derived pivot is the center of
// the selection's union extent and that an explicit pivot overrides it.
func TestTransformerPivot(t *testing.T) {
	a := layer.NewFeature(geom.NewBox(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 10},
	))
	b := layer.NewFeature(geom.NewPoint(geom.Coordinate{X: 30, Y: 10}))
	tr, _, _ := newTransformFixture(a, b)
	defer tr.Destroy()

	if p := tr.Pivot(); p.X != 15 || p.Y != 5 {
		t.Errorf("derived pivot = %+v, want (15,5)", p)
	}

	tr.SetPivot(&geom.Coordinate{X: 1, Y: 2})
	if p := tr.Pivot(); p.X != 1 || p.Y != 2 {
		t.Errorf("explicit pivot = %+v, want (1,2)", p)
	}
	tr.SetPivot(nil)
	if p := tr.Pivot(); p.X != 15 || p.Y != 5 {
		t.Errorf("pivot = %+v after revert, want the derived one", p)
	}
}

// TestTransformerTranslate checks coordinate deltas and that the derived
// pivot travels with the selection.
func TestTransformerTranslate(t *testing.T) {
	f := layer.NewFeature(geom.NewLine(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 0},
	))
	tr, _, _ := newTransformFixture(f)
	defer tr.Destroy()
	pivotBefore := tr.Pivot()

	tr.Translate(3, -2, 1)

	cs := f.Geometry.Coords()
	if cs[0].X != 3 || cs[0].Y != -2 || cs[0].Z != 1 {
		t.Errorf("vertex 0 = %+v, want (3,-2,1)", cs[0])
	}
	if cs[1].X != 13 {
		t.Errorf("vertex 1 x = %v, want 13", cs[1].X)
	}
	p := tr.Pivot()
	if p.X != pivotBefore.X+3 || p.Y != pivotBefore.Y-2 {
		t.Errorf("pivot = %+v, want it moved with the features", p)
	}
}

// TestTransformerRotate checks a quarter turn about the pivot with z
// preserved.
func TestTransformerRotate(t *testing.T) {
	f := layer.NewFeature(geom.NewLine(
		geom.Coordinate{X: -5, Y: 0, Z: 2},
		geom.Coordinate{X: 5, Y: 0, Z: 2},
	))
	tr, _, _ := newTransformFixture(f)
	defer tr.Destroy()

	// pivot is the segment midpoint (0,0)
	tr.Rotate(90)

	cs := f.Geometry.Coords()
	if math.Abs(cs[1].X) > 1e-9 || math.Abs(cs[1].Y-5) > 1e-9 {
		t.Errorf("vertex 1 = %+v, want rotated to (0,5)", cs[1])
	}
	if cs[1].Z != 2 {
		t.Errorf("z = %v, want preserved", cs[1].Z)
	}
}

// TestTransformerScale checks independent axis factors about the pivot.
func TestTransformerScale(t *testing.T) {
	f := layer.NewFeature(geom.NewBox(
		geom.Coordinate{X: -2, Y: -1},
		geom.Coordinate{X: 2, Y: 1},
	))
	tr, _, _ := newTransformFixture(f)
	defer tr.Destroy()

	tr.Scale(2, 3)

	b := f.Geometry.Bounds()
	if b.MinX != -4 || b.MaxX != 4 || b.MinY != -3 || b.MaxY != 3 {
		t.Errorf("bounds = %+v, want scaled to -4..4 x -3..3", b)
	}
	if !geom.Valid(f.Geometry) {
		t.Error("scaling must keep the box axis aligned")
	}
}

// TestTransformerExtrude checks height promotion: the first delta on a
// ground-clamped feature samples terrain for its base and switches it to
// absolute height, later deltas only accumulate.
func TestTransformerExtrude(t *testing.T) {
	f := layer.NewFeature(geom.NewPolygon(
		geom.Coordinate{X: 0, Y: 0},
		geom.Coordinate{X: 10, Y: 0},
		geom.Coordinate{X: 10, Y: 10},
	))
	tr, vw, _ := newTransformFixture(f)
	defer tr.Destroy()
	vw.is3D = true
	vw.hasTerrain = true
	vw.terrain = 120

	tr.Extrude(5)

	if f.HeightMode != layer.HeightAbsolute {
		t.Error("the first delta should promote to absolute height")
	}
	if f.BaseHeight != 120 {
		t.Errorf("base height = %v, want the terrain sample", f.BaseHeight)
	}
	if f.ExtrudedHeight != 5 {
		t.Errorf("extruded height = %v, want 5", f.ExtrudedHeight)
	}

	vw.terrain = 999
	tr.Extrude(2)

	if f.BaseHeight != 120 {
		t.Error("promotion must happen only once per feature")
	}
	if f.ExtrudedHeight != 7 {
		t.Errorf("extruded height = %v, want accumulated 7", f.ExtrudedHeight)
	}
}

// TestTransformerExtrudeRejectedOn2D checks that both the mode switch
// and the operation refuse extrusion without a 3D scene.
func TestTransformerExtrudeRejectedOn2D(t *testing.T) {
	f := layer.NewFeature(geom.NewPoint(geom.Coordinate{X: 0, Y: 0}))
	tr, _, _ := newTransformFixture(f)
	defer tr.Destroy()

	tr.SetMode(ModeExtrude)
	if tr.Mode() == ModeExtrude {
		t.Error("extrude mode should be refused on a 2D view")
	}

	tr.Extrude(5)
	if f.ExtrudedHeight != 0 || f.HeightMode != layer.HeightGround {
		t.Error("extrusion on a 2D view must leave the feature untouched")
	}
}

// TestTransformerGlyphs checks per-mode glyph sets, screen-constant
// sizing via the render tick, and teardown.
func TestTransformerGlyphs(t *testing.T) {
	f := layer.NewFeature(geom.NewPoint(geom.Coordinate{X: 50, Y: 50}))
	tr, vw, scratch := newTransformFixture(f)

	if scratch.Len() != 3 {
		t.Fatalf("translate glyphs = %d, want pivot plus two axes", scratch.Len())
	}

	tr.SetMode(ModeRotate)
	if scratch.Len() != 2 {
		t.Errorf("rotate glyphs = %d, want pivot plus ring", scratch.Len())
	}

	// glyph offset follows resolution at the pivot
	vw.res = 4
	vw.disp.Tick()
	want := DefaultConfig().HandlePixelSize * 4
	if tr.GlyphScale() != want {
		t.Errorf("glyph scale = %v, want %v", tr.GlyphScale(), want)
	}

	// a camera move refreshes the scale without waiting for a tick
	vw.res = 8
	vw.moved.Emit(struct{}{})
	if got := tr.GlyphScale(); got != DefaultConfig().HandlePixelSize*8 {
		t.Errorf("glyph scale after viewpoint change = %v, want %v",
			got, DefaultConfig().HandlePixelSize*8)
	}

	tr.Destroy()
	if scratch.Len() != 0 {
		t.Errorf("scratch has %d markers after Destroy, want 0", scratch.Len())
	}

	// the tick listener must be gone
	vw.res = 9
	vw.disp.Tick()
	if tr.GlyphScale() == DefaultConfig().HandlePixelSize*9 {
		t.Error("a destroyed transformer should not follow render ticks")
	}
}

// TestTransformerDrag checks drag accumulation through pointer events in
// translate mode.
func TestTransformerDrag(t *testing.T) {
	f := layer.NewFeature(geom.NewPoint(geom.Coordinate{X: 10, Y: 10}))
	tr, _, _ := newTransformFixture(f)
	defer tr.Destroy()

	tr.HandlePointer(pointerAt(view.PointerDown, 20, 20))
	tr.HandlePointer(pointerAt(view.PointerMove, 25, 22))
	tr.HandlePointer(pointerAt(view.PointerMove, 27, 21))
	tr.HandlePointer(pointerAt(view.PointerUp, 27, 21))

	p := f.Geometry.(*geom.Point).Pos
	if p.X != 17 || p.Y != 11 {
		t.Errorf("point = %+v, want dragged by the full delta to (17,11)", p)
	}

	// moves after release must not apply
	tr.HandlePointer(pointerAt(view.PointerMove, 40, 40))
	if f.Geometry.(*geom.Point).Pos.X != 17 {
		t.Error("a released drag should stop accumulating")
	}
}
