package edit

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"geoedit/internal/geom"
	"geoedit/internal/layer"
	"geoedit/internal/view"
)

// TransformMode selects how pointer drags are applied to the selected
// features. The modes are mutually exclusive.
type TransformMode int

const (
	ModeTranslate TransformMode = iota
	ModeRotate
	ModeScale
	ModeExtrude
)

func (m TransformMode) String() string {
	switch m {
	case ModeTranslate:
		return "translate"
	case ModeRotate:
		return "rotate"
	case ModeScale:
		return "scale"
	case ModeExtrude:
		return "extrude"
	}
	return "unknown"
}

// Transformer applies whole-feature transforms about a pivot. Mode
// switches destroy the previous mode's glyphs, recompute the pivot and
// build the new glyph set. Glyph scale follows the view resolution at
// the pivot on every render tick so handles keep constant screen size.
type Transformer struct {
	vw      view.View
	scratch *layer.Collection
	cfg     Config
	logger  *log.Logger

	mode          TransformMode
	features      []*layer.Feature
	explicitPivot *geom.Coordinate
	pivot         geom.Coordinate
	glyphScale    float64
	glyphs        []*layer.Feature

	// extrusion promotion happens once per feature
	promoted map[uuid.UUID]bool

	dragging bool
	lastGnd  geom.Coordinate
	lastSY   float64

	untick  func()
	unmoved func()
}

func NewTransformer(vw view.View, scratch *layer.Collection, cfg Config, logger *log.Logger) *Transformer {
	if logger == nil {
		logger = log.Default()
	}
	t := &Transformer{
		vw:       vw,
		scratch:  scratch,
		cfg:      cfg,
		logger:   logger,
		mode:     ModeTranslate,
		promoted: map[uuid.UUID]bool{},
	}
	t.untick = vw.Dispatcher().OnTick(t.updateGlyphScale)
	t.unmoved = vw.ViewpointChanged().Listen(func(struct{}) { t.updateGlyphScale() })
	t.rebuild()
	return t
}

func (t *Transformer) Mode() TransformMode { return t.mode }

func (t *Transformer) Pivot() geom.Coordinate { return t.pivot }

// GlyphScale is the current ground-unit size of one handle glyph.
func (t *Transformer) GlyphScale() float64 { return t.glyphScale }

// SetMode switches the transform mode. Unchanged mode is a no-op;
// extrude on a view without a 3D scene is rejected with a warning and
// the mode stays as it was.
func (t *Transformer) SetMode(m TransformMode) {
	if m == t.mode {
		return
	}
	if m == ModeExtrude && !t.vw.Is3D() {
		t.logger.Warn("extrude requires a 3D view", "mode", t.mode)
		return
	}
	t.mode = m
	t.dragging = false
	t.rebuild()
}

// SetFeatures replaces the transformed feature set and recomputes the
// pivot from its bounding extent.
func (t *Transformer) SetFeatures(fs []*layer.Feature) {
	t.features = fs
	t.promoted = map[uuid.UUID]bool{}
	t.rebuild()
}

// SetPivot pins an explicit pivot; nil reverts to the derived one.
func (t *Transformer) SetPivot(c *geom.Coordinate) {
	t.explicitPivot = c
	t.rebuild()
}

// rebuild tears down the previous mode's glyphs, recomputes the pivot
// and constructs the new glyph set.
func (t *Transformer) rebuild() {
	t.destroyGlyphs()
	t.computePivot()
	t.updateGlyphScale()
	t.buildGlyphs()
}

func (t *Transformer) computePivot() {
	if t.explicitPivot != nil {
		t.pivot = *t.explicitPivot
		return
	}
	var b geom.BBox
	first := true
	for _, f := range t.features {
		if f.Geometry == nil {
			continue
		}
		if first {
			b = f.Geometry.Bounds()
			first = false
		} else {
			b = b.Union(f.Geometry.Bounds())
		}
	}
	if !first {
		t.pivot = b.Center()
	}
}

func (t *Transformer) updateGlyphScale() {
	t.glyphScale = t.cfg.HandlePixelSize * t.vw.Resolution(t.pivot)
	// keep glyph markers at their screen-constant offsets
	t.layoutGlyphs()
}

func (t *Transformer) buildGlyphs() {
	if len(t.features) == 0 {
		return
	}
	names := map[TransformMode][]string{
		ModeTranslate: {"pivot", "axis-x", "axis-y"},
		ModeRotate:    {"pivot", "ring"},
		ModeScale:     {"pivot", "corner"},
		ModeExtrude:   {"pivot", "axis-z"},
	}
	for _, n := range names[t.mode] {
		m := layer.NewFeature(geom.NewPoint(t.pivot))
		m.Name = n
		m.AllowPicking = false
		t.glyphs = append(t.glyphs, m)
		t.scratch.Add(m)
	}
	t.layoutGlyphs()
}

// layoutGlyphs positions the mode glyphs around the pivot at the current
// glyph scale.
func (t *Transformer) layoutGlyphs() {
	for _, g := range t.glyphs {
		p := g.Geometry.(*geom.Point)
		switch g.Name {
		case "pivot":
			p.Pos = t.pivot
		case "axis-x", "corner":
			p.Pos = geom.Coordinate{X: t.pivot.X + t.glyphScale, Y: t.pivot.Y, Z: t.pivot.Z}
		case "axis-y", "ring":
			p.Pos = geom.Coordinate{X: t.pivot.X, Y: t.pivot.Y + t.glyphScale, Z: t.pivot.Z}
		case "axis-z":
			p.Pos = geom.Coordinate{X: t.pivot.X, Y: t.pivot.Y, Z: t.pivot.Z + t.glyphScale}
		}
	}
}

func (t *Transformer) destroyGlyphs() {
	for _, g := range t.glyphs {
		t.scratch.Remove(g.ID)
	}
	t.glyphs = nil
}

// HandlePointer accumulates a drag into the active mode's delta.
func (t *Transformer) HandlePointer(ev *view.PointerEvent) {
	if len(t.features) == 0 || !ev.OnGround {
		return
	}
	switch ev.Phase {
	case view.PointerDown:
		t.dragging = true
		t.lastGnd = ev.Ground
		t.lastSY = ev.ScreenY
		ev.Consumed = true
	case view.PointerMove:
		if !t.dragging {
			return
		}
		t.applyDrag(ev)
		t.lastGnd = ev.Ground
		t.lastSY = ev.ScreenY
		ev.Consumed = true
	case view.PointerUp:
		if t.dragging {
			t.dragging = false
			ev.Consumed = true
		}
	}
}

func (t *Transformer) applyDrag(ev *view.PointerEvent) {
	switch t.mode {
	case ModeTranslate:
		t.Translate(ev.Ground.X-t.lastGnd.X, ev.Ground.Y-t.lastGnd.Y, ev.Ground.Z-t.lastGnd.Z)
	case ModeRotate:
		from := geom.Bearing(t.pivot, t.lastGnd)
		to := geom.Bearing(t.pivot, ev.Ground)
		t.Rotate(to - from)
	case ModeScale:
		sx, sy := 1.0, 1.0
		if dx := t.lastGnd.X - t.pivot.X; math.Abs(dx) > 1e-12 {
			sx = (ev.Ground.X - t.pivot.X) / dx
		}
		if dy := t.lastGnd.Y - t.pivot.Y; math.Abs(dy) > 1e-12 {
			sy = (ev.Ground.Y - t.pivot.Y) / dy
		}
		t.Scale(sx, sy)
	case ModeExtrude:
		// screen-up increases height
		dh := (t.lastSY - ev.ScreenY) * t.vw.Resolution(t.pivot)
		t.Extrude(dh)
	}
}

func (t *Transformer) HandleKey(*view.KeyEvent) {}

// Translate applies a uniform ground-plane delta to every coordinate of
// every selected feature.
func (t *Transformer) Translate(dx, dy, dz float64) {
	for _, f := range t.features {
		if f.Geometry == nil {
			continue
		}
		cs := f.Geometry.Coords()
		out := make([]geom.Coordinate, len(cs))
		for i, c := range cs {
			out[i] = geom.Coordinate{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
		}
		f.SetCoords(out)
	}
	if t.explicitPivot == nil {
		t.pivot = geom.Coordinate{X: t.pivot.X + dx, Y: t.pivot.Y + dy, Z: t.pivot.Z + dz}
		t.layoutGlyphs()
	}
}

// Rotate applies a 2D rotation about the pivot; z is preserved.
func (t *Transformer) Rotate(angleDeg float64) {
	for _, f := range t.features {
		if f.Geometry == nil {
			continue
		}
		cs := f.Geometry.Coords()
		out := make([]geom.Coordinate, len(cs))
		for i, c := range cs {
			out[i] = geom.Rotate2D(c, t.pivot, angleDeg)
		}
		f.SetCoords(out)
	}
}

// Scale applies independent x/y factors about the pivot.
func (t *Transformer) Scale(sx, sy float64) {
	for _, f := range t.features {
		if f.Geometry == nil {
			continue
		}
		cs := f.Geometry.Coords()
		out := make([]geom.Coordinate, len(cs))
		for i, c := range cs {
			out[i] = geom.Coordinate{
				X: t.pivot.X + (c.X-t.pivot.X)*sx,
				Y: t.pivot.Y + (c.Y-t.pivot.Y)*sy,
				Z: c.Z,
			}
		}
		f.SetCoords(out)
	}
}

// Extrude adds a height delta to each feature's extruded height. Before
// the first delta a ground-clamped feature is promoted to absolute
// height, sampling terrain for its base.
func (t *Transformer) Extrude(dh float64) {
	if !t.vw.Is3D() {
		t.logger.Warn("extrude requires a 3D view")
		return
	}
	for _, f := range t.features {
		if !t.promoted[f.ID] {
			t.promoted[f.ID] = true
			if f.HeightMode == layer.HeightGround {
				at := t.pivot
				if f.Geometry != nil {
					at = f.Geometry.Bounds().Center()
				}
				if h, err := t.vw.SampleHeight(at); err == nil {
					f.BaseHeight = h
				} else {
					t.logger.Warn("terrain sample failed", "err", err)
				}
				f.HeightMode = layer.HeightAbsolute
			}
		}
		f.ExtrudedHeight += dh
	}
}

// Destroy detaches the tick and viewpoint listeners and removes the
// glyphs.
func (t *Transformer) Destroy() {
	if t.untick != nil {
		t.untick()
		t.untick = nil
	}
	if t.unmoved != nil {
		t.unmoved()
		t.unmoved = nil
	}
	t.destroyGlyphs()
	t.dragging = false
}
