package edit

import (
	"fmt"

	"github.com/charmbracelet/log"

	"geoedit/internal/event"
	"geoedit/internal/geom"
	"geoedit/internal/layer"
	"geoedit/internal/view"
)

// sessionKeys maps key names to session actions. Appended last in a
// chain so the mode machines see the key first.
type sessionKeys struct {
	bindings map[string]func()
}

func (k *sessionKeys) HandlePointer(*view.PointerEvent) {}

func (k *sessionKeys) HandleKey(ev *view.KeyEvent) {
	if fn, ok := k.bindings[ev.Name]; ok {
		fn()
		ev.Consumed = true
	}
}

func (k *sessionKeys) Destroy() { k.bindings = nil }

// neighborGeoms returns the working geometries except the edited
// feature's own, evaluated per snap so mid-session adds are seen.
func neighborGeoms(working *layer.Collection, exclude *layer.Feature) []geom.Geometry {
	var out []geom.Geometry
	for _, f := range working.Features() {
		if exclude != nil && f.ID == exclude.ID {
			continue
		}
		if f.Visible && f.Geometry != nil {
			out = append(out, f.Geometry)
		}
	}
	return out
}

// use3DFor picks the snap distance metric. Ground-clamped features are
// measured in the ground plane even in 3D scenes; only features with an
// absolute height compare full 3D distance.
func use3DFor(vw view.View, f *layer.Feature) bool {
	return vw.Is3D() && f != nil && f.HeightMode == layer.HeightAbsolute
}

func neighborBearings(gs []geom.Geometry) []float64 {
	var out []float64
	for _, g := range gs {
		closed := g.Kind() == geom.KindPolygon || g.Kind() == geom.KindBox
		out = append(out, GeometryBearings(g.Coords(), closed)...)
	}
	return out
}

// createSnapFor builds the snap function for a creation session. The
// reference segments come from the vertices committed so far; for ring
// geometries the closing side references the first vertex once there is
// one to close against. current reports the nascent feature, which must
// not snap onto itself: it contributes bearing references only.
func createSnapFor(vw view.View, cfg Config, working *layer.Collection, current func() *layer.Feature) CreateSnapFunc {
	return func(cand geom.Coordinate, committed []geom.Coordinate, closed bool) (geom.Coordinate, *SnapResult) {
		self := current()
		ns := neighborGeoms(working, self)
		ctx := SnapContext{
			Candidate: cand,
			PrevIdx:   -1,
			NextIdx:   -1,
			Neighbors: ns,
			Tolerance: groundTol(vw, cfg, cand),
			AngleTol:  cfg.SnapAngleToleranceDeg,
			Use3D:     use3DFor(vw, self),
		}
		n := len(committed)
		if n >= 1 {
			ctx.Prev = &committed[n-1]
			ctx.PrevIdx = n - 1
		}
		if n >= 2 {
			ctx.PrevPrev = &committed[n-2]
		}
		if closed && n >= 2 {
			ctx.Next = &committed[0]
			ctx.NextIdx = 0
			if n >= 3 {
				ctx.NextNext = &committed[1]
			}
		}
		ctx.Bearings = append(neighborBearings(ns), GeometryBearings(committed, false)...)
		res := Snap(ctx)
		if res == nil {
			return cand, nil
		}
		return res.Coord, res
	}
}

// editSnapFor builds the snap function for vertex editing. Both the
// segment behind and the segment ahead of the dragged vertex serve as
// bearing references; ring geometries wrap.
func editSnapFor(vw view.View, cfg Config, working *layer.Collection, f *layer.Feature) EditSnapFunc {
	return func(cand geom.Coordinate, coords []geom.Coordinate, index int, closed bool) (geom.Coordinate, *SnapResult) {
		ns := neighborGeoms(working, f)
		ctx := SnapContext{
			Candidate: cand,
			PrevIdx:   -1,
			NextIdx:   -1,
			Neighbors: ns,
			Tolerance: groundTol(vw, cfg, cand),
			AngleTol:  cfg.SnapAngleToleranceDeg,
			Use3D:     use3DFor(vw, f),
		}
		n := len(coords)
		wrap := func(i int) int {
			if !closed {
				if i < 0 || i >= n {
					return -1
				}
				return i
			}
			return ((i % n) + n) % n
		}
		if p := wrap(index - 1); p >= 0 && p != index {
			ctx.Prev = &coords[p]
			ctx.PrevIdx = p
			if pp := wrap(index - 2); pp >= 0 && pp != index && pp != p {
				ctx.PrevPrev = &coords[pp]
			}
		}
		if nx := wrap(index + 1); nx >= 0 && nx != index && nx != ctx.PrevIdx {
			ctx.Next = &coords[nx]
			ctx.NextIdx = nx
			if nn := wrap(index + 2); nn >= 0 && nn != index && nn != nx {
				ctx.NextNext = &coords[nn]
			}
		}
		ctx.Bearings = neighborBearings(ns)
		res := Snap(ctx)
		if res == nil {
			return cand, nil
		}
		return res.Coord, res
	}
}

// CreateSession draws geometries of one kind continuously: each finished
// stroke immediately arms a fresh creation machine. Escape during a
// stroke discards it; escape with nothing in progress ends the session.
type CreateSession struct {
	*Session

	// Created fires when a stroke's first click adds the nascent
	// feature to the working collection; Finished fires when the
	// geometry commits valid.
	Created  event.Signal[*layer.Feature]
	Finished event.Signal[*layer.Feature]

	working *layer.Collection
	geoKind geom.Kind
	snap    CreateSnapFunc
	creator *Creator
	active  *layer.Feature
	closing bool
}

// Current is the active creation machine, for snap-indicator rendering.
func (cs *CreateSession) Current() *Creator { return cs.creator }

// StartCreateSession begins continuous creation of the given kind into
// the working collection.
func StartCreateSession(vw view.View, reg *layer.Registry, working *layer.Collection, kind geom.Kind, cfg Config, logger *log.Logger) (*CreateSession, error) {
	if _, ok := createMachines[kind]; !ok {
		return nil, fmt.Errorf("create session: unsupported geometry kind %v", kind)
	}
	s := newSession(SessionCreate, vw, reg, cfg, logger)
	cs := &CreateSession{
		Session: s,
		working: working,
		geoKind: kind,
	}
	cs.snap = createSnapFor(vw, cfg, working, func() *layer.Feature { return cs.active })
	s.addDisposer(func() {
		cs.closing = true
		if cs.creator != nil && !cs.creator.Done() {
			cs.creator.Cancel()
		}
		cs.creator = nil
	})
	cs.arm()
	return cs, nil
}

// arm installs a fresh creation machine at the front of the chain and
// wires its lifecycle to the working collection.
func (cs *CreateSession) arm() {
	cr, err := NewCreator(cs.geoKind, cs.snap)
	if err != nil {
		// kind was validated at session start
		cs.logger.Error("create session: arming failed", "err", err)
		cs.Stop()
		return
	}

	var feat *layer.Feature
	cr.Created.Listen(func(g geom.Geometry) {
		feat = layer.NewFeature(g)
		feat.Name = cs.geoKind.String()
		cs.active = feat
		cs.working.Add(feat)
		cs.Created.Emit(feat)
	})
	cr.Finished.Listen(func(g geom.Geometry) {
		cs.chain.Remove(cr)
		cs.active = nil
		if g == nil {
			if feat != nil {
				cs.working.Remove(feat.ID)
			}
			if cs.closing {
				return
			}
			if feat == nil {
				// cancelled before the first click ends the session
				cs.Stop()
				return
			}
		} else {
			cs.Finished.Emit(feat)
		}
		if !cs.closing {
			cs.arm()
		}
	})

	cs.creator = cr
	cs.chain.Append(cr)
}

// EditGeometrySession drags, inserts and removes the vertices of one
// feature through its handle set.
type EditGeometrySession struct {
	*Session
	editor *GeometryEditor
}

func (es *EditGeometrySession) Editor() *GeometryEditor { return es.editor }

// StartEditGeometrySession opens vertex editing for f. A feature whose
// geometry kind has no editing machine ends the session immediately with
// an error.
func StartEditGeometrySession(vw view.View, reg *layer.Registry, working *layer.Collection, f *layer.Feature, cfg Config, logger *log.Logger) (*EditGeometrySession, error) {
	s := newSession(SessionEditGeometry, vw, reg, cfg, logger)
	ed, err := NewGeometryEditor(f, s.scratch, editSnapFor(vw, cfg, working, f))
	if err != nil {
		s.logger.Warn("feature is not editable", "err", err)
		s.Stop()
		return nil, err
	}
	s.addDisposer(ed.Destroy)
	s.addDisposer(func() {
		// a feature left invalid by the session (or by an external
		// coordinate change during it) does not survive teardown
		if !geom.Valid(f.Geometry) {
			s.logger.Warn("removing invalid geometry at session end", "feature", f.ID)
			working.Remove(f.ID)
		}
	})
	s.chain.Append(newHandleDrag(vw, cfg, ed))
	s.chain.Append(newVertexEdit(vw, cfg, ed))
	s.chain.Append(&sessionKeys{bindings: map[string]func(){
		"esc": s.Stop,
	}})
	return &EditGeometrySession{Session: s, editor: ed}, nil
}

// EditFeaturesSession transforms a set of whole features about a shared
// pivot. Clicking picks the feature set; g, r, s and x switch between
// translate, rotate, scale and extrude.
type EditFeaturesSession struct {
	*Session
	selection   *Selection
	transformer *Transformer
}

func (es *EditFeaturesSession) Selection() *Selection { return es.selection }

func (es *EditFeaturesSession) Transformer() *Transformer { return es.transformer }

// SetFeatures replaces the transformed set.
func (es *EditFeaturesSession) SetFeatures(fs []*layer.Feature) {
	es.selection.Set(fs)
}

// StartEditFeaturesSession opens whole-feature transformation over the
// given initial set. Selected features are made unpickable for the
// duration so transform drags do not re-pick them.
func StartEditFeaturesSession(vw view.View, reg *layer.Registry, working *layer.Collection, fs []*layer.Feature, cfg Config, logger *log.Logger) *EditFeaturesSession {
	s := newSession(SessionEditFeatures, vw, reg, cfg, logger)
	sel := NewSelection(true)
	tr := NewTransformer(vw, s.scratch, cfg, s.logger)
	detach := sel.Changed.Listen(func(fs []*layer.Feature) {
		tr.SetFeatures(fs)
	})
	s.addDisposer(tr.Destroy)
	s.addDisposer(func() {
		detach()
		sel.Clear()
	})

	onPick := func(f *layer.Feature, additive bool) {
		if additive {
			sel.Toggle(f)
		} else {
			sel.Set([]*layer.Feature{f})
		}
	}
	s.chain.Append(newFeaturePick(vw, cfg, working, onPick))
	s.chain.Append(tr)
	s.chain.Append(&sessionKeys{bindings: map[string]func(){
		"g":   func() { tr.SetMode(ModeTranslate) },
		"r":   func() { tr.SetMode(ModeRotate) },
		"s":   func() { tr.SetMode(ModeScale) },
		"x":   func() { tr.SetMode(ModeExtrude) },
		"esc": s.Stop,
	}})

	sel.Set(fs)
	return &EditFeaturesSession{Session: s, selection: sel, transformer: tr}
}

// SelectSession picks features by clicking; shift-click toggles. Picked
// features stay pickable and highlighted until deselected or the session
// ends.
type SelectSession struct {
	*Session
	selection *Selection
}

func (ss *SelectSession) Selection() *Selection { return ss.selection }

func StartSelectSession(vw view.View, reg *layer.Registry, working *layer.Collection, cfg Config, logger *log.Logger) *SelectSession {
	s := newSession(SessionSelect, vw, reg, cfg, logger)
	sel := NewSelection(false)
	s.addDisposer(sel.Clear)

	onPick := func(f *layer.Feature, additive bool) {
		if additive {
			sel.Toggle(f)
		} else {
			sel.Set([]*layer.Feature{f})
		}
	}
	s.chain.Append(newFeaturePick(vw, cfg, working, onPick))
	s.chain.Append(&sessionKeys{bindings: map[string]func(){
		"esc": s.Stop,
	}})
	return &SelectSession{Session: s, selection: sel}
}
