package edit

import (
	"geoedit/internal/event"
	"geoedit/internal/geom"
	"geoedit/internal/view"
)

// fakeView is a minimal planar view for tests: one ground unit per
// pixel, identity unprojection.
type fakeView struct {
	disp       *view.Dispatcher
	res        float64
	is3D       bool
	terrain    float64
	hasTerrain bool
	moved      event.Signal[struct{}]
}

func newFakeView() *fakeView {
	return &fakeView{disp: view.NewDispatcher(), res: 1}
}

func (v *fakeView) Dispatcher() *view.Dispatcher { return v.disp }

func (v *fakeView) Resolution(geom.Coordinate) float64 { return v.res }

func (v *fakeView) Is3D() bool { return v.is3D }

func (v *fakeView) SampleHeight(geom.Coordinate) (float64, error) {
	if !v.hasTerrain {
		return 0, view.ErrNoTerrain
	}
	return v.terrain, nil
}

func (v *fakeView) Unproject(sx, sy float64) (geom.Coordinate, bool) {
	return geom.Coordinate{X: sx, Y: sy}, true
}

func (v *fakeView) ViewpointChanged() *event.Signal[struct{}] { return &v.moved }

// pointerAt builds a ground pointer event at x, y.
func pointerAt(phase view.PointerPhase, x, y float64) *view.PointerEvent {
	return &view.PointerEvent{
		Phase:    phase,
		ScreenX:  x,
		ScreenY:  y,
		Ground:   geom.Coordinate{X: x, Y: y},
		OnGround: true,
	}
}
