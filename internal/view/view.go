// Package view defines the contract between the editor core and the map
// rendering backends. The backends themselves (planar terminal map,
// 3D globe, oblique imagery) live with their renderers; the editor only
// sees this interface.
package view

import (
	"errors"

	"geoedit/internal/event"
	"geoedit/internal/geom"
)

var ErrNoTerrain = errors.New("view: no terrain sampling available")

// View is the map collaborator a session is started on.
type View interface {
	// Dispatcher is the shared event dispatcher for this view.
	Dispatcher() *Dispatcher

	// Resolution returns ground units per screen pixel at the given
	// coordinate. Used for screen-constant handle sizing and snap
	// tolerances.
	Resolution(at geom.Coordinate) float64

	// Is3D reports whether the view carries a 3D scene (globe views).
	// Extrusion is only available on 3D views.
	Is3D() bool

	// SampleHeight samples terrain height at a coordinate. Non-3D views
	// return ErrNoTerrain.
	SampleHeight(at geom.Coordinate) (float64, error)

	// Unproject maps a screen position to a ground coordinate; ok is
	// false when the position does not hit the ground plane.
	Unproject(sx, sy float64) (geom.Coordinate, bool)

	// ViewpointChanged fires when the camera moves.
	ViewpointChanged() *event.Signal[struct{}]
}

// ObliqueView is implemented by oblique-image views, which additionally
// announce image switches so sessions can rebuild their screen-space
// state.
type ObliqueView interface {
	View
	ImageChanged() *event.Signal[string]
}
