package layer

import (
	"github.com/google/uuid"

	"geoedit/internal/event"
	"geoedit/internal/geom"
)

// HeightMode says how a feature's vertical position is resolved.
type HeightMode int

const (
	// HeightGround clamps the feature to terrain; its height is sampled,
	// not stored.
	HeightGround HeightMode = iota
	// HeightAbsolute stores the height explicitly.
	HeightAbsolute
)

// Feature couples a geometry with identity, display state and the
// picking flag the editor toggles while it owns the feature.
type Feature struct {
	ID           uuid.UUID
	Name         string
	Geometry     geom.Geometry
	Visible      bool
	AllowPicking bool

	// Highlighted marks the feature as part of the current selection for
	// rendering purposes.
	Highlighted bool

	HeightMode     HeightMode
	BaseHeight     float64
	ExtrudedHeight float64

	// Changed fires after every geometry mutation that goes through
	// SetCoords. Editors use it to resynchronize handles when a change
	// did not originate from them.
	Changed event.Signal[struct{}]
}

func NewFeature(g geom.Geometry) *Feature {
	return &Feature{
		ID:           uuid.New(),
		Geometry:     g,
		Visible:      true,
		AllowPicking: true,
	}
}

// SetCoords replaces the geometry's coordinates and notifies listeners.
// Returns false if the coordinate count does not fit the geometry kind.
func (f *Feature) SetCoords(cs []geom.Coordinate) bool {
	if f.Geometry == nil || !f.Geometry.SetCoords(cs) {
		return false
	}
	f.Changed.Emit(struct{}{})
	return true
}
