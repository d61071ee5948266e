package edit

// Config carries the tunables every session shares. Pixel values are
// converted to ground units through the view's resolution at the point of
// use, so they track zoom.
type Config struct {
	// SnapPixelTolerance is the screen-space radius for vertex/edge
	// snapping and handle hit-testing.
	SnapPixelTolerance float64
	// SnapAngleToleranceDeg is the bearing tolerance for orthogonal and
	// parallel snapping.
	SnapAngleToleranceDeg float64
	// HandlePixelSize is the on-screen size of handle glyphs.
	HandlePixelSize float64
}

// DefaultConfig mirrors the shipped geoedit.yaml defaults.
func DefaultConfig() Config {
	return Config{
		SnapPixelTolerance:    10,
		SnapAngleToleranceDeg: 5,
		HandlePixelSize:       8,
	}
}
