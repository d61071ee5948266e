package geom

import "testing"

// TestValid checks the per-kind structural rules.
func TestValid(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want bool
	}{
		{"nil geometry", nil, false},
		{"point", NewPoint(Coordinate{X: 1, Y: 2}), true},
		{"line with two vertices", NewLine(Coordinate{}, Coordinate{X: 1}), true},
		{"line with one vertex", &Line{Vertices: []Coordinate{{}}}, false},
		{"ring of three", NewPolygon(Coordinate{}, Coordinate{X: 1}, Coordinate{Y: 1}), true},
		{"ring of two", &Polygon{Ring: []Coordinate{{}, {X: 1}}}, false},
		{"axis-aligned box", NewBox(Coordinate{}, Coordinate{X: 4, Y: 2}), true},
		{
			"skewed box",
			&Box{Corners: [4]Coordinate{{X: 0, Y: 0}, {X: 4, Y: 1}, {X: 4, Y: 3}, {X: 0, Y: 2}}},
			false,
		},
		{"circle", NewCircle(Coordinate{}, Coordinate{X: 2}), true},
		{"zero-radius circle", NewCircle(Coordinate{X: 1, Y: 1}, Coordinate{X: 1, Y: 1}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Valid(tt.g); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestValidBoxEpsilon checks that the degeneracy offsets the editor
// injects do not fail validation.
func TestValidBoxEpsilon(t *testing.T) {
	b := NewBox(Coordinate{}, Coordinate{X: 10, Y: 6})
	// nudge a corner by far less than the relative epsilon
	b.Corners[1].Y += 1e-9
	if !Valid(b) {
		t.Error("sub-epsilon skew should still validate")
	}
}
