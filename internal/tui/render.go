package tui

import (
	"math"
	"sort"
	"strings"

	"geoedit/internal/edit"
	"geoedit/internal/geom"
	"geoedit/internal/layer"
)

// cellOverlay is a styled glyph stamped onto one terminal cell after the
// braille pass, used for handles, snap indicators and hover.
type cellOverlay struct {
	x, y  int
	glyph string
}

func (m Model) renderCanvas() string {
	w, h := m.cv.w, m.cv.h
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = strings.Repeat(" ", w)
	}
	// High-resolution braille buffer for crisp edges
	br := newBrailleBuf(w, h)
	var overlays []cellOverlay

	for _, f := range m.working.Features() {
		if !f.Visible || f.Geometry == nil {
			continue
		}
		m.drawGeometry(br, f.Geometry)
		if f.Highlighted {
			for _, c := range f.Geometry.Coords() {
				if sx, sy, ok := m.cv.project(c); ok && sx >= 0 && sx < w && sy >= 0 && sy < h {
					overlays = append(overlays, cellOverlay{sx, sy, selectedStyle.Render("◆")})
				}
			}
		}
	}

	// Scratch collections carry session markers: vertex handles and
	// transform glyphs. They render as cell glyphs, not braille.
	for _, col := range m.reg.Collections() {
		if col == m.working {
			continue
		}
		for _, f := range col.Features() {
			if !f.Visible || f.Geometry == nil {
				continue
			}
			p, ok := f.Geometry.(*geom.Point)
			if !ok {
				m.drawGeometry(br, f.Geometry)
				continue
			}
			if sx, sy, ok := m.cv.project(p.Pos); ok && sx >= 0 && sx < w && sy >= 0 && sy < h {
				overlays = append(overlays, cellOverlay{sx, sy, handleStyle.Render("■")})
			}
		}
	}

	// Snap indicator for the running session
	if res := m.activeSnap(); res != nil {
		if sx, sy, ok := m.cv.project(res.Coord); ok && sx >= 0 && sx < w && sy >= 0 && sy < h {
			overlays = append(overlays, cellOverlay{sx, sy, snapStyle.Render("✻")})
		}
	}

	// Composite braille onto the blank canvas
	braLines := br.toLines()
	for y := 0; y < h && y < len(braLines); y++ {
		base := []rune(lines[y])
		over := []rune(braLines[y])
		for x := 0; x < len(base) && x < len(over); x++ {
			if over[x] != ' ' {
				base[x] = over[x]
			}
		}
		lines[y] = string(base)
	}

	// Stamp overlays; later overlays win on the same cell. Styled glyphs
	// carry escape codes, so each row is stamped right to left to keep
	// the remaining rune indices valid.
	cells := map[[2]int]string{}
	for _, o := range overlays {
		cells[[2]int{o.x, o.y}] = o.glyph
	}
	byRow := make(map[int][]int, h)
	for c := range cells {
		byRow[c[1]] = append(byRow[c[1]], c[0])
	}
	for y, xs := range byRow {
		sort.Sort(sort.Reverse(sort.IntSlice(xs)))
		for _, x := range xs {
			r := []rune(lines[y])
			lines[y] = string(r[:x]) + cells[[2]int{x, y}] + string(r[x+1:])
		}
	}
	return strings.Join(lines, "\n")
}

// drawGeometry rasterizes one geometry into the braille buffer.
func (m Model) drawGeometry(br *brailleBuf, g geom.Geometry) {
	switch t := g.(type) {
	case *geom.Point:
		if mx, my, ok := m.cv.projectMicro(t.Pos); ok {
			br.setPixel(mx, my)
		}
	case *geom.Line:
		m.drawPath(br, t.Vertices, false)
	case *geom.Polygon:
		m.fillRing(br, t.Ring)
		m.drawPath(br, t.Ring, true)
	case *geom.Box:
		m.drawPath(br, t.Corners[:], true)
	case *geom.Circle:
		m.drawCircle(br, t)
	}
}

func (m Model) drawPath(br *brailleBuf, cs []geom.Coordinate, closed bool) {
	var prev *[2]int
	var first *[2]int
	for _, c := range cs {
		mx, my, ok := m.cv.projectMicro(c)
		if !ok {
			continue
		}
		if prev != nil {
			br.drawLineMicro(prev[0], prev[1], mx, my)
		}
		p := [2]int{mx, my}
		prev = &p
		if first == nil {
			first = &p
		}
	}
	if closed && prev != nil && first != nil && prev != first {
		br.drawLineMicro(prev[0], prev[1], first[0], first[1])
	}
}

// fillRing fills a ring with the even-odd rule per microgrid scanline.
func (m Model) fillRing(br *brailleBuf, ring []geom.Coordinate) {
	var mic [][2]int
	for _, c := range ring {
		mx, my, ok := m.cv.projectMicro(c)
		if !ok {
			continue
		}
		mic = append(mic, [2]int{mx, my})
	}
	if len(mic) >= 3 {
		br.fillRing(mic)
	}
}

// drawCircle walks the rim in fixed angular steps. The step count grows
// with the projected radius so large circles stay round.
func (m Model) drawCircle(br *brailleBuf, c *geom.Circle) {
	r := c.Radius()
	if r <= 0 {
		if mx, my, ok := m.cv.projectMicro(c.Center); ok {
			br.setPixel(mx, my)
		}
		return
	}
	steps := 32
	if px := r / m.cv.Resolution(c.Center); px > 16 {
		steps = int(px) * 2
		if steps > 360 {
			steps = 360
		}
	}
	var prev *[2]int
	var first *[2]int
	for i := 0; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		p := geom.Coordinate{
			X: c.Center.X + r*math.Cos(a),
			Y: c.Center.Y + r*math.Sin(a),
			Z: c.Center.Z,
		}
		mx, my, ok := m.cv.projectMicro(p)
		if !ok {
			continue
		}
		if prev != nil {
			br.drawLineMicro(prev[0], prev[1], mx, my)
		}
		q := [2]int{mx, my}
		prev = &q
		if first == nil {
			first = &q
		}
	}
}

// activeSnap is the snap applied to the most recent pointer position in
// whichever session is running.
func (m Model) activeSnap() *edit.SnapResult {
	switch {
	case m.create != nil && !m.create.IsStopped():
		if cr := m.create.Current(); cr != nil {
			return cr.LastSnap
		}
	case m.editGeom != nil && !m.editGeom.IsStopped():
		return m.editGeom.Editor().LastSnap
	}
	return nil
}

// pickableUnderCursor names the topmost feature under the hover cell for
// the footer.
func (m Model) pickableUnderCursor() *layer.Feature {
	g, ok := m.hoverGround()
	if !ok {
		return nil
	}
	return edit.PickFeature(m.working, g, m.pickTolerance())
}
