package tui

import (
	"fmt"
	"strings"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geoedit/internal/edit"
	"geoedit/internal/geom"
	"geoedit/internal/layer"
	"geoedit/internal/view"
)

// doubleClickWindow is the longest gap between two clicks on the same
// cell that still counts as a double click.
const doubleClickWindow = 400 * time.Millisecond

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(28-2, m.height-1-2) // provisional; refined in View
		}
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		// The active session's chain gets the key first.
		if m.sessionActive() {
			ke := view.KeyEvent{Name: msg.String()}
			if m.cv.disp.DispatchKey(&ke) {
				return m, nil
			}
		}
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		gs, err := geom.ParseWKT(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		for _, g := range gs {
			f := layer.NewFeature(g)
			f.Name = g.Kind().String()
			m.working.Add(f)
		}
		m.frameWorking()
		m.status = fmt.Sprintf("added %d feature(s) from WKT", len(gs))
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.stopSessions()
		return m, tea.Quit
	case "1", "2", "3", "4", "5":
		kinds := map[string]geom.Kind{
			"1": geom.KindPoint, "2": geom.KindLine, "3": geom.KindPolygon,
			"4": geom.KindBox, "5": geom.KindCircle,
		}
		m.drawKind = kinds[msg.String()]
		m.status = "draw kind: " + m.drawKind.String()
	case "d":
		m.startCreate()
	case "e":
		m.startEditGeometry()
	case "f":
		m.startEditFeatures()
	case "v":
		m.startSelect()
	case "o":
		m.pasteMode = true
		m.ta.SetValue("")
		m.ta.Focus()
		m.status = "paste mode"
	case "w":
		m.saveWorking()
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(28-2, m.height-1-2)
		}
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshFeatureTable()
		}
	case "h":
		m.helpVisible = !m.helpVisible
	case "c":
		m.frameWorking()
		m.status = "framed extent"
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
	case "+", "=":
		if m.allowZoom() {
			m.cv.zoomBy(1.2)
			m.status = fmt.Sprintf("zoom: %.2fx", m.cv.zoom)
		}
	case "-", "_":
		if m.allowZoom() {
			m.cv.zoomBy(1 / 1.2)
			m.status = fmt.Sprintf("zoom: %.2fx", m.cv.zoom)
		}
	case "up":
		if m.allowPan() {
			m.cv.pan(0, -1)
		}
	case "down":
		if m.allowPan() {
			m.cv.pan(0, 1)
		}
	case "left":
		if m.allowPan() {
			m.cv.pan(-2, 0)
		}
	case "right":
		if m.allowPan() {
			m.cv.pan(2, 0)
		}
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// allowPan and allowZoom honor the activation mask a session left on the
// dispatcher.
func (m *Model) allowPan() bool {
	return m.cv.disp.Defaults()&view.MaskPan != 0
}

func (m *Model) allowZoom() bool {
	return m.cv.disp.Defaults()&view.MaskZoom != 0
}

func (m Model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ox, oy, w, h := m.mapArea()
	cx := msg.X - ox
	cy := msg.Y - oy
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h

	if inside {
		m.hovering = true
		m.hoverCellX, m.hoverCellY = cx, cy
		if g, ok := m.cv.Unproject(float64(cx), float64(cy)); ok {
			m.hoverOK = true
			m.hoverLon, m.hoverLat = g.X, g.Y
		} else {
			m.hoverOK = false
		}
	} else {
		m.hovering = false
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if inside && m.allowZoom() {
				m.cv.zoomBy(1.2)
			}
			return m, nil
		case tea.MouseButtonWheelDown:
			if inside && m.allowZoom() {
				m.cv.zoomBy(1 / 1.2)
			}
			return m, nil
		case tea.MouseButtonLeft:
			if !inside {
				return m, nil
			}
			m.mouseDown = true
			m.downCellX, m.downCellY = cx, cy
			m.dispatchPointer(view.PointerDown, cx, cy, msg.Shift, msg.Ctrl)
		}
	case tea.MouseActionMotion:
		if inside || m.mouseDown {
			m.dispatchPointer(view.PointerMove, cx, cy, msg.Shift, msg.Ctrl)
		}
	case tea.MouseActionRelease:
		if !m.mouseDown {
			return m, nil
		}
		m.mouseDown = false
		m.dispatchPointer(view.PointerUp, cx, cy, msg.Shift, msg.Ctrl)
		if cx == m.downCellX && cy == m.downCellY {
			now := time.Now()
			if now.Sub(m.lastClickAt) <= doubleClickWindow && cx == m.lastClickX && cy == m.lastClickY {
				m.dispatchPointer(view.PointerDoubleClick, cx, cy, msg.Shift, msg.Ctrl)
				m.lastClickAt = time.Time{}
			} else {
				m.dispatchPointer(view.PointerClick, cx, cy, msg.Shift, msg.Ctrl)
				m.lastClickAt = now
				m.lastClickX, m.lastClickY = cx, cy
			}
		}
	}
	return m, nil
}

// dispatchPointer synthesizes a pointer event in both screen and ground
// space and offers it to the active session.
func (m *Model) dispatchPointer(phase view.PointerPhase, cx, cy int, shift, ctrl bool) {
	ev := view.PointerEvent{
		Phase:   phase,
		ScreenX: float64(cx),
		ScreenY: float64(cy),
		Shift:   shift,
		Ctrl:    ctrl,
	}
	if g, ok := m.cv.Unproject(float64(cx), float64(cy)); ok {
		ev.Ground = g
		ev.OnGround = true
	}
	m.cv.disp.DispatchPointer(&ev)
}

// mapArea mirrors the View layout: header 1 row, footer 2 rows, sidebar
// 28 columns when open.
func (m *Model) mapArea() (ox, oy, w, h int) {
	sidebarWidth := 0
	if m.showSidebar {
		sidebarWidth = 28
	}
	headerHeight := 1
	footerHeight := 2
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 4 {
		contentHeight = 4
	}
	contentWidth := max(10, m.width)
	w = contentWidth - sidebarWidth - 1
	if w < 10 {
		w = 10
	}
	h = contentHeight
	ox = sidebarWidth
	if m.showSidebar {
		ox++
	}
	oy = headerHeight
	return ox, oy, w, h
}

// frameWorking resets the viewport to the working collection's extent.
func (m *Model) frameWorking() {
	b, ok := m.working.Bounds()
	if !ok {
		b = defaultExtent
		ok = true
	}
	m.cv.setExtent(b, ok)
}

func (m *Model) hoverGround() (geom.Coordinate, bool) {
	if !m.hovering {
		return geom.Coordinate{}, false
	}
	return m.cv.Unproject(float64(m.hoverCellX), float64(m.hoverCellY))
}

func (m *Model) pickTolerance() float64 {
	return m.cfg.Edit().SnapPixelTolerance * m.cv.Resolution(geom.Coordinate{})
}

func (m *Model) startCreate() {
	m.stopSessions()
	cs, err := edit.StartCreateSession(m.cv, m.reg, m.working, m.drawKind, m.cfg.Edit(), m.logger)
	if err != nil {
		m.status = "create: " + err.Error()
		return
	}
	m.create = cs
	m.status = "drawing " + m.drawKind.String() + "  (enter finish, esc cancel)"
}

func (m *Model) startEditGeometry() {
	g, ok := m.hoverGround()
	if !ok {
		m.status = "edit: hover a feature first"
		return
	}
	f := edit.PickFeature(m.working, g, m.pickTolerance())
	if f == nil {
		m.status = "edit: no feature under cursor"
		return
	}
	m.stopSessions()
	es, err := edit.StartEditGeometrySession(m.cv, m.reg, m.working, f, m.cfg.Edit(), m.logger)
	if err != nil {
		m.status = "edit: " + err.Error()
		return
	}
	m.editGeom = es
	m.status = "editing " + f.Name + "  (drag handles, ctrl+click removes, esc done)"
}

func (m *Model) startEditFeatures() {
	var fs []*layer.Feature
	if g, ok := m.hoverGround(); ok {
		if f := edit.PickFeature(m.working, g, m.pickTolerance()); f != nil {
			fs = append(fs, f)
		}
	}
	m.stopSessions()
	m.editFeat = edit.StartEditFeaturesSession(m.cv, m.reg, m.working, fs, m.cfg.Edit(), m.logger)
	m.status = "transform  (g move, r rotate, s scale, esc done)"
}

func (m *Model) startSelect() {
	m.stopSessions()
	m.selects = edit.StartSelectSession(m.cv, m.reg, m.working, m.cfg.Edit(), m.logger)
	m.status = "select  (click picks, shift+click toggles, esc done)"
}

func (m *Model) saveWorking() {
	path := m.selPath
	if path == "" {
		path = "geoedit.geojson"
	}
	if err := geom.SaveFile(path, m.working.Geometries()); err != nil {
		m.status = "save error: " + err.Error()
		return
	}
	m.selPath = path
	m.status = "saved: " + path
}
