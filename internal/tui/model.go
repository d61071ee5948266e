package tui

import (
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"geoedit/internal/config"
	"geoedit/internal/edit"
	"geoedit/internal/geom"
	"geoedit/internal/layer"
)

// Model is the bubbletea model for the editor. The working collection
// holds the edited features; session scratch collections come and go
// through the registry and are rendered on top.
type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showAttrs   bool

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	reg     *layer.Registry
	working *layer.Collection
	cv      *canvas

	cfg    *config.Config
	logger *log.Logger

	// editing
	drawKind geom.Kind
	create   *edit.CreateSession
	editGeom *edit.EditGeometrySession
	editFeat *edit.EditFeaturesSession
	selects  *edit.SelectSession

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// mouse press cycle for click and double-click synthesis
	mouseDown   bool
	downCellX   int
	downCellY   int
	lastClickAt time.Time
	lastClickX  int
	lastClickY  int

	// hover state
	hovering   bool
	hoverCellX int
	hoverCellY int
	hoverLon   float64
	hoverLat   float64
	hoverOK    bool

	// feature table
	tbl table.Model
}

// defaultExtent frames an empty workspace so drawing works before any
// file is loaded.
var defaultExtent = geom.BBox{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}

func New(cfg *config.Config, logger *log.Logger) Model {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	kind, err := cfg.Kind()
	if err != nil {
		kind = geom.KindLine
	}
	m := Model{
		helpVisible: true,
		status:      "geoedit ready",
		cfg:         cfg,
		logger:      logger,
		drawKind:    kind,
	}
	m.cwd, _ = os.Getwd()
	m.reg = layer.NewRegistry()
	m.working = layer.NewCollection("working")
	m.reg.Add(m.working)
	m.cv = newCanvas()
	m.cv.setExtent(defaultExtent, true)
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, LINESTRING, POLYGON, BOX, CIRCLE). Press Enter to add; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// feature table setup
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a file's features at launch.
func NewWithPath(cfg *config.Config, logger *log.Logger, path string) Model {
	m := New(cfg, logger)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// sessionActive reports whether any editing session holds the
// dispatcher.
func (m *Model) sessionActive() bool {
	return m.cv.disp.Exclusive()
}

// stopSessions ends whichever session is running. Stopped sessions are
// safe to stop again, so no bookkeeping is needed here.
func (m *Model) stopSessions() {
	if m.create != nil {
		m.create.Stop()
		m.create = nil
	}
	if m.editGeom != nil {
		m.editGeom.Stop()
		m.editGeom = nil
	}
	if m.editFeat != nil {
		m.editFeat.Stop()
		m.editFeat = nil
	}
	if m.selects != nil {
		m.selects.Stop()
		m.selects = nil
	}
}

// Run starts the editor program.
func Run(cfg *config.Config, logger *log.Logger, path string) error {
	var m tea.Model
	if path != "" {
		m = NewWithPath(cfg, logger, path)
	} else {
		m = New(cfg, logger)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
