package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"geoedit/internal/geom"
	"geoedit/internal/layer"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		p := filepath.Join(m.cwd, name)
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".geojson" || ext == ".json" || ext == ".csv" || ext == ".kml" || ext == ".wkt" {
			items = append(items, fileItem{title: name, desc: ext, path: p})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath replaces the working features with the file's contents and
// frames the viewport on them. An active session is ended first so its
// handles do not outlive their feature.
func (m *Model) loadPath(p string) {
	gs, err := geom.LoadFile(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.stopSessions()
	m.selPath = p
	m.working.Clear()
	for i, g := range gs {
		f := layer.NewFeature(g)
		f.Name = fmt.Sprintf("%s-%d", g.Kind().String(), i+1)
		m.working.Add(f)
	}
	m.frameWorking()
	m.status = fmt.Sprintf("loaded: %s  features=%d", filepath.Base(p), len(gs))
	if m.showAttrs {
		m.refreshFeatureTable()
	}
}
