package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"geoedit/internal/layer"
)

// refreshFeatureTable rebuilds the attributes table from the working
// collection.
func (m *Model) refreshFeatureTable() {
	fs := m.working.Features()
	if len(fs) == 0 {
		m.showAttrs = false
		m.status = "no features loaded"
		return
	}
	tcols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "name", Width: 16},
		{Title: "kind", Width: 8},
		{Title: "vertices", Width: 8},
		{Title: "visible", Width: 7},
		{Title: "height", Width: 10},
	}
	trows := make([]table.Row, 0, len(fs))
	for i, f := range fs {
		verts := 0
		kind := ""
		if f.Geometry != nil {
			verts = len(f.Geometry.Coords())
			kind = f.Geometry.Kind().String()
		}
		height := "ground"
		if f.HeightMode != layer.HeightGround || f.ExtrudedHeight != 0 {
			height = fmt.Sprintf("%.1f+%.1f", f.BaseHeight, f.ExtrudedHeight)
		}
		trows = append(trows, table.Row{
			fmt.Sprintf("%d", i+1),
			f.Name,
			kind,
			fmt.Sprintf("%d", verts),
			fmt.Sprintf("%v", f.Visible),
			height,
		})
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}
