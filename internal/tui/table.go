package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"

	"scatterlive/internal/chart"
)

// refreshTable rebuilds the points table from the controller, keeping the cursor.
func (m *Model) refreshTable() {
	pts := m.ctrl.Points()
	marks := m.ctrl.Marks()
	hovered, hasHover := m.ctrl.Hovered()
	opts := m.ctrl.Options()
	cols := []table.Column{
		{Title: "#", Width: 5},
		{Title: "x", Width: 14},
		{Title: "y", Width: 14},
		{Title: "px", Width: 7},
		{Title: "py", Width: 7},
		{Title: "", Width: 2},
	}
	rows := make([]table.Row, 0, len(pts))
	for i, p := range pts {
		flag := ""
		if hasHover && i == hovered {
			flag = "◆"
		}
		mk := marks[i]
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			cell(p.X, opts.XFormat),
			cell(p.Y, opts.YFormat),
			fmt.Sprintf("%.0f", mk.X),
			fmt.Sprintf("%.0f", mk.Y),
			flag,
		})
	}
	cur := m.tbl.Cursor()
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	if cur >= 0 && cur < len(rows) {
		m.tbl.SetCursor(cur)
	}
}

func cell(v float64, f chart.TickFormat) string {
	return chart.FormatTick(v, 0, f)
}

// tableWidth is the rendered width of the table's columns.
func (m Model) tableWidth() int {
	w := 0
	for _, c := range m.tbl.Columns() {
		w += c.Width + 2
	}
	return w
}
