package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()
	contentWidth := max(10, m.width)

	// Header
	title := titleStyle.Render(" scatterlive ─ " + m.opts.Title + " ")
	stats := dimStyle.Render(m.headerStats())
	gap := max(0, contentWidth-lipgloss.Width(title)-lipgloss.Width(stats))
	header := lipgloss.NewStyle().Width(contentWidth).Render(title + lipgloss.NewStyle().Width(gap).Render("") + stats)

	// Chart area
	var chartView string
	switch {
	case m.showTable:
		w := min(l.bodyW, max(32, m.tableWidth()+4))
		m.tbl.SetWidth(w - 4)
		m.tbl.SetHeight(max(3, min(l.bodyH-2, 20)))
		box := boxStyle.Width(w).Render(m.tbl.View())
		chartView = lipgloss.Place(l.bodyW, l.bodyH, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(max(10, l.bodyW-4))
		m.ta.SetHeight(min(l.bodyH-2, 12))
		box := boxStyle.Width(l.bodyW - 2).Render(m.ta.View())
		chartView = lipgloss.Place(l.bodyW, l.bodyH, lipgloss.Left, lipgloss.Top, box)
	default:
		chartView = lipgloss.NewStyle().Width(l.bodyW).Height(l.bodyH).Render(m.renderChart(l))
	}

	body := chartView
	if m.showSidebar {
		sidebar := lipgloss.NewStyle().Width(sidebarWidth).Height(l.bodyH).Render(m.l.View())
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", chartView)
	}

	// Footer: status line with pointer coordinates, then key help
	st := dimStyle
	if m.statusWarn {
		st = warnStyle
	}
	status := st.Render(" " + m.status + " ")
	coords := ""
	if m.pointerIn {
		x := m.ctrl.EffectiveX().Invert(m.pointerX)
		y := m.ctrl.EffectiveY().Invert(m.pointerY)
		coords = dimStyle.Render(fmt.Sprintf("  x=%.6g y=%.6g  ", x, y))
	}
	spacerW := max(0, contentWidth-lipgloss.Width(status)-lipgloss.Width(coords))
	statusLine := lipgloss.JoinHorizontal(lipgloss.Bottom, status, lipgloss.NewStyle().Width(spacerW).Render(""), coords)
	helpView := dimStyle.Render(" " + m.help.View(m.keys))
	footer := lipgloss.JoinVertical(lipgloss.Left, statusLine, helpView)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) headerStats() string {
	feedState := "feed off"
	switch {
	case m.opts.Inbound != nil && m.feedDone:
		feedState = "feed closed"
	case m.opts.Inbound != nil:
		feedState = "feed live"
	}
	return fmt.Sprintf(" %d points  %d batches  %d dropped  zoom %.2fx  %s ",
		m.ctrl.Len(), m.batches, m.rejected, m.ctrl.Transform().K, feedState)
}
