package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"scatterlive/internal/chart"
	"scatterlive/internal/dataset"
	"scatterlive/internal/feed"
)

type (
	batchMsg      []chart.Point
	feedErrMsg    struct{ err error }
	feedClosedMsg struct{}
	frameMsg      time.Time
)

// waitForInbound blocks on the feed channel and turns the next message into a tea.Msg.
func waitForInbound(ch <-chan feed.Inbound) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		in, ok := <-ch
		if !ok {
			return feedClosedMsg{}
		}
		if in.Err != nil {
			return feedErrMsg{err: in.Err}
		}
		return batchMsg(in.Points)
	}
}

const (
	zoomStep = 1.2
	panStep  = 8 // micro-pixels
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeChart()
		return m, nil
	case batchMsg:
		cmd := m.appendBatch(msg, "feed")
		return m, tea.Batch(cmd, waitForInbound(m.opts.Inbound))
	case feedErrMsg:
		m.rejected++
		if errors.Is(msg.err, feed.ErrUnrecognized) {
			m.warn("ignored message of unrecognized format")
		} else {
			m.warn("dropped batch: " + msg.err.Error())
		}
		return m, waitForInbound(m.opts.Inbound)
	case feedClosedMsg:
		m.feedDone = true
		m.setStatus("feed closed")
		return m, nil
	case frameMsg:
		if m.ctrl.Tick() {
			return m, m.frame()
		}
		m.animating = false
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// If list is visible and filtering, send keys to list and ignore global commands
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	if m.pasteMode {
		switch msg.String() {
		case "esc":
			m.pasteMode = false
			m.ta.Blur()
			m.setStatus("paste cancelled")
			return m, nil
		case "enter":
			text := strings.TrimSpace(m.ta.Value())
			if text == "" {
				m.warn("paste: empty")
				return m, nil
			}
			pts, err := parsePasted(text)
			if err != nil {
				m.rejected++
				m.warn("paste rejected: " + err.Error())
				return m, nil
			}
			m.pasteMode = false
			m.ta.Blur()
			return m, m.appendBatch(pts, "paste")
		}
		var cmd tea.Cmd
		m.ta, cmd = m.ta.Update(msg)
		return m, cmd
	}
	if m.showTable {
		switch {
		case msg.String() == "esc", key.Matches(msg, m.keys.Table):
			m.showTable = false
			return m, nil
		case msg.String() == "enter":
			return m, m.selectMark(m.tbl.Cursor())
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.tbl, cmd = m.tbl.Update(msg)
		return m, cmd
	}
	if m.showSidebar {
		switch msg.String() {
		case "enter":
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				return m, m.importFile(it.path)
			}
			return m, nil
		case "esc", "tab":
			m.showSidebar = false
			m.resizeChart()
			return m, nil
		case "up", "down", "k", "j", "pgup", "pgdown", "/":
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
	}

	l := m.layout()
	cx, cy := float64(l.plotW), float64(l.plotH*2)
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.ctrl.Pan(0, panStep)
	case key.Matches(msg, m.keys.Down):
		m.ctrl.Pan(0, -panStep)
	case key.Matches(msg, m.keys.Left):
		m.ctrl.Pan(panStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.ctrl.Pan(-panStep, 0)
	case key.Matches(msg, m.keys.ZoomIn):
		m.ctrl.Zoom(zoomStep, cx, cy)
		m.setStatus(fmt.Sprintf("zoom: %.2fx", m.ctrl.Transform().K))
	case key.Matches(msg, m.keys.ZoomOut):
		m.ctrl.Zoom(1/zoomStep, cx, cy)
		m.setStatus(fmt.Sprintf("zoom: %.2fx", m.ctrl.Transform().K))
	case key.Matches(msg, m.keys.Reset):
		m.ctrl.ResetView()
		m.setStatus("view reset")
	case key.Matches(msg, m.keys.Next):
		m.cycleHover(1)
	case key.Matches(msg, m.keys.Prev):
		m.cycleHover(-1)
	case key.Matches(msg, m.keys.Select):
		i, ok := m.ctrl.Hovered()
		if !ok {
			m.warn("hover a point first")
			return m, nil
		}
		return m, m.selectMark(i)
	case key.Matches(msg, m.keys.Sidebar):
		m.showSidebar = true
		m.refreshDir()
		m.resizeChart()
	case key.Matches(msg, m.keys.Paste):
		m.pasteMode = true
		m.ta.SetValue("")
		m.setStatus("paste mode")
		return m, m.ta.Focus()
	case key.Matches(msg, m.keys.Table):
		m.showTable = true
		m.refreshTable()
	case key.Matches(msg, m.keys.Export):
		path, err := exportSVG(m.ctrl, m.opts.ExportDir, m.ctrl.Now())
		if err != nil {
			m.log.Warn("svg export failed", "error", err)
			m.warn("export failed: " + err.Error())
			return m, nil
		}
		m.log.Info("view exported", "path", path)
		m.setStatus("exported " + filepath.Base(path))
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeChart()
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	px, py, inside := m.toPlot(msg.X, msg.Y)
	m.pointerIn, m.pointerX, m.pointerY = inside, px, py
	if !inside {
		if i, ok := m.ctrl.Hovered(); ok {
			m.ctrl.Unhover(i)
		}
		if m.showSidebar {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.pasteMode || m.showTable {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.ctrl.Zoom(zoomStep, px, py)
		return m, nil
	case msg.Button == tea.MouseButtonWheelDown:
		m.ctrl.Zoom(1/zoomStep, px, py)
		return m, nil
	}
	i, onMark := m.ctrl.MarkAt(px, py, m.hitRadius())
	cur, hovering := m.ctrl.Hovered()
	switch {
	case onMark && (!hovering || cur != i):
		_ = m.ctrl.Hover(i)
	case !onMark && hovering:
		m.ctrl.Unhover(cur)
	}
	if onMark && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		return m, m.selectMark(i)
	}
	return m, nil
}

// cycleHover moves the hover to the next or previous mark by index.
func (m *Model) cycleHover(dir int) {
	n := m.ctrl.Len()
	if n == 0 {
		return
	}
	next := 0
	if dir < 0 {
		next = n - 1
	}
	if cur, ok := m.ctrl.Hovered(); ok {
		next = ((cur+dir)%n + n) % n
	}
	if err := m.ctrl.Hover(next); err != nil {
		return
	}
	p := m.ctrl.Points()[next]
	m.setStatus(fmt.Sprintf("point %d/%d", next+1, n))
	m.log.Debug("hover", "index", next, "x", p.X, "y", p.Y)
}

func (m *Model) selectMark(i int) tea.Cmd {
	if err := m.ctrl.Select(i); err != nil {
		m.warn(err.Error())
		return nil
	}
	p := m.ctrl.Points()[i]
	m.setStatus("selected x=" + string(feed.EncodeSelection(p.X)))
	return m.animate()
}

// appendBatch applies one batch to the chart and starts the transition.
func (m *Model) appendBatch(pts []chart.Point, source string) tea.Cmd {
	if err := m.ctrl.Append(pts); err != nil {
		m.rejected++
		m.log.Warn("batch rejected", "source", source, "size", len(pts), "error", err)
		m.warn("batch rejected: " + err.Error())
		return nil
	}
	m.batches++
	m.setStatus(fmt.Sprintf("+%d points from %s (total %d)", len(pts), source, m.ctrl.Len()))
	if m.showTable {
		m.refreshTable()
	}
	if len(pts) == 0 {
		return nil
	}
	return m.animate()
}

// parsePasted accepts a feed message or an {"x":[...],"y":[...]} series.
func parsePasted(text string) ([]chart.Point, error) {
	pts, err := feed.DecodeBatch([]byte(text))
	if errors.Is(err, feed.ErrUnrecognized) {
		if s, serr := dataset.ParseJSON([]byte(text)); serr == nil {
			return s.Points(), nil
		}
	}
	return pts, err
}
