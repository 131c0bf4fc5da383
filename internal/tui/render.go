package tui

import (
	"math"
	"strings"

	"scatterlive/internal/chart"
)

// renderChart draws the y axis margin, the plot canvas and the x axis rows.
func (m Model) renderChart(l layout) string {
	c := m.ctrl
	plot := m.renderPlot(l.plotW, l.plotH)

	ml := m.opts.MarginLeft
	yLabels := make([]string, l.plotH)
	yTickRow := make([]bool, l.plotH)
	for _, t := range c.YTicks(max(2, l.plotH/3)) {
		row := int(math.Floor(t.Pos / 4))
		if row < 0 || row >= l.plotH {
			continue
		}
		yLabels[row] = t.Label
		yTickRow[row] = true
	}

	lines := make([]string, 0, l.plotH+m.opts.MarginBottom)
	for r := 0; r < l.plotH; r++ {
		left := ""
		if ml > 0 {
			axis := "│"
			if yTickRow[r] {
				axis = "┤"
			}
			left = axisStyle.Render(padLeft(clipRight(yLabels[r], ml-1), ml-1) + axis)
		}
		lines = append(lines, left+plot[r])
	}

	if m.opts.MarginBottom > 0 {
		ticks := c.XTicks(max(2, l.plotW/10))
		rule := []rune(strings.Repeat("─", l.plotW))
		labels := []rune(strings.Repeat(" ", l.plotW))
		lastEnd := -1
		for _, t := range ticks {
			col := int(math.Floor(t.Pos / 2))
			if col < 0 || col >= l.plotW {
				continue
			}
			rule[col] = '┬'
			lab := []rune(t.Label)
			start := clampInt(col-len(lab)/2, 0, max(0, l.plotW-len(lab)))
			if start <= lastEnd {
				continue
			}
			copy(labels[start:], lab)
			lastEnd = start + len(lab)
		}
		corner := ""
		pad := ""
		if ml > 0 {
			corner = strings.Repeat(" ", ml-1) + "└"
			pad = strings.Repeat(" ", ml)
		}
		lines = append(lines, axisStyle.Render(corner+string(rule)))
		if m.opts.MarginBottom > 1 {
			lines = append(lines, axisStyle.Render(pad+string(labels)))
		}
		for i := 2; i < m.opts.MarginBottom; i++ {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

// renderPlot rasterizes the marks and the annotation label onto a braille canvas.
func (m Model) renderPlot(w, h int) []string {
	return m.rasterize(w, h).toLines()
}

// rasterize draws the marks and the annotation onto a w x h cell canvas.
func (m Model) rasterize(w, h int) *brailleBuf {
	c := m.ctrl
	opts := c.Options()
	now := c.Now()
	br := newBrailleBuf(w, h)

	marks := c.Marks()
	var top []int
	for i, mk := range marks {
		if mk.Highlighted || mk.Flashing(now, opts.FlashDuration) {
			top = append(top, i)
			continue
		}
		x, y := mk.Position(now, opts.Transition)
		br.fillDisc(round(x), round(y), c.MarkRadius(i), markColor)
	}
	// highlighted and flashing marks stay on top
	for _, i := range top {
		mk := marks[i]
		col := markColor
		if f := mk.Flash(now, opts.FlashDuration); f > 0 {
			col = blend(markColor, alternateColor, f)
		} else if mk.Highlighted {
			col = hoverColor
		}
		x, y := mk.Position(now, opts.Transition)
		br.fillDisc(round(x), round(y), c.MarkRadius(i), col)
	}

	if a, ax, ay, ok := c.Annotation(); ok {
		col := labelColor
		if a.Kind == chart.SelectionLabel {
			col = alternateColor
		}
		text := " " + a.Text + " "
		n := len([]rune(text))
		cx := clampInt(int(math.Floor(ax/2)), 0, max(0, w-n))
		cy := clampInt(int(math.Floor(ay/4)), 0, h-1)
		br.putText(cx, cy, text, col)
	}
	return br
}

func round(v float64) int { return int(math.Round(v)) }

// clipRight keeps at most n runes of s.
func clipRight(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
