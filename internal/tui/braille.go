package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// brailleBuf is a micro-pixel canvas: every terminal cell holds a 2x4 dot block.
// Each cell also carries one colour, the last one painted into it.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	c    [][]string
	text [][]rune // overlay text, drawn instead of dots
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.c = make([][]string, h)
	b.text = make([][]rune, h)
	for i := 0; i < h; i++ {
		b.m[i] = make([]uint8, w)
		b.c[i] = make([]string, w)
		b.text[i] = make([]rune, w)
	}
	return b
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell) in colour col.
func (b *brailleBuf) setPixel(mx, my int, col string) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= dotBits[mx%2][my%4]
	if col != "" {
		b.c[cy][cx] = col
	}
}

// fillDisc paints a filled circle of radius r micro-pixels centred on (cx, cy).
func (b *brailleBuf) fillDisc(cx, cy int, r float64, col string) {
	ri := int(r + 0.5)
	if ri < 1 {
		b.setPixel(cx, cy, col)
		return
	}
	lim := r*r + r/2
	for dy := -ri; dy <= ri; dy++ {
		for dx := -ri; dx <= ri; dx++ {
			if float64(dx*dx+dy*dy) <= lim {
				b.setPixel(cx+dx, cy+dy, col)
			}
		}
	}
}

// putText writes s into cell row y starting at column x, clipped to the canvas.
func (b *brailleBuf) putText(x, y int, s string, col string) {
	if y < 0 || y >= b.h {
		return
	}
	for _, r := range s {
		if x >= 0 && x < b.w {
			b.text[y][x] = r
			b.c[y][x] = col
		}
		x++
	}
}

// toLines renders every row, grouping runs of equally coloured cells into one
// styled segment.
func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var sb strings.Builder
		var run []rune
		runCol := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runCol == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(runCol)).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			r := b.text[y][x]
			col := b.c[y][x]
			if r == 0 {
				if mask := b.m[y][x]; mask == 0 {
					r, col = ' ', ""
				} else {
					r = rune(0x2800 + int(mask))
				}
			}
			if col != runCol {
				flush()
				runCol = col
			}
			run = append(run, r)
		}
		flush()
		out[y] = sb.String()
	}
	return out
}
