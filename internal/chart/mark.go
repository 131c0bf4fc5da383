package chart

import "time"

// Mark is the rendered projection of the point at the same index.
type Mark struct {
	Point Point

	// X, Y is the settled pixel position: scale mapping, then view transform.
	X float64
	Y float64

	Highlighted bool

	// position transition started by a re-scale
	fromX, fromY float64
	moveStart    time.Time

	flashStart time.Time
}

// Position returns where the mark is drawn at now, part way through a re-scale
// transition if one is running.
func (m Mark) Position(now time.Time, d time.Duration) (float64, float64) {
	if m.moveStart.IsZero() || d <= 0 {
		return m.X, m.Y
	}
	el := now.Sub(m.moveStart)
	if el >= d {
		return m.X, m.Y
	}
	if el < 0 {
		el = 0
	}
	t := easeCubicInOut(float64(el) / float64(d))
	return lerp(m.fromX, m.X, t), lerp(m.fromY, m.Y, t)
}

// Flash returns how far the selection flash has moved toward the alternate
// colour: rising 0..1 over d, falling back over the next d, 0 when idle.
func (m Mark) Flash(now time.Time, d time.Duration) float64 {
	if m.flashStart.IsZero() || d <= 0 {
		return 0
	}
	el := now.Sub(m.flashStart)
	switch {
	case el < 0:
		return 0
	case el < d:
		return float64(el) / float64(d)
	case el < 2*d:
		return 1 - float64(el-d)/float64(d)
	}
	return 0
}

// Flashing reports whether a selection flash is still running.
func (m Mark) Flashing(now time.Time, d time.Duration) bool {
	return !m.flashStart.IsZero() && now.Sub(m.flashStart) < 2*d
}

func (m Mark) moving(now time.Time, d time.Duration) bool {
	return !m.moveStart.IsZero() && now.Sub(m.moveStart) < d
}

type AnnotationKind int

const (
	HoverLabel AnnotationKind = iota
	SelectionLabel
)

// Annotation is the single ephemeral label slot.
type Annotation struct {
	ID    uint64
	Kind  AnnotationKind
	Index int
	Text  string

	// offset from the owning mark, in pixels
	DX, DY float64

	// zero for hover labels, which live until unhover or replacement
	Expires time.Time
}

const (
	hoverDX, hoverDY         = -6, -6
	selectionDX, selectionDY = 6, 6
)
