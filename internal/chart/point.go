package chart

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrLengthMismatch = errors.New("x and y series differ in length")
	ErrNonFinite      = errors.New("non-finite coordinate")
	ErrIndex          = errors.New("mark index out of range")
)

// Point is one (x, y) data sample.
type Point struct {
	X float64
	Y float64
}

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Zip pairs two equal-length series positionally.
func Zip(xs, ys []float64) ([]Point, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x values, %d y values", ErrLengthMismatch, len(xs), len(ys))
	}
	pts := make([]Point, len(xs))
	for i := range xs {
		pts[i] = Point{X: xs[i], Y: ys[i]}
	}
	if err := checkFinite(pts); err != nil {
		return nil, err
	}
	return pts, nil
}

func checkFinite(pts []Point) error {
	for i, p := range pts {
		if !p.finite() {
			return fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
	}
	return nil
}

// Extent is the min/max of a point set on both axes.
type Extent struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

func extentOf(pts []Point) (Extent, bool) {
	if len(pts) == 0 {
		return Extent{}, false
	}
	e := Extent{MinX: pts[0].X, MaxX: pts[0].X, MinY: pts[0].Y, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		e = e.include(p)
	}
	return e, true
}

func (e Extent) include(p Point) Extent {
	if p.X < e.MinX {
		e.MinX = p.X
	}
	if p.X > e.MaxX {
		e.MaxX = p.X
	}
	if p.Y < e.MinY {
		e.MinY = p.Y
	}
	if p.Y > e.MaxY {
		e.MaxY = p.Y
	}
	return e
}
