package dataset

import (
	"errors"
	"fmt"
	"math"

	"scatterlive/internal/chart"
)

var ErrEmpty = errors.New("no data")

// Series is the initial dataset: two positional sequences zipped into points.
type Series struct {
	X []float64
	Y []float64
}

// Validate enforces equal length and finite values.
func (s Series) Validate() error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("%w: %d x values, %d y values", chart.ErrLengthMismatch, len(s.X), len(s.Y))
	}
	for i := range s.X {
		if bad(s.X[i]) || bad(s.Y[i]) {
			return fmt.Errorf("%w at index %d", chart.ErrNonFinite, i)
		}
	}
	return nil
}

func (s Series) Len() int { return len(s.X) }

// Points zips the series; call Validate first.
func (s Series) Points() []chart.Point {
	pts, _ := chart.Zip(s.X, s.Y)
	return pts
}

func bad(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
