package chart

import (
	"math"
	"strconv"
)

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// TickFormat selects how axis tick values are labelled.
type TickFormat int

const (
	TickPlain TickFormat = iota
	TickMillions
)

// ParseTickFormat accepts "plain" and "millions".
func ParseTickFormat(s string) (TickFormat, bool) {
	switch s {
	case "", "plain":
		return TickPlain, true
	case "millions", "m":
		return TickMillions, true
	}
	return TickPlain, false
}

// Tick is one axis tick: its domain value, pixel position and label.
type Tick struct {
	Value float64
	Pos   float64
	Label string
}

// tickIncrement returns the tick index bounds and signed increment; a negative
// increment means the step is 1/-inc.
func tickIncrement(start, stop, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && count >= 0.5 && count < 2 {
		return tickIncrement(start, stop, count*2)
	}
	return i1, i2, inc
}

// Ticks returns roughly count nicely rounded values covering [start, stop].
func Ticks(start, stop float64, count int) []float64 {
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	i1, i2, inc := tickIncrement(start, stop, float64(count))
	if !(i2 >= i1) || math.IsInf(inc, 0) || inc == 0 {
		return nil
	}
	n := int(i2-i1) + 1
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			out[i] = (i1 + float64(i)) / -inc
		} else {
			out[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// tickStep is the spacing Ticks would use for the same arguments.
func tickStep(start, stop float64, count int) float64 {
	if stop < start {
		start, stop = stop, start
	}
	_, _, inc := tickIncrement(start, stop, float64(count))
	if inc < 0 {
		return 1 / -inc
	}
	return inc
}

// FormatTick renders v rounded to the precision of the tick step, without
// trailing zeros.
func FormatTick(v, step float64, f TickFormat) string {
	suffix := ""
	if f == TickMillions {
		v /= 1e6
		step /= 1e6
		suffix = "M"
	}
	if step > 0 {
		prec := 0
		if p := -int(math.Floor(math.Log10(step))); p > 0 {
			prec = p
		}
		pow := math.Pow(10, float64(prec))
		v = math.Round(v*pow) / pow
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + suffix
}

func axisTicks(s Linear, count int, f TickFormat) []Tick {
	lo, hi := s.Domain()
	vals := Ticks(lo, hi, count)
	if len(vals) == 0 {
		return nil
	}
	step := 0.0
	if lo != hi {
		step = tickStep(lo, hi, count)
	}
	out := make([]Tick, 0, len(vals))
	for _, v := range vals {
		out = append(out, Tick{Value: v, Pos: s.Map(v), Label: FormatTick(v, step, f)})
	}
	return out
}

// formatValue renders a coordinate the way labels show it: shortest exact decimal.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
