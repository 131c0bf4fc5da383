package chart

// Linear maps a domain interval onto a pixel range.
// A degenerate domain maps every value to the middle of the range.
type Linear struct {
	D0, D1 float64
	R0, R1 float64
}

func (s Linear) Map(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	t := (v - s.D0) / (s.D1 - s.D0)
	return s.R0 + t*(s.R1-s.R0)
}

func (s Linear) Invert(px float64) float64 {
	if s.R1 == s.R0 {
		return (s.D0 + s.D1) / 2
	}
	t := (px - s.R0) / (s.R1 - s.R0)
	return s.D0 + t*(s.D1-s.D0)
}

// Domain returns the domain ordered low to high.
func (s Linear) Domain() (float64, float64) {
	if s.D0 > s.D1 {
		return s.D1, s.D0
	}
	return s.D0, s.D1
}

// rescale returns the scale seen through view transform t along one axis.
func (s Linear) rescale(invert func(float64) float64) Linear {
	return Linear{
		D0: s.Invert(invert(s.R0)),
		D1: s.Invert(invert(s.R1)),
		R0: s.R0,
		R1: s.R1,
	}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// easeCubicInOut matches the default easing of the browser transitions.
func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
