package chart

// Transform is a pan/zoom state applied on top of the scale mapping:
// pixel = K*scaled + (X, Y).
type Transform struct {
	K float64
	X float64
	Y float64
}

var Identity = Transform{K: 1}

func (t Transform) Apply(px, py float64) (float64, float64) {
	return px*t.K + t.X, py*t.K + t.Y
}

func (t Transform) InvertX(x float64) float64 { return (x - t.X) / t.K }
func (t Transform) InvertY(y float64) float64 { return (y - t.Y) / t.K }

// Compose returns the transform equivalent to applying a, then b.
func Compose(a, b Transform) Transform {
	return Transform{
		K: a.K * b.K,
		X: a.X*b.K + b.X,
		Y: a.Y*b.K + b.Y,
	}
}

// Translate is a pure pan delta.
func Translate(dx, dy float64) Transform {
	return Transform{K: 1, X: dx, Y: dy}
}

// ZoomAt scales by k keeping the pixel (fx, fy) fixed.
func ZoomAt(k, fx, fy float64) Transform {
	return Transform{K: k, X: fx * (1 - k), Y: fy * (1 - k)}
}

// ZoomRange bounds the zoom factor.
type ZoomRange struct {
	Min float64
	Max float64
}

var DefaultZoomRange = ZoomRange{Min: 0.5, Max: 2}

func (z ZoomRange) clamp(k float64) float64 {
	if k < z.Min {
		return z.Min
	}
	if k > z.Max {
		return z.Max
	}
	return k
}

// constrain keeps the centre of a w x h viewport inside the transformed plot area
// and the zoom factor inside zr. Out-of-range zoom is pulled back around the viewport centre.
func constrain(t Transform, zr ZoomRange, w, h float64) Transform {
	if k := zr.clamp(t.K); k != t.K {
		cx, cy := w/2, h/2
		t = Compose(t, ZoomAt(k/t.K, cx, cy))
		t.K = k
	}
	t.X = clampf(t.X, w/2-t.K*w, w/2)
	t.Y = clampf(t.Y, h/2-t.K*h, h/2)
	return t
}

func clampf(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
