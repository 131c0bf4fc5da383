package chart

import "testing"

func TestLinearMapAndInvert(t *testing.T) {
	s := Linear{D0: 10, D1: 20, R0: 100, R1: 0}
	if got := s.Map(15); got != 50 {
		t.Errorf("Map(15) = %v, want 50", got)
	}
	if got := s.Invert(25); got != 17.5 {
		t.Errorf("Invert(25) = %v, want 17.5", got)
	}
	lo, hi := Linear{D0: 5, D1: 1}.Domain()
	if lo != 1 || hi != 5 {
		t.Errorf("Domain() = %v,%v", lo, hi)
	}
}

func TestDegenerateDomainMapsToMiddle(t *testing.T) {
	s := Linear{D0: 3, D1: 3, R0: 0, R1: 80}
	if got := s.Map(3); got != 40 {
		t.Errorf("Map(3) = %v, want 40", got)
	}
}

func TestEffectiveScaleFollowsTransform(t *testing.T) {
	base := Linear{D0: 0, D1: 100, R0: 0, R1: 200}
	tr := ZoomAt(2, 0, 0)
	eff := base.rescale(tr.InvertX)
	lo, hi := eff.Domain()
	if lo != 0 || hi != 50 {
		t.Errorf("zoomed domain = [%v,%v], want [0,50]", lo, hi)
	}
	// effective mapping equals scale then transform
	px, _ := tr.Apply(base.Map(30), 0)
	if got := eff.Map(30); !near(got, px) {
		t.Errorf("eff.Map(30) = %v, want %v", got, px)
	}
}

func TestConstrainPullsZoomBack(t *testing.T) {
	got := constrain(Transform{K: 4}, DefaultZoomRange, 100, 100)
	if got.K != 2 {
		t.Fatalf("K = %v, want 2", got.K)
	}
	got = constrain(Transform{K: 1, X: -500, Y: 500}, DefaultZoomRange, 100, 100)
	if got.X != -50 || got.Y != 50 {
		t.Errorf("translation = (%v,%v), want (-50,50)", got.X, got.Y)
	}
}
