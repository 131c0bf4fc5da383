package chart

import (
	"reflect"
	"testing"
)

func TestTicks(t *testing.T) {
	cases := []struct {
		start, stop float64
		count       int
		want        []float64
	}{
		{0, 10, 5, []float64{0, 2, 4, 6, 8, 10}},
		{1e6, 4e6, 5, []float64{1e6, 1.5e6, 2e6, 2.5e6, 3e6, 3.5e6, 4e6}},
		{10, 0, 5, []float64{10, 8, 6, 4, 2, 0}},
		{3, 3, 5, []float64{3}},
	}
	for _, tc := range cases {
		got := Ticks(tc.start, tc.stop, tc.count)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Ticks(%v,%v,%d) = %v, want %v", tc.start, tc.stop, tc.count, got, tc.want)
		}
	}
	if got := Ticks(0, 1, 0); got != nil {
		t.Errorf("count 0 should give no ticks, got %v", got)
	}
}

func TestSmallStepTicks(t *testing.T) {
	got := Ticks(0, 1, 5)
	if len(got) != 6 || got[1] != 0.2 || got[5] != 1 {
		t.Errorf("unexpected ticks %v", got)
	}
}

func TestFormatTick(t *testing.T) {
	cases := []struct {
		v, step float64
		f       TickFormat
		want    string
	}{
		{1.5e6, 5e5, TickMillions, "1.5M"},
		{2e6, 5e5, TickMillions, "2M"},
		{0.2, 0.2, TickPlain, "0.2"},
		{20, 5, TickPlain, "20"},
		{0, 1, TickMillions, "0M"},
	}
	for _, tc := range cases {
		if got := FormatTick(tc.v, tc.step, tc.f); got != tc.want {
			t.Errorf("FormatTick(%v,%v) = %q, want %q", tc.v, tc.step, got, tc.want)
		}
	}
}

func TestParseTickFormat(t *testing.T) {
	if f, ok := ParseTickFormat("millions"); !ok || f != TickMillions {
		t.Error("millions not parsed")
	}
	if _, ok := ParseTickFormat("hex"); ok {
		t.Error("unknown format accepted")
	}
}
