package feed

import (
	"errors"
	"testing"

	"scatterlive/internal/chart"
)

func TestDecodeBatch(t *testing.T) {
	pts, err := DecodeBatch([]byte(`{"list":[{"x":4000000,"y":25},{"x":1.5,"y":-2}]}`))
	if err != nil {
		t.Fatalf("DecodeBatch failed: %v", err)
	}
	want := []chart.Point{{X: 4e6, Y: 25}, {X: 1.5, Y: -2}}
	if len(pts) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(pts))
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("point %d = %+v, want %+v", i, pts[i], want[i])
		}
	}
}

func TestDecodeEmptyList(t *testing.T) {
	pts, err := DecodeBatch([]byte(`{"list":[]}`))
	if err != nil || len(pts) != 0 {
		t.Fatalf("expected empty batch, got %v, %v", pts, err)
	}
}

func TestDecodeUnrecognized(t *testing.T) {
	for _, in := range []string{`{"nodes":[]}`, `{"list":null}`, `not json`, `[1,2]`} {
		if _, err := DecodeBatch([]byte(in)); !errors.Is(err, ErrUnrecognized) {
			t.Errorf("%s: expected ErrUnrecognized, got %v", in, err)
		}
	}
}

func TestDecodeMalformedDropsWholeBatch(t *testing.T) {
	cases := []string{
		`{"list":[{"x":1,"y":2},{"x":3}]}`,
		`{"list":[{"y":2}]}`,
		`{"list":[{"x":"1","y":2}]}`,
		`{"list":[7]}`,
		`{"list":"abc"}`,
		`{"list":{}}`,
	}
	for _, in := range cases {
		pts, err := DecodeBatch([]byte(in))
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: expected ErrMalformed, got %v", in, err)
		}
		if pts != nil {
			t.Errorf("%s: partial batch returned: %v", in, pts)
		}
	}
}

func TestEncodeBatchRoundTrip(t *testing.T) {
	in := []chart.Point{{X: 1, Y: 2}, {X: 3e6, Y: 0.5}}
	b, err := EncodeBatch(in)
	if err != nil {
		t.Fatalf("EncodeBatch failed: %v", err)
	}
	out, err := DecodeBatch(b)
	if err != nil {
		t.Fatalf("DecodeBatch failed: %v", err)
	}
	if len(out) != 2 || out[1] != in[1] {
		t.Errorf("round trip mismatch: %v", out)
	}
}

func TestEncodeSelection(t *testing.T) {
	if got := string(EncodeSelection(5000000)); got != "5000000" {
		t.Errorf("EncodeSelection = %q, want 5000000", got)
	}
	if got := string(EncodeSelection(2.5)); got != "2.5" {
		t.Errorf("EncodeSelection = %q, want 2.5", got)
	}
	x, err := DecodeSelection([]byte(" 5000000\n"))
	if err != nil || x != 5e6 {
		t.Errorf("DecodeSelection = %v, %v", x, err)
	}
}
