package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scatterlive/internal/chart"
	"scatterlive/internal/feed"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestReadCSV(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("label,Value_X,value_y\na,1000000,5\nb, 2000000 ,7\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if s.Len() != 2 || s.X[1] != 2000000 || s.Y[1] != 7 {
		t.Errorf("unexpected series %+v", s)
	}
}

func TestReadCSVRejects(t *testing.T) {
	cases := map[string]string{
		"no header":  "",
		"no columns": "a,b\n1,2\n",
		"bad cell":   "x,y\n1,abc\n",
		"non-finite": "x,y\n1,NaN\n",
		"short row":  "x,y,z\n1\n",
	}
	for name, body := range cases {
		if _, err := ReadCSV(strings.NewReader(body)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestParseJSONMismatch(t *testing.T) {
	_, err := ParseJSON([]byte(`{"x":[1,2,3],"y":[1,2]}`))
	if !errors.Is(err, chart.ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	if _, err := ParseJSON([]byte(`{"x":[1]}`)); err == nil {
		t.Error("missing y accepted")
	}
}

func TestParseSeries(t *testing.T) {
	s, err := ParseSeries("[1000000, 2000000]", "3, 4")
	if err != nil {
		t.Fatalf("ParseSeries: %v", err)
	}
	pts := s.Points()
	if len(pts) != 2 || pts[0] != (chart.Point{X: 1000000, Y: 3}) {
		t.Errorf("points = %v", pts)
	}

	empty, err := ParseSeries("", "[]")
	if err != nil || empty.Len() != 0 {
		t.Errorf("empty series: %v %v", empty, err)
	}

	if _, err := ParseSeries("1,2", "1"); !errors.Is(err, chart.ErrLengthMismatch) {
		t.Errorf("expected mismatch, got %v", err)
	}
	if _, err := ParseSeries("1,x", "1,2"); err == nil {
		t.Error("bad item accepted")
	}
}

func TestLoadDispatch(t *testing.T) {
	csvPath := writeFile(t, "d.csv", "x,y\n1,2\n")
	if s, err := Load(csvPath); err != nil || s.Len() != 1 {
		t.Errorf("csv load: %v %v", s, err)
	}
	jsonPath := writeFile(t, "d.json", `{"x":[1,2],"y":[3,4]}`)
	if s, err := Load(jsonPath); err != nil || s.Len() != 2 {
		t.Errorf("json load: %v %v", s, err)
	}
	if _, err := Load(writeFile(t, "d.txt", "1 2")); err == nil {
		t.Error("txt accepted")
	}
	if !Supported("A.NDJSON") || Supported("a.kml") {
		t.Error("Supported misreports extensions")
	}
}

func TestLoadBatch(t *testing.T) {
	msg := writeFile(t, "m.json", `{"list":[{"x":5000000,"y":10}]}`)
	pts, err := LoadBatch(msg)
	if err != nil || len(pts) != 1 || pts[0].X != 5000000 {
		t.Fatalf("feed message: %v %v", pts, err)
	}

	nd := writeFile(t, "m.ndjson", "{\"list\":[{\"x\":1,\"y\":1}]}\n\n{\"list\":[{\"x\":2,\"y\":2},{\"x\":3,\"y\":3}]}\n")
	pts, err = LoadBatch(nd)
	if err != nil || len(pts) != 3 {
		t.Fatalf("ndjson: %v %v", pts, err)
	}

	bad := writeFile(t, "bad.ndjson", "{\"list\":[{\"x\":1,\"y\":1}]}\n{\"list\":[{\"x\":1}]}\n")
	if _, err := LoadBatch(bad); !errors.Is(err, feed.ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}

	other := writeFile(t, "o.json", `{"hello":1}`)
	if _, err := LoadBatch(other); !errors.Is(err, feed.ErrUnrecognized) {
		t.Errorf("expected ErrUnrecognized, got %v", err)
	}
}
