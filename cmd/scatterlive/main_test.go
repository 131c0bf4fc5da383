package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"scatterlive/internal/chart"
	"scatterlive/internal/config"
	"scatterlive/internal/feed"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestInitialSeriesPrecedence(t *testing.T) {
	cfg := config.Default()
	cfg.Data.X = []float64{1}
	cfg.Data.Y = []float64{2}

	s, src, err := initialSeries(&cfg, "1,2", "3,4", "")
	if err != nil || s.Len() != 2 || src != "inline" {
		t.Errorf("flags: %v %q %v", s, src, err)
	}
	s, src, err = initialSeries(&cfg, "", "", "")
	if err != nil || s.Len() != 1 || src != "config" {
		t.Errorf("config: %v %q %v", s, src, err)
	}
	if _, _, err := initialSeries(&cfg, "1,2,3", "1,2", ""); !errors.Is(err, chart.ErrLengthMismatch) {
		t.Errorf("expected mismatch, got %v", err)
	}

	empty := config.Default()
	s, _, err = initialSeries(&empty, "", "", "")
	if err != nil || s.Len() != 0 {
		t.Errorf("empty: %v %v", s, err)
	}
}

func TestFileSnapshotReveal(t *testing.T) {
	p := filepath.Join(t.TempDir(), "d.csv")
	if err := os.WriteFile(p, []byte("x,y\n1,1\n2,2\n3,3\n4,4\n5,5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	snap := fileSnapshot(p, 2, 1)
	xs, _, err := snap()
	if err != nil || len(xs) != 3 {
		t.Fatalf("first snapshot: %v %v", xs, err)
	}
	snap()
	xs, _, _ = snap()
	if len(xs) != 5 {
		t.Errorf("snapshot did not stop at the file length: %d", len(xs))
	}
}

func TestPublishToLines(t *testing.T) {
	var buf bytes.Buffer
	pub := &feed.Publisher{Send: lineWriter(&buf)}
	pub.Skip(1)
	if _, err := pub.Step(context.Background(), []float64{1, 2, 3}, []float64{1, 2}); err != nil {
		t.Fatal(err)
	}
	want := `{"list":[{"x":2,"y":2}]}` + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}
