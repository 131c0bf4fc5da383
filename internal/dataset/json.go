package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type seriesDoc struct {
	X *[]float64 `json:"x"`
	Y *[]float64 `json:"y"`
}

// LoadJSON reads {"x":[...],"y":[...]}.
func LoadJSON(path string) (Series, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Series{}, err
	}
	return ParseJSON(b)
}

func ParseJSON(b []byte) (Series, error) {
	var doc seriesDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return Series{}, fmt.Errorf("json series: %w", err)
	}
	if doc.X == nil || doc.Y == nil {
		return Series{}, fmt.Errorf("json series: x and y arrays are required")
	}
	s := Series{X: *doc.X, Y: *doc.Y}
	if err := s.Validate(); err != nil {
		return Series{}, fmt.Errorf("json series: %w", err)
	}
	return s, nil
}

// ParseSeries parses two inline lists, either JSON arrays ("[1,2,3]") or bare
// comma separated values ("1,2,3").
func ParseSeries(xs, ys string) (Series, error) {
	x, err := parseList(xs)
	if err != nil {
		return Series{}, fmt.Errorf("x series: %w", err)
	}
	y, err := parseList(ys)
	if err != nil {
		return Series{}, fmt.Errorf("y series: %w", err)
	}
	s := Series{X: x, Y: y}
	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

func parseList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "[") {
		var out []float64
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, err
		}
		return out, nil
	}
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
