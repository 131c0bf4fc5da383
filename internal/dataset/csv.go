package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a CSV with x/y columns.
// Column detection: x|value_x and y|value_y (case-insensitive). Every row must parse;
// a bad cell is an error rather than a skipped row.
func LoadCSV(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, err
	}
	defer f.Close()
	return ReadCSV(f)
}

func ReadCSV(r io.Reader) (Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	recs, err := cr.ReadAll()
	if err != nil {
		return Series{}, err
	}
	if len(recs) == 0 {
		return Series{}, fmt.Errorf("csv: %w", ErrEmpty)
	}
	header := recs[0]
	idxX, idxY := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "x", "value_x":
			if idxX == -1 {
				idxX = i
			}
		case "y", "value_y":
			if idxY == -1 {
				idxY = i
			}
		}
	}
	if idxX == -1 || idxY == -1 {
		return Series{}, fmt.Errorf("csv: x/y columns not found")
	}
	var s Series
	for n, row := range recs[1:] {
		line := n + 2
		if idxX >= len(row) || idxY >= len(row) {
			return Series{}, fmt.Errorf("csv line %d: missing x or y", line)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(row[idxX]), 64)
		if err != nil {
			return Series{}, fmt.Errorf("csv line %d: x: %w", line, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(row[idxY]), 64)
		if err != nil {
			return Series{}, fmt.Errorf("csv line %d: y: %w", line, err)
		}
		s.X = append(s.X, x)
		s.Y = append(s.Y, y)
	}
	if err := s.Validate(); err != nil {
		return Series{}, fmt.Errorf("csv: %w", err)
	}
	return s, nil
}
