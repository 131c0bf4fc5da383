package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scatterlive/internal/chart"
	"scatterlive/internal/feed"
)

// Extensions lists the file types Load and LoadBatch understand.
var Extensions = []string{".csv", ".json", ".ndjson"}

func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads an initial dataset, dispatching on the file extension.
func Load(path string) (Series, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return LoadCSV(path)
	case ".json":
		return LoadJSON(path)
	default:
		return Series{}, fmt.Errorf("unsupported data file: %q", ext)
	}
}

// LoadBatch reads a file as one batch to append: a CSV or JSON series, or a feed
// message ({"list":[...]}): one per line for .ndjson, or the whole .json file
// when it is not a series.
// The whole file is rejected on the first bad entry.
func LoadBatch(path string) ([]chart.Point, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		s, err := LoadCSV(path)
		if err != nil {
			return nil, err
		}
		return s.Points(), nil
	case ".json":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if s, err := ParseJSON(b); err == nil {
			return s.Points(), nil
		}
		pts, err := feed.DecodeBatch(b)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		return pts, nil
	case ".ndjson":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var out []chart.Point
		for n, line := range strings.Split(string(b), "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			pts, err := feed.DecodeBatch([]byte(line))
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", filepath.Base(path), n+1, err)
			}
			out = append(out, pts...)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported batch file: %q", ext)
}
