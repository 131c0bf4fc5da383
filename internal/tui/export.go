package tui

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"scatterlive/internal/chart"
)

var errNothingVisible = errors.New("no points in view")

const (
	exportWidth  = 1024
	exportHeight = 640
)

// pointStyle renders points only, no connecting line.
func pointStyle(hex string, width float64) gochart.Style {
	return gochart.Style{
		StrokeWidth: gochart.Disabled,
		DotWidth:    width,
		DotColor:    drawing.ColorFromHex(strings.TrimPrefix(hex, "#")),
	}
}

// exportSVG writes the points inside the current view, with the same axis
// ticks as the terminal, to a timestamped SVG file in dir.
func exportSVG(c *chart.Controller, dir string, now time.Time) (string, error) {
	ch, err := viewChart(c)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "scatterlive-"+now.Format("20060102-150405")+".svg")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := ch.Render(gochart.SVG, f); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("render svg: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func viewChart(c *chart.Controller) (gochart.Chart, error) {
	x0, x1 := c.EffectiveX().Domain()
	y0, y1 := c.EffectiveY().Domain()
	minX, maxX := math.Min(x0, x1), math.Max(x0, x1)
	minY, maxY := math.Min(y0, y1), math.Max(y0, y1)

	hovered, hasHover := c.Hovered()
	var xs, ys, hx, hy []float64
	for i, p := range c.Points() {
		if p.X < minX || p.X > maxX || p.Y < minY || p.Y > maxY {
			continue
		}
		if hasHover && i == hovered {
			hx, hy = append(hx, p.X), append(hy, p.Y)
			continue
		}
		xs, ys = append(xs, p.X), append(ys, p.Y)
	}
	if len(xs)+len(hx) == 0 {
		return gochart.Chart{}, errNothingVisible
	}
	if minX == maxX {
		minX, maxX = minX-1, maxX+1
	}
	if minY == maxY {
		minY, maxY = minY-1, maxY+1
	}

	series := []gochart.Series{}
	if len(xs) > 0 {
		series = append(series, gochart.ContinuousSeries{Name: "points", XValues: xs, YValues: ys, Style: pointStyle(markColor, 4)})
	}
	if len(hx) > 0 {
		series = append(series, gochart.ContinuousSeries{Name: "hovered", XValues: hx, YValues: hy, Style: pointStyle(hoverColor, 8)})
	}
	return gochart.Chart{
		Width:      exportWidth,
		Height:     exportHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: gochart.XAxis{
			Name:  "x",
			Range: &gochart.ContinuousRange{Min: minX, Max: maxX},
			Ticks: chartTicks(c.XTicks(10), minX, maxX),
		},
		YAxis: gochart.YAxis{
			Name:  "y",
			Range: &gochart.ContinuousRange{Min: minY, Max: maxY},
			Ticks: chartTicks(c.YTicks(8), minY, maxY),
		},
		Series: series,
	}, nil
}

func chartTicks(ts []chart.Tick, lo, hi float64) []gochart.Tick {
	out := make([]gochart.Tick, 0, len(ts))
	for _, t := range ts {
		if t.Value < lo || t.Value > hi {
			continue
		}
		out = append(out, gochart.Tick{Value: t.Value, Label: t.Label})
	}
	if len(out) < 2 {
		return nil
	}
	return out
}
