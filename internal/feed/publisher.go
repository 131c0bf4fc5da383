package feed

import (
	"context"
	"log/slog"
	"time"

	"scatterlive/internal/chart"
)

// Snapshot returns the current state of a growing pair of series.
type Snapshot func() (xs, ys []float64, err error)

// Publisher streams the growth of a series as addnodes batches: on every tick it
// sends the points added since the previous send. The shorter of the two series
// bounds what counts as added.
type Publisher struct {
	Send     func(ctx context.Context, payload []byte) error
	Interval time.Duration
	// MaxBatch caps points per message; 0 sends everything new at once.
	MaxBatch int
	Log      *slog.Logger

	sent int
}

// Skip marks the first n points as already delivered, e.g. because the viewer
// loaded them as its initial dataset.
func (p *Publisher) Skip(n int) { p.sent = n }

func (p *Publisher) Sent() int { return p.sent }

// Step publishes whatever is new in xs/ys and returns how many points it sent.
func (p *Publisher) Step(ctx context.Context, xs, ys []float64) (int, error) {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}
	total := 0
	for p.sent < n {
		end := n
		if p.MaxBatch > 0 && end-p.sent > p.MaxBatch {
			end = p.sent + p.MaxBatch
		}
		pts := make([]chart.Point, 0, end-p.sent)
		for i := p.sent; i < end; i++ {
			pts = append(pts, chart.Point{X: xs[i], Y: ys[i]})
		}
		payload, err := EncodeBatch(pts)
		if err != nil {
			return total, err
		}
		if err := p.Send(ctx, payload); err != nil {
			return total, err
		}
		total += len(pts)
		p.sent = end
	}
	return total, nil
}

// Run polls snap every Interval until ctx is done. Errors from snap or Send are
// logged and the next tick retries from the last delivered point.
func (p *Publisher) Run(ctx context.Context, snap Snapshot) error {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}
	interval := p.Interval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		xs, ys, err := snap()
		if err != nil {
			log.Warn("snapshot failed", "error", err)
		} else if n, err := p.Step(ctx, xs, ys); err != nil {
			log.Warn("publish failed", "error", err, "sent", p.sent)
		} else if n > 0 {
			log.Info("points published", "count", n, "total", p.sent)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
