package feed

import (
	"context"
	"errors"
	"log/slog"

	"scatterlive/internal/chart"
)

// Source delivers raw inbound messages in arrival order until ctx is done or
// the source is exhausted. Connection handling belongs to the source.
type Source interface {
	Run(ctx context.Context, deliver func(payload []byte)) error
}

// Inbound is one decoded message: a batch or the reason it was dropped.
type Inbound struct {
	Points []chart.Point
	Err    error
}

// Pump decodes every message from src and forwards it on out, preserving order.
// Dropped messages are logged and still forwarded so the UI can report them.
// out is closed when the source returns.
func Pump(ctx context.Context, src Source, out chan<- Inbound, log *slog.Logger) error {
	defer close(out)
	if log == nil {
		log = slog.Default()
	}
	err := src.Run(ctx, func(payload []byte) {
		pts, err := DecodeBatch(payload)
		switch {
		case errors.Is(err, ErrUnrecognized):
			log.Warn("message of undefined format ignored", "size", len(payload))
		case err != nil:
			log.Warn("batch dropped", "error", err)
		default:
			log.Debug("batch received", "size", len(pts))
		}
		select {
		case out <- Inbound{Points: pts, Err: err}:
		case <-ctx.Done():
		}
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Multi fans a selection out to several notifiers. Every notifier is called;
// the first error is returned.
type Multi []chart.Notifier

func (m Multi) NotifySelection(x float64) error {
	var first error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.NotifySelection(x); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// LogSink records selections in the log only; used when no transport is configured.
type LogSink struct {
	Log *slog.Logger
}

func (s LogSink) NotifySelection(x float64) error {
	log := s.Log
	if log == nil {
		log = slog.Default()
	}
	log.Info("selection", "payload", string(EncodeSelection(x)))
	return nil
}
