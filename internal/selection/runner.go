// Package selection runs a local command for every selected point.
package selection

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"sync"

	"scatterlive/internal/feed"
)

// ErrBusy is returned when the previous command is still running.
var ErrBusy = errors.New("previous selection command still running")

// Runner starts Command with "{x}" replaced by the selected value. At most one
// command runs at a time; selections arriving meanwhile are skipped.
type Runner struct {
	Command string
	Log     *slog.Logger

	// start launches the command; replaced in tests.
	start func(ctx context.Context, argv []string) (wait func() error, err error)

	ctx     context.Context
	mu      sync.Mutex
	running bool
}

func NewRunner(ctx context.Context, command string, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{Command: command, Log: log, ctx: ctx, start: startProcess}
}

func startProcess(ctx context.Context, argv []string) (func() error, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return cmd.Wait, nil
}

// Argv expands the command template for x.
func (r *Runner) Argv(x float64) []string {
	val := string(feed.EncodeSelection(x))
	fields := strings.Fields(r.Command)
	for i, f := range fields {
		fields[i] = strings.ReplaceAll(f, "{x}", val)
	}
	return fields
}

// NotifySelection starts the command without waiting for it.
func (r *Runner) NotifySelection(x float64) error {
	argv := r.Argv(x)
	if len(argv) == 0 {
		return nil
	}
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		r.Log.Info("selection skipped, previous command still running", "x", x)
		return ErrBusy
	}
	r.running = true
	r.mu.Unlock()

	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	wait, err := r.start(ctx, argv)
	if err != nil {
		r.setIdle()
		return err
	}
	r.Log.Info("selection command started", "argv", argv)
	go func() {
		defer r.setIdle()
		if err := wait(); err != nil {
			r.Log.Warn("selection command failed", "argv", argv, "error", err)
			return
		}
		r.Log.Debug("selection command finished", "argv", argv)
	}()
	return nil
}

// Busy reports whether a command is running.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) setIdle() {
	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
}
