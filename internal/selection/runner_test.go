package selection

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestArgvExpandsValue(t *testing.T) {
	r := NewRunner(context.Background(), "open-at --addr {x} --tag=x{x}", nil)
	got := r.Argv(5000000)
	want := []string{"open-at", "--addr", "5000000", "--tag=x5000000"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Argv = %v, want %v", got, want)
	}
}

func TestRunnerSkipsWhileBusy(t *testing.T) {
	release := make(chan struct{})
	var started [][]string
	r := NewRunner(context.Background(), "job {x}", nil)
	r.start = func(_ context.Context, argv []string) (func() error, error) {
		started = append(started, argv)
		return func() error { <-release; return nil }, nil
	}

	if err := r.NotifySelection(1); err != nil {
		t.Fatalf("first selection: %v", err)
	}
	if err := r.NotifySelection(2); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	close(release)

	deadline := time.Now().Add(time.Second)
	for r.Busy() {
		if time.Now().After(deadline) {
			t.Fatal("runner never became idle")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if err := r.NotifySelection(3); err != nil {
		t.Fatalf("third selection: %v", err)
	}
	if len(started) != 2 || started[1][1] != "3" {
		t.Errorf("started = %v", started)
	}
}

func TestRunnerStartFailureLeavesIdle(t *testing.T) {
	r := NewRunner(context.Background(), "missing", nil)
	r.start = func(context.Context, []string) (func() error, error) {
		return nil, errors.New("not found")
	}
	if err := r.NotifySelection(1); err == nil {
		t.Fatal("expected start error")
	}
	if r.Busy() {
		t.Error("runner stuck busy after failed start")
	}
}

func TestEmptyCommandIsNoop(t *testing.T) {
	r := NewRunner(context.Background(), "", nil)
	if err := r.NotifySelection(1); err != nil || r.Busy() {
		t.Errorf("err=%v busy=%v", err, r.Busy())
	}
}
