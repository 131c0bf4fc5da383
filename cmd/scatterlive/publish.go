package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scatterlive/internal/dataset"
	"scatterlive/internal/feed"
)

// runPublish streams a data file to the addnodes topic as it grows, or
// reveals a static file a few points at a time.
func runPublish(args []string) {
	fs := flag.NewFlagSet("publish", flag.ExitOnError)
	cf := addCommonFlags(fs)
	interval := fs.Duration("interval", 500*time.Millisecond, "Time between batches")
	batch := fs.Int("batch", 0, "Maximum points per message (0 = all new points)")
	rate := fs.Int("rate", 0, "Reveal this many points per interval from a static file (0 = follow the file)")
	skip := fs.Int("skip", 0, "Points the viewer already has")
	stdout := fs.Bool("stdout", false, "Write messages to stdout, one per line, instead of MQTT")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.Parse(args)
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(2)
	}
	path := fs.Arg(0)
	cfg := loadConfig(cf, nil)

	logger := newLogger(os.Stderr, cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var send func(context.Context, []byte) error
	if *stdout {
		send = lineWriter(os.Stdout)
	} else {
		mq := feed.NewMQTT(mqttConfig(cfg), logger)
		if err := mq.Connect(ctx); err != nil {
			log.Fatal(err)
		}
		defer mq.Disconnect()
		send = mq.PublishBatch
	}

	pub := &feed.Publisher{Send: send, Interval: *interval, MaxBatch: *batch, Log: logger}
	pub.Skip(*skip)
	logger.Info("publishing",
		"path", path,
		"interval", *interval,
		"rate", *rate,
		"skip", *skip)
	if err := pub.Run(ctx, fileSnapshot(path, *rate, *skip)); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
	logger.Info("publisher stopped", "sent", pub.Sent())
}

// fileSnapshot re-reads path on every call. With rate > 0 it exposes only a
// growing prefix of the file, starting after the skipped points.
func fileSnapshot(path string, rate, skip int) feed.Snapshot {
	shown := skip
	return func() ([]float64, []float64, error) {
		s, err := dataset.Load(path)
		if err != nil {
			return nil, nil, err
		}
		if rate <= 0 {
			return s.X, s.Y, nil
		}
		shown = min(shown+rate, s.Len())
		return s.X[:shown], s.Y[:shown], nil
	}
}

// lineWriter sends each message as one line on w.
func lineWriter(w io.Writer) func(context.Context, []byte) error {
	bw := bufio.NewWriter(w)
	return func(_ context.Context, payload []byte) error {
		if _, err := bw.Write(payload); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		return bw.Flush()
	}
}
