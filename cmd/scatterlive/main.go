package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/term"

	"scatterlive/internal/chart"
	"scatterlive/internal/config"
	"scatterlive/internal/dataset"
	"scatterlive/internal/feed"
	"scatterlive/internal/selection"
	"scatterlive/internal/tui"
)

const usage = `usage:
  scatterlive [view] [flags] [data-file]
  scatterlive publish [flags] data-file
`

func main() {
	args := os.Args[1:]
	if len(args) > 0 {
		switch args[0] {
		case "publish":
			runPublish(args[1:])
			return
		case "view":
			args = args[1:]
		case "help", "-h", "--help":
			fmt.Fprint(os.Stderr, usage)
			return
		}
	}
	runView(args)
}

// commonFlags are shared by both commands and override the config file.
type commonFlags struct {
	config   *string
	broker   *string
	logLevel *string
	logFile  *string
}

func addCommonFlags(fs *flag.FlagSet) commonFlags {
	return commonFlags{
		config:   fs.String("config", "", "Path to YAML configuration file"),
		broker:   fs.String("broker", "", "MQTT broker URL, e.g. tcp://localhost:1883"),
		logLevel: fs.String("log-level", "", "Log level: debug, info, warn, error"),
		logFile:  fs.String("log-file", "", "Log file"),
	}
}

// loadConfig reads .env, the config file and SCATTERLIVE_* variables, then
// applies the flags and validates the result.
func loadConfig(cf commonFlags, apply func(*config.Config)) *config.Config {
	config.LoadDotEnv()
	cfg, err := config.Load(*cf.config)
	if err != nil {
		log.Fatal(err)
	}
	if *cf.broker != "" {
		cfg.MQTT.Broker = *cf.broker
	}
	if *cf.logLevel != "" {
		cfg.Log.Level = *cf.logLevel
	}
	if *cf.logFile != "" {
		cfg.Log.File = *cf.logFile
	}
	if apply != nil {
		apply(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal(fmt.Errorf("invalid configuration: %w", err))
	}
	return cfg
}

func runView(args []string) {
	fs := flag.NewFlagSet("scatterlive", flag.ExitOnError)
	cf := addCommonFlags(fs)
	xs := fs.String("x", "", "Initial x values: 1,2,3 or [1,2,3]")
	ys := fs.String("y", "", "Initial y values")
	feedSrc := fs.String("feed", "", "Inbound feed: none, mqtt, file, stdin")
	feedPath := fs.String("feed-path", "", "File or FIFO read by the file feed")
	onSelect := fs.String("on-select", "", "Command run on selection; {x} is replaced by the value")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.Parse(args)

	cfg := loadConfig(cf, func(c *config.Config) {
		if *feedSrc != "" {
			c.Feed.Source = *feedSrc
		}
		if *feedPath != "" {
			c.Feed.Path = *feedPath
		}
		if *onSelect != "" {
			c.Selection.Command = *onSelect
		}
	})

	// The terminal belongs to the UI; logs go to a file.
	logOut := io.Discard
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, cfg.Log.Level)
	slog.SetDefault(logger)

	series, source, err := initialSeries(cfg, *xs, *ys, fs.Arg(0))
	if err != nil {
		log.Fatal(err)
	}
	logger.Info("starting scatterlive",
		"points", series.Len(),
		"source", source,
		"feed", cfg.Feed.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx)}
	notifiers := feed.Multi{}
	var inbound chan feed.Inbound
	switch cfg.Feed.Source {
	case "mqtt":
		mq := feed.NewMQTT(mqttConfig(cfg), logger)
		if err := mq.Connect(ctx); err != nil {
			log.Fatal(err)
		}
		defer mq.Disconnect()
		notifiers = append(notifiers, mq)
		inbound = startPump(ctx, mq, logger)
	case "file":
		f, err := os.Open(cfg.Feed.Path)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		inbound = startPump(ctx, feed.LineReader{R: f}, logger)
	case "stdin":
		if term.IsTerminal(os.Stdin.Fd()) {
			log.Fatal("stdin feed needs a pipe, e.g. scatterlive publish --stdout data.csv | scatterlive --feed stdin")
		}
		inbound = startPump(ctx, feed.LineReader{R: os.Stdin}, logger)
		// keyboard and mouse come from the controlling terminal instead
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	if len(notifiers) == 0 {
		notifiers = append(notifiers, feed.LogSink{Log: logger})
	}
	if cfg.Selection.Command != "" {
		notifiers = append(notifiers, selection.NewRunner(ctx, cfg.Selection.Command, logger))
	}

	opts := chartOptions(cfg, logger)
	opts.Notifier = notifiers
	ctrl, err := chart.New(series.X, series.Y, opts)
	if err != nil {
		log.Fatal(err)
	}

	m := tui.New(ctrl, tui.Options{
		Title:        source,
		MarginLeft:   cfg.Chart.MarginLeft,
		MarginBottom: cfg.Chart.MarginBottom,
		FPS:          cfg.Chart.FPS,
		Inbound:      inbound,
		Log:          logger,
	})
	if _, err := tea.NewProgram(m, programOpts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Fatal(err)
	}
	logger.Info("scatterlive stopped", "points", ctrl.Len())
}

func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// initialSeries picks the initial dataset: --x/--y, then the data file argument,
// then the config file. It returns a short name for the header.
func initialSeries(cfg *config.Config, xs, ys, path string) (dataset.Series, string, error) {
	switch {
	case xs != "" || ys != "":
		s, err := dataset.ParseSeries(xs, ys)
		return s, "inline", err
	case path != "":
		s, err := dataset.Load(path)
		return s, filepath.Base(path), err
	case cfg.Data.Path != "":
		s, err := dataset.Load(cfg.Data.Path)
		return s, filepath.Base(cfg.Data.Path), err
	case len(cfg.Data.X) > 0 || len(cfg.Data.Y) > 0:
		s := dataset.Series{X: cfg.Data.X, Y: cfg.Data.Y}
		return s, "config", s.Validate()
	}
	return dataset.Series{}, "live scatter", nil
}

func chartOptions(cfg *config.Config, logger *slog.Logger) chart.Options {
	xf, _ := chart.ParseTickFormat(cfg.Chart.XTickFormat)
	yf, _ := chart.ParseTickFormat(cfg.Chart.YTickFormat)
	// replaced on the first window size message
	w, h := 160, 80
	if tw, th, err := term.GetSize(os.Stdout.Fd()); err == nil {
		w = max(8, (tw-cfg.Chart.MarginLeft)*2)
		h = max(8, (th-3-cfg.Chart.MarginBottom)*4)
	}
	return chart.Options{
		Width:             float64(w),
		Height:            float64(h),
		Zoom:              chart.ZoomRange{Min: cfg.Chart.ZoomMin, Max: cfg.Chart.ZoomMax},
		Transition:        cfg.Chart.Transition,
		FlashDuration:     cfg.Chart.Flash,
		SelectionLabelTTL: cfg.Chart.SelectionLabelTTL,
		Radius:            cfg.Chart.Radius,
		XFormat:           xf,
		YFormat:           yf,
		Logger:            logger,
	}
}

func mqttConfig(cfg *config.Config) feed.MQTTConfig {
	return feed.MQTTConfig{
		Broker:         cfg.MQTT.Broker,
		ClientID:       cfg.MQTT.ClientID,
		AddNodesTopic:  cfg.MQTT.Topics.AddNodes,
		SelectionTopic: cfg.MQTT.Topics.Selection,
		QoS:            cfg.MQTT.QoS,
	}
}

// startPump decodes src on its own goroutine; the UI reads the channel.
func startPump(ctx context.Context, src feed.Source, logger *slog.Logger) chan feed.Inbound {
	ch := make(chan feed.Inbound, 64)
	go func() {
		if err := feed.Pump(ctx, src, ch, logger); err != nil {
			logger.Error("feed stopped", "error", err)
		}
	}()
	return ch
}
