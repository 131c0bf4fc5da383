package config

import (
	"fmt"

	"scatterlive/internal/chart"
)

// Validate checks configuration consistency.
func Validate(cfg *Config) error {
	c := cfg.Chart
	if c.ZoomMin <= 0 || c.ZoomMax < c.ZoomMin {
		return fmt.Errorf("chart: zoom range [%g, %g] is invalid", c.ZoomMin, c.ZoomMax)
	}
	if c.ZoomMin > 1 || c.ZoomMax < 1 {
		return fmt.Errorf("chart: zoom range [%g, %g] must contain 1", c.ZoomMin, c.ZoomMax)
	}
	if c.MarginLeft < 0 || c.MarginBottom < 0 {
		return fmt.Errorf("chart: margins must not be negative")
	}
	if c.Transition < 0 || c.Flash < 0 || c.SelectionLabelTTL < 0 {
		return fmt.Errorf("chart: durations must not be negative")
	}
	if c.FPS <= 0 || c.FPS > 120 {
		return fmt.Errorf("chart: fps must be in (0, 120], got %d", c.FPS)
	}
	if _, ok := chart.ParseTickFormat(c.XTickFormat); !ok {
		return fmt.Errorf("chart: unknown x_tick_format %q", c.XTickFormat)
	}
	if _, ok := chart.ParseTickFormat(c.YTickFormat); !ok {
		return fmt.Errorf("chart: unknown y_tick_format %q", c.YTickFormat)
	}

	switch cfg.Feed.Source {
	case "", "none", "stdin":
	case "mqtt":
		if cfg.MQTT.Broker == "" {
			return fmt.Errorf("feed: mqtt source needs mqtt.broker")
		}
	case "file":
		if cfg.Feed.Path == "" {
			return fmt.Errorf("feed: file source needs feed.path")
		}
	default:
		return fmt.Errorf("feed: unknown source %q", cfg.Feed.Source)
	}
	if cfg.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt: qos must be 0, 1 or 2")
	}
	if cfg.MQTT.Broker != "" && (cfg.MQTT.Topics.AddNodes == "" || cfg.MQTT.Topics.Selection == "") {
		return fmt.Errorf("mqtt: addnodes and selection topics are required")
	}
	if len(cfg.Data.X) != len(cfg.Data.Y) {
		return fmt.Errorf("data: %d x values, %d y values", len(cfg.Data.X), len(cfg.Data.Y))
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log: unknown level %q", cfg.Log.Level)
	}
	return nil
}
