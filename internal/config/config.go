package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the complete scatterlive configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Chart     ChartConfig     `yaml:"chart"`
	Feed      FeedConfig      `yaml:"feed"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Selection SelectionConfig `yaml:"selection"`
	Log       LogConfig       `yaml:"log"`
}

// DataConfig names the initial dataset: a file, or inline series.
type DataConfig struct {
	Path string    `yaml:"path"`
	X    []float64 `yaml:"x"`
	Y    []float64 `yaml:"y"`
}

// ChartConfig contains view and animation settings.
type ChartConfig struct {
	ZoomMin           float64       `yaml:"zoom_min"`
	ZoomMax           float64       `yaml:"zoom_max"`
	MarginLeft        int           `yaml:"margin_left"`   // cells reserved for y tick labels
	MarginBottom      int           `yaml:"margin_bottom"` // rows reserved for the x axis
	Transition        time.Duration `yaml:"transition"`
	Flash             time.Duration `yaml:"flash"`
	SelectionLabelTTL time.Duration `yaml:"selection_label_ttl"`
	Radius            float64       `yaml:"radius"` // micro-pixels
	XTickFormat       string        `yaml:"x_tick_format"`
	YTickFormat       string        `yaml:"y_tick_format"`
	FPS               int           `yaml:"fps"`
}

// FeedConfig selects the inbound source: none, mqtt, or a line-delimited file/pipe.
type FeedConfig struct {
	Source string `yaml:"source"` // none, mqtt, file, stdin
	Path   string `yaml:"path"`
}

type MQTTConfig struct {
	Broker   string     `yaml:"broker"`
	ClientID string     `yaml:"client_id"`
	Topics   MQTTTopics `yaml:"topics"`
	QoS      byte       `yaml:"qos"`
}

type MQTTTopics struct {
	AddNodes  string `yaml:"addnodes"`
	Selection string `yaml:"selection"`
}

// SelectionConfig holds the optional local on-select hook.
type SelectionConfig struct {
	Command string `yaml:"command"` // "{x}" is replaced by the selected value
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Chart: ChartConfig{
			ZoomMin:           0.5,
			ZoomMax:           2,
			MarginLeft:        8,
			MarginBottom:      2,
			Transition:        250 * time.Millisecond,
			Flash:             500 * time.Millisecond,
			SelectionLabelTTL: 10 * time.Second,
			Radius:            1,
			XTickFormat:       "millions",
			YTickFormat:       "plain",
			FPS:               30,
		},
		Feed: FeedConfig{Source: "none"},
		MQTT: MQTTConfig{
			Broker: "tcp://localhost:1883",
			Topics: MQTTTopics{
				AddNodes:  "scatterlive/addnodes",
				Selection: "scatterlive/selection",
			},
		},
		Log: LogConfig{Level: "info", File: "scatterlive.log"},
	}
}

// Load reads a YAML file over the defaults. An empty path yields the defaults.
// Environment overrides are applied afterwards, then the result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// LoadDotEnv loads .env files into the process environment. Missing files are
// not an error; it reports whether anything was loaded.
func LoadDotEnv(files ...string) bool {
	if len(files) == 0 {
		files = []string{".env"}
	}
	loaded := false
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err == nil {
			loaded = true
		}
	}
	return loaded
}

// ApplyEnv overrides transport and logging settings from SCATTERLIVE_* variables.
func ApplyEnv(cfg *Config) error {
	str := map[string]*string{
		"SCATTERLIVE_MQTT_BROKER":     &cfg.MQTT.Broker,
		"SCATTERLIVE_MQTT_CLIENT_ID":  &cfg.MQTT.ClientID,
		"SCATTERLIVE_TOPIC_ADDNODES":  &cfg.MQTT.Topics.AddNodes,
		"SCATTERLIVE_TOPIC_SELECTION": &cfg.MQTT.Topics.Selection,
		"SCATTERLIVE_FEED":            &cfg.Feed.Source,
		"SCATTERLIVE_FEED_PATH":       &cfg.Feed.Path,
		"SCATTERLIVE_ON_SELECT":       &cfg.Selection.Command,
		"SCATTERLIVE_LOG_LEVEL":       &cfg.Log.Level,
		"SCATTERLIVE_LOG_FILE":        &cfg.Log.File,
	}
	for k, dst := range str {
		if v, ok := os.LookupEnv(k); ok {
			*dst = v
		}
	}
	if v, ok := os.LookupEnv("SCATTERLIVE_MQTT_QOS"); ok {
		q, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return fmt.Errorf("SCATTERLIVE_MQTT_QOS: %w", err)
		}
		cfg.MQTT.QoS = byte(q)
	}
	return nil
}
