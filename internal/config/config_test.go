package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Chart.ZoomMin != 0.5 || cfg.Chart.ZoomMax != 2 {
		t.Errorf("zoom range = [%v,%v]", cfg.Chart.ZoomMin, cfg.Chart.ZoomMax)
	}
	if cfg.MQTT.Topics.Selection != "scatterlive/selection" {
		t.Errorf("selection topic = %q", cfg.MQTT.Topics.Selection)
	}
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, "cfg.yaml", `
chart:
  zoom_max: 4
  transition: 1s
  x_tick_format: plain
feed:
  source: mqtt
mqtt:
  broker: tcp://broker:1883
  topics:
    addnodes: lab/addnodes
data:
  x: [1000000, 2000000]
  y: [10, 20]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Chart.ZoomMax != 4 || cfg.Chart.ZoomMin != 0.5 {
		t.Errorf("zoom range = [%v,%v]", cfg.Chart.ZoomMin, cfg.Chart.ZoomMax)
	}
	if cfg.Chart.Transition != time.Second {
		t.Errorf("transition = %v", cfg.Chart.Transition)
	}
	if cfg.MQTT.Topics.AddNodes != "lab/addnodes" || cfg.MQTT.Topics.Selection != "scatterlive/selection" {
		t.Errorf("topics = %+v", cfg.MQTT.Topics)
	}
	if len(cfg.Data.X) != 2 || cfg.Data.Y[1] != 20 {
		t.Errorf("data = %+v", cfg.Data)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"zoom":   "chart:\n  zoom_min: 3\n  zoom_max: 2\n",
		"feed":   "feed:\n  source: carrier-pigeon\n",
		"file":   "feed:\n  source: file\n",
		"format": "chart:\n  x_tick_format: roman\n",
		"data":   "data:\n  x: [1, 2]\n  y: [1]\n",
		"level":  "log:\n  level: loud\n",
	}
	for name, body := range cases {
		p := writeFile(t, name+".yaml", body)
		if _, err := Load(p); err == nil || !strings.Contains(err.Error(), "invalid configuration") {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCATTERLIVE_MQTT_BROKER", "tcp://env:1883")
	t.Setenv("SCATTERLIVE_MQTT_QOS", "1")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://env:1883" || cfg.MQTT.QoS != 1 {
		t.Errorf("mqtt = %+v", cfg.MQTT)
	}

	t.Setenv("SCATTERLIVE_MQTT_QOS", "x")
	if _, err := Load(""); err == nil {
		t.Error("expected error for bad qos")
	}
}

func TestLoadDotEnv(t *testing.T) {
	p := writeFile(t, "test.env", "SCATTERLIVE_TOPIC_SELECTION=dotenv/selection\n")
	t.Setenv("SCATTERLIVE_TOPIC_SELECTION", "")
	os.Unsetenv("SCATTERLIVE_TOPIC_SELECTION")

	if LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")) {
		t.Error("missing file reported as loaded")
	}
	if !LoadDotEnv(p) {
		t.Fatal("expected .env to load")
	}
	defer os.Unsetenv("SCATTERLIVE_TOPIC_SELECTION")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MQTT.Topics.Selection != "dotenv/selection" {
		t.Errorf("selection topic = %q", cfg.MQTT.Topics.Selection)
	}
}
