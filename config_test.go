package canopy

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Width != 1280 || cfg.Height != 720 {
		t.Errorf("size = %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.HoldDuration != time.Second || cfg.TransitionDuration != time.Second {
		t.Errorf("durations = %v / %v", cfg.HoldDuration, cfg.TransitionDuration)
	}
	if cfg.ScrollMax <= cfg.ScrollMin {
		t.Error("scroll limits should be ordered")
	}
}

func TestLoadConfigLayers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canopy.yaml")
	yml := `
title: Gallery
default_scene: hall
width: 800
hold_duration: 2s
clear_color: {r: 1, g: 0.5, b: 0, a: 1}
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CANOPY_WIDTH", "1024")
	t.Setenv("CANOPY_DEBUG", "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Title != "Gallery" || cfg.DefaultScene != "hall" {
		t.Errorf("yaml fields not applied: %+v", cfg)
	}
	if cfg.Width != 1024 {
		t.Errorf("Width = %d, want env override 1024", cfg.Width)
	}
	if cfg.Height != 720 {
		t.Errorf("Height = %d, want default 720", cfg.Height)
	}
	if !cfg.Debug {
		t.Error("Debug should come from the environment")
	}
	if cfg.HoldDuration != 2*time.Second {
		t.Errorf("HoldDuration = %v, want 2s", cfg.HoldDuration)
	}
	if cfg.ClearColor != (Color{R: 1, G: 0.5, B: 0, A: 1}) {
		t.Errorf("ClearColor = %+v", cfg.ClearColor)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Width != DefaultConfig().Width {
		t.Error("defaults not applied")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("width: [not a number"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed yaml should fail")
	}

	t.Setenv("CANOPY_HOLD_DURATION", "forever")
	if _, err := LoadConfig(""); err == nil {
		t.Error("malformed env value should fail")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, false).Debug("hidden")
	NewLogger(&buf, false).Info("shown")
	NewLogger(&buf, true).Debug("verbose")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug records should be dropped when debug is off")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "verbose") {
		t.Errorf("missing records in %q", out)
	}
	if !strings.Contains(out, "lib=canopy") {
		t.Error("records should be tagged lib=canopy")
	}
}
