package canopy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of an experience. Start from DefaultConfig and
// overlay a YAML file and the environment with LoadConfig.
type Config struct {
	// Name identifies the experience in logs.
	Name string `yaml:"name" env:"NAME"`
	// Title is the window title used by Run.
	Title string `yaml:"title" env:"TITLE"`
	// DefaultScene is the registry key Init starts from. Empty means the
	// registry default.
	DefaultScene string `yaml:"default_scene" env:"DEFAULT_SCENE"`

	// Width and Height are the initial window size in device-independent pixels.
	Width  int `yaml:"width" env:"WIDTH"`
	Height int `yaml:"height" env:"HEIGHT"`

	// Debug enables the on-screen debug overlay and debug-level logs.
	Debug bool `yaml:"debug" env:"DEBUG"`
	// SceneLogs logs every primitive inserted into a scene graph.
	SceneLogs bool `yaml:"scene_logs" env:"SCENE_LOGS"`

	// HoldDuration is the default press time an item needs for hold(true).
	HoldDuration time.Duration `yaml:"hold_duration" env:"HOLD_DURATION"`
	// HoldRecovery is how long hold progress takes to fall back to zero
	// after an early release.
	HoldRecovery time.Duration `yaml:"hold_recovery" env:"HOLD_RECOVERY"`
	// TransitionDuration is the default scene transition length.
	TransitionDuration time.Duration `yaml:"transition_duration" env:"TRANSITION_DURATION"`

	// Scroll tuning, mirrored by ScrollManager.
	ScrollMin     float64 `yaml:"scroll_min" env:"SCROLL_MIN"`
	ScrollMax     float64 `yaml:"scroll_max" env:"SCROLL_MAX"`
	ScrollSpeed   float64 `yaml:"scroll_speed" env:"SCROLL_SPEED"`
	ScrollFactor  float64 `yaml:"scroll_factor" env:"SCROLL_FACTOR"`
	ScrollDecimal float64 `yaml:"scroll_decimal" env:"SCROLL_DECIMAL"`

	// ClearColor is the colour render targets are cleared to.
	ClearColor Color `yaml:"clear_color"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Name:               "Experience",
		Title:              "canopy",
		Width:              1280,
		Height:             720,
		SceneLogs:          true,
		HoldDuration:       time.Second,
		HoldRecovery:       time.Second,
		TransitionDuration: time.Second,
		ScrollMin:          0,
		ScrollMax:          100,
		ScrollSpeed:        0.05,
		ScrollFactor:       0.3,
		ScrollDecimal:      1000,
		ClearColor:         Color{R: 0.78, G: 0.776, B: 0.784, A: 0},
	}
}

// LoadConfig builds a Config from DefaultConfig, then the YAML file at path
// (skipped when path is empty or missing), then a .env file next to the
// working directory if present, then CANOPY_* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CANOPY_"}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
