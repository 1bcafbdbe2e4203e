package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/plus3/physync/physics"
	"github.com/plus3/physync/physics/kinematic"
	"gopkg.in/yaml.v3"
)

type WindowConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Zoom   float64 `yaml:"zoom"`
}

// Config is the demo's configuration file.
type Config struct {
	LogLevel    string           `yaml:"log_level"`
	Workers     int              `yaml:"workers"`
	PlayerSpeed float64          `yaml:"player_speed"`
	Window      WindowConfig     `yaml:"window"`
	Physics     physics.Config   `yaml:"physics"`
	Kinematic   kinematic.Config `yaml:"kinematic"`
}

func DefaultConfig() Config {
	cfg := Config{
		LogLevel:    "info",
		Workers:     1,
		PlayerSpeed: 60,
		Window:      WindowConfig{Width: 1280, Height: 720, Zoom: 4},
		Physics:     physics.DefaultConfig(),
	}
	cfg.Physics.DebugLines = true
	return cfg
}

func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return c.Physics.Validate()
}

func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode demo config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads path, or returns the defaults when path is empty.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open demo config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}
