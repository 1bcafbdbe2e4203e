package physics

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned when a configuration fails validation.
var ErrInvalidConfig = errors.New("invalid physics config")

// Color is a linear RGBA color with channels in [0, 1].
// In YAML it is written as a sequence of four numbers.
type Color struct {
	R, G, B, A float64
}

// RGBA implements image/color.Color with premultiplied alpha.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = channel(c.A)
	r = channel(c.R*c.A)
	g = channel(c.G*c.A)
	b = channel(c.B*c.A)
	return
}

func channel(v float64) uint32 {
	v = min(max(v, 0), 1)
	return uint32(v*0xffff + 0.5)
}

func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var channels []float64
	if err := node.Decode(&channels); err != nil {
		return fmt.Errorf("line %d: color must be a sequence of numbers: %w", node.Line, err)
	}
	if len(channels) != 4 {
		return fmt.Errorf("line %d: color needs 4 channels, got %d", node.Line, len(channels))
	}
	*c = Color{channels[0], channels[1], channels[2], channels[3]}
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range []float64{c.R, c.G, c.B, c.A} {
		node.Content = append(node.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Value: fmt.Sprint(v),
		})
	}
	return node, nil
}

func (c Color) valid() bool {
	for _, v := range []float64{c.R, c.G, c.B, c.A} {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}

// Config controls how the bundle assembles the sync pipeline.
type Config struct {
	DebugLines  bool    `yaml:"debug_lines"`
	LineWidth   float64 `yaml:"line_width"`
	SensorColor Color   `yaml:"sensor_color"`
	SolidColor  Color   `yaml:"solid_color"`

	// StepSystem names a host-registered physics step to order the sync
	// systems around when the bundle has no Backend.
	StepSystem string `yaml:"step_system"`
}

// DefaultConfig returns the overlay colors with debug lines off.
func DefaultConfig() Config {
	return Config{
		DebugLines:  false,
		LineWidth:   1.0,
		SensorColor: Color{R: 0.13, G: 0.65, B: 0.94, A: 1},
		SolidColor:  Color{R: 0.81, G: 0, B: 0.5, A: 1},
	}
}

// Validate checks the line width and color ranges.
func (c Config) Validate() error {
	if c.LineWidth <= 0 {
		return fmt.Errorf("%w: line_width must be positive, got %v", ErrInvalidConfig, c.LineWidth)
	}
	if !c.SensorColor.valid() {
		return fmt.Errorf("%w: sensor_color channels must be within [0, 1]", ErrInvalidConfig)
	}
	if !c.SolidColor.valid() {
		return fmt.Errorf("%w: solid_color channels must be within [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig decodes a YAML document over DefaultConfig. Unknown keys are
// rejected. An empty document yields the defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode physics config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML config from path.
func LoadConfigFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open physics config: %w", err)
	}
	defer f.Close()

	return LoadConfig(f)
}
