package physics_test

import (
	"image/color"
	"strings"
	"testing"

	"github.com/plus3/physync/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := physics.DefaultConfig()

	assert.False(t, cfg.DebugLines)
	assert.Equal(t, 1.0, cfg.LineWidth)
	assert.Equal(t, physics.Color{R: 0.13, G: 0.65, B: 0.94, A: 1}, cfg.SensorColor)
	assert.Equal(t, physics.Color{R: 0.81, G: 0, B: 0.5, A: 1}, cfg.SolidColor)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := physics.LoadConfigFile("testdata/debug.yaml")
	require.NoError(t, err)

	assert.True(t, cfg.DebugLines)
	assert.Equal(t, 2.0, cfg.LineWidth)
	assert.Equal(t, physics.Color{G: 1, A: 1}, cfg.SensorColor)
	assert.Equal(t, physics.Color{R: 1, A: 0.5}, cfg.SolidColor)
	assert.Equal(t, "physics_stepper_system", cfg.StepSystem)

	_, err = physics.LoadConfigFile("testdata/missing.yaml")
	assert.Error(t, err)
}

func TestLoadConfigPartial(t *testing.T) {
	cfg, err := physics.LoadConfig(strings.NewReader("debug_lines: true\n"))
	require.NoError(t, err)

	assert.True(t, cfg.DebugLines)
	assert.Equal(t, physics.DefaultConfig().SolidColor, cfg.SolidColor, "unset keys keep their defaults")

	empty, err := physics.LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, physics.DefaultConfig(), empty)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		document string
		invalid  bool
	}{
		{name: "unknown key", document: "debug_line: true\n"},
		{name: "short color", document: "solid_color: [1, 0, 0]\n"},
		{name: "color map", document: "solid_color: {r: 1}\n"},
		{name: "zero width", document: "line_width: 0\n", invalid: true},
		{name: "channel out of range", document: "sensor_color: [2, 0, 0, 1]\n", invalid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := physics.LoadConfig(strings.NewReader(tt.document))
			require.Error(t, err)
			if tt.invalid {
				assert.ErrorIs(t, err, physics.ErrInvalidConfig)
			}
		})
	}
}

func TestColorYAML(t *testing.T) {
	out, err := yaml.Marshal(struct {
		Color physics.Color `yaml:"color"`
	}{physics.Color{R: 1, G: 0.5, B: 0, A: 1}})
	require.NoError(t, err)
	assert.Equal(t, "color: [1, 0.5, 0, 1]\n", string(out))
}

func TestColorRGBA(t *testing.T) {
	c := color.NRGBAModel.Convert(physics.Color{R: 1, G: 0, B: 0, A: 1}).(color.NRGBA)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, c)

	r, _, _, a := physics.Color{R: 1, A: 0.5}.RGBA()
	assert.Equal(t, uint32(0x8000), a)
	assert.Equal(t, a, r, "channels are premultiplied")
}
