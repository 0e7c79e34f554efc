package latentspace

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Config.Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config gathers every tunable of the engine. The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	Layout    Layout          `yaml:",inline"`
	Generate  GenerateOptions `yaml:"generate"`
	Idle      IdleConfig      `yaml:"idle"`
	Camera    CameraConfig    `yaml:"camera"`
	Attention AttentionConfig `yaml:"attention"`
	Post      PostConfig      `yaml:"post"`
	Render    RenderConfig    `yaml:"render"`
	Scroll    ScrollConfig    `yaml:"scroll"`
}

// DefaultConfig returns the settings of the default six-section scene.
func DefaultConfig() Config {
	return Config{
		Layout:    DefaultLayout(),
		Generate:  DefaultGenerateOptions(),
		Idle:      DefaultIdleConfig(),
		Camera:    DefaultCameraConfig(),
		Attention: DefaultAttentionConfig(),
		Post:      DefaultPostConfig(),
		Render:    DefaultRenderConfig(),
		Scroll:    DefaultScrollConfig(),
	}
}

// LoadConfig parses YAML on top of DefaultConfig. Fields missing from the
// document keep their defaults; a clusters list replaces the default layout
// entirely.
func LoadConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads and parses a YAML config file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := LoadConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the layout and the numeric ranges the engine relies on.
func (c *Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	checks := []struct {
		ok   bool
		what string
	}{
		{c.Generate.InnerRadius >= 0 && c.Generate.OuterRadius >= 0, "generate: radii must be non-negative"},
		{c.Generate.AccentChance >= 0 && c.Generate.AccentChance <= 1, "generate: accent_chance must be in [0, 1]"},
		{c.Idle.Amplitude >= 0, "idle: amplitude must be non-negative"},
		{c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera: fov must be in (0, 180)"},
		{c.Camera.Near > 0, "camera: near must be positive"},
		{c.Camera.Far == 0 || c.Camera.Far > c.Camera.Near, "camera: far must exceed near"},
		{c.Render.PointSize >= 0, "render: point_size must be non-negative"},
		{c.Render.PointOpacity >= 0 && c.Render.PointOpacity <= 1, "render: point_opacity must be in [0, 1]"},
		{c.Render.FogFar >= c.Render.FogNear, "render: fog_far must not be less than fog_near"},
		{c.Post.BloomRadius >= 0, "post: bloom_radius must be non-negative"},
		{c.Scroll.Damping >= 0, "scroll: damping must be non-negative"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%s: %w", chk.what, ErrInvalidConfig)
		}
	}
	return nil
}
