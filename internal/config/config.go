package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 640

	// Sidebar panel
	SidebarX      = 16
	SidebarY      = 120
	SidebarWidth  = 64
	SidebarHeight = 360

	// Button dimensions
	ButtonWidth  = 120
	ButtonHeight = 40
	ButtonX      = 20
	ButtonY      = 50

	// Dot field defaults
	MinSpacing         = 1
	DefaultSpacing     = 40
	DefaultMaxDistance = 200
	DefaultBaseSize    = 0.4
	DefaultAmplitude   = 5
	DefaultEase        = 0.15
	DefaultWaveSpeed   = 2
	DefaultResting     = "#282828"
	DefaultHighlight   = "#6366f1"
	DefaultMarginX     = 50
	DefaultMarginY     = 100
	DefaultBackground  = "#0f0f12"

	// Entry animation
	EntryDuration    = 2.5
	EntryStagger     = 1.2
	EntryFade        = 1.0
	ShimmerAmplitude = 0.6
	ShimmerCycles    = 3
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	Spacing        float64      `yaml:"spacing"`
	MaxDistance    float64      `yaml:"max_distance"`
	BaseSize       float64      `yaml:"base_size"`
	Amplitude      float64      `yaml:"amplitude"`
	Ease           float64      `yaml:"ease"`
	WaveSpeed      float64      `yaml:"wave_speed"`
	RestingColor   string       `yaml:"resting_color"`
	HighlightColor string       `yaml:"highlight_color"`
	Margin         MarginConfig `yaml:"exclusion_margin"`
	Torch          TorchConfig  `yaml:"torch"`
	GlowThreshold  float64      `yaml:"glow_threshold"`
	Entry          EntryConfig  `yaml:"entry"`
}

type MarginConfig struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type TorchConfig struct {
	Enabled bool    `yaml:"enabled"`
	Radius  float64 `yaml:"radius"`
	Alpha   float64 `yaml:"alpha"`
}

// EntryConfig times the one-off staggered appearance. All values are seconds
// except the shimmer knobs.
type EntryConfig struct {
	Duration         float64 `yaml:"duration"`
	Stagger          float64 `yaml:"stagger"`
	Fade             float64 `yaml:"fade"`
	ShimmerAmplitude float64 `yaml:"shimmer_amplitude"`
	ShimmerCycles    float64 `yaml:"shimmer_cycles"`
}

func DefaultConfig() *Config {
	return &Config{
		Spacing:        DefaultSpacing,
		MaxDistance:    DefaultMaxDistance,
		BaseSize:       DefaultBaseSize,
		Amplitude:      DefaultAmplitude,
		Ease:           DefaultEase,
		WaveSpeed:      DefaultWaveSpeed,
		RestingColor:   DefaultResting,
		HighlightColor: DefaultHighlight,
		Margin:         MarginConfig{X: DefaultMarginX, Y: DefaultMarginY},
		Torch:          TorchConfig{Radius: 300, Alpha: 0.08},
		GlowThreshold:  DefaultBaseSize + 2,
		Entry: EntryConfig{
			Duration:         EntryDuration,
			Stagger:          EntryStagger,
			Fade:             EntryFade,
			ShimmerAmplitude: ShimmerAmplitude,
			ShimmerCycles:    ShimmerCycles,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so partial files are fine.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	for name, v := range c.knobs() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalid, name, v)
		}
	}
	switch {
	case c.Spacing < MinSpacing:
		return fmt.Errorf("%w: spacing must be at least %v, got %v", ErrInvalid, MinSpacing, c.Spacing)
	case c.MaxDistance <= 0:
		return fmt.Errorf("%w: max_distance must be positive, got %v", ErrInvalid, c.MaxDistance)
	case c.BaseSize < 0:
		return fmt.Errorf("%w: base_size must not be negative", ErrInvalid)
	case c.Ease <= 0 || c.Ease > 1:
		return fmt.Errorf("%w: ease must be in (0,1], got %v", ErrInvalid, c.Ease)
	case c.Entry.Duration < 0 || c.Entry.Stagger < 0 || c.Entry.Fade < 0:
		return fmt.Errorf("%w: entry timings must not be negative", ErrInvalid)
	}
	if _, err := colorful.Hex(c.RestingColor); err != nil {
		return fmt.Errorf("%w: resting_color %q: %v", ErrInvalid, c.RestingColor, err)
	}
	if _, err := colorful.Hex(c.HighlightColor); err != nil {
		return fmt.Errorf("%w: highlight_color %q: %v", ErrInvalid, c.HighlightColor, err)
	}
	return nil
}

func (c *Config) knobs() map[string]float64 {
	return map[string]float64{
		"spacing":                 c.Spacing,
		"max_distance":            c.MaxDistance,
		"base_size":               c.BaseSize,
		"amplitude":               c.Amplitude,
		"ease":                    c.Ease,
		"wave_speed":              c.WaveSpeed,
		"exclusion_margin.x":      c.Margin.X,
		"exclusion_margin.y":      c.Margin.Y,
		"torch.radius":            c.Torch.Radius,
		"torch.alpha":             c.Torch.Alpha,
		"glow_threshold":          c.GlowThreshold,
		"entry.duration":          c.Entry.Duration,
		"entry.stagger":           c.Entry.Stagger,
		"entry.fade":              c.Entry.Fade,
		"entry.shimmer_amplitude": c.Entry.ShimmerAmplitude,
		"entry.shimmer_cycles":    c.Entry.ShimmerCycles,
	}
}

// Colors returns the parsed resting and highlight colors. Call Validate first;
// unparsable values fall back to the defaults.
func (c *Config) Colors() (resting, highlight colorful.Color) {
	resting, err := colorful.Hex(c.RestingColor)
	if err != nil {
		resting, _ = colorful.Hex(DefaultResting)
	}
	highlight, err = colorful.Hex(c.HighlightColor)
	if err != nil {
		highlight, _ = colorful.Hex(DefaultHighlight)
	}
	return resting, highlight
}
