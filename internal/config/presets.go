package config

import "sort"

// Presets are the three recorded variants of the page effect.
var Presets = map[string]*Config{
	"portfolio": DefaultConfig(),
	"compact": withDefaults(func(c *Config) {
		c.Spacing = 50
		c.MaxDistance = 250
		c.Amplitude = 2.5
		c.Torch.Enabled = true
		c.GlowThreshold = c.BaseSize + 1.5
	}),
	"subtle": withDefaults(func(c *Config) {
		c.MaxDistance = 250
		c.Amplitude = 3
		c.Margin = MarginConfig{X: 30, Y: 60}
		c.Torch.Enabled = true
		c.Torch.Alpha = 0.05
	}),
}

func withDefaults(fn func(*Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
