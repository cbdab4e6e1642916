package config

import "sort"

// Presets builds named configurations. Each call returns a fresh Config.
var Presets = map[string]func() *Config{
	"inner": DefaultConfig,
	"earth": func() *Config {
		cfg := DefaultConfig()
		cfg.Bodies = []BodyConfig{
			{Name: "sun", Mass: 1.98892e30, Radius: 30, Color: "yellow"},
			{Name: "earth", Distance: 1.0, Angle: 50, Mass: 5.9742e24, Radius: 16, Color: "cyan", Speed: 29.783},
		}
		return cfg
	},
	"binary": func() *Config {
		cfg := DefaultConfig()
		cfg.PixelsPerAU = 120
		cfg.Dt = 43200
		cfg.Bodies = []BodyConfig{
			{Name: "alpha", Distance: 0.5, Angle: 0, Mass: 1.98892e30, Radius: 22, Color: "#ffd27f", Speed: 21.06},
			{Name: "beta", Distance: 0.5, Angle: 180, Mass: 1.98892e30, Radius: 22, Color: "#9bb0ff", Speed: 21.06},
			{Name: "tatooine", Distance: 3.0, Angle: 90, Mass: 5.9742e24, Radius: 10, Color: "#c2a878", Speed: 24.32},
		}
		return cfg
	},
	"outer": func() *Config {
		cfg := DefaultConfig()
		cfg.PixelsPerAU = 19
		cfg.Dt = 10 * 86400
		cfg.Bodies = []BodyConfig{
			{Name: "sun", Mass: 1.98892e30, Radius: 20, Color: "yellow"},
			{Name: "jupiter", Distance: 5.2, Angle: 15, Mass: 1.898e27, Radius: 14, Color: "#d8ca9d", Speed: 13.07},
			{Name: "saturn", Distance: 9.58, Angle: 200, Mass: 5.683e26, Radius: 12, Color: "#e3c16f", Speed: 9.68},
			{Name: "uranus", Distance: 19.2, Angle: 300, Mass: 8.681e25, Radius: 9, Color: "#a6e3e9", Speed: 6.80},
		}
		return cfg
	},
}

var presetInfo = map[string]string{
	"inner":  "sun with mercury, venus, earth and mars",
	"earth":  "sun and earth only",
	"binary": "circumbinary planet around two suns",
	"outer":  "sun with the gas giants",
}

// DescribePreset returns a one-line summary of the named preset.
func DescribePreset(name string) string { return presetInfo[name] }

// GetPreset returns a fresh config for name, or nil when unknown.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
