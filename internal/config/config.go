package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/raster"
)

const (
	DefaultDt          = 86400.0 // one day
	DefaultPixelsPerAU = 250.0
	DefaultWidth       = 800
	DefaultHeight      = 800
	DefaultFPS         = 60
	DefaultBackground  = "#000000"
)

// ErrUnknownFormat is returned for config paths that are neither yaml nor toml.
var ErrUnknownFormat = errors.New("config: unknown file format (want .yaml, .yml or .toml)")

// Config is the immutable run configuration handed to the integrator, the
// projection and the simulator.
type Config struct {
	G           float64      `yaml:"g" toml:"g"`
	Dt          float64      `yaml:"dt" toml:"dt"`
	PixelsPerAU float64      `yaml:"pixels_per_au" toml:"pixels_per_au"`
	Width       int          `yaml:"width" toml:"width"`
	Height      int          `yaml:"height" toml:"height"`
	FPS         int          `yaml:"fps" toml:"fps"`
	TrailLength int          `yaml:"trail_length" toml:"trail_length"`
	FadeTrails  bool         `yaml:"fade_trails" toml:"fade_trails"`
	Softening   float64      `yaml:"softening" toml:"softening"`
	Parallel    bool         `yaml:"parallel" toml:"parallel"`
	Background  string       `yaml:"background" toml:"background"`
	Bodies      []BodyConfig `yaml:"bodies" toml:"bodies"`
}

// BodyConfig describes one body in polar form around the origin.
type BodyConfig struct {
	Name     string  `yaml:"name" toml:"name"`
	Distance float64 `yaml:"distance_au" toml:"distance_au"`
	Angle    float64 `yaml:"angle" toml:"angle"`
	Mass     float64 `yaml:"mass" toml:"mass"`
	Radius   int     `yaml:"radius" toml:"radius"`
	Color    string  `yaml:"color" toml:"color"`
	Speed    float64 `yaml:"speed_kms" toml:"speed_kms"`
}

// InnerSystem is the sun with the four inner planets.
func InnerSystem() []BodyConfig {
	return []BodyConfig{
		{Name: "sun", Mass: 1.98892e30, Radius: 30, Color: "yellow"},
		{Name: "mercury", Distance: 0.387, Angle: 35, Mass: 3.30e23, Radius: 8, Color: "grey", Speed: 47.4},
		{Name: "venus", Distance: 0.723, Angle: 60, Mass: 4.8685e24, Radius: 14, Color: "#ffe9b6", Speed: 35.02},
		{Name: "earth", Distance: 1.0, Angle: 50, Mass: 5.9742e24, Radius: 16, Color: "cyan", Speed: 29.783},
		{Name: "mars", Distance: 1.524, Angle: 95, Mass: 6.39e23, Radius: 12, Color: "#bc2732", Speed: 24.077},
	}
}

func DefaultConfig() *Config {
	return &Config{
		G:           physics.G,
		Dt:          DefaultDt,
		PixelsPerAU: DefaultPixelsPerAU,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		FPS:         DefaultFPS,
		TrailLength: raster.DefaultTrailLength,
		FadeTrails:  true,
		Background:  DefaultBackground,
		Bodies:      InnerSystem(),
	}
}

// Load reads a yaml or toml config, chosen by file extension. Fields the
// file omits keep their defaults; a file without bodies gets the inner
// system.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Bodies = nil

	switch format(path) {
	case "yaml":
		err = yaml.Unmarshal(data, cfg)
	case "toml":
		err = toml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(cfg.Bodies) == 0 {
		cfg.Bodies = InnerSystem()
	}
	return cfg, nil
}

// Save writes cfg in the format implied by the path's extension.
func Save(path string, cfg *Config) error {
	var (
		data []byte
		err  error
	)
	switch format(path) {
	case "yaml":
		data, err = yaml.Marshal(cfg)
	case "toml":
		data, err = toml.Marshal(cfg)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

// Validate checks every parameter the simulation depends on.
func (c *Config) Validate() error {
	checks := []struct {
		ok   bool
		what string
	}{
		{c.G > 0 && finite(c.G), fmt.Sprintf("g must be positive and finite, got %g", c.G)},
		{c.Dt > 0 && finite(c.Dt), fmt.Sprintf("dt must be positive and finite, got %g", c.Dt)},
		{c.PixelsPerAU > 0 && finite(c.PixelsPerAU), fmt.Sprintf("pixels_per_au must be positive and finite, got %g", c.PixelsPerAU)},
		{c.Width > 0 && c.Height > 0, fmt.Sprintf("viewport must be positive, got %dx%d", c.Width, c.Height)},
		{c.FPS >= 0, fmt.Sprintf("fps must not be negative, got %d", c.FPS)},
		{c.TrailLength >= 1, fmt.Sprintf("trail_length must be at least 1, got %d", c.TrailLength)},
		{c.Softening >= 0 && finite(c.Softening), fmt.Sprintf("softening must be finite and not negative, got %g", c.Softening)},
		{len(c.Bodies) > 0, "no bodies configured"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s", dynamo.ErrParameterBounds, chk.what)
		}
	}

	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}

	seen := make(map[string]bool, len(c.Bodies))
	for i, b := range c.Bodies {
		if b.Name == "" {
			return fmt.Errorf("%w: body #%d has no name", dynamo.ErrParameterBounds, i)
		}
		if seen[b.Name] {
			return fmt.Errorf("%w: %q", dynamo.ErrDuplicateName, b.Name)
		}
		seen[b.Name] = true

		if !(b.Mass > 0) {
			return fmt.Errorf("%s: %w (got %g)", b.Name, dynamo.ErrNonPositiveMass, b.Mass)
		}
		if b.Radius <= 0 {
			return fmt.Errorf("%s: %w: radius %d", b.Name, dynamo.ErrParameterBounds, b.Radius)
		}
		if math.IsInf(b.Mass, 0) {
			return fmt.Errorf("%s: %w: infinite mass", b.Name, dynamo.ErrParameterBounds)
		}
		if !(b.Distance >= 0) || !finite(b.Distance) {
			return fmt.Errorf("%s: %w: distance %g", b.Name, dynamo.ErrParameterBounds, b.Distance)
		}
		if !finite(b.Angle) {
			return fmt.Errorf("%s: %w: angle %g", b.Name, dynamo.ErrParameterBounds, b.Angle)
		}
		// Every body orbits counter-clockwise; there are no retrograde speeds.
		if !(b.Speed >= 0) || !finite(b.Speed) {
			return fmt.Errorf("%s: %w: speed_kms %g", b.Name, dynamo.ErrParameterBounds, b.Speed)
		}
		if _, err := ParseColor(b.Color); err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}
	}
	return nil
}

// BuildBodies validates the config and constructs the body set.
func (c *Config) BuildBodies() ([]*physics.Body, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	bodies := make([]*physics.Body, 0, len(c.Bodies))
	for _, bc := range c.Bodies {
		col, err := ParseColor(bc.Color)
		if err != nil {
			return nil, err
		}
		b, err := physics.NewBody(bc.Name, bc.Distance*physics.AU, bc.Angle, bc.Mass, bc.Radius, col,
			physics.WithTrailLength(c.TrailLength))
		if err != nil {
			return nil, err
		}
		if bc.Speed != 0 {
			if err := b.SetTangentialVelocity(bc.Speed * 1000); err != nil {
				return nil, err
			}
		}
		bodies = append(bodies, b)
	}

	if err := physics.ValidateBodies(bodies); err != nil {
		return nil, err
	}
	return bodies, nil
}

// Gravity returns an integrator configured from c.
func (c *Config) Gravity() *physics.Gravity {
	g := physics.NewGravity(c.G)
	g.Softening = c.Softening
	g.Parallel = c.Parallel
	return g
}

// Projection returns the world-to-screen transform for the configured
// viewport.
func (c *Config) Projection() raster.Projection {
	return raster.NewProjection(c.PixelsPerAU/physics.AU, c.Width, c.Height)
}

// BackgroundColor returns the parsed background color, black if invalid.
func (c *Config) BackgroundColor() color.RGBA {
	col, err := ParseColor(c.Background)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return col
}

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"yellow": "#ffff00",
	"grey":   "#808080",
	"gray":   "#808080",
	"cyan":   "#00ffff",
	"red":    "#ff0000",
	"orange": "#ffa500",
	"blue":   "#0000ff",
}

// ParseColor accepts "#rrggbb", "#rgb" or one of a few color names.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q", dynamo.ErrParameterBounds, s)
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
