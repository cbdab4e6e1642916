package config

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Dt != 86400 {
		t.Errorf("expected one-day dt, got %g", cfg.Dt)
	}
	if len(cfg.Bodies) != 5 {
		t.Errorf("expected 5 bodies, got %d", len(cfg.Bodies))
	}
	if cfg.TrailLength != 1000 {
		t.Errorf("expected trail length 1000, got %d", cfg.TrailLength)
	}
}

func TestBuildBodies(t *testing.T) {
	bodies, err := DefaultConfig().BuildBodies()
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	earth := bodies[3]
	if earth.Name != "earth" {
		t.Fatalf("expected earth at index 3, got %s", earth.Name)
	}
	if math.Abs(earth.Distance()-physics.AU) > 1 {
		t.Errorf("earth distance %g", earth.Distance())
	}
	if math.Abs(earth.Speed()-29783) > 1e-6 {
		t.Errorf("earth speed %g", earth.Speed())
	}
	if earth.Color != (color.RGBA{0, 255, 255, 255}) {
		t.Errorf("earth color %v", earth.Color)
	}
	if earth.Trail.Cap() != 1000 {
		t.Errorf("earth trail cap %d", earth.Trail.Cap())
	}
	if bodies[0].Speed() != 0 {
		t.Errorf("sun should start at rest")
	}
}

func TestBuildBodiesSpeedAtOrigin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bodies[0].Speed = 1
	if _, err := cfg.BuildBodies(); !errors.Is(err, dynamo.ErrZeroVector) {
		t.Errorf("expected ErrZeroVector, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, dynamo.ErrParameterBounds},
		{"negative g", func(c *Config) { c.G = -1 }, dynamo.ErrParameterBounds},
		{"zero scale", func(c *Config) { c.PixelsPerAU = 0 }, dynamo.ErrParameterBounds},
		{"zero width", func(c *Config) { c.Width = 0 }, dynamo.ErrParameterBounds},
		{"empty trail", func(c *Config) { c.TrailLength = 0 }, dynamo.ErrParameterBounds},
		{"no bodies", func(c *Config) { c.Bodies = nil }, dynamo.ErrParameterBounds},
		{"bad background", func(c *Config) { c.Background = "mauve-ish" }, dynamo.ErrParameterBounds},
		{"zero mass", func(c *Config) { c.Bodies[1].Mass = 0 }, dynamo.ErrNonPositiveMass},
		{"duplicate", func(c *Config) { c.Bodies[2].Name = "earth" }, dynamo.ErrDuplicateName},
		{"zero radius", func(c *Config) { c.Bodies[1].Radius = 0 }, dynamo.ErrParameterBounds},
		{"bad color", func(c *Config) { c.Bodies[1].Color = "#12" }, dynamo.ErrParameterBounds},
		{"infinite dt", func(c *Config) { c.Dt = math.Inf(1) }, dynamo.ErrParameterBounds},
		{"NaN g", func(c *Config) { c.G = math.NaN() }, dynamo.ErrParameterBounds},
		{"NaN softening", func(c *Config) { c.Softening = math.NaN() }, dynamo.ErrParameterBounds},
		{"infinite mass", func(c *Config) { c.Bodies[1].Mass = math.Inf(1) }, dynamo.ErrParameterBounds},
		{"NaN distance", func(c *Config) { c.Bodies[1].Distance = math.NaN() }, dynamo.ErrParameterBounds},
		{"infinite distance", func(c *Config) { c.Bodies[1].Distance = math.Inf(1) }, dynamo.ErrParameterBounds},
		{"NaN angle", func(c *Config) { c.Bodies[1].Angle = math.NaN() }, dynamo.ErrParameterBounds},
		{"infinite speed", func(c *Config) { c.Bodies[2].Speed = math.Inf(1) }, dynamo.ErrParameterBounds},
		{"NaN speed", func(c *Config) { c.Bodies[2].Speed = math.NaN() }, dynamo.ErrParameterBounds},
		{"retrograde speed", func(c *Config) { c.Bodies[2].Speed = -35.02 }, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	for _, name := range []string{"orbit.yaml", "orbit.yml", "orbit.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := GetPreset("binary")
			cfg.Parallel = true

			if err := Save(path, cfg); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("load: %v", err)
			}

			if got.Dt != cfg.Dt || got.PixelsPerAU != cfg.PixelsPerAU || !got.Parallel {
				t.Errorf("scalars lost: %+v", got)
			}
			if len(got.Bodies) != len(cfg.Bodies) {
				t.Fatalf("expected %d bodies, got %d", len(cfg.Bodies), len(got.Bodies))
			}
			for i := range cfg.Bodies {
				if got.Bodies[i] != cfg.Bodies[i] {
					t.Errorf("body %d: got %+v, want %+v", i, got.Bodies[i], cfg.Bodies[i])
				}
			}
		})
	}
}

func TestLoadPartialYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("dt: 3600\nwidth: 400\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dt != 3600 || cfg.Width != 400 {
		t.Errorf("overrides not applied: dt=%g width=%d", cfg.Dt, cfg.Width)
	}
	if cfg.Height != DefaultHeight || cfg.G != physics.G {
		t.Errorf("defaults lost: height=%d g=%g", cfg.Height, cfg.G)
	}
	if len(cfg.Bodies) != 5 {
		t.Errorf("expected default bodies, got %d", len(cfg.Bodies))
	}
}

func TestLoadNonFiniteBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.yaml")
	doc := `bodies:
  - {name: sun, mass: 1.98892e30, radius: 30, color: yellow}
  - {name: rogue, distance_au: .nan, mass: 5.9742e24, radius: 16, color: cyan, speed_kms: .inf}
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !math.IsNaN(cfg.Bodies[1].Distance) {
		t.Fatalf("expected NaN distance, got %g", cfg.Bodies[1].Distance)
	}
	if _, err := cfg.BuildBodies(); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
}

func TestLoadTOMLBodies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.toml")
	data := `
dt = 43200.0

[[bodies]]
name = "star"
mass = 2.0e30
radius = 20
color = "white"

[[bodies]]
name = "rock"
distance_au = 2.0
angle = 10.0
mass = 1.0e24
radius = 5
color = "#abc"
speed_kms = 20.0
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Bodies) != 2 || cfg.Bodies[1].Name != "rock" {
		t.Fatalf("unexpected bodies: %+v", cfg.Bodies)
	}
	bodies, err := cfg.BuildBodies()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if bodies[1].Color != (color.RGBA{0xaa, 0xbb, 0xcc, 0xff}) {
		t.Errorf("short hex color parsed as %v", bodies[1].Color)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	json := filepath.Join(dir, "orbit.json")
	if err := os.WriteFile(json, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(json); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
	if err := Save(json, DefaultConfig()); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat on save, got %v", err)
	}

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("dt: [not a number"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(broken); err == nil {
		t.Error("expected parse error")
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %v", len(Presets), names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}

	for _, name := range names {
		cfg := GetPreset(name)
		if _, err := cfg.BuildBodies(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
		if DescribePreset(name) == "" {
			t.Errorf("preset %s has no description", name)
		}
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}

	a := GetPreset("inner")
	a.Bodies[0].Mass = 1
	if GetPreset("inner").Bodies[0].Mass == 1 {
		t.Error("presets must not share state")
	}
}

func TestProjection(t *testing.T) {
	p := DefaultConfig().Projection()
	if p.Width != 800 || p.Height != 800 {
		t.Errorf("viewport %dx%d", p.Width, p.Height)
	}
	if math.Abs(p.Scale*physics.AU-250) > 1e-9 {
		t.Errorf("expected 250 px per AU, got %g", p.Scale*physics.AU)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"yellow", color.RGBA{255, 255, 0, 255}},
		{"GREY", color.RGBA{128, 128, 128, 255}},
		{"#BC2732", color.RGBA{188, 39, 50, 255}},
		{" #ffe9b6 ", color.RGBA{255, 233, 182, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%q: got %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseColor("not-a-color"); err == nil {
		t.Error("expected error for unknown color")
	}
}
