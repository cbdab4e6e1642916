// Package sim drives the per-frame loop: integrate every body, project
// it to the screen, rasterize its disk and extend its orbit trail.
package sim

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/raster"
)

// Options are the frame-level settings of a Simulator.
type Options struct {
	Dt         float64 // seconds per tick
	FPS        int     // frame pacing for Run; 0 runs unpaced
	Background color.RGBA
	FadeTrails bool
	HideTrails bool
	// RadiusScale multiplies every body's pixel radius; 0 means 1.
	RadiusScale float64
}

// Simulator owns a body set for the length of a run. It is not safe for
// concurrent use.
type Simulator struct {
	bodies    []*physics.Body
	gravity   *physics.Gravity
	proj      raster.Projection
	opts      Options
	metrics   []Metric
	observers []Observer

	tick      int
	t         float64
	drawnTick int
}

// New validates the body set and returns a simulator at t = 0.
func New(bodies []*physics.Body, gravity *physics.Gravity, proj raster.Projection, opts Options) (*Simulator, error) {
	if !(opts.Dt > 0) {
		return nil, fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, opts.Dt)
	}
	if opts.FPS < 0 {
		return nil, fmt.Errorf("%w: fps must not be negative, got %d", dynamo.ErrParameterBounds, opts.FPS)
	}
	if err := physics.ValidateBodies(bodies); err != nil {
		return nil, err
	}
	if opts.RadiusScale < 0 {
		return nil, fmt.Errorf("%w: radius scale must not be negative, got %g", dynamo.ErrParameterBounds, opts.RadiusScale)
	}
	if opts.RadiusScale == 0 {
		opts.RadiusScale = 1
	}
	if opts.Background.A == 0 {
		opts.Background.A = 0xff
	}

	return &Simulator{
		bodies:    bodies,
		gravity:   gravity,
		proj:      proj,
		opts:      opts,
		drawnTick: -1,
	}, nil
}

// FromConfig builds the bodies, integrator and projection described by cfg.
func FromConfig(cfg *config.Config) (*Simulator, error) {
	bodies, err := cfg.BuildBodies()
	if err != nil {
		return nil, err
	}
	return New(bodies, cfg.Gravity(), cfg.Projection(), Options{
		Dt:         cfg.Dt,
		FPS:        cfg.FPS,
		Background: cfg.BackgroundColor(),
		FadeTrails: cfg.FadeTrails,
	})
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Bodies() []*physics.Body       { return s.bodies }
func (s *Simulator) Gravity() *physics.Gravity     { return s.gravity }
func (s *Simulator) Projection() raster.Projection { return s.proj }
func (s *Simulator) Tick() int                     { return s.tick }
func (s *Simulator) Time() float64                 { return s.t }
func (s *Simulator) Dt() float64                   { return s.opts.Dt }

// Body returns the body with the given name.
func (s *Simulator) Body(name string) (*physics.Body, bool) {
	for _, b := range s.bodies {
		if b.Name == name {
			return b, true
		}
	}
	return nil, false
}

// SetProjection changes the world-to-screen transform. Existing trails
// are in the old pixel space, so they are cleared.
func (s *Simulator) SetProjection(p raster.Projection) {
	if p == s.proj {
		return
	}
	s.proj = p
	for _, b := range s.bodies {
		b.Trail.Reset()
	}
	s.drawnTick = -1
}

// SetTrails shows or hides orbit trails.
func (s *Simulator) SetTrails(on bool) { s.opts.HideTrails = !on }

// Trails reports whether orbit trails are drawn.
func (s *Simulator) Trails() bool { return !s.opts.HideTrails }

// SetRadiusScale changes the factor applied to body radii when drawing.
// Non-positive values are ignored.
func (s *Simulator) SetRadiusScale(f float64) {
	if f > 0 {
		s.opts.RadiusScale = f
	}
}

func (s *Simulator) radius(b *physics.Body) int {
	if s.opts.RadiusScale == 1 {
		return b.Radius
	}
	return int(math.Round(float64(b.Radius) * s.opts.RadiusScale))
}

// Step advances the simulation by one tick and feeds metrics and
// observers. A failed tick leaves the clock where it was.
func (s *Simulator) Step() error {
	if err := s.gravity.Step(s.bodies, s.opts.Dt); err != nil {
		return &dynamo.SimulationError{Tick: s.tick, Time: s.t, Wrapped: err}
	}
	for _, b := range s.bodies {
		if !dynamo.IsFinite(b.Position) || !dynamo.IsFinite(b.Velocity) {
			err := fmt.Errorf("%s: %w", b.Name, dynamo.ErrInvalidState)
			return &dynamo.SimulationError{Tick: s.tick, Time: s.t, Wrapped: err}
		}
	}

	s.tick++
	s.t += s.opts.Dt

	for _, m := range s.metrics {
		m.Observe(s.bodies, s.t)
	}
	for _, o := range s.observers {
		o.OnTick(s.bodies, s.tick, s.t)
	}
	return nil
}

// Draw clears the surface and renders every body: its disk first, then
// its trail extended by the current screen position. Redrawing the same
// tick does not append duplicate trail points.
func (s *Simulator) Draw(surf raster.Surface) {
	surf.SetDrawColor(s.opts.Background)
	surf.Clear()

	fresh := s.drawnTick != s.tick
	s.drawnTick = s.tick

	for _, b := range s.bodies {
		p := s.proj.ToScreen(b.Position)
		raster.FillCircle(surf, p.X, p.Y, s.radius(b), b.Color)

		if s.opts.HideTrails {
			if fresh {
				b.Trail.Push(p)
			}
			continue
		}
		tail := color.Color(b.Color)
		if s.opts.FadeTrails {
			tail = s.opts.Background
		}
		if fresh {
			b.Trail.AppendAndDraw(p, surf, b.Color, tail)
		} else {
			b.Trail.Draw(surf, b.Color, tail)
		}
	}
}

// Render draws the current state and presents it.
func (s *Simulator) Render(surf raster.Surface) error {
	s.Draw(surf)
	return surf.Present()
}

// Frame is one iteration of the frame loop: tick, draw, present.
func (s *Simulator) Frame(surf raster.Surface) error {
	if err := s.Step(); err != nil {
		return err
	}
	return s.Render(surf)
}

// Run loops Frame against the platform until it asks to close or ctx is
// done. Frames are paced at Options.FPS when set.
func (s *Simulator) Run(ctx context.Context, p Platform) (*Result, error) {
	s.resetMetrics()

	var tick <-chan time.Time
	if s.opts.FPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(s.opts.FPS))
		defer ticker.Stop()
		tick = ticker.C
	}

	frames := 0
	for {
		select {
		case <-ctx.Done():
			return s.result(frames), ctx.Err()
		default:
		}

		if p.ShouldClose() {
			return s.result(frames), nil
		}

		if err := s.Frame(p.Surface()); err != nil {
			return s.result(frames), err
		}
		frames++

		if tick != nil {
			select {
			case <-ctx.Done():
				return s.result(frames), ctx.Err()
			case <-tick:
			}
		}
	}
}

// RunTicks advances n ticks without drawing.
func (s *Simulator) RunTicks(ctx context.Context, n int) (*Result, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: tick count must not be negative, got %d", dynamo.ErrParameterBounds, n)
	}
	s.resetMetrics()

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return s.result(0), ctx.Err()
		default:
		}

		if err := s.Step(); err != nil {
			return s.result(0), err
		}
	}
	return s.result(0), nil
}

func (s *Simulator) resetMetrics() {
	for _, m := range s.metrics {
		m.Reset()
		m.Observe(s.bodies, s.t)
	}
}

func (s *Simulator) result(frames int) *Result {
	r := &Result{
		Ticks:   s.tick,
		Frames:  frames,
		Time:    s.t,
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	return r
}
