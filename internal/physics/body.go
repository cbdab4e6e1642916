package physics

import (
	"fmt"
	"image/color"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/raster"
)

// Body is one simulated point mass together with what is needed to draw it.
type Body struct {
	Name     string
	Mass     float64     // kg
	Position dynamo.Vec2 // m
	Velocity dynamo.Vec2 // m/s
	Radius   int         // screen pixels
	Color    color.RGBA
	Trail    *raster.Trail
}

// BodyOption customizes a Body at construction.
type BodyOption func(*Body)

// WithTrailLength sets the orbit trail capacity.
func WithTrailLength(n int) BodyOption {
	return func(b *Body) {
		b.Trail = raster.NewTrail(n)
	}
}

// NewBody places a body at distance meters from the origin, angle degrees
// counter-clockwise from the +x axis, at rest.
func NewBody(name string, distance, angle, mass float64, radius int, c color.RGBA, opts ...BodyOption) (*Body, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty body name", dynamo.ErrParameterBounds)
	}
	if !(mass > 0) {
		return nil, fmt.Errorf("%s: %w (got %g)", name, dynamo.ErrNonPositiveMass, mass)
	}
	if math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%s: %w: infinite mass", name, dynamo.ErrParameterBounds)
	}
	if !finite(distance) || !finite(angle) {
		return nil, fmt.Errorf("%s: %w: distance %g angle %g", name, dynamo.ErrParameterBounds, distance, angle)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("%s: %w: radius %d", name, dynamo.ErrParameterBounds, radius)
	}

	rad := angle * math.Pi / 180
	b := &Body{
		Name:     name,
		Mass:     mass,
		Position: dynamo.Vec2{distance * math.Cos(rad), distance * math.Sin(rad)},
		Velocity: dynamo.Zero,
		Radius:   radius,
		Color:    c,
		Trail:    raster.NewTrail(raster.DefaultTrailLength),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// SetTangentialVelocity gives the body the given speed perpendicular to
// its radius vector from the origin. The direction is the radius vector
// rotated by +90 degrees, so every orbit seeded this way runs
// counter-clockwise in world coordinates. Negative or non-finite speeds
// are rejected.
func (b *Body) SetTangentialVelocity(speed float64) error {
	if !finite(speed) || speed < 0 {
		return fmt.Errorf("%s: %w: speed %g", b.Name, dynamo.ErrParameterBounds, speed)
	}
	dir, err := dynamo.Normalize(dynamo.Orthogonal(b.Position))
	if err != nil {
		return fmt.Errorf("%s: tangential velocity at origin: %w", b.Name, err)
	}
	b.Velocity = dir.Mul(speed)
	return nil
}

// Distance returns the body's distance from the origin.
func (b *Body) Distance() float64 {
	return dynamo.Magnitude(b.Position)
}

// Speed returns the magnitude of the body's velocity.
func (b *Body) Speed() float64 {
	return dynamo.Magnitude(b.Velocity)
}

// CircularSpeed is the speed of a circular orbit of radius r around a
// mass m under gravitational constant g.
func CircularSpeed(g, m, r float64) float64 {
	return math.Sqrt(g * m / r)
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
