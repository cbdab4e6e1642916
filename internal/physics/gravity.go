package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Physical constants in SI units.
const (
	G  = 6.67428e-11 // m³ kg⁻¹ s⁻²
	AU = 149.6e9     // m
)

// parallelChunk is the smallest number of bodies handed to one goroutine.
const parallelChunk = 8

// Gravity computes pairwise Newtonian forces and integrates a body set.
// It keeps a scratch force buffer, so a Gravity must not be shared by
// concurrent Step calls.
type Gravity struct {
	G float64
	// Softening, when positive, replaces r² with r²+Softening² in the
	// force law. This removes the singularity for coincident bodies at the
	// cost of physical fidelity at short range; a pair at exactly the same
	// position feels no mutual force. Zero keeps the exact law
	// and reports coincident bodies as ErrDegenerateDistance.
	Softening float64
	// Parallel splits the force computation across goroutines.
	Parallel bool

	forces []dynamo.Vec2
}

// NewGravity returns an exact-law integrator with constant g.
func NewGravity(g float64) *Gravity {
	return &Gravity{G: g}
}

// PairError reports a force computation that failed for bodies I and J.
type PairError struct {
	I, J   int
	Bodies [2]string
	Err    error
}

func (e *PairError) Error() string {
	return fmt.Sprintf("%s (#%d) and %s (#%d): %v", e.Bodies[0], e.I, e.Bodies[1], e.J, e.Err)
}

func (e *PairError) Unwrap() error {
	return e.Err
}

// NetForce returns the total gravitational force on bodies[i]. The body
// itself is skipped by index.
func (g *Gravity) NetForce(bodies []*Body, i int) (dynamo.Vec2, error) {
	bi := bodies[i]
	eps2 := g.Softening * g.Softening

	var fx, fy float64
	for j, bj := range bodies {
		if j == i {
			continue
		}

		d := bj.Position.Sub(bi.Position)
		r := d.Len()
		if r == 0 {
			if eps2 == 0 {
				return dynamo.Zero, &PairError{
					I:      i,
					J:      j,
					Bodies: [2]string{bi.Name, bj.Name},
					Err:    dynamo.ErrDegenerateDistance,
				}
			}
			// A softened coincident pair has no direction and exerts no force.
			continue
		}

		f := g.G * bi.Mass * bj.Mass / (r*r + eps2)
		theta := math.Atan2(d.Y(), d.X())
		fx += f * math.Cos(theta)
		fy += f * math.Sin(theta)
	}

	return dynamo.Vec2{fx, fy}, nil
}

// Step advances every body by dt seconds. All net forces are computed
// from the pre-tick positions before any body is moved; if any force
// fails no body is modified.
func (g *Gravity) Step(bodies []*Body, dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrParameterBounds, dt)
	}

	n := len(bodies)
	if cap(g.forces) < n {
		g.forces = make([]dynamo.Vec2, n)
	}
	forces := g.forces[:n]

	if err := g.computeForces(bodies, forces); err != nil {
		return err
	}

	for i, b := range bodies {
		f := forces[i]
		acc := dynamo.Vec2{f.X() / b.Mass, f.Y() / b.Mass}
		b.Velocity = b.Velocity.Add(acc.Mul(dt))
		b.Position = b.Position.Add(b.Velocity.Mul(dt))
	}

	return nil
}

func (g *Gravity) computeForces(bodies []*Body, forces []dynamo.Vec2) error {
	if !g.Parallel {
		for i := range bodies {
			f, err := g.NetForce(bodies, i)
			if err != nil {
				return err
			}
			forces[i] = f
		}
		return nil
	}

	errs := make([]error, len(bodies))
	dynamo.ParallelFor(len(bodies), parallelChunk, func(start, end int) {
		for i := start; i < end; i++ {
			forces[i], errs[i] = g.NetForce(bodies, i)
		}
	})
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Energy returns total kinetic plus gravitational potential energy.
func (g *Gravity) Energy(bodies []*Body) float64 {
	ke := 0.0
	pe := 0.0
	eps2 := g.Softening * g.Softening

	for i, bi := range bodies {
		v := bi.Velocity.Len()
		ke += 0.5 * bi.Mass * v * v

		for _, bj := range bodies[i+1:] {
			r := bj.Position.Sub(bi.Position).Len()
			pe -= g.G * bi.Mass * bj.Mass / math.Sqrt(r*r+eps2)
		}
	}

	return ke + pe
}

// Momentum returns the total linear momentum Σ mᵢvᵢ.
func (g *Gravity) Momentum(bodies []*Body) dynamo.Vec2 {
	p := dynamo.Zero
	for _, b := range bodies {
		p = p.Add(b.Velocity.Mul(b.Mass))
	}
	return p
}

// AngularMomentum returns the z component of Σ mᵢ(rᵢ × vᵢ) about the origin.
func (g *Gravity) AngularMomentum(bodies []*Body) float64 {
	L := 0.0
	for _, b := range bodies {
		L += b.Mass * (b.Position.X()*b.Velocity.Y() - b.Position.Y()*b.Velocity.X())
	}
	return L
}

// MaxDistance returns the largest distance of any body from the origin.
func MaxDistance(bodies []*Body) float64 {
	d := 0.0
	for _, b := range bodies {
		d = math.Max(d, b.Distance())
	}
	return d
}

// ValidateBodies checks the invariants Step relies on: unique names,
// positive finite masses, finite state and no two bodies at the same
// position.
func ValidateBodies(bodies []*Body) error {
	seen := make(map[string]int, len(bodies))
	for i, b := range bodies {
		if j, ok := seen[b.Name]; ok {
			return fmt.Errorf("%w: %q at #%d and #%d", dynamo.ErrDuplicateName, b.Name, j, i)
		}
		seen[b.Name] = i

		if !(b.Mass > 0) {
			return fmt.Errorf("%s: %w (got %g)", b.Name, dynamo.ErrNonPositiveMass, b.Mass)
		}
		if math.IsInf(b.Mass, 0) {
			return fmt.Errorf("%s: %w: infinite mass", b.Name, dynamo.ErrParameterBounds)
		}
		if !dynamo.IsFinite(b.Position) || !dynamo.IsFinite(b.Velocity) {
			return fmt.Errorf("%s: %w: position %v velocity %v", b.Name, dynamo.ErrInvalidState, b.Position, b.Velocity)
		}

		for j, o := range bodies[:i] {
			if o.Position == b.Position {
				return &PairError{I: j, J: i, Bodies: [2]string{o.Name, b.Name}, Err: dynamo.ErrDegenerateDistance}
			}
		}
	}
	return nil
}
