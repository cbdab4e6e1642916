package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// DefaultHistory is how many samples the drift metrics keep for plotting.
const DefaultHistory = 240

// EnergyDrift tracks the largest relative deviation of total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	gravity       *physics.Gravity
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
	history       *series
}

func NewEnergyDrift(g *physics.Gravity) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		gravity: g,
		history: newSeries(DefaultHistory),
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(bodies []*physics.Body, t float64) {
	energy := e.gravity.Energy(bodies)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	drift := 0.0
	if e.initialEnergy != 0 {
		drift = math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
	e.history.push(drift)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

// Current returns the most recently observed total energy.
func (e *EnergyDrift) Current() float64 {
	return e.currentEnergy
}

// History returns recent relative drift samples, oldest first.
func (e *EnergyDrift) History() []float64 {
	return e.history.values()
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.currentEnergy = 0
	e.maxDrift = 0
	e.samples = 0
	e.history.reset()
}

// MomentumDrift tracks the largest change of total linear momentum,
// relative to the sum of the initial momentum magnitudes Σ m|v|.
type MomentumDrift struct {
	gravity  *physics.Gravity
	initial  dynamo.Vec2
	scale    float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift(g *physics.Gravity) *MomentumDrift {
	return &MomentumDrift{gravity: g}
}

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(bodies []*physics.Body, t float64) {
	p := m.gravity.Momentum(bodies)
	if m.samples == 0 {
		m.initial = p
		m.scale = 0
		for _, b := range bodies {
			m.scale += b.Mass * b.Speed()
		}
	}
	m.samples++

	if m.scale == 0 {
		return
	}
	drift := p.Sub(m.initial).Len() / m.scale
	m.maxDrift = math.Max(m.maxDrift, drift)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = dynamo.Zero
	m.scale = 0
	m.maxDrift = 0
	m.samples = 0
}
