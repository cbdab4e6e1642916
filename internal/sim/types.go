package sim

import (
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/raster"
)

// Platform is the windowing layer: it owns the drawable surface and
// reports when the user asked to quit.
type Platform interface {
	Surface() raster.Surface
	ShouldClose() bool
}

// Metric accumulates a scalar over the ticks of a run.
type Metric interface {
	Name() string
	Observe(bodies []*physics.Body, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every completed tick.
type Observer interface {
	OnTick(bodies []*physics.Body, tick int, t float64)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(bodies []*physics.Body, tick int, t float64)

func (f ObserverFunc) OnTick(bodies []*physics.Body, tick int, t float64) { f(bodies, tick, t) }

type Result struct {
	Ticks   int
	Frames  int
	Time    float64 // simulated seconds
	Metrics map[string]float64
}
