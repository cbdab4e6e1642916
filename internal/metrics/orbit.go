package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
)

// OrbitRadius follows the distance between a body and the body it orbits.
// Its value is the largest relative deviation from the first observed
// distance, and it records every distance (in AU) for plotting.
type OrbitRadius struct {
	body, center string
	initial      float64
	maxDev       float64
	distances    []float64
}

func NewOrbitRadius(body, center string) *OrbitRadius {
	return &OrbitRadius{body: body, center: center}
}

func (o *OrbitRadius) Name() string { return o.body + "_radius_deviation" }

func (o *OrbitRadius) Observe(bodies []*physics.Body, t float64) {
	var b, c *physics.Body
	for _, x := range bodies {
		switch x.Name {
		case o.body:
			b = x
		case o.center:
			c = x
		}
	}
	if b == nil || c == nil {
		return
	}

	r := b.Position.Sub(c.Position).Len()
	if len(o.distances) == 0 {
		o.initial = r
	}
	o.distances = append(o.distances, r/physics.AU)

	if o.initial > 0 {
		o.maxDev = math.Max(o.maxDev, math.Abs(r-o.initial)/o.initial)
	}
}

func (o *OrbitRadius) Value() float64 { return o.maxDev }

// Distances returns every observed distance in AU, oldest first.
func (o *OrbitRadius) Distances() []float64 { return o.distances }

func (o *OrbitRadius) Reset() {
	o.initial = 0
	o.maxDev = 0
	o.distances = o.distances[:0]
}

// series is a bounded history of float samples.
type series struct {
	buf   []float64
	start int
	n     int
}

func newSeries(capacity int) *series {
	return &series{buf: make([]float64, capacity)}
}

func (s *series) push(v float64) {
	c := len(s.buf)
	if s.n < c {
		s.buf[(s.start+s.n)%c] = v
		s.n++
		return
	}
	s.buf[s.start] = v
	s.start = (s.start + 1) % c
}

func (s *series) values() []float64 {
	out := make([]float64, s.n)
	for i := range out {
		out[i] = s.buf[(s.start+i)%len(s.buf)]
	}
	return out
}

func (s *series) reset() {
	s.start = 0
	s.n = 0
}
