package metrics

import (
	"github.com/san-kum/orbitsim/internal/physics"
)

// Stability is the fraction of samples in which every body stayed within
// threshold meters of the origin. A body flung out of the system drives
// it below 1.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(bodies []*physics.Body, t float64) {
	s.samples++
	for _, b := range bodies {
		if b.Distance() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
