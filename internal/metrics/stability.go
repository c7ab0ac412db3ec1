package metrics

import (
	"github.com/san-kum/gravsim/internal/dynamo"
)

// Stability is the fraction of frames in which every body stayed within
// radius of the drift point.
type Stability struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewStability(radius float64) *Stability {
	return &Stability{
		name:   "stability",
		radius: radius,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	s.samples++
	for _, b := range bodies {
		if b.Pos.Sub(drift).Len() > s.radius {
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
