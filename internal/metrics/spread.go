package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Spread is the RMS distance of bodies from the drift point in the latest
// frame.
type Spread struct {
	name    string
	current float64
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	s.current = RMSRadius(bodies, drift)
}

func (s *Spread) Value() float64 { return s.current }

func (s *Spread) Reset() { s.current = 0 }

// RMSRadius is the root mean square distance of bodies from center.
func RMSRadius(bodies []dynamo.Body, center dynamo.Vec2) float64 {
	if len(bodies) == 0 {
		return 0
	}
	var sum float64
	for _, b := range bodies {
		d := b.Pos.Sub(center)
		sum += d.Dot(d)
	}
	return math.Sqrt(sum / float64(len(bodies)))
}

// DriftSpeed is how far the drift point moved between the last two
// observed frames, in world units per frame.
type DriftSpeed struct {
	name    string
	last    dynamo.Vec2
	current float64
	samples int
}

func NewDriftSpeed() *DriftSpeed {
	return &DriftSpeed{name: "drift_speed"}
}

func (d *DriftSpeed) Name() string { return d.name }

func (d *DriftSpeed) Observe(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	if d.samples > 0 {
		d.current = drift.Sub(d.last).Len()
	}
	d.last = drift
	d.samples++
}

func (d *DriftSpeed) Value() float64 { return d.current }

func (d *DriftSpeed) Reset() {
	d.last = dynamo.Vec2{}
	d.current = 0
	d.samples = 0
}
