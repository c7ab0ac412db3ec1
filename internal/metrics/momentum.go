package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// MomentumDrift is the largest absolute change in total linear momentum
// since the first observed frame. It stays at zero under the snapshot
// policy up to rounding.
type MomentumDrift struct {
	name     string
	initial  dynamo.Vec2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	var p dynamo.Vec2
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len())
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = dynamo.Vec2{}
	m.maxDrift = 0
	m.samples = 0
}
