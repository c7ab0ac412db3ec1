package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// EnergyFunc is implemented by force fields that can report total energy.
type EnergyFunc interface {
	Energy(bodies []dynamo.Body) float64
}

// Energy reports the total energy of the latest observed frame.
type Energy struct {
	name    string
	field   EnergyFunc
	current float64
}

func NewEnergy(field EnergyFunc) *Energy {
	return &Energy{
		name:  "energy",
		field: field,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	e.current = e.field.Energy(bodies)
}

func (e *Energy) Value() float64 { return e.current }

func (e *Energy) Reset() { e.current = 0 }

// EnergyDrift is the largest relative deviation from the first observed
// energy. When that energy is zero the deviation is absolute.
type EnergyDrift struct {
	name          string
	field         EnergyFunc
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(field EnergyFunc) *EnergyDrift {
	return &EnergyDrift{
		name:  "energy_drift",
		field: field,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	energy := e.field.Energy(bodies)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	d := math.Abs(energy - e.initialEnergy)
	if e.initialEnergy != 0 {
		d /= math.Abs(e.initialEnergy)
	}
	e.maxDrift = math.Max(e.maxDrift, d)
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
