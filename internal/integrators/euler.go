package integrators

import "github.com/san-kum/gravsim/internal/dynamo"

// SemiImplicitEuler updates velocity from the force first, then position
// from the new velocity.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Apply(b *dynamo.Body, force dynamo.Vec2, dt float64) {
	acc := force.Scale(1 / b.Mass)
	b.Vel = b.Vel.Add(acc.Scale(dt))
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
}
