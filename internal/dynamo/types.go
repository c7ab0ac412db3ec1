package dynamo

import (
	"fmt"
	"math"
)

// Vec2 is a 2-D vector. All operations return a new value.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length. The zero vector has length exactly 0.
func (v Vec2) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec2) IsFinite() bool {
	return isFinite(v.X) && isFinite(v.Y)
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%.3f, %.3f)", v.X, v.Y)
}

// Body is a point mass. Mass is always positive for bodies built with NewBody.
type Body struct {
	Pos  Vec2
	Vel  Vec2
	Mass float64
}

// NewBody returns a body at rest at pos.
func NewBody(pos Vec2, mass float64) (Body, error) {
	b := Body{Pos: pos, Mass: mass}
	if err := b.Validate(); err != nil {
		return Body{}, err
	}
	return b, nil
}

// Validate reports ErrInvalidMass for mass <= 0 and ErrInvalidState for
// any non-finite component.
func (b Body) Validate() error {
	if !isFinite(b.Mass) || !b.Pos.IsFinite() || !b.Vel.IsFinite() {
		return ErrInvalidState
	}
	if b.Mass <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidMass, b.Mass)
	}
	return nil
}

func (b Body) Momentum() Vec2 {
	return b.Vel.Scale(b.Mass)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Field computes gravitational forces over an ordered body set.
type Field interface {
	NetForce(bodies []Body, i int) Vec2
	Forces(bodies []Body, out []Vec2)
}

// Integrator advances one body by dt under a net force.
type Integrator interface {
	Apply(b *Body, force Vec2, dt float64)
}

type Metric interface {
	Name() string
	Observe(frame int, bodies []Body, drift Vec2)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(frame int, bodies []Body, drift Vec2)
}
