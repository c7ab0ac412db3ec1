package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// DefaultMinDistance is the distance clamp used when none is configured.
const DefaultMinDistance = 1e-3

type ForceLaw int

const (
	LawLinear ForceLaw = iota
	LawInverseSquare
)

func (l ForceLaw) String() string {
	switch l {
	case LawLinear:
		return "linear"
	case LawInverseSquare:
		return "inverse_square"
	default:
		return fmt.Sprintf("ForceLaw(%d)", int(l))
	}
}

// ParseForceLaw maps a config name to a ForceLaw.
func ParseForceLaw(name string) (ForceLaw, error) {
	switch strings.ToLower(name) {
	case "", "linear":
		return LawLinear, nil
	case "inverse_square", "inverse-square":
		return LawInverseSquare, nil
	}
	return 0, fmt.Errorf("%w: force law %q", dynamo.ErrUnknownName, name)
}

type ForceField struct {
	G           float64
	MinDistance float64
	Law         ForceLaw
}

// NewForceField returns a linear-law field with the default distance clamp.
func NewForceField(g float64) *ForceField {
	return &ForceField{
		G:           g,
		MinDistance: DefaultMinDistance,
		Law:         LawLinear,
	}
}

// ForceBetween returns the force b exerts on a.
// ForceBetween(a, b) is the exact negation of ForceBetween(b, a).
func (f *ForceField) ForceBetween(a, b dynamo.Body) dynamo.Vec2 {
	dir := b.Pos.Sub(a.Pos)
	if dir.X == 0 && dir.Y == 0 {
		return dynamo.Vec2{}
	}

	r := f.distance(dir)
	factor := f.G * (a.Mass * b.Mass) / (r * r)
	if f.Law == LawInverseSquare {
		factor /= r
	}
	return dir.Scale(factor)
}

// NetForce sums the pull of every other body on bodies[i].
func (f *ForceField) NetForce(bodies []dynamo.Body, i int) dynamo.Vec2 {
	var net dynamo.Vec2
	for j := range bodies {
		if j == i {
			continue
		}
		net = net.Add(f.ForceBetween(bodies[i], bodies[j]))
	}
	return net
}

// Forces writes the net force on every body into out, which must have
// len(bodies) entries. Each pair is evaluated once and applied to both sides.
func (f *ForceField) Forces(bodies []dynamo.Body, out []dynamo.Vec2) {
	n := len(bodies)
	for i := 0; i < n; i++ {
		out[i] = dynamo.Vec2{}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			fij := f.ForceBetween(bodies[i], bodies[j])
			out[i] = out[i].Add(fij)
			out[j] = out[j].Sub(fij)
		}
	}
}

func (f *ForceField) distance(dir dynamo.Vec2) float64 {
	r := dir.Len()
	if r < f.MinDistance {
		return f.MinDistance
	}
	return r
}

// PotentialEnergy is the pair potential consistent with the field's law:
// G*m1*m2*ln(r) for the linear law, -G*m1*m2/r for inverse square.
func (f *ForceField) PotentialEnergy(bodies []dynamo.Body) float64 {
	pe := 0.0
	n := len(bodies)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := f.distance(bodies[j].Pos.Sub(bodies[i].Pos))
			gmm := f.G * bodies[i].Mass * bodies[j].Mass
			if f.Law == LawInverseSquare {
				pe -= gmm / r
			} else {
				pe += gmm * math.Log(r)
			}
		}
	}
	return pe
}

func (f *ForceField) Energy(bodies []dynamo.Body) float64 {
	return KineticEnergy(bodies) + f.PotentialEnergy(bodies)
}

func KineticEnergy(bodies []dynamo.Body) float64 {
	ke := 0.0
	for _, b := range bodies {
		ke += 0.5 * b.Mass * b.Vel.Dot(b.Vel)
	}
	return ke
}

// Momentum returns the total linear momentum sum(m*v).
func Momentum(bodies []dynamo.Body) dynamo.Vec2 {
	var p dynamo.Vec2
	for _, b := range bodies {
		p = p.Add(b.Momentum())
	}
	return p
}

// AngularMomentum about the origin.
func AngularMomentum(bodies []dynamo.Body) float64 {
	l := 0.0
	for _, b := range bodies {
		l += b.Mass * (b.Pos.X*b.Vel.Y - b.Pos.Y*b.Vel.X)
	}
	return l
}
