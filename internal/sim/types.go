package sim

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/physics"
)

// Policy selects how a step orders force evaluation and integration.
type Policy int

const (
	// PolicySnapshot computes every net force from the frame's starting
	// positions before any body moves.
	PolicySnapshot Policy = iota
	// PolicySequential moves each body right after its own force pass, so
	// later bodies see earlier bodies' new positions.
	PolicySequential
)

func (p Policy) String() string {
	switch p {
	case PolicySnapshot:
		return "snapshot"
	case PolicySequential:
		return "sequential"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(name) {
	case "", "snapshot":
		return PolicySnapshot, nil
	case "sequential":
		return PolicySequential, nil
	}
	return 0, fmt.Errorf("%w: update policy %q", dynamo.ErrUnknownName, name)
}

type Options struct {
	Field      dynamo.Field
	Integrator dynamo.Integrator
	Policy     Policy
	Dt         float64
}

// DefaultOptions uses a linear-law field with gravitational constant g,
// semi-implicit Euler and a timestep of one frame.
func DefaultOptions(g float64) Options {
	return Options{
		Field:      physics.NewForceField(g),
		Integrator: integrators.NewSemiImplicitEuler(),
		Policy:     PolicySnapshot,
		Dt:         1,
	}
}

// Frame is what a driver receives after each step. Bodies is a copy.
type Frame struct {
	Index  int
	Bodies []dynamo.Body
	Drift  dynamo.Vec2
}

// Trace is a sampled record of a run.
type Trace struct {
	Frames    []int
	Drift     []dynamo.Vec2
	Positions [][]dynamo.Vec2
	Metrics   map[string]float64
}

func (t *Trace) Len() int { return len(t.Frames) }
