package sim

import (
	"fmt"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Simulation owns a fixed, ordered set of bodies. Index is identity.
type Simulation struct {
	field      dynamo.Field
	integrator dynamo.Integrator
	policy     Policy
	dt         float64

	bodies  []dynamo.Body
	initial []dynamo.Body
	forces  []dynamo.Vec2
	frame   int

	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

// New validates and copies bodies. It fails with dynamo.ErrNoBodies for an
// empty set and dynamo.ErrInvalidMass for any mass <= 0.
func New(bodies []dynamo.Body, opts Options) (*Simulation, error) {
	if len(bodies) == 0 {
		return nil, dynamo.ErrNoBodies
	}
	for i, b := range bodies {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}
	if opts.Field == nil || opts.Integrator == nil {
		return nil, fmt.Errorf("%w: field and integrator are required", dynamo.ErrParameterBounds)
	}
	if opts.Dt <= 0 {
		return nil, fmt.Errorf("%w: dt must be positive, got %f", dynamo.ErrParameterBounds, opts.Dt)
	}

	s := &Simulation{
		field:      opts.Field,
		integrator: opts.Integrator,
		policy:     opts.Policy,
		dt:         opts.Dt,
		bodies:     cloneBodies(bodies),
		initial:    cloneBodies(bodies),
		forces:     make([]dynamo.Vec2, len(bodies)),
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
	return s, nil
}

func (s *Simulation) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Step advances every body exactly once.
func (s *Simulation) Step() {
	switch s.policy {
	case PolicySequential:
		for i := range s.bodies {
			f := s.field.NetForce(s.bodies, i)
			s.integrator.Apply(&s.bodies[i], f, s.dt)
		}
	default:
		s.field.Forces(s.bodies, s.forces)
		for i := range s.bodies {
			s.integrator.Apply(&s.bodies[i], s.forces[i], s.dt)
		}
	}
	s.advance()
}

// ApplyForces integrates caller-supplied net forces, one per body, in place
// of the field.
func (s *Simulation) ApplyForces(forces []dynamo.Vec2) error {
	if len(forces) != len(s.bodies) {
		return fmt.Errorf("%w: got %d forces for %d bodies", dynamo.ErrParameterBounds, len(forces), len(s.bodies))
	}
	for i := range s.bodies {
		s.integrator.Apply(&s.bodies[i], forces[i], s.dt)
	}
	s.advance()
	return nil
}

func (s *Simulation) advance() {
	s.frame++
	if len(s.metrics) == 0 && len(s.observers) == 0 {
		return
	}
	drift := s.Drift()
	for _, m := range s.metrics {
		m.Observe(s.frame, s.bodies, drift)
	}
	for _, o := range s.observers {
		o.OnStep(s.frame, s.bodies, drift)
	}
}

// Drift is the unweighted mean position of all bodies.
func (s *Simulation) Drift() dynamo.Vec2 {
	var sum dynamo.Vec2
	for _, b := range s.bodies {
		sum = sum.Add(b.Pos)
	}
	return sum.Scale(1 / float64(len(s.bodies)))
}

// Bodies returns a copy of the current body state.
func (s *Simulation) Bodies() []dynamo.Body {
	return cloneBodies(s.bodies)
}

func (s *Simulation) Body(i int) dynamo.Body { return s.bodies[i] }
func (s *Simulation) Len() int               { return len(s.bodies) }
func (s *Simulation) Frame() int             { return s.frame }
func (s *Simulation) Policy() Policy         { return s.policy }

// Snapshot returns the current frame with a copy of the bodies.
func (s *Simulation) Snapshot() Frame {
	return Frame{Index: s.frame, Bodies: s.Bodies(), Drift: s.Drift()}
}

// Validate reports the first body holding NaN or Inf.
func (s *Simulation) Validate() error {
	for i, b := range s.bodies {
		if !b.Pos.IsFinite() || !b.Vel.IsFinite() {
			return &dynamo.SimulationError{Frame: s.frame, Body: i, Wrapped: dynamo.ErrInvalidState}
		}
	}
	return nil
}

// Reset restores the initial bodies and clears metrics.
func (s *Simulation) Reset() {
	copy(s.bodies, s.initial)
	s.frame = 0
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Metrics returns the current value of every registered metric.
func (s *Simulation) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func cloneBodies(b []dynamo.Body) []dynamo.Body {
	c := make([]dynamo.Body, len(b))
	copy(c, b)
	return c
}
