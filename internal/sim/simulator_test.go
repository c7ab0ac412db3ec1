package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

func body(x, y, m float64) dynamo.Body {
	return dynamo.Body{Pos: dynamo.Vec2{X: x, Y: y}, Mass: m}
}

func newSim(t *testing.T, policy Policy, bodies ...dynamo.Body) *Simulation {
	t.Helper()
	opts := DefaultOptions(0.2)
	opts.Policy = policy
	s, err := New(bodies, opts)
	if err != nil {
		t.Fatalf("new simulation: %v", err)
	}
	return s
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		name    string
		bodies  []dynamo.Body
		opts    Options
		wantErr error
	}{
		{"no bodies", nil, DefaultOptions(1), dynamo.ErrNoBodies},
		{"zero mass", []dynamo.Body{body(0, 0, 1), body(1, 1, 0)}, DefaultOptions(1), dynamo.ErrInvalidMass},
		{"negative mass", []dynamo.Body{body(0, 0, -1)}, DefaultOptions(1), dynamo.ErrInvalidMass},
		{"zero dt", []dynamo.Body{body(0, 0, 1)}, Options{Field: physics.NewForceField(1), Integrator: DefaultOptions(1).Integrator}, dynamo.ErrParameterBounds},
		{"missing field", []dynamo.Body{body(0, 0, 1)}, Options{Dt: 1}, dynamo.ErrParameterBounds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.bodies, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNewCopiesBodies(t *testing.T) {
	in := []dynamo.Body{body(1, 2, 3)}
	s := newSim(t, PolicySnapshot, in...)

	in[0].Pos.X = 100
	if s.Body(0).Pos.X != 1 {
		t.Error("simulation aliases the caller's slice")
	}

	out := s.Bodies()
	out[0].Mass = 99
	if s.Body(0).Mass != 3 {
		t.Error("Bodies() exposes internal state")
	}
}

func TestDrift(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1), body(10, 0, 50), body(0, 10, 0.1))

	d := s.Drift()
	want := 10.0 / 3.0
	if math.Abs(d.X-want) > 1e-12 || math.Abs(d.Y-want) > 1e-12 {
		t.Errorf("drift = %v, want (%.6f, %.6f)", d, want, want)
	}
}

func TestStepSingleBody(t *testing.T) {
	for _, p := range []Policy{PolicySnapshot, PolicySequential} {
		t.Run(p.String(), func(t *testing.T) {
			s := newSim(t, p, body(3, -4, 10))
			for i := 0; i < 5; i++ {
				s.Step()
			}
			b := s.Body(0)
			if b.Pos != (dynamo.Vec2{X: 3, Y: -4}) || b.Vel != (dynamo.Vec2{}) {
				t.Errorf("lone body moved: pos %v vel %v", b.Pos, b.Vel)
			}
			if s.Frame() != 5 {
				t.Errorf("frame = %d, want 5", s.Frame())
			}
		})
	}
}

func TestStepPairMomentum(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(-20, 5, 3), body(40, -15, 70))

	before := physics.Momentum(s.Bodies())
	s.Step()
	after := physics.Momentum(s.Bodies())

	if after.Sub(before).Len() > 1e-9 {
		t.Errorf("momentum changed: %v -> %v", before, after)
	}
	if s.Body(0).Vel == (dynamo.Vec2{}) {
		t.Error("bodies should have been accelerated")
	}
}

func TestStepCoincidentBodies(t *testing.T) {
	for _, p := range []Policy{PolicySnapshot, PolicySequential} {
		t.Run(p.String(), func(t *testing.T) {
			s := newSim(t, p, body(5, 5, 1), body(5, 5, 2), body(-30, 12, 4))
			for i := 0; i < 10; i++ {
				s.Step()
			}
			if err := s.Validate(); err != nil {
				t.Fatalf("non-finite state: %v", err)
			}
		})
	}
}

func TestApplyForcesOrder(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1))

	if err := s.ApplyForces([]dynamo.Vec2{{X: 1, Y: 0}}); err != nil {
		t.Fatalf("apply forces: %v", err)
	}

	b := s.Body(0)
	if b.Vel != (dynamo.Vec2{X: 1, Y: 0}) {
		t.Errorf("velocity = %v, want (1, 0)", b.Vel)
	}
	if b.Pos != (dynamo.Vec2{X: 1, Y: 0}) {
		t.Errorf("position = %v, want (1, 0)", b.Pos)
	}

	if err := s.ApplyForces(nil); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for wrong length, got %v", err)
	}
}

func TestPoliciesDiffer(t *testing.T) {
	bodies := []dynamo.Body{body(0, 0, 10), body(30, 0, 20), body(0, 40, 30)}
	snap := newSim(t, PolicySnapshot, bodies...)
	seq := newSim(t, PolicySequential, bodies...)

	snap.Step()
	seq.Step()

	// the first body sees the same starting positions under both policies
	if d := snap.Body(0).Pos.Sub(seq.Body(0).Pos).Len(); d > 1e-12 {
		t.Errorf("first body differs by %g", d)
	}
	if snap.Body(2).Pos == seq.Body(2).Pos {
		t.Error("sequential policy should see already-moved bodies")
	}
}

func TestValidateDetectsNaN(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1), body(1, 1, 1))
	_ = s.ApplyForces([]dynamo.Vec2{{}, {X: math.NaN()}})

	err := s.Validate()
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || simErr.Body != 1 || simErr.Frame != 1 {
		t.Errorf("unexpected error detail: %#v", err)
	}
}

func TestReset(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1), body(10, 0, 1))
	s.Step()
	s.Step()
	s.Reset()

	if s.Frame() != 0 {
		t.Errorf("frame = %d after reset", s.Frame())
	}
	if s.Body(1).Pos != (dynamo.Vec2{X: 10}) || s.Body(1).Vel != (dynamo.Vec2{}) {
		t.Errorf("body not restored: %+v", s.Body(1))
	}
}

type testMetric struct {
	count int
	last  dynamo.Vec2
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	m.count++
	m.last = drift
}
func (m *testMetric) Value() float64 { return float64(m.count) }
func (m *testMetric) Reset()         { m.count = 0 }

func TestSimulationMetrics(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1), body(10, 0, 1))
	metric := &testMetric{}
	s.AddMetric(metric)

	for i := 0; i < 10; i++ {
		s.Step()
	}

	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if v, ok := s.Metrics()["test"]; !ok || v != 10 {
		t.Errorf("metric not reported: %v", s.Metrics())
	}
	if metric.last != s.Drift() {
		t.Errorf("metric saw drift %v, want %v", metric.last, s.Drift())
	}
}

func TestRecorder(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1), body(10, 0, 1))
	rec := NewRecorder(2)
	s.AddObserver(rec)
	rec.Start(s)

	for i := 0; i < 5; i++ {
		s.Step()
	}

	tr := rec.Trace(s)
	if got := tr.Frames; len(got) != 3 || got[0] != 0 || got[1] != 2 || got[2] != 4 {
		t.Errorf("recorded frames = %v, want [0 2 4]", got)
	}
	if len(tr.Positions[0]) != 2 {
		t.Errorf("expected 2 positions per sample, got %d", len(tr.Positions[0]))
	}
	if tr.Drift[0] != (dynamo.Vec2{X: 5}) {
		t.Errorf("initial drift = %v", tr.Drift[0])
	}
}

func TestRunnerFrames(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1), body(10, 0, 1))
	r := NewRunner(s, 60)
	r.SetPaced(false)

	seen := 0
	err := r.Run(context.Background(), 25, func(f Frame) bool {
		seen++
		if f.Index != seen {
			t.Errorf("frame index %d, want %d", f.Index, seen)
		}
		return true
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if seen != 25 || s.Frame() != 25 {
		t.Errorf("seen %d frames, simulation at %d", seen, s.Frame())
	}
}

func TestRunnerStop(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1))
	r := NewRunner(s, 60)
	r.SetPaced(false)

	err := r.Run(context.Background(), 0, func(f Frame) bool {
		return f.Index < 7
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if s.Frame() != 7 {
		t.Errorf("stopped at frame %d, want 7", s.Frame())
	}
}

func TestRunnerCancel(t *testing.T) {
	s := newSim(t, PolicySnapshot, body(0, 0, 1))
	r := NewRunner(s, 1000)

	ctx, cancel := context.WithCancel(context.Background())
	err := r.Run(ctx, 0, func(f Frame) bool {
		if f.Index == 3 {
			cancel()
		}
		return true
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if s.Frame() != 3 {
		t.Errorf("in-flight frame interrupted: frame %d", s.Frame())
	}
}

func TestParsePolicy(t *testing.T) {
	if p, err := ParsePolicy("sequential"); err != nil || p != PolicySequential {
		t.Errorf("ParsePolicy(sequential) = %v, %v", p, err)
	}
	if p, err := ParsePolicy(""); err != nil || p != PolicySnapshot {
		t.Errorf("ParsePolicy(\"\") = %v, %v", p, err)
	}
	if _, err := ParsePolicy("parallel"); !errors.Is(err, dynamo.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}
