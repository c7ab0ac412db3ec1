package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
)

type fixedEnergy struct{ values []float64 }

func (f *fixedEnergy) Energy([]dynamo.Body) float64 {
	v := f.values[0]
	f.values = f.values[1:]
	return v
}

func TestEnergyDrift(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"constant", []float64{10, 10, 10}, 0},
		{"relative", []float64{10, 11, 9.5}, 0.1},
		{"zero baseline is absolute", []float64{0, 0.5, -2}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEnergyDrift(&fixedEnergy{values: tt.values})
			for i := range tt.values {
				m.Observe(i, nil, dynamo.Vec2{})
			}
			if math.Abs(m.Value()-tt.want) > 1e-12 {
				t.Errorf("expected drift %f, got %f", tt.want, m.Value())
			}
		})
	}
}

func TestEnergyUsesField(t *testing.T) {
	f := physics.NewForceField(0.2)
	bodies := []dynamo.Body{
		{Pos: dynamo.Vec2{X: 0}, Vel: dynamo.Vec2{X: 2}, Mass: 1},
		{Pos: dynamo.Vec2{X: 10}, Mass: 1},
	}
	m := NewEnergy(f)
	m.Observe(1, bodies, dynamo.Vec2{X: 5})

	if m.Value() != f.Energy(bodies) {
		t.Errorf("expected %f, got %f", f.Energy(bodies), m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestMomentumDrift(t *testing.T) {
	m := NewMomentumDrift()
	m.Observe(1, []dynamo.Body{{Vel: dynamo.Vec2{X: 1}, Mass: 2}}, dynamo.Vec2{})
	m.Observe(2, []dynamo.Body{{Vel: dynamo.Vec2{X: 1, Y: 1.5}, Mass: 2}}, dynamo.Vec2{})
	m.Observe(3, []dynamo.Body{{Vel: dynamo.Vec2{X: 1}, Mass: 2}}, dynamo.Vec2{})

	if m.Value() != 3 {
		t.Errorf("expected max drift 3, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestSpread(t *testing.T) {
	bodies := []dynamo.Body{
		{Pos: dynamo.Vec2{X: 3, Y: 4}, Mass: 1},
		{Pos: dynamo.Vec2{X: -3, Y: -4}, Mass: 1},
	}
	s := NewSpread()
	s.Observe(1, bodies, dynamo.Vec2{})
	if s.Value() != 5 {
		t.Errorf("expected spread 5, got %f", s.Value())
	}

	if RMSRadius(nil, dynamo.Vec2{}) != 0 {
		t.Error("empty set should have zero radius")
	}
}

func TestDriftSpeed(t *testing.T) {
	d := NewDriftSpeed()
	d.Observe(1, nil, dynamo.Vec2{X: 1})
	if d.Value() != 0 {
		t.Error("first observation has no speed")
	}
	d.Observe(2, nil, dynamo.Vec2{X: 4, Y: 5})
	if d.Value() != 5 {
		t.Errorf("expected speed 5, got %f", d.Value())
	}
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	if s.Value() != 1 {
		t.Error("no samples should be fully stable")
	}

	inside := []dynamo.Body{{Pos: dynamo.Vec2{X: 5}, Mass: 1}}
	outside := []dynamo.Body{{Pos: dynamo.Vec2{X: 50}, Mass: 1}}

	s.Observe(1, inside, dynamo.Vec2{})
	s.Observe(2, outside, dynamo.Vec2{})
	s.Observe(3, outside, dynamo.Vec2{X: 45})
	s.Observe(4, inside, dynamo.Vec2{})

	if s.Value() != 0.75 {
		t.Errorf("expected 0.75, got %f", s.Value())
	}
}
