package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestVec2Ops(t *testing.T) {
	a := Vec2{X: 3, Y: 4}
	b := Vec2{X: 1, Y: -2}

	if got := a.Add(b); got != (Vec2{X: 4, Y: 2}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Vec2{X: 2, Y: 6}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Scale(0.5); got != (Vec2{X: 1.5, Y: 2}) {
		t.Errorf("Scale = %v", got)
	}
	if got := a.Len(); got != 5 {
		t.Errorf("Len = %f, want 5", got)
	}
	if got := a.Dot(b); got != -5 {
		t.Errorf("Dot = %f, want -5", got)
	}

	// operands are untouched
	if a != (Vec2{X: 3, Y: 4}) || b != (Vec2{X: 1, Y: -2}) {
		t.Error("operation mutated an operand")
	}
}

func TestVec2ZeroLength(t *testing.T) {
	if got := (Vec2{}).Len(); got != 0.0 {
		t.Errorf("zero vector length = %v, want exactly 0", got)
	}
}

func TestVec2IsFinite(t *testing.T) {
	tests := []struct {
		name string
		v    Vec2
		want bool
	}{
		{"zero", Vec2{}, true},
		{"normal", Vec2{X: 1e9, Y: -3}, true},
		{"NaN", Vec2{X: math.NaN()}, false},
		{"+Inf", Vec2{Y: math.Inf(1)}, false},
		{"-Inf", Vec2{X: math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsFinite(); got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewBody(t *testing.T) {
	tests := []struct {
		name    string
		mass    float64
		pos     Vec2
		wantErr error
	}{
		{"positive", 1.0, Vec2{}, nil},
		{"tiny", 1e-9, Vec2{X: 5, Y: 5}, nil},
		{"zero mass", 0, Vec2{}, ErrInvalidMass},
		{"negative mass", -2, Vec2{}, ErrInvalidMass},
		{"NaN mass", math.NaN(), Vec2{}, ErrInvalidState},
		{"Inf position", 1, Vec2{X: math.Inf(1)}, ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBody(tt.pos, tt.mass)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if b.Vel != (Vec2{}) {
					t.Errorf("new body should be at rest, got %v", b.Vel)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSimulationErrorUnwrap(t *testing.T) {
	err := &SimulationError{Frame: 12, Body: 3, Wrapped: ErrInvalidState}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
	if err.Error() != "frame 12, body 3: dynamo: invalid state (NaN or Inf detected)" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}
