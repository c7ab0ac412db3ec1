package viewport

import (
	"errors"
	"testing"

	"github.com/san-kum/gravsim/internal/dynamo"
)

func TestProjectDefaultAnchor(t *testing.T) {
	v := New(Point{X: 700, Y: 700}, 1)

	if got := v.Project(dynamo.Vec2{}); got != (Point{X: 700, Y: 700}) {
		t.Errorf("origin projects to %v", got)
	}
	if got := v.Project(dynamo.Vec2{X: -280, Y: 10.6}); got != (Point{X: 420, Y: 711}) {
		t.Errorf("got %v, want (420, 711)", got)
	}
}

func TestRecenterRoundTrip(t *testing.T) {
	drifts := []dynamo.Vec2{
		{},
		{X: 3.3333333333, Y: 3.3333333333},
		{X: -123.456, Y: 987.654},
		{X: 0.5, Y: -0.5},
		{X: 1e6, Y: -1e6},
	}
	for _, scale := range []float64{1, 0.25, 3} {
		v := New(Point{X: 801, Y: 801}, scale)
		for _, d := range drifts {
			v.Recenter(d)
			if got := v.Project(d); got != v.Center {
				t.Errorf("scale %g drift %v: projected to %v, want %v", scale, d, got, v.Center)
			}
		}
	}
}

func TestProjectRounds(t *testing.T) {
	v := New(Point{}, 1)
	tests := []struct {
		in   dynamo.Vec2
		want Point
	}{
		{dynamo.Vec2{X: 0.4, Y: 0.6}, Point{X: 0, Y: 1}},
		{dynamo.Vec2{X: 1.5, Y: -1.5}, Point{X: 2, Y: -2}},
		{dynamo.Vec2{X: -0.4, Y: 2.49}, Point{X: 0, Y: 2}},
	}
	for _, tt := range tests {
		if got := v.Project(tt.in); got != tt.want {
			t.Errorf("Project(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTrackerLagged(t *testing.T) {
	tr := NewTracker(New(Point{X: 100, Y: 100}, 1), ModeLagged)
	bodies := []dynamo.Body{{Pos: dynamo.Vec2{X: 10, Y: 0}, Mass: 1}, {Pos: dynamo.Vec2{X: 30, Y: 0}, Mass: 1}}
	drift := dynamo.Vec2{X: 20}

	first := tr.Frame(bodies, drift)
	// first frame still uses the initial anchor
	if first.Bodies[0] != (Point{X: 110, Y: 100}) || first.Drift != (Point{X: 120, Y: 100}) {
		t.Errorf("first frame = %+v", first)
	}

	second := tr.Frame(bodies, drift)
	if second.Drift != (Point{X: 100, Y: 100}) {
		t.Errorf("second frame drift at %v, want center", second.Drift)
	}
	if second.Origin != (Point{X: 80, Y: 100}) {
		t.Errorf("origin marker at %v, want (80, 100)", second.Origin)
	}
}

func TestTrackerImmediate(t *testing.T) {
	tr := NewTracker(New(Point{X: 100, Y: 100}, 1), ModeImmediate)
	bodies := []dynamo.Body{{Pos: dynamo.Vec2{X: 10, Y: 0}, Mass: 1}, {Pos: dynamo.Vec2{X: 30, Y: 0}, Mass: 1}}

	dl := tr.Frame(bodies, dynamo.Vec2{X: 20})
	if dl.Drift != (Point{X: 100, Y: 100}) {
		t.Errorf("drift at %v, want center", dl.Drift)
	}
	if dl.Bodies[0] != (Point{X: 90, Y: 100}) || dl.Bodies[1] != (Point{X: 110, Y: 100}) {
		t.Errorf("bodies at %v", dl.Bodies)
	}
}

func TestVisible(t *testing.T) {
	if !Visible(Point{X: 0, Y: 0}, 10, 10) || !Visible(Point{X: 9, Y: 9}, 10, 10) {
		t.Error("corner points should be visible")
	}
	if Visible(Point{X: 10, Y: 0}, 10, 10) || Visible(Point{X: -1, Y: 5}, 10, 10) {
		t.Error("out of bounds points should not be visible")
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("immediate"); err != nil || m != ModeImmediate {
		t.Errorf("ParseMode(immediate) = %v, %v", m, err)
	}
	if _, err := ParseMode("sideways"); !errors.Is(err, dynamo.ErrUnknownName) {
		t.Errorf("expected ErrUnknownName, got %v", err)
	}
}

func TestViewportReset(t *testing.T) {
	v := New(Point{X: 50, Y: 60}, 2)
	v.Recenter(dynamo.Vec2{X: 10, Y: -4})
	v.Reset()
	if got := v.Project(dynamo.Vec2{}); got != (Point{X: 50, Y: 60}) {
		t.Errorf("origin after reset = %v", got)
	}
}
