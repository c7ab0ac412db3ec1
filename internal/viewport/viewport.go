package viewport

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Point is an integer display coordinate.
type Point struct {
	X, Y int
}

// Viewport maps simulation space to display space:
// screen = round(Anchor + pos*Scale).
type Viewport struct {
	Center Point
	Anchor dynamo.Vec2
	Scale  float64
}

// New returns a viewport anchored so the simulation origin sits at center.
func New(center Point, scale float64) *Viewport {
	if scale == 0 {
		scale = 1
	}
	return &Viewport{
		Center: center,
		Anchor: dynamo.Vec2{X: float64(center.X), Y: float64(center.Y)},
		Scale:  scale,
	}
}

// Reset puts the simulation origin back on Center.
func (v *Viewport) Reset() {
	v.Anchor = dynamo.Vec2{X: float64(v.Center.X), Y: float64(v.Center.Y)}
}

// Recenter moves the anchor so drift projects onto Center.
func (v *Viewport) Recenter(drift dynamo.Vec2) {
	c := dynamo.Vec2{X: float64(v.Center.X), Y: float64(v.Center.Y)}
	v.Anchor = c.Sub(drift.Scale(v.Scale))
}

func (v *Viewport) Project(pos dynamo.Vec2) Point {
	p := v.Anchor.Add(pos.Scale(v.Scale))
	return Point{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// Visible reports whether p lies inside a w×h display.
func Visible(p Point, w, h int) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h
}

// Mode orders recentering against drawing within a frame.
type Mode int

const (
	// ModeLagged projects the frame first and recenters afterwards, so the
	// drift of frame k anchors frame k+1.
	ModeLagged Mode = iota
	// ModeImmediate recenters on the current drift before projecting.
	ModeImmediate
)

func (m Mode) String() string {
	switch m {
	case ModeLagged:
		return "lagged"
	case ModeImmediate:
		return "immediate"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(name) {
	case "", "lagged":
		return ModeLagged, nil
	case "immediate":
		return ModeImmediate, nil
	}
	return 0, fmt.Errorf("%w: recenter mode %q", dynamo.ErrUnknownName, name)
}

// DrawList is everything a renderer needs for one frame.
type DrawList struct {
	Bodies []Point
	Origin Point
	Drift  Point
}

// Tracker applies a Mode to a Viewport frame after frame.
type Tracker struct {
	View *Viewport
	Mode Mode
}

func NewTracker(v *Viewport, mode Mode) *Tracker {
	return &Tracker{View: v, Mode: mode}
}

// Frame projects bodies plus the origin and drift markers.
func (t *Tracker) Frame(bodies []dynamo.Body, drift dynamo.Vec2) DrawList {
	if t.Mode == ModeImmediate {
		t.View.Recenter(drift)
	}

	dl := DrawList{
		Bodies: make([]Point, len(bodies)),
		Origin: t.View.Project(dynamo.Vec2{}),
		Drift:  t.View.Project(drift),
	}
	for i, b := range bodies {
		dl.Bodies[i] = t.View.Project(b.Pos)
	}

	if t.Mode == ModeLagged {
		t.View.Recenter(drift)
	}
	return dl
}
