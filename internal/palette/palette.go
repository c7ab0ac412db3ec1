// Package palette maps body mass to display colour so the window, the
// terminal view and exported images shade bodies the same way.
package palette

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/dynamo"
)

const (
	lightHue = 220.0 // blue
	heavyHue = 10.0  // red
)

// Range is the closed mass interval a palette spreads its hues over.
type Range struct {
	Min, Max float64
}

// RangeOf returns the mass range of bodies.
func RangeOf(bodies []dynamo.Body) Range {
	if len(bodies) == 0 {
		return Range{}
	}
	r := Range{Min: bodies[0].Mass, Max: bodies[0].Mass}
	for _, b := range bodies[1:] {
		r.Min = math.Min(r.Min, b.Mass)
		r.Max = math.Max(r.Max, b.Mass)
	}
	return r
}

// Shade returns the colour for mass. Light bodies are blue, heavy bodies red.
// A degenerate range maps everything to the middle hue.
func (r Range) Shade(mass float64) colorful.Color {
	t := 0.5
	if r.Max > r.Min {
		t = (mass - r.Min) / (r.Max - r.Min)
		t = math.Max(0, math.Min(1, t))
	}
	h := lightHue + (heavyHue-lightHue)*t
	return colorful.Hcl(h, 0.75, 0.75).Clamped()
}

// Hex is Shade formatted as #rrggbb.
func (r Range) Hex(mass float64) string {
	return r.Shade(mass).Hex()
}
