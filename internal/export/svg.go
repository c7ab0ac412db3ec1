package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/palette"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#ffffff">
`, width, height, width, height)

	dotRadius := scale * 0.4
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !canvas.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					cx := float64(col*2+dx)*scale + scale/2
					cy := float64(row*4+dy)*scale + scale/2
					fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceToSVG draws every body's path through a recorded trace, shaded by
// mass, with the drift point's path as a dashed line. World y grows down,
// as on screen.
func TraceToSVG(trace *sim.Trace, masses []float64, width, height int) string {
	if trace == nil || trace.Len() == 0 {
		return ""
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, frame := range trace.Positions {
		for _, p := range frame {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	toScreen := func(p dynamo.Vec2) (float64, float64) {
		return (p.X - minX) / rangeX * float64(width), (p.Y - minY) / rangeY * float64(height)
	}

	bodies := make([]dynamo.Body, len(masses))
	for i, m := range masses {
		bodies[i].Mass = m
	}
	shades := palette.RangeOf(bodies)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	n := len(trace.Positions[0])
	for k := 0; k < n; k++ {
		color := "#ffffff"
		if k < len(masses) {
			color = shades.Hex(masses[k])
		}
		path := make([]dynamo.Vec2, len(trace.Positions))
		for i := range trace.Positions {
			path[i] = trace.Positions[i][k]
		}
		writePath(&sb, path, toScreen, fmt.Sprintf(`stroke="%s" stroke-width="1.5"`, color))

		x, y := toScreen(path[len(path)-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n", x, y, color)
	}
	writePath(&sb, trace.Drift, toScreen, `stroke="#888888" stroke-width="1" stroke-dasharray="4 3"`)

	sb.WriteString("</svg>")
	return sb.String()
}

func writePath(sb *strings.Builder, pts []dynamo.Vec2, toScreen func(dynamo.Vec2) (float64, float64), attrs string) {
	sb.WriteString(`<path fill="none" ` + attrs + ` d="`)
	for i, p := range pts {
		x, y := toScreen(p)
		if i == 0 {
			fmt.Fprintf(sb, "M%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}
