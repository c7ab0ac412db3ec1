package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/viewport"
)

const bodyRadius = 2

func toRL(c colorful.Color) rl.Color {
	r, g, b := c.RGB255()
	return rl.NewColor(r, g, b, 255)
}

// Draw renders one frame. The tracker is consulted exactly once per call,
// so lagged recentering trails the bodies by one frame.
func (a *App) Draw() {
	bodies := a.Sim.Bodies()
	dl := a.Tracker.Frame(bodies, a.Sim.Drift())

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawMarker(dl.Origin, 8, ColTextDim)
	a.drawMarker(dl.Drift, 4, ColDrift)
	for i, p := range dl.Bodies {
		if !viewport.Visible(p, a.Opts.Width, a.Opts.Height) {
			continue
		}
		rl.DrawCircle(int32(p.X), int32(p.Y), bodyRadius, toRL(a.Shades.Shade(bodies[i].Mass)))
	}

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) drawMarker(p viewport.Point, arm int32, c rl.Color) {
	x, y := int32(p.X), int32(p.Y)
	rl.DrawLine(x-arm, y, x+arm, y, c)
	rl.DrawLine(x, y-arm, x, y+arm, c)
}

func (a *App) DrawHUD() {
	rl.DrawText(a.Opts.Title, 20, 20, 20, ColSelect)

	status, col := "RUNNING", ColSelect
	switch {
	case a.Err != nil:
		status, col = "DIVERGED", ColError
	case !a.Running:
		status, col = "PAUSED", ColTextDim
	}
	w := int32(a.Opts.Width)
	rl.DrawText(status, w-120, 20, 16, col)

	pacing := fmt.Sprintf("paced %d", a.Opts.FPS)
	if !a.Paced {
		pacing = "unpaced"
	}
	lines := []string{
		fmt.Sprintf("frame  %d", a.Sim.Frame()),
		fmt.Sprintf("bodies %d", a.Sim.Len()),
		fmt.Sprintf("drift  %s", a.Sim.Drift()),
		fmt.Sprintf("fps    %d (%s)", rl.GetFPS(), pacing),
	}
	for i, l := range lines {
		rl.DrawText(l, 20, 50+int32(i)*18, 14, ColText)
	}
	if a.Err != nil {
		rl.DrawText(a.Err.Error(), 20, 50+int32(len(lines))*18, 14, ColError)
	}

	rl.DrawText("[SPACE] PAUSE  [P] PACING  [R] RESET  [ESC] QUIT", 20, int32(a.Opts.Height)-30, 14, ColAccent)
}
