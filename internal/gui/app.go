package gui

import (
	"context"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/gravsim/internal/palette"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viewport"
)

// Monochrome scheme; only bodies carry colour.
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColDrift   = rl.NewColor(255, 120, 60, 255)
	ColError   = rl.NewColor(255, 60, 60, 255)
)

// Options configures the window.
type Options struct {
	Title    string
	Width    int
	Height   int
	FPS      int
	Paced    bool
	Validate bool
}

// App owns the window, the simulation it draws and the viewport tracker
// that maps simulation space to window pixels.
type App struct {
	Sim     *sim.Simulation
	Tracker *viewport.Tracker
	Opts    Options
	Running bool
	Paced   bool
	Shades  palette.Range
	Err     error

	log *logrus.Entry
}

func NewApp(s *sim.Simulation, tracker *viewport.Tracker, opts Options) *App {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Title == "" {
		opts.Title = "gravsim"
	}
	return &App{
		Sim:     s,
		Tracker: tracker,
		Opts:    opts,
		Running: true,
		Paced:   opts.Paced,
		Shades:  palette.RangeOf(s.Bodies()),
		log:     logrus.WithField("component", "gui"),
	}
}

func (a *App) initWindow() {
	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(int32(a.Opts.Width), int32(a.Opts.Height), a.Opts.Title)
	rl.SetExitKey(0)
	a.applyPacing()
	a.log.WithFields(logrus.Fields{
		"width":  a.Opts.Width,
		"height": a.Opts.Height,
		"fps":    a.Opts.FPS,
		"bodies": a.Sim.Len(),
	}).Info("window opened")
}

// applyPacing caps the loop at the configured rate, or lifts the cap.
func (a *App) applyPacing() {
	if a.Paced {
		rl.SetTargetFPS(int32(a.Opts.FPS))
	} else {
		rl.SetTargetFPS(0)
	}
}

// Run opens the window and steps, projects and draws one frame per loop
// iteration until the window is closed, Esc is pressed or ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.initWindow()
	defer rl.CloseWindow()

	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			a.log.Info("window closed by context")
			return ctx.Err()
		default:
		}
		if a.handleInput() {
			break
		}
		a.Update()
		a.Draw()
	}

	a.log.WithField("frame", a.Sim.Frame()).Info("window closed")
	return nil
}

// handleInput reports whether the user asked to quit.
func (a *App) handleInput() bool {
	if rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) && a.Err == nil {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.Paced = !a.Paced
		a.applyPacing()
		a.log.WithField("paced", a.Paced).Debug("pacing toggled")
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sim.Reset()
		a.Tracker.View.Reset()
		a.Err = nil
		a.Running = true
	}
	return false
}

// Update advances the simulation by one frame while running.
func (a *App) Update() {
	if !a.Running {
		return
	}
	a.Sim.Step()
	if !a.Opts.Validate {
		return
	}
	if err := a.Sim.Validate(); err != nil {
		a.log.WithError(err).Error("simulation diverged")
		a.Err = err
		a.Running = false
	}
}
