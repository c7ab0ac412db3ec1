package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viewport"
)

const (
	canvasWidth     = 60
	canvasHeight    = 24
	historyCapacity = 300
	unpacedInterval = time.Millisecond
)

type TickMsg time.Time

// Options configures a terminal view.
type Options struct {
	Name     string
	FPS      int
	Paced    bool
	Validate bool
	Theme    string
	Recenter viewport.Mode
	GIFPath  string
}

// Model steps a simulation once per tick and draws it on a braille canvas.
type Model struct {
	sim      *sim.Simulation
	energy   metrics.EnergyFunc
	tracker  *viewport.Tracker
	canvas   *Canvas
	name     string
	fps      int
	paced    bool
	validate bool
	running  bool
	theme    Theme
	st       styles

	spreadHistory []float64
	energyHistory []float64
	driftHistory  []float64
	lastDrift     dynamo.Vec2

	recording bool
	frames    []*image.Paletted
	gifPath   string
	showHelp  bool
	err       error
	log       *logrus.Entry
}

// NewModel builds a view of s. The terminal viewport is scaled so the
// initial bodies fill roughly the middle of the canvas.
func NewModel(s *sim.Simulation, energy metrics.EnergyFunc, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "gravsim.gif"
	}
	canvas := NewCanvas(canvasWidth, canvasHeight)
	cw, ch := canvas.Bounds()

	bodies := s.Bodies()
	radius := 0.0
	for _, b := range bodies {
		radius = math.Max(radius, b.Pos.Sub(s.Drift()).Len())
	}
	scale := 1.0
	if radius > 0 {
		scale = 0.4 * float64(min(cw, ch)) / radius
	}

	theme := GetTheme(opts.Theme)
	m := Model{
		sim:           s,
		energy:        energy,
		tracker:       viewport.NewTracker(viewport.New(viewport.Point{X: cw / 2, Y: ch / 2}, scale), opts.Recenter),
		canvas:        canvas,
		name:          opts.Name,
		fps:           opts.FPS,
		paced:         opts.Paced,
		validate:      opts.Validate,
		running:       true,
		theme:         theme,
		st:            newStyles(theme),
		spreadHistory: make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		driftHistory:  make([]float64, 0, historyCapacity),
		lastDrift:     s.Drift(),
		gifPath:       opts.GIFPath,
		log:           logrus.WithField("component", "viz"),
	}
	m.draw()
	return m
}

func (m Model) tick() tea.Cmd {
	interval := unpacedInterval
	if m.paced {
		interval = time.Second / time.Duration(m.fps)
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "p":
			m.paced = !m.paced
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme)
			m.st = newStyles(m.theme)
		case "+", "=":
			m.zoom(1.25)
		case "-", "_":
			m.zoom(0.8)
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
			m.draw()
			if m.recording {
				m.captureFrame()
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the simulation one frame and samples the panel histories.
func (m *Model) step() {
	m.sim.Step()
	if m.validate {
		if err := m.sim.Validate(); err != nil {
			m.log.WithError(err).Error("simulation diverged")
			m.err = err
			m.running = false
			return
		}
	}

	bodies := m.sim.Bodies()
	drift := m.sim.Drift()
	m.spreadHistory = pushHistory(m.spreadHistory, metrics.RMSRadius(bodies, drift))
	if m.energy != nil {
		m.energyHistory = pushHistory(m.energyHistory, m.energy.Energy(bodies))
	}
	m.driftHistory = pushHistory(m.driftHistory, drift.Sub(m.lastDrift).Len())
	m.lastDrift = drift
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// reset restores the initial bodies and the viewport.
func (m *Model) reset() {
	m.sim.Reset()
	m.tracker.View.Reset()
	m.spreadHistory = m.spreadHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	m.driftHistory = m.driftHistory[:0]
	m.lastDrift = m.sim.Drift()
	m.err = nil
	m.running = true
	m.draw()
}

func (m *Model) zoom(factor float64) {
	m.tracker.View.Scale *= factor
	m.tracker.View.Recenter(m.sim.Drift())
	m.draw()
}

// draw projects the current frame through the tracker. It runs once per
// step so lagged recentering advances exactly one frame at a time.
func (m *Model) draw() {
	m.canvas.Clear()
	dl := m.tracker.Frame(m.sim.Bodies(), m.sim.Drift())

	m.canvas.Cross(dl.Origin.X, dl.Origin.Y, 3)
	m.canvas.Cross(dl.Drift.X, dl.Drift.Y, 1)
	for _, p := range dl.Bodies {
		m.canvas.Block(p.X, p.Y, 2)
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	canvasView := m.st.canvas.Render(m.canvas.String())

	var s strings.Builder
	title := m.name
	if title == "" {
		title = "gravsim"
	}
	s.WriteString(m.st.header.Render(strings.ToUpper(title)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(m.st.recording.Render("DIVERGED") + "\n")
	case !m.running:
		s.WriteString(m.st.paused.Render("PAUSED") + "\n")
	default:
		s.WriteString(m.st.running.Render("RUNNING") + "\n")
	}
	if m.recording {
		s.WriteString(m.st.recording.Render(fmt.Sprintf("REC %d frames", len(m.frames))) + "\n")
	}
	s.WriteString("\n")

	if len(m.spreadHistory) > 1 {
		chart := asciigraph.Plot(m.spreadHistory, asciigraph.Height(4), asciigraph.Width(28), asciigraph.Caption("Spread"))
		s.WriteString(m.st.graph.Render(chart) + "\n")
	}

	drift := m.sim.Drift()
	pacing := "paced"
	if !m.paced {
		pacing = "unpaced"
	}
	rows := [][2]string{
		{"Frame", fmt.Sprintf("%d", m.sim.Frame())},
		{"Bodies", fmt.Sprintf("%d", m.sim.Len())},
		{"Drift", drift.String()},
		{"Policy", m.sim.Policy().String()},
		{"Recenter", m.tracker.Mode.String()},
		{"Pacing", fmt.Sprintf("%s @ %d fps", pacing, m.fps)},
		{"Zoom", fmt.Sprintf("%.3g", m.tracker.View.Scale)},
	}
	if n := len(m.energyHistory); n > 0 {
		rows = append(rows, [2]string{"Energy", fmt.Sprintf("%.4g", m.energyHistory[n-1])})
	}
	for _, r := range rows {
		s.WriteString(m.st.label.Render(r[0]) + m.st.value.Render(r[1]) + "\n")
	}
	s.WriteString(m.st.label.Render("Drift v") + SparklineChart(m.driftHistory, 24) + "\n")
	if m.err != nil {
		s.WriteString("\n" + m.st.recording.Render(m.err.Error()) + "\n")
	}

	s.WriteString(m.st.help.Render("SP:Pause R:Reset Q:Quit\nP:Pacing T:Theme G:Record\n+/-:Zoom ?:Help"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  P        - Toggle frame pacing      ║
║  R        - Reset simulation         ║
║  Q / Esc  - Quit                     ║
║  + / -    - Zoom in / out            ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// captureFrame rasterises the canvas into a two-colour GIF frame.
func (m *Model) captureFrame() {
	const charW, charH = 8, 16
	dotW, dotH := charW/2, charH/4
	img := image.NewPaletted(image.Rect(0, 0, m.canvas.Width*charW, m.canvas.Height*charH), color.Palette{color.Black, color.White})

	w, h := m.canvas.Bounds()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !m.canvas.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}

	log := m.log.WithFields(logrus.Fields{"path": m.gifPath, "frames": len(m.frames)})
	f, err := os.Create(m.gifPath)
	if err != nil {
		log.WithError(err).Error("cannot save recording")
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		log.WithError(err).Error("cannot encode recording")
		return
	}
	log.Info("recording saved")
}

// Run shows the view in the alternate screen until the user quits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
