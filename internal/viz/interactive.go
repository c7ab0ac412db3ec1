package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viewport"
)

var presetInfo = map[string]string{
	"gravity1": "15 unit masses, offset canvas",
	"sparse":   "15 bodies, wide mass range",
	"dense":    "90 bodies, weak coupling",
	"binary":   "two heavy bodies",
	"textbook": "inverse-square law",
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

// tunable is one editable config value on the setup screen.
type tunable struct {
	name string
	get  func(c *config.Config) float64
	set  func(c *config.Config, v float64)
	step float64
}

var tunables = []tunable{
	{"bodies", func(c *config.Config) float64 { return float64(c.Bodies.Count) },
		func(c *config.Config, v float64) { c.Bodies.Count = max(1, int(v)) }, 1},
	{"g", func(c *config.Config) float64 { return c.Physics.G },
		func(c *config.Config, v float64) { c.Physics.G = max(0, v) }, 0.01},
	{"timestep", func(c *config.Config) float64 { return c.Physics.Timestep },
		func(c *config.Config, v float64) { c.Physics.Timestep = max(0.01, v) }, 0.1},
	{"mass_max", func(c *config.Config) float64 { return c.Bodies.MassMax },
		func(c *config.Config, v float64) { c.Bodies.MassMax = max(c.Bodies.MassMin, v) }, 1},
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) },
		func(c *config.Config, v float64) { c.Seed = int64(v) }, 1},
}

var (
	menuTitle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuActiveD  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuInactive = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuInactD   = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

type model struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           error
	liveModel     Model
}

// NewInteractiveApp returns a preset picker that launches the live view.
func NewInteractiveApp() tea.Model {
	return model{
		state:   stateMenu,
		presets: config.ListPresets(),
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.liveModel.Update(msg)
			m.liveModel = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	t := tunables[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if v, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				t.set(m.cfg, v)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunables)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(t.get(m.cfg), 'g', -1, 64)
	case "left", "h":
		t.set(m.cfg, t.get(m.cfg)-t.step)
	case "right", "l":
		t.set(m.cfg, t.get(m.cfg)+t.step)
	case "s":
		return m.start()
	}
	return m, nil
}

func (m model) start() (model, tea.Cmd) {
	live, err := NewModelFromConfig(m.selected, m.cfg, "")
	if err != nil {
		m.err = err
		return m, nil
	}
	m.liveModel = live
	m.state = stateSim
	return m, m.liveModel.Init()
}

// NewModelFromConfig samples bodies for cfg and wraps them in a live view.
func NewModelFromConfig(name string, cfg *config.Config, gifPath string) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	bodies, err := experiment.NewSampler(cfg.Bodies, cfg.Seed).Bodies()
	if err != nil {
		return Model{}, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return Model{}, err
	}
	s, err := sim.New(bodies, opts)
	if err != nil {
		return Model{}, err
	}
	mode, err := viewport.ParseMode(cfg.Display.Recenter)
	if err != nil {
		return Model{}, err
	}
	field, err := cfg.Field()
	if err != nil {
		return Model{}, err
	}
	return NewModel(s, field, Options{
		Name:     name,
		FPS:      cfg.Display.FPS,
		Paced:    cfg.Display.Paced,
		Validate: cfg.Run.Validate,
		Theme:    cfg.Display.Theme,
		Recenter: mode,
		GIFPath:  gifPath,
	}), nil
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuInactive.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("GRAVSIM") + "\n    " + menuSub.Render("2-D n-body simulator") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-12s", name)), menuActiveD.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", menuInactive.Render(fmt.Sprintf("  %-12s", name)), menuInactD.Render(desc))
		}
	}
	b.WriteString("\n    " + keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSub.Render(presetInfo[m.selected]) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, t := range tunables {
		valStr := fmt.Sprintf("%10.4g", t.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", t.name)), menuActiveD.Bold(true).Render(valStr))
		} else {
			fmt.Fprintf(&b, "    %s %s\n", menuInactive.Render(fmt.Sprintf("  %-10s", t.name)), menuInactD.Render(valStr))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444")).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + keyHints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return b.String()
}

// RunInteractive opens the preset picker in the alternate screen.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
