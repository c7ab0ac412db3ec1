package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// resolveConfig builds the effective configuration: the preset, replaced by
// the config file when one is given, then any flag the user set explicitly.
// It returns the config and the name to record the run under.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	name := preset
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		cfg, name = loaded, "custom"
	}

	flags := cmd.Flags()
	changed := func(n string) bool { return flags.Lookup(n) != nil && flags.Changed(n) }
	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("bodies") {
		cfg.Bodies.Count = numBodies
	}
	if changed("g") {
		cfg.Physics.G = gravity
	}
	if changed("dt") {
		cfg.Physics.Timestep = dt
	}
	if changed("min-distance") {
		cfg.Physics.MinDistance = minDistance
	}
	if changed("law") {
		cfg.Physics.ForceLaw = forceLaw
	}
	if changed("policy") {
		cfg.Physics.UpdatePolicy = policy
	}
	if changed("frames") {
		cfg.Run.Frames = frames
	}
	if changed("record-every") {
		cfg.Run.RecordEvery = recordEvery
	}
	if changed("validate") {
		cfg.Run.Validate = validate
	}
	if changed("width") {
		cfg.Display.Width = width
	}
	if changed("height") {
		cfg.Display.Height = height
	}
	if changed("scale") {
		cfg.Display.Scale = scale
	}
	if changed("recenter") {
		cfg.Display.Recenter = recenter
	}
	if changed("fps") {
		cfg.Display.FPS = frameRate
	}
	if changed("paced") {
		cfg.Display.Paced = paced
	}
	if changed("theme") {
		cfg.Display.Theme = theme
	}

	cfg.ResolveSeed()
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

// newSimulation samples the configured bodies and builds the simulation.
func newSimulation(cfg *config.Config) (*sim.Simulation, error) {
	bodies, err := experiment.NewSampler(cfg.Bodies, cfg.Seed).Bodies()
	if err != nil {
		return nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return sim.New(bodies, opts)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := newSimulation(cfg)
	if err != nil {
		return err
	}
	tracker, err := cfg.Tracker()
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"preset": name, "seed": cfg.Seed}).Info("starting window")

	ctx, cancel := signalContext()
	defer cancel()

	app := gui.NewApp(s, tracker, gui.Options{
		Title:    "gravsim :: " + name,
		Width:    cfg.Display.Width,
		Height:   cfg.Display.Height,
		FPS:      cfg.Display.FPS,
		Paced:    cfg.Display.Paced,
		Validate: cfg.Run.Validate,
	})
	return app.Run(ctx)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := viz.NewModelFromConfig(name, cfg, gifPath)
	if err != nil {
		return err
	}
	quietTerminal()
	return viz.Run(m)
}

func runTUI(cmd *cobra.Command, args []string) error {
	quietTerminal()
	return viz.RunInteractive()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	field, err := cfg.Field()
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry.DefaultMetrics(field, stabilityRadius(cfg))); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s: %d bodies, %d frames, seed %d\n", name, cfg.Bodies.Count, cfg.Run.Frames, cfg.Seed)
	start := time.Now()
	trace, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(metadataFor(name, cfg, exp.GetSimulator(), trace), trace)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", trace.Len())
	fmt.Println("\n" + titleStyle.Render("metrics"))
	printMetrics(trace.Metrics)
	return nil
}

// stabilityRadius is how far a body may stray from the drift point before
// a frame counts as unstable: ten times the initial sampling box.
func stabilityRadius(cfg *config.Config) float64 {
	return 10 * (cfg.Bodies.PositionMax - cfg.Bodies.PositionMin)
}

func metadataFor(name string, cfg *config.Config, s *sim.Simulation, trace *sim.Trace) storage.RunMetadata {
	bodies := s.Bodies()
	masses := make([]float64, len(bodies))
	for i, b := range bodies {
		masses[i] = b.Mass
	}
	return storage.RunMetadata{
		Preset:      name,
		Seed:        cfg.Seed,
		Bodies:      len(bodies),
		Masses:      masses,
		G:           cfg.Physics.G,
		Dt:          cfg.Physics.Timestep,
		ForceLaw:    cfg.Physics.ForceLaw,
		Policy:      s.Policy().String(),
		Frames:      s.Frame(),
		RecordEvery: cfg.Run.RecordEvery,
		Metrics:     trace.Metrics,
	}
}

func printMetrics(metrics map[string]float64) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedNames(metrics) {
		fmt.Fprintf(w, "  %s\t%.6g\n", name, metrics[name])
	}
	w.Flush()
}

func comparePolicies(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	bodies, err := experiment.NewSampler(cfg.Bodies, cfg.Seed).Bodies()
	if err != nil {
		return err
	}
	field, err := cfg.Field()
	if err != nil {
		return err
	}

	fmt.Printf("comparing update policies for %s (%d bodies, %d frames, seed %d)\n\n", name, len(bodies), cfg.Run.Frames, cfg.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POLICY\tFINAL DRIFT\tMOMENTUM DRIFT\tENERGY DRIFT\tTIME")

	registry := experiment.NewRegistry()
	for _, pname := range registry.ListPolicies() {
		p, err := registry.GetPolicy(pname)
		if err != nil {
			return err
		}
		opts, err := cfg.Options()
		if err != nil {
			return err
		}
		opts.Policy = p

		s, err := sim.New(bodies, opts)
		if err != nil {
			return err
		}
		momentum, _ := registry.GetMetric("momentum_drift", field)
		energy, _ := registry.GetMetric("energy_drift", field)
		s.AddMetric(momentum)
		s.AddMetric(energy)

		start := time.Now()
		for i := 0; i < cfg.Run.Frames; i++ {
			s.Step()
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%s\t%s\t%.3e\t%.3e\t%v\n", pname, s.Drift(), momentum.Value(), energy.Value(), elapsed)
	}
	return w.Flush()
}

func benchFrames(cmd *cobra.Command, args []string) error {
	fmt.Printf("benchmarking %d frames per run\n\n", benchLen)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tPOLICY\tTIME\tFRAMES/SEC\tPAIRS/SEC")

	for _, n := range benchN {
		cfg := config.DefaultConfig()
		cfg.Seed = 42
		cfg.Bodies.Count = n
		if err := cfg.Validate(); err != nil {
			return err
		}
		for _, p := range []sim.Policy{sim.PolicySnapshot, sim.PolicySequential} {
			cfg.Physics.UpdatePolicy = p.String()
			s, err := newSimulation(cfg)
			if err != nil {
				return err
			}

			start := time.Now()
			for i := 0; i < benchLen; i++ {
				s.Step()
			}
			elapsed := time.Since(start)

			fps := float64(benchLen) / elapsed.Seconds()
			pairs := fps * float64(n*(n-1))
			fmt.Fprintf(w, "%d\t%s\t%v\t%.0f\t%.3g\n", n, p, elapsed, fps, pairs)
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tBODIES\tG\tMASS\tLAW\tRECENTER")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%d\t%g\t%g-%g\t%s\t%s\n",
			name,
			cfg.Bodies.Count,
			cfg.Physics.G,
			cfg.Bodies.MassMin, cfg.Bodies.MassMax,
			cfg.Physics.ForceLaw,
			cfg.Display.Recenter,
		)
	}
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return yaml.NewEncoder(os.Stdout).Encode(cfg)
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Println(dimStyle.Render("wrote " + args[0]))
	return nil
}

