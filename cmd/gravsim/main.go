package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/config"
)

var (
	dataDir    string
	logLevel   string
	logFile    string
	configFile string
	preset     string

	seed        int64
	numBodies   int
	gravity     float64
	dt          float64
	minDistance float64
	forceLaw    string
	policy      string
	frames      int
	recordEvery int
	validate    bool

	width     int
	height    int
	scale     float64
	recenter  string
	frameRate int
	paced     bool
	theme     string

	gifPath   string
	outPath   string
	svgWidth  int
	svgHeight int
	bodyIdx   int
	benchN    []int
	benchLen  int
)

// main registers commands and flags; with no subcommand it opens the window.
// It exits with status 1 if the command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:               "gravsim",
		Short:             "2-D gravitational n-body simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runGUI,
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	addSimFlags(rootCmd)
	addDisplayFlags(rootCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)
	addDisplayFlags(guiCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	addDisplayFlags(liveCmd)
	liveCmd.Flags().StringVar(&gifPath, "gif", "gravsim.gif", "GIF recording output path")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "pick a preset and tune it in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headless and record a trace",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&recordEvery, "record-every", 1, "record every n-th frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot drift and spread of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	pathCmd := &cobra.Command{
		Use:   "path [run_id]",
		Short: "draw one body's path on a braille canvas",
		Args:  cobra.ExactArgs(1),
		RunE:  pathPlot,
	}
	pathCmd.Flags().IntVar(&bodyIdx, "body", 0, "body index")
	pathCmd.Flags().StringVarP(&outPath, "svg", "o", "", "also write the canvas as SVG to this path")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export body paths as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "", "output path (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 800, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frame throughput",
		Args:  cobra.NoArgs,
		RunE:  benchFrames,
	}
	benchCmd.Flags().IntSliceVar(&benchN, "bodies", []int{15, 90, 250, 500}, "body counts")
	benchCmd.Flags().IntVar(&benchLen, "frames", 200, "frames per measurement")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "compare update policies from the same initial bodies",
		Args:  cobra.NoArgs,
		RunE:  comparePolicies,
	}
	addSimFlags(compareCmd)

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}
	addSimFlags(configCmd)
	addDisplayFlags(configCmd)

	rootCmd.AddCommand(guiCmd, liveCmd, tuiCmd, runCmd, listCmd, plotCmd, pathCmd, exportCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, benchCmd, compareCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "gravity1", "preset configuration")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	f.IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies")
	f.Float64Var(&gravity, "g", config.DefaultG, "gravitational constant")
	f.Float64Var(&dt, "dt", config.DefaultTimestep, "timestep")
	f.Float64Var(&minDistance, "min-distance", 1e-3, "distance clamp for coincident bodies")
	f.StringVar(&forceLaw, "law", "linear", "force law (linear, inverse_square)")
	f.StringVar(&policy, "policy", "snapshot", "update policy (snapshot, sequential)")
	f.IntVar(&frames, "frames", config.DefaultFrames, "frames to run (0 runs until quit in views)")
	f.BoolVar(&validate, "validate", true, "stop on NaN or Inf state")
}

func addDisplayFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&width, "width", config.DefaultWidth, "window width")
	f.IntVar(&height, "height", config.DefaultHeight, "window height")
	f.Float64Var(&scale, "scale", 1, "pixels per simulation unit")
	f.StringVar(&recenter, "recenter", "lagged", "recenter mode (lagged, immediate)")
	f.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	f.BoolVar(&paced, "paced", true, "pace frames to the frame rate")
	f.StringVar(&theme, "theme", "minimal", "terminal theme")
}

func setupLogging(cmd *cobra.Command, args []string) error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logrus.SetOutput(f)
	}
	return nil
}

// quietTerminal keeps log lines from tearing a full-screen terminal view
// unless they were sent to a file.
func quietTerminal() {
	if logFile == "" {
		logrus.SetOutput(io.Discard)
	}
}
