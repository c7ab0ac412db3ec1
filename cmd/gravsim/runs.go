package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tBODIES\tFRAMES\tG\tDT\tLAW\tPOLICY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%g\t%s\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Frames,
			run.G,
			run.Dt,
			run.ForceLaw,
			run.Policy,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if trace.Len() < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s, %d bodies\n", meta.Preset, meta.Bodies)
	fmt.Printf("samples: %d\n\n", trace.Len())

	driftX := make([]float64, trace.Len())
	driftY := make([]float64, trace.Len())
	spread := make([]float64, trace.Len())
	for i := range trace.Frames {
		driftX[i], driftY[i] = trace.Drift[i].X, trace.Drift[i].Y
		bodies := make([]dynamo.Body, len(trace.Positions[i]))
		for k, p := range trace.Positions[i] {
			bodies[k].Pos = p
		}
		spread[i] = metrics.RMSRadius(bodies, trace.Drift[i])
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{driftX, "drift x"},
		{driftY, "drift y"},
		{spread, "spread (rms radius about drift)"},
	}
	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// pathPlot draws one body's recorded positions on a braille canvas, y down.
func pathPlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if trace.Len() == 0 {
		return fmt.Errorf("no data to plot")
	}
	if bodyIdx < 0 || bodyIdx >= len(trace.Positions[0]) {
		return fmt.Errorf("body %d out of range (run has %d bodies)", bodyIdx, len(trace.Positions[0]))
	}

	xMin, yMin := math.Inf(1), math.Inf(1)
	xMax, yMax := math.Inf(-1), math.Inf(-1)
	for _, frame := range trace.Positions {
		p := frame[bodyIdx]
		xMin, xMax = math.Min(xMin, p.X), math.Max(xMax, p.X)
		yMin, yMax = math.Min(yMin, p.Y), math.Max(yMax, p.Y)
	}
	xRange, yRange := xMax-xMin, yMax-yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	canvas := viz.NewCanvas(70, 20)
	cw, ch := canvas.Bounds()
	toCanvas := func(p dynamo.Vec2) (int, int) {
		return int(float64(cw-1) * (p.X - xMin) / xRange), int(float64(ch-1) * (p.Y - yMin) / yRange)
	}
	px, py := toCanvas(trace.Positions[0][bodyIdx])
	for _, frame := range trace.Positions[1:] {
		x, y := toCanvas(frame[bodyIdx])
		canvas.DrawLine(px, py, x, y)
		px, py = x, y
	}

	fmt.Printf("body %d path: %s\n", bodyIdx, runID)
	fmt.Printf("x: %.2f .. %.2f   y: %.2f .. %.2f\n\n", xMin, xMax, yMin, yMax)
	fmt.Print(canvas.String())

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(export.CanvasToSVG(canvas, 4)), 0644); err != nil {
			return err
		}
		fmt.Printf("\nwrote %s\n", outPath)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	trace, err := st.LoadTrace(args[0])
	if err != nil {
		return err
	}
	if trace.Len() == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteTraceCSV(os.Stdout, trace)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	return export.JSON(os.Stdout, meta, trace)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	trace, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	svg := export.TraceToSVG(trace, meta.Masses, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("no data to export")
	}
	if outPath == "" {
		fmt.Println(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}
