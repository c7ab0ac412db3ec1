package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
)

type ExportData struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Seed      int64              `json:"seed"`
	G         float64            `json:"g"`
	Dt        float64            `json:"dt"`
	ForceLaw  string             `json:"force_law"`
	Policy    string             `json:"update_policy"`
	Masses    []float64          `json:"masses"`
	Samples   int                `json:"samples"`
	Frames    []int              `json:"frames"`
	Drift     []dynamo.Vec2      `json:"drift"`
	Positions [][]dynamo.Vec2    `json:"positions"`
	Metrics   map[string]float64 `json:"metrics"`
}

// JSON writes a run's metadata and trace to w as one indented document.
func JSON(w io.Writer, meta *storage.RunMetadata, trace *sim.Trace) error {
	data := ExportData{
		ID:        meta.ID,
		Preset:    meta.Preset,
		Seed:      meta.Seed,
		G:         meta.G,
		Dt:        meta.Dt,
		ForceLaw:  meta.ForceLaw,
		Policy:    meta.Policy,
		Masses:    meta.Masses,
		Samples:   trace.Len(),
		Frames:    trace.Frames,
		Drift:     trace.Drift,
		Positions: trace.Positions,
		Metrics:   trace.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
