package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	traceFile    = "trace.csv"
)

// ErrMalformedTrace is returned when a stored trace.csv cannot be parsed.
var ErrMalformedTrace = errors.New("storage: malformed trace")

// Store keeps one directory per recorded run under baseDir. Traces are
// outputs for plotting and export; they are never fed back into a
// simulation.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Preset      string             `json:"preset"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	Bodies      int                `json:"bodies"`
	Masses      []float64          `json:"masses"`
	G           float64            `json:"g"`
	Dt          float64            `json:"dt"`
	ForceLaw    string             `json:"force_law"`
	Policy      string             `json:"update_policy"`
	Frames      int                `json:"frames"`
	RecordEvery int                `json:"record_every"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes meta and trace into a new run directory and returns its ID.
// ID and Timestamp are filled in when empty.
func (s *Store) Save(meta RunMetadata, trace *sim.Trace) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.ID == "" {
		name := meta.Preset
		if name == "" {
			name = "run"
		}
		meta.ID = fmt.Sprintf("%s_%d", name, meta.Timestamp.UnixNano())
	}
	if meta.Metrics == nil {
		meta.Metrics = trace.Metrics
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, traceFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteTraceCSV(csvFile, trace); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// WriteTraceCSV writes one row per sample: frame, drift and every body's
// position.
func WriteTraceCSV(out io.Writer, trace *sim.Trace) error {
	w := csv.NewWriter(out)

	n := 0
	if trace.Len() > 0 {
		n = len(trace.Positions[0])
	}
	header := []string{"frame", "drift_x", "drift_y"}
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, frame := range trace.Frames {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(frame), formatFloat(trace.Drift[i].X), formatFloat(trace.Drift[i].Y))
		for _, p := range trace.Positions[i] {
			row = append(row, formatFloat(p.X), formatFloat(p.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTrace reads a stored trace back, with metrics from the run's metadata.
func (s *Store) LoadTrace(runID string) (*sim.Trace, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, traceFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	trace, err := ReadTraceCSV(file)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	trace.Metrics = meta.Metrics
	return trace, nil
}

// ReadTraceCSV parses the format written by WriteTraceCSV.
func ReadTraceCSV(in io.Reader) (*sim.Trace, error) {
	records, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: missing header", ErrMalformedTrace)
	}

	cols := len(records[0])
	if cols < 3 || (cols-3)%2 != 0 {
		return nil, fmt.Errorf("%w: %d columns", ErrMalformedTrace, cols)
	}
	n := (cols - 3) / 2

	trace := &sim.Trace{
		Frames:    make([]int, 0, len(records)-1),
		Drift:     make([]dynamo.Vec2, 0, len(records)-1),
		Positions: make([][]dynamo.Vec2, 0, len(records)-1),
	}
	for line, record := range records[1:] {
		frame, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedTrace, line+2, err)
		}
		vals := make([]float64, cols-1)
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j+1], 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedTrace, line+2, err)
			}
		}

		pos := make([]dynamo.Vec2, n)
		for k := range pos {
			pos[k] = dynamo.Vec2{X: vals[2+2*k], Y: vals[3+2*k]}
		}
		trace.Frames = append(trace.Frames, frame)
		trace.Drift = append(trace.Drift, dynamo.Vec2{X: vals[0], Y: vals[1]})
		trace.Positions = append(trace.Positions, pos)
	}
	return trace, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
