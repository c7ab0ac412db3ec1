package sim

import "github.com/san-kum/gravsim/internal/dynamo"

// Recorder is an observer that samples positions and drift every Every
// frames into a Trace.
type Recorder struct {
	Every int
	trace Trace
}

func NewRecorder(every int) *Recorder {
	if every < 1 {
		every = 1
	}
	return &Recorder{Every: every}
}

// Start records the initial state as frame 0.
func (r *Recorder) Start(s *Simulation) {
	r.record(s.Frame(), s.bodies, s.Drift())
}

func (r *Recorder) OnStep(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	if frame%r.Every != 0 {
		return
	}
	r.record(frame, bodies, drift)
}

func (r *Recorder) record(frame int, bodies []dynamo.Body, drift dynamo.Vec2) {
	pos := make([]dynamo.Vec2, len(bodies))
	for i, b := range bodies {
		pos[i] = b.Pos
	}
	r.trace.Frames = append(r.trace.Frames, frame)
	r.trace.Drift = append(r.trace.Drift, drift)
	r.trace.Positions = append(r.trace.Positions, pos)
}

// Trace returns the recorded samples with the simulation's current metrics.
func (r *Recorder) Trace(s *Simulation) *Trace {
	t := r.trace
	t.Metrics = s.Metrics()
	return &t
}
