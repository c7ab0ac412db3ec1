package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/sim"
)

// Sampler draws initial bodies from the ranges in a bodies config. The
// same seed always yields the same set.
type Sampler struct {
	cfg        config.BodiesConfig
	randSource *rand.Rand
}

func NewSampler(cfg config.BodiesConfig, seed int64) *Sampler {
	return &Sampler{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(seed)),
	}
}

// Bodies returns Count bodies at rest with uniform positions and masses.
func (s *Sampler) Bodies() ([]dynamo.Body, error) {
	if s.cfg.Count < 1 {
		return nil, dynamo.ErrNoBodies
	}
	bodies := make([]dynamo.Body, 0, s.cfg.Count)
	for i := 0; i < s.cfg.Count; i++ {
		pos := dynamo.Vec2{
			X: s.uniform(s.cfg.PositionMin, s.cfg.PositionMax),
			Y: s.uniform(s.cfg.PositionMin, s.cfg.PositionMax),
		}
		b, err := dynamo.NewBody(pos, s.uniform(s.cfg.MassMin, s.cfg.MassMax))
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func (s *Sampler) uniform(lo, hi float64) float64 {
	return lo + s.randSource.Float64()*(hi-lo)
}

// Experiment is one configured run: sampled bodies, a simulation and the
// recorder that samples it.
type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulation
	recorder  *sim.Recorder
	log       *logrus.Entry
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg: cfg,
		log: logrus.WithFields(logrus.Fields{"component": "experiment", "seed": cfg.Seed}),
	}
}

// Setup validates the config, samples bodies and attaches metrics.
func (e *Experiment) Setup(metrics []dynamo.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	bodies, err := NewSampler(e.cfg.Bodies, e.cfg.Seed).Bodies()
	if err != nil {
		return err
	}
	opts, err := e.cfg.Options()
	if err != nil {
		return err
	}
	s, err := sim.New(bodies, opts)
	if err != nil {
		return err
	}
	for _, m := range metrics {
		s.AddMetric(m)
	}

	e.recorder = sim.NewRecorder(e.cfg.Run.RecordEvery)
	e.recorder.Start(s)
	s.AddObserver(e.recorder)
	e.simulator = s

	e.log.WithFields(logrus.Fields{
		"bodies": len(bodies),
		"policy": opts.Policy,
		"law":    e.cfg.Physics.ForceLaw,
	}).Debug("experiment ready")
	return nil
}

// Run steps the simulation for the configured number of frames without
// pacing and returns the recorded trace.
func (e *Experiment) Run(ctx context.Context) (*sim.Trace, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	if e.cfg.Run.Frames <= 0 {
		return nil, fmt.Errorf("%w: run.frames must be positive for a batch run", dynamo.ErrParameterBounds)
	}

	r := sim.NewRunner(e.simulator, e.cfg.Display.FPS)
	r.SetPaced(false)
	r.SetValidate(e.cfg.Run.Validate)
	if err := r.Run(ctx, e.cfg.Run.Frames, nil); err != nil {
		return e.recorder.Trace(e.simulator), err
	}

	trace := e.recorder.Trace(e.simulator)
	e.log.WithField("samples", trace.Len()).Info("run complete")
	return trace, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// GetSimulator returns the underlying simulation for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulation {
	return e.simulator
}
