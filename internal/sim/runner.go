package sim

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Runner drives a Simulation at a fixed frame rate. It is not safe for
// concurrent use; the frame callback runs on the caller's goroutine.
type Runner struct {
	sim      *Simulation
	fps      int
	paced    bool
	validate bool
	log      *logrus.Entry
}

func NewRunner(s *Simulation, fps int) *Runner {
	if fps <= 0 {
		fps = 60
	}
	return &Runner{
		sim:      s,
		fps:      fps,
		paced:    true,
		validate: true,
		log:      logrus.WithField("component", "runner"),
	}
}

// SetPaced toggles frame pacing. Unpaced runs step as fast as possible.
func (r *Runner) SetPaced(paced bool)     { r.paced = paced }
func (r *Runner) Paced() bool             { return r.paced }
func (r *Runner) SetValidate(v bool)      { r.validate = v }
func (r *Runner) Simulation() *Simulation { return r.sim }

// Run steps the simulation and hands every frame to fn until frames have
// elapsed (frames <= 0 means no limit), fn returns false, or ctx is done.
// Cancellation is only observed between frames.
func (r *Runner) Run(ctx context.Context, frames int, fn func(Frame) bool) error {
	period := time.Second / time.Duration(r.fps)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	r.log.WithFields(logrus.Fields{
		"bodies": r.sim.Len(),
		"fps":    r.fps,
		"frames": frames,
		"policy": r.sim.Policy().String(),
	}).Debug("run started")

	for i := 0; frames <= 0 || i < frames; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		start := time.Now()
		r.sim.Step()

		if r.validate {
			if err := r.sim.Validate(); err != nil {
				r.log.WithError(err).Error("simulation diverged")
				return err
			}
		}

		if fn != nil && !fn(r.sim.Snapshot()) {
			r.log.WithField("frame", r.sim.Frame()).Debug("stopped by driver")
			return nil
		}

		if !r.paced {
			continue
		}
		if elapsed := time.Since(start); elapsed > period {
			r.log.WithFields(logrus.Fields{
				"frame":   r.sim.Frame(),
				"elapsed": elapsed,
			}).Debug("frame over budget")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}

	r.log.WithField("frame", r.sim.Frame()).Debug("run finished")
	return nil
}
