package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viewport"
)

// Registry names the interchangeable pieces a run can be built from.
type Registry struct {
	laws     map[string]physics.ForceLaw
	policies map[string]sim.Policy
	modes    map[string]viewport.Mode
	metrics  map[string]func(field metrics.EnergyFunc) dynamo.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		laws:     make(map[string]physics.ForceLaw),
		policies: make(map[string]sim.Policy),
		modes:    make(map[string]viewport.Mode),
		metrics:  make(map[string]func(metrics.EnergyFunc) dynamo.Metric),
	}

	for _, l := range []physics.ForceLaw{physics.LawLinear, physics.LawInverseSquare} {
		r.laws[l.String()] = l
	}
	for _, p := range []sim.Policy{sim.PolicySnapshot, sim.PolicySequential} {
		r.policies[p.String()] = p
	}
	for _, m := range []viewport.Mode{viewport.ModeLagged, viewport.ModeImmediate} {
		r.modes[m.String()] = m
	}

	r.metrics["energy"] = func(f metrics.EnergyFunc) dynamo.Metric { return metrics.NewEnergy(f) }
	r.metrics["energy_drift"] = func(f metrics.EnergyFunc) dynamo.Metric { return metrics.NewEnergyDrift(f) }
	r.metrics["momentum_drift"] = func(metrics.EnergyFunc) dynamo.Metric { return metrics.NewMomentumDrift() }
	r.metrics["spread"] = func(metrics.EnergyFunc) dynamo.Metric { return metrics.NewSpread() }
	r.metrics["drift_speed"] = func(metrics.EnergyFunc) dynamo.Metric { return metrics.NewDriftSpeed() }

	return r
}

func (r *Registry) GetForceLaw(name string) (physics.ForceLaw, error) {
	l, ok := r.laws[name]
	if !ok {
		return 0, fmt.Errorf("%w: force law %q", dynamo.ErrUnknownName, name)
	}
	return l, nil
}

func (r *Registry) GetPolicy(name string) (sim.Policy, error) {
	p, ok := r.policies[name]
	if !ok {
		return 0, fmt.Errorf("%w: update policy %q", dynamo.ErrUnknownName, name)
	}
	return p, nil
}

func (r *Registry) GetRecenterMode(name string) (viewport.Mode, error) {
	m, ok := r.modes[name]
	if !ok {
		return 0, fmt.Errorf("%w: recenter mode %q", dynamo.ErrUnknownName, name)
	}
	return m, nil
}

func (r *Registry) GetMetric(name string, field metrics.EnergyFunc) (dynamo.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("%w: metric %q", dynamo.ErrUnknownName, name)
	}
	return fn(field), nil
}

func (r *Registry) ListForceLaws() []string     { return sortedKeys(r.laws) }
func (r *Registry) ListPolicies() []string      { return sortedKeys(r.policies) }
func (r *Registry) ListRecenterModes() []string { return sortedKeys(r.modes) }
func (r *Registry) ListMetrics() []string       { return sortedKeys(r.metrics) }

// DefaultMetrics is the set every recorded run carries. stabilityRadius is
// the distance from the drift point a body may reach before the frame
// counts as unstable.
func (r *Registry) DefaultMetrics(field metrics.EnergyFunc, stabilityRadius float64) []dynamo.Metric {
	ms := make([]dynamo.Metric, 0, len(r.metrics)+1)
	for _, name := range r.ListMetrics() {
		ms = append(ms, r.metrics[name](field))
	}
	return append(ms, metrics.NewStability(stabilityRadius))
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
