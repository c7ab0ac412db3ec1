package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/viewport"
)

const (
	DefaultBodies      = 15
	DefaultPositionMin = -280.0
	DefaultPositionMax = 280.0
	DefaultMassMin     = 0.1
	DefaultMassMax     = 100.0
	DefaultG           = 0.2
	DefaultTimestep    = 1.0
	DefaultWidth       = 1401
	DefaultHeight      = 1401
	DefaultFPS         = 60
	DefaultFrames      = 600
)

type Config struct {
	Seed    int64         `yaml:"seed"`
	Bodies  BodiesConfig  `yaml:"bodies"`
	Physics PhysicsConfig `yaml:"physics"`
	Display DisplayConfig `yaml:"display"`
	Run     RunConfig     `yaml:"run"`
}

type BodiesConfig struct {
	Count       int     `yaml:"count"`
	PositionMin float64 `yaml:"position_min"`
	PositionMax float64 `yaml:"position_max"`
	MassMin     float64 `yaml:"mass_min"`
	MassMax     float64 `yaml:"mass_max"`
}

type PhysicsConfig struct {
	G            float64 `yaml:"g"`
	Timestep     float64 `yaml:"timestep"`
	MinDistance  float64 `yaml:"min_distance"`
	ForceLaw     string  `yaml:"force_law"`
	UpdatePolicy string  `yaml:"update_policy"`
}

type DisplayConfig struct {
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	CenterX  int     `yaml:"center_x"`
	CenterY  int     `yaml:"center_y"`
	Scale    float64 `yaml:"scale"`
	Recenter string  `yaml:"recenter"`
	FPS      int     `yaml:"fps"`
	Paced    bool    `yaml:"paced"`
	Theme    string  `yaml:"theme"`
}

type RunConfig struct {
	Frames      int  `yaml:"frames"`
	RecordEvery int  `yaml:"record_every"`
	Validate    bool `yaml:"validate"`
}

func DefaultConfig() *Config {
	return &Config{
		Bodies: BodiesConfig{
			Count:       DefaultBodies,
			PositionMin: DefaultPositionMin,
			PositionMax: DefaultPositionMax,
			MassMin:     DefaultMassMin,
			MassMax:     DefaultMassMax,
		},
		Physics: PhysicsConfig{
			G:            DefaultG,
			Timestep:     DefaultTimestep,
			MinDistance:  physics.DefaultMinDistance,
			ForceLaw:     physics.LawLinear.String(),
			UpdatePolicy: sim.PolicySnapshot.String(),
		},
		Display: DisplayConfig{
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			Scale:    1.0,
			Recenter: viewport.ModeLagged.String(),
			FPS:      DefaultFPS,
			Paced:    true,
			Theme:    "minimal",
		},
		Run: RunConfig{
			Frames:      DefaultFrames,
			RecordEvery: 1,
			Validate:    true,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ResolveSeed replaces a zero seed with a time-based one and returns the
// seed in effect, so the run can be reproduced from its metadata.
func (c *Config) ResolveSeed() int64 {
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c.Seed
}

// Center is the configured display center, defaulting to the middle of the
// window.
func (c *Config) Center() viewport.Point {
	p := viewport.Point{X: c.Display.CenterX, Y: c.Display.CenterY}
	if p.X == 0 && p.Y == 0 {
		p = viewport.Point{X: c.Display.Width / 2, Y: c.Display.Height / 2}
	}
	return p
}

// Validate checks every tunable. Errors wrap dynamo.ErrParameterBounds or
// dynamo.ErrUnknownName.
func (c *Config) Validate() error {
	b, p, d := c.Bodies, c.Physics, c.Display

	checks := []struct {
		ok    bool
		field string
		value interface{}
	}{
		{b.Count >= 1, "bodies.count", b.Count},
		{finite(b.PositionMin) && finite(b.PositionMax) && b.PositionMin <= b.PositionMax, "bodies.position_min/max", [2]float64{b.PositionMin, b.PositionMax}},
		{b.MassMin > 0, "bodies.mass_min", b.MassMin},
		{finite(b.MassMax) && b.MassMin <= b.MassMax, "bodies.mass_max", b.MassMax},
		{finite(p.G) && p.G >= 0, "physics.g", p.G},
		{finite(p.Timestep) && p.Timestep > 0, "physics.timestep", p.Timestep},
		{finite(p.MinDistance) && p.MinDistance > 0, "physics.min_distance", p.MinDistance},
		{d.Width > 0 && d.Height > 0, "display.width/height", [2]int{d.Width, d.Height}},
		{finite(d.Scale) && d.Scale > 0, "display.scale", d.Scale},
		{d.FPS > 0, "display.fps", d.FPS},
		{c.Run.RecordEvery >= 1, "run.record_every", c.Run.RecordEvery},
	}
	for _, chk := range checks {
		if !chk.ok {
			return fmt.Errorf("%w: %s = %v", dynamo.ErrParameterBounds, chk.field, chk.value)
		}
	}

	if _, err := physics.ParseForceLaw(p.ForceLaw); err != nil {
		return err
	}
	if _, err := sim.ParsePolicy(p.UpdatePolicy); err != nil {
		return err
	}
	if _, err := viewport.ParseMode(d.Recenter); err != nil {
		return err
	}
	return nil
}

// Field builds the force field described by the physics section.
func (c *Config) Field() (*physics.ForceField, error) {
	law, err := physics.ParseForceLaw(c.Physics.ForceLaw)
	if err != nil {
		return nil, err
	}
	f := physics.NewForceField(c.Physics.G)
	f.MinDistance = c.Physics.MinDistance
	f.Law = law
	return f, nil
}

// Options builds simulation options from the physics section.
func (c *Config) Options() (sim.Options, error) {
	field, err := c.Field()
	if err != nil {
		return sim.Options{}, err
	}
	policy, err := sim.ParsePolicy(c.Physics.UpdatePolicy)
	if err != nil {
		return sim.Options{}, err
	}
	opts := sim.DefaultOptions(c.Physics.G)
	opts.Field = field
	opts.Policy = policy
	opts.Dt = c.Physics.Timestep
	return opts, nil
}

// Tracker builds the viewport tracker for the display section.
func (c *Config) Tracker() (*viewport.Tracker, error) {
	mode, err := viewport.ParseMode(c.Display.Recenter)
	if err != nil {
		return nil, err
	}
	return viewport.NewTracker(viewport.New(c.Center(), c.Display.Scale), mode), nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
