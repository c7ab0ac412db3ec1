package config

import "sort"

// Presets holds the named configurations. Each is a full config so it can
// be saved and edited as a starting point.
var Presets = map[string]func() *Config{
	// the classic demo: unit masses, offset canvas
	"gravity1": func() *Config {
		c := DefaultConfig()
		c.Bodies.MassMin, c.Bodies.MassMax = 1, 1
		c.Display.CenterX, c.Display.CenterY = 801, 801
		return c
	},
	"sparse": func() *Config {
		return DefaultConfig()
	},
	"dense": func() *Config {
		c := DefaultConfig()
		c.Bodies.Count = 90
		c.Physics.G = 0.003
		return c
	},
	"binary": func() *Config {
		c := DefaultConfig()
		c.Bodies.Count = 2
		c.Bodies.PositionMin, c.Bodies.PositionMax = -100, 100
		c.Bodies.MassMin, c.Bodies.MassMax = 20, 40
		return c
	},
	"textbook": func() *Config {
		c := DefaultConfig()
		c.Physics.ForceLaw = "inverse_square"
		c.Physics.G = 20
		c.Display.Recenter = "immediate"
		return c
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
