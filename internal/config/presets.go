package config

import (
	"sort"

	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/initial"
)

func preset(mode friction.Mode, time, dt float64, f FrictionConfig, init initial.Conditions) *Config {
	return &Config{
		Element: fem.DefaultElement(),
		Simulation: SimulationConfig{
			Time: time, Dt: dt, Mode: int(mode), Mass: fem.Lumped,
		},
		Friction: f,
		Initial:  init,
	}
}

// Presets are keyed by family (free, driven, viscous) and name.
var Presets = map[string]map[string]*Config{
	"free": {
		"zero": preset(friction.DryFree, 0.001, 1e-6,
			FrictionConfig{}, initial.Conditions{}),
		"released": preset(friction.DryFree, 0.001, 1e-6,
			FrictionConfig{Rest: 0.01, Sliding: 0.005},
			initial.Conditions{FromStatic: true, StaticForce: 1000}),
		"sticky": preset(friction.DryFree, 0.001, 1e-6,
			FrictionConfig{Rest: 0.6, Sliding: 0.4},
			initial.Conditions{FromStatic: true, StaticForce: 1000}),
	},
	"driven": {
		"gentle": preset(friction.DryDriven, 0.01, 1e-6,
			FrictionConfig{Rest: 0.3, Sliding: 0.2}, initial.Conditions{}),
		"strong": preset(friction.DryDriven, 0.01, 1e-6,
			FrictionConfig{Rest: 0.3, Sliding: 0.2, Amplitude: 900}, initial.Conditions{}),
	},
	"viscous": {
		"light": preset(friction.Viscous, 0.01, 1e-6,
			FrictionConfig{Viscous: 10}, initial.Conditions{}),
		"heavy": preset(friction.Viscous, 0.01, 1e-6,
			FrictionConfig{Viscous: 1000}, initial.Conditions{}),
	},
}

// Family returns the preset family of a friction mode.
func Family(mode friction.Mode) string {
	switch mode {
	case friction.DryDriven:
		return "driven"
	case friction.Viscous:
		return "viscous"
	default:
		return "free"
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(family, name string) *Config {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	cfg, ok := familyPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of family in sorted order.
func ListPresets(family string) []string {
	familyPresets, ok := Presets[family]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(familyPresets))
	for name := range familyPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Families returns the preset families in sorted order.
func Families() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
