package config

import (
	"fmt"
	"sort"
)

// params maps the scalar inputs that batch runs and searches may vary.
var params = map[string]func(*Config) *float64{
	"time":             func(c *Config) *float64 { return &c.Simulation.Time },
	"dt":               func(c *Config) *float64 { return &c.Simulation.Dt },
	"rest":             func(c *Config) *float64 { return &c.Friction.Rest },
	"sliding":          func(c *Config) *float64 { return &c.Friction.Sliding },
	"viscous":          func(c *Config) *float64 { return &c.Friction.Viscous },
	"normal_reaction":  func(c *Config) *float64 { return &c.Friction.NormalReaction },
	"amplitude":        func(c *Config) *float64 { return &c.Friction.Amplitude },
	"frequency_factor": func(c *Config) *float64 { return &c.Friction.FrequencyFactor },
	"speed":            func(c *Config) *float64 { return &c.Initial.Speed },
	"acceleration":     func(c *Config) *float64 { return &c.Initial.Acceleration },
	"static_force":     func(c *Config) *float64 { return &c.Initial.StaticForce },
	"modulus_elastic":  func(c *Config) *float64 { return &c.Element.ModulusElastic },
	"poisson_ratio":    func(c *Config) *float64 { return &c.Element.PoissonRatio },
	"density":          func(c *Config) *float64 { return &c.Element.Density },
}

// SetParam sets a named scalar. Setting static_force also switches the
// initial state to the static solution.
func (c *Config) SetParam(name string, v float64) error {
	ptr, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q", ErrInvalid, name)
	}
	*ptr(c) = v
	if name == "static_force" {
		c.Initial.FromStatic = true
	}
	return nil
}

func (c *Config) Param(name string) (float64, error) {
	ptr, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("%w: unknown parameter %q", ErrInvalid, name)
	}
	return *ptr(c), nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
