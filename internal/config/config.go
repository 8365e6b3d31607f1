package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/initial"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTime = 0.001
	DefaultDt   = 1e-6
)

// ErrInvalid indicates a configuration that cannot be simulated.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Element    fem.Element        `yaml:"element" json:"element"`
	Simulation SimulationConfig   `yaml:"simulation" json:"simulation"`
	Friction   FrictionConfig     `yaml:"friction" json:"friction"`
	Initial    initial.Conditions `yaml:"initial" json:"initial"`
}

type SimulationConfig struct {
	Time float64 `yaml:"time" json:"time"`
	Dt   float64 `yaml:"dt" json:"dt"`
	// Mode is 1 (dry, no drive), 2 (dry with drive) or 3 (viscous).
	Mode int          `yaml:"mode" json:"mode"`
	Mass fem.MassKind `yaml:"mass" json:"mass"`
}

// FrictionConfig holds the friction inputs. Zero NormalReaction,
// Amplitude and FrequencyFactor fall back to the defaults of the mode.
type FrictionConfig struct {
	Rest            float64 `yaml:"rest" json:"rest"`
	Sliding         float64 `yaml:"sliding" json:"sliding"`
	Viscous         float64 `yaml:"viscous" json:"viscous"`
	NormalReaction  float64 `yaml:"normal_reaction" json:"normal_reaction"`
	Amplitude       float64 `yaml:"amplitude" json:"amplitude"`
	FrequencyFactor float64 `yaml:"frequency_factor" json:"frequency_factor"`
}

func DefaultConfig() *Config {
	return &Config{
		Element: fem.DefaultElement(),
		Simulation: SimulationConfig{
			Time: DefaultTime,
			Dt:   DefaultDt,
			Mode: int(friction.DryFree),
			Mass: fem.Lumped,
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
		return nil, fmt.Errorf("config %s: %w", path, err)
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

// Clone returns a copy of c; presets are shared and must not be edited.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) Mode() friction.Mode { return friction.Mode(c.Simulation.Mode) }

// FrictionParams resolves the friction inputs against the defaults of the
// configured mode.
func (c *Config) FrictionParams() friction.Params {
	p := friction.DefaultParams(c.Mode())
	f := c.Friction
	p.RestCoefficient = f.Rest
	p.SlidingCoefficient = f.Sliding
	p.ViscousCoefficient = f.Viscous
	if f.NormalReaction != 0 {
		p.NormalReaction = f.NormalReaction
	}
	if f.Amplitude != 0 {
		p.Amplitude = f.Amplitude
	}
	if f.FrequencyFactor != 0 {
		p.FrequencyFactor = f.FrequencyFactor
	}
	return p
}

// Validate checks everything that can be checked without assembling the
// element. Material failures wrap fem.ErrInvalidMaterial, the rest wrap
// ErrInvalid.
func (c *Config) Validate() error {
	if err := c.Element.Validate(); err != nil {
		return err
	}
	s := c.Simulation
	if !(s.Time > 0) {
		return fmt.Errorf("%w: time %g must be positive", ErrInvalid, s.Time)
	}
	if !(s.Dt > 0) || s.Dt > s.Time {
		return fmt.Errorf("%w: dt %g must be positive and not exceed time %g", ErrInvalid, s.Dt, s.Time)
	}
	if !c.Mode().Valid() {
		return fmt.Errorf("%w: mode %d, want 1, 2 or 3", ErrInvalid, s.Mode)
	}
	if _, err := fem.ParseMassKind(string(s.Mass)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	f := c.Friction
	if f.Rest < 0 || f.Sliding < 0 || f.Viscous < 0 {
		return fmt.Errorf("%w: friction coefficients must not be negative", ErrInvalid)
	}
	if err := c.FrictionParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Supplier fills in the parameters of a run. Implementations may prompt a
// user; the numerical packages only ever see the resulting Config.
type Supplier interface {
	Supply(cfg *Config) error
}

// Static supplies a fixed configuration.
type Static struct {
	Config *Config
}

func (s Static) Supply(cfg *Config) error {
	if s.Config == nil {
		return fmt.Errorf("%w: no configuration", ErrInvalid)
	}
	*cfg = *s.Config
	return cfg.Validate()
}
