package friction

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Mode selects the friction regime.
type Mode int

const (
	DryFree   Mode = 1
	DryDriven Mode = 2
	Viscous   Mode = 3
)

var modeNames = map[Mode]string{
	DryFree:   "dry-free",
	DryDriven: "dry-driven",
	Viscous:   "viscous",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

func (m Mode) Valid() bool {
	_, ok := modeNames[m]
	return ok
}

// Driven reports whether a harmonic drive force acts on the element.
func (m Mode) Driven() bool { return m == DryDriven || m == Viscous }

// ParseMode accepts the numeric selector or a mode name.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if m := Mode(n); m.Valid() {
			return m, nil
		}
		return 0, fmt.Errorf("friction: unknown mode %d", n)
	}
	switch s {
	case "dry-free", "free", "dry":
		return DryFree, nil
	case "dry-driven", "driven", "drive":
		return DryDriven, nil
	case "viscous":
		return Viscous, nil
	}
	return 0, fmt.Errorf("friction: unknown mode %q", s)
}

// Modes returns every mode in selector order.
func Modes() []Mode { return []Mode{DryFree, DryDriven, Viscous} }

// Defaults of the test rig.
const (
	NormalReactionFree     = 400.0
	NormalReactionDriven   = 100.0
	AmplitudeDry           = 300.0
	AmplitudeViscous       = 220.0
	FrequencyFactorDry     = 40.0
	FrequencyFactorViscous = 2.0
)

// Params are the scalar inputs of the force model. They are resolved once
// before the time loop.
type Params struct {
	Mode               Mode
	RestCoefficient    float64
	SlidingCoefficient float64
	ViscousCoefficient float64
	NormalReaction     float64
	Amplitude          float64
	FrequencyFactor    float64
}

// DefaultParams returns the rig defaults for mode with zero friction
// coefficients.
func DefaultParams(mode Mode) Params {
	p := Params{Mode: mode}
	switch mode {
	case DryFree:
		p.NormalReaction = NormalReactionFree
	case DryDriven:
		p.NormalReaction = NormalReactionDriven
		p.Amplitude = AmplitudeDry
		p.FrequencyFactor = FrequencyFactorDry
	case Viscous:
		p.Amplitude = AmplitudeViscous
		p.FrequencyFactor = FrequencyFactorViscous
	}
	return p
}

// Frequency is the angular drive frequency in rad/s.
func (p Params) Frequency() float64 { return p.FrequencyFactor * math.Pi }

// NodeLoad is the drive amplitude carried by each active node.
func (p Params) NodeLoad() float64 { return NodeLoad(p.Amplitude) }

func (p Params) Validate() error {
	if !p.Mode.Valid() {
		return fmt.Errorf("friction: unknown mode %d", int(p.Mode))
	}
	values := map[string]float64{
		"rest coefficient":    p.RestCoefficient,
		"sliding coefficient": p.SlidingCoefficient,
		"viscous coefficient": p.ViscousCoefficient,
		"normal reaction":     p.NormalReaction,
		"amplitude":           p.Amplitude,
		"frequency factor":    p.FrequencyFactor,
	}
	for name, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("friction: %s is not finite", name)
		}
	}
	return nil
}
