// Package fem assembles the stiffness and mass matrices of an 8-node
// rectangular hexahedron with trilinear shape functions.
package fem

import (
	"errors"
	"fmt"
)

// Node and DOF counts of the element.
const (
	Nodes     = 8
	NodeDOF   = 3
	DOF       = Nodes * NodeDOF
	Dimension = 3
)

// Material and geometry limits accepted by Validate.
const (
	MinModulusElastic = 41e9
	MaxPoissonRatio   = 0.5
	MinDensity        = 1740.0
	MaxDensity        = 19200.0
	MinSize           = 1e-3
)

// ErrInvalidMaterial indicates a material property or dimension outside
// its physical range.
var ErrInvalidMaterial = errors.New("fem: invalid material property")

// PropertyError describes which element property failed validation.
type PropertyError struct {
	Property string
	Value    float64
	Reason   string
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("fem: %s = %g: %s", e.Property, e.Value, e.Reason)
}

func (e *PropertyError) Unwrap() error { return ErrInvalidMaterial }

// Element is a rectangular hexahedron aligned with the coordinate axes.
type Element struct {
	ModulusElastic float64 `yaml:"modulus_elastic" json:"modulus_elastic"`
	PoissonRatio   float64 `yaml:"poisson_ratio" json:"poisson_ratio"`
	Density        float64 `yaml:"density" json:"density"`
	Length         float64 `yaml:"length" json:"length"`
	Width          float64 `yaml:"width" json:"width"`
	Height         float64 `yaml:"height" json:"height"`
}

// DefaultElement is an aluminium block 100×60×50 mm.
func DefaultElement() Element {
	return Element{
		ModulusElastic: 7e10,
		PoissonRatio:   0.33,
		Density:        2700,
		Length:         0.1,
		Width:          0.06,
		Height:         0.05,
	}
}

// Property names understood by ValidateProperty.
const (
	PropModulusElastic = "modulus_elastic"
	PropPoissonRatio   = "poisson_ratio"
	PropDensity        = "density"
	PropLength         = "length"
	PropWidth          = "width"
	PropHeight         = "height"
)

// ValidateProperty checks a single named property against its bounds.
func ValidateProperty(name string, value float64) error {
	switch name {
	case PropModulusElastic:
		if value < MinModulusElastic {
			return &PropertyError{name, value, fmt.Sprintf("must be at least %g", MinModulusElastic)}
		}
	case PropPoissonRatio:
		if value <= 0 || value >= MaxPoissonRatio {
			return &PropertyError{name, value, fmt.Sprintf("must be in (0, %g)", MaxPoissonRatio)}
		}
	case PropDensity:
		if value < MinDensity || value > MaxDensity {
			return &PropertyError{name, value, fmt.Sprintf("must be in [%g, %g]", MinDensity, MaxDensity)}
		}
	case PropLength, PropWidth, PropHeight:
		if value < MinSize {
			return &PropertyError{name, value, fmt.Sprintf("must be at least %g", MinSize)}
		}
	default:
		return fmt.Errorf("fem: unknown property %q", name)
	}
	return nil
}

// Validate checks every property and returns the first failure.
func (e Element) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{PropModulusElastic, e.ModulusElastic},
		{PropPoissonRatio, e.PoissonRatio},
		{PropDensity, e.Density},
		{PropLength, e.Length},
		{PropWidth, e.Width},
		{PropHeight, e.Height},
	}
	for _, c := range checks {
		if err := ValidateProperty(c.name, c.value); err != nil {
			return err
		}
	}
	return nil
}

func (e Element) Volume() float64 { return e.Length * e.Width * e.Height }

func (e Element) Mass() float64 { return e.Density * e.Volume() }

// JacobianDet is constant for a rectangular element.
func (e Element) JacobianDet() float64 { return e.Volume() / 8 }
