package friction

import (
	"math"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
)

// Decision is the outcome of assembling one step.
type Decision struct {
	Stick        bool
	AverageSpeed float64
	Elastic      float64
	Friction     float64
	Drive        float64
	Sign         float64
}

// Model assembles the load vector for one friction mode and evaluates the
// stick condition. It is not safe for concurrent use.
type Model struct {
	params    Params
	nodeLoad  float64
	frequency float64

	// average speeds of the two preceding steps
	previous       float64
	beforePrevious float64

	// set while the first step must slide
	initialAccel bool
}

// NewModel returns a model for p. If the initial acceleration is nonzero
// the element is not allowed to stick on the first step.
func NewModel(p Params, accelerationNonZero bool) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{
		params:       p,
		nodeLoad:     p.NodeLoad(),
		frequency:    p.Frequency(),
		initialAccel: accelerationNonZero && p.Mode != Viscous,
	}, nil
}

func (m *Model) Params() Params { return m.params }

// Damping is the mass-proportional viscous coefficient, zero for dry modes.
func (m *Model) Damping() float64 {
	if m.params.Mode == Viscous {
		return m.params.ViscousCoefficient
	}
	return 0
}

// Assemble overwrites force with the load at time t for displacement x and
// speed v, and reports whether the element sticks during this step.
func (m *Model) Assemble(force, x, v linalg.Vector, k *linalg.Matrix, t float64) Decision {
	force.Zero()
	avg := AverageSpeed(v)
	d := Decision{AverageSpeed: avg}

	switch m.params.Mode {
	case DryFree:
		d = m.dryFree(force, x, k, d)
	case DryDriven:
		d = m.dryDriven(force, x, k, t, d)
	case Viscous:
		d.Drive = Drive(m.nodeLoad, m.frequency, t)
		ApplyViscousDrive(force, d.Drive)
	}

	if m.initialAccel {
		d.Stick = false
		m.initialAccel = false
	}
	m.beforePrevious = m.previous
	m.previous = avg
	return d
}

func (m *Model) dryFree(force, x linalg.Vector, k *linalg.Matrix, d Decision) Decision {
	p := m.params
	ApplyNormalReaction(force, p.NormalReaction)

	d.Elastic = ElasticForce(x, k)
	d.Sign = SignFree(d.Elastic, d.AverageSpeed)
	coef := Coefficient(p.RestCoefficient, p.SlidingCoefficient, d.AverageSpeed)
	d.Friction = FrictionSum(d.Sign, coef, p.NormalReaction)
	ApplyDry(force, d.Friction)

	d.Stick = math.Abs(d.Friction) >= math.Abs(d.Elastic) && LowSpeed(d.AverageSpeed, m.previous)
	return d
}

func (m *Model) dryDriven(force, x linalg.Vector, k *linalg.Matrix, t float64, d Decision) Decision {
	p := m.params
	ApplyNormalReaction(force, p.NormalReaction)

	d.Drive = Drive(m.nodeLoad, m.frequency, t)
	d.Elastic = ElasticForce(x, k)
	d.Sign = SignDriven(d.Elastic, d.AverageSpeed, d.Drive)
	coef := Coefficient(p.RestCoefficient, p.SlidingCoefficient, d.AverageSpeed)
	d.Friction = FrictionSum(d.Sign, coef, p.NormalReaction)
	ApplyDriven(force, d.Friction, d.Drive)

	balanced := LowElastic(d.Elastic, d.Drive, d.Friction, d.Sign) ||
		LowDrive(d.Elastic, d.Drive, d.Friction, d.Sign) ||
		(LowDriveElastic(d.Elastic, d.Drive, d.Friction) && OneWay(d.Elastic, d.Drive))
	d.Stick = balanced && LowSpeed(d.AverageSpeed, m.previous, m.beforePrevious)
	return d
}
