package metrics

import (
	"math"

	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
)

// MechanicalEnergy returns ½vᵀMv + ½xᵀKx. buf is scratch space of the
// system order and may be nil.
func MechanicalEnergy(s solver.StepInfo, buf linalg.Vector) float64 {
	if s.Mass == nil || s.Stiffness == nil {
		return 0
	}
	if len(buf) != len(s.Speed) {
		buf = make(linalg.Vector, len(s.Speed))
	}
	return 0.5*quadratic(s.Mass, s.Speed, buf) + 0.5*quadratic(s.Stiffness, s.Displacement, buf)
}

func quadratic(a *linalg.Matrix, x, buf linalg.Vector) float64 {
	if err := linalg.MulVecTo(buf, a, x); err != nil {
		return math.NaN()
	}
	v, err := linalg.Dot(x, buf)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Energy is the mean mechanical energy over the run.
type Energy struct {
	name        string
	buf         linalg.Vector
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s solver.StepInfo) {
	if len(e.buf) != len(s.Speed) {
		e.buf = make(linalg.Vector, len(s.Speed))
	}
	e.totalEnergy += MechanicalEnergy(s, e.buf)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift is the largest relative deviation of the mechanical energy
// from its value at the first step. Friction and drive make the energy
// change legitimately; the metric is meant for frictionless runs.
type EnergyDrift struct {
	name          string
	buf           linalg.Vector
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s solver.StepInfo) {
	if len(e.buf) != len(s.Speed) {
		e.buf = make(linalg.Vector, len(s.Speed))
	}
	energy := MechanicalEnergy(s, e.buf)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
