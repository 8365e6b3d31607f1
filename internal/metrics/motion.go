package metrics

import (
	"math"

	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
	"github.com/RomanSalimgareev/friction-problem/internal/symmetry"
)

// PeakDisplacement is the largest absolute displacement of the active DOF.
type PeakDisplacement struct {
	name string
	peak float64
}

func NewPeakDisplacement() *PeakDisplacement {
	return &PeakDisplacement{name: "peak_displacement"}
}

func (p *PeakDisplacement) Name() string { return p.name }

func (p *PeakDisplacement) Observe(s solver.StepInfo) {
	for _, idx := range symmetry.Active {
		if idx < len(s.Displacement) {
			p.peak = math.Max(p.peak, math.Abs(s.Displacement[idx]))
		}
	}
}

func (p *PeakDisplacement) Value() float64 { return p.peak }
func (p *PeakDisplacement) Reset()         { p.peak = 0 }

// StickRatio is the fraction of steps spent sticking.
type StickRatio struct {
	name    string
	sticks  int
	samples int
}

func NewStickRatio() *StickRatio {
	return &StickRatio{name: "stick_ratio"}
}

func (r *StickRatio) Name() string { return r.name }

func (r *StickRatio) Observe(s solver.StepInfo) {
	r.samples++
	if s.Decision.Stick {
		r.sticks++
	}
}

func (r *StickRatio) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return float64(r.sticks) / float64(r.samples)
}

func (r *StickRatio) Reset() {
	r.sticks = 0
	r.samples = 0
}

// Resultant is the mean absolute resultant load on the active DOF.
type Resultant struct {
	name    string
	sum     float64
	samples int
}

func NewResultant() *Resultant {
	return &Resultant{name: "resultant"}
}

func (r *Resultant) Name() string { return r.name }

func (r *Resultant) Observe(s solver.StepInfo) {
	r.sum += math.Abs(friction.Resultant(s.Force))
	r.samples++
}

func (r *Resultant) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return r.sum / float64(r.samples)
}

func (r *Resultant) Reset() {
	r.sum = 0
	r.samples = 0
}
