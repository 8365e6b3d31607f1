// Package solver integrates the reduced element equations in time with the
// Newmark average-acceleration scheme and the friction stick/slip model.
package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/symmetry"
)

// Newmark parameters.
const (
	Alpha = 0.25
	Delta = 0.5
)

type Solver struct {
	metrics   []Metric
	observers []Observer
}

func New() *Solver {
	return &Solver{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Solver) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Steps is the number of history rows for cfg.
func Steps(cfg Config) int { return int(math.Floor(cfg.Time / cfg.Dt)) }

func validate(cfg Config, p Problem) error {
	if !(cfg.Dt > linalg.Epsilon) {
		return fmt.Errorf("solver: time step %g: %w", cfg.Dt, linalg.ErrDivideByZero)
	}
	if !(cfg.Time > 0) || math.IsInf(cfg.Time, 0) {
		return fmt.Errorf("solver: duration %g: %w", cfg.Time, ErrInvalidParameter)
	}
	if Steps(cfg) < 1 {
		return fmt.Errorf("solver: duration %g shorter than time step %g: %w", cfg.Time, cfg.Dt, ErrInvalidParameter)
	}
	if p.Stiffness == nil || p.Mass == nil || p.Initial == nil {
		return fmt.Errorf("solver: incomplete problem: %w", ErrInvalidParameter)
	}
	n := p.Stiffness.Rows()
	if len(p.Initial.Displacement) != n || len(p.Initial.Speed) != n || len(p.Initial.Acceleration) != n {
		return fmt.Errorf("solver: initial state does not match %d DOF: %w", n, linalg.ErrDimensionMismatch)
	}
	return nil
}

// Run integrates p over cfg.Time. On cancellation the rows computed so far
// are returned together with the context error.
func (s *Solver) Run(ctx context.Context, cfg Config, p Problem) (*Result, error) {
	if err := validate(cfg, p); err != nil {
		return nil, err
	}

	steps := Steps(cfg)
	dt := cfg.Dt
	n := p.Stiffness.Rows()

	history := linalg.NewMatrix(steps, n)
	if err := history.SetRow(0, p.Initial.Displacement); err != nil {
		return nil, err
	}
	sys := &symmetry.System{
		Stiffness:    p.Stiffness.Clone(),
		Mass:         p.Mass.Clone(),
		History:      history,
		Speed:        p.Initial.Speed.Clone(),
		Acceleration: p.Initial.Acceleration.Clone(),
		Force:        make(linalg.Vector, n),
	}
	if err := symmetry.ReduceDynamic(sys); err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}

	model, err := friction.NewModel(p.Friction, p.Initial.AccelerationNonZero())
	if err != nil {
		return nil, err
	}

	k, m := sys.Stiffness, sys.Mass
	damping := model.Damping()
	lhs, err := coefficients(k, m, dt, damping)
	if err != nil {
		return nil, err
	}
	qr, err := linalg.Factorize(lhs)
	if err != nil {
		return nil, fmt.Errorf("solver: coefficient matrix: %w", err)
	}

	result := &Result{
		History: history,
		Times:   make(linalg.Vector, steps),
		Metrics: make(map[string]float64),
		Steps:   steps,
	}
	for i := range result.Times {
		result.Times[i] = float64(i) * dt
	}
	for _, mt := range s.metrics {
		mt.Reset()
	}

	st := &stepper{
		dt:      dt,
		damping: damping,
		mass:    m,
		solver:  qr,
		speed:   sys.Speed,
		accel:   sys.Acceleration,
		inner:   make(linalg.Vector, k.Rows()),
		rhs:     make(linalg.Vector, k.Rows()),
	}
	force := sys.Force
	t := 0.0

	for i := 0; i < steps-1; i++ {
		select {
		case <-ctx.Done():
			result.Completed = i + 1
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		x, _ := history.Row(i)
		next, _ := history.Row(i + 1)

		d := model.Assemble(force, x, st.speed, k, t)

		info := StepInfo{
			Step:         i,
			Time:         t,
			Displacement: x,
			Speed:        st.speed,
			Acceleration: st.accel,
			Force:        force,
			Stiffness:    k,
			Mass:         m,
			Decision:     d,
		}
		for _, mt := range s.metrics {
			mt.Observe(info)
		}
		for _, obs := range s.observers {
			obs.OnStep(info)
		}

		if d.Stick {
			copy(next, x)
			st.speed.Zero()
			st.accel.Zero()
			result.StickSteps++
		} else if err := st.advance(x, force, next); err != nil {
			result.Completed = i + 1
			s.collect(result)
			return result, &StepError{Step: i, Time: t, Err: err}
		}

		t += dt
	}

	result.Completed = steps
	s.collect(result)
	return result, nil
}

func (s *Solver) collect(r *Result) {
	for _, mt := range s.metrics {
		r.Metrics[mt.Name()] = mt.Value()
	}
}

// coefficients returns M + α·Δt²·K + δ·Δt·c·M.
func coefficients(k, m *linalg.Matrix, dt, damping float64) (*linalg.Matrix, error) {
	lhs, err := linalg.Add(m, linalg.Scale(Alpha*dt*dt, k))
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	if damping != 0 {
		if lhs, err = linalg.Add(lhs, linalg.Scale(Delta*dt*damping, m)); err != nil {
			return nil, fmt.Errorf("solver: %w", err)
		}
	}
	return lhs, nil
}

// stepper holds the Newmark state and scratch buffers of one run.
type stepper struct {
	dt      float64
	damping float64
	mass    *linalg.Matrix
	solver  linalg.Solver

	speed linalg.Vector
	accel linalg.Vector
	inner linalg.Vector
	rhs   linalg.Vector
}

// advance solves for the displacement of the next step, writes it to next
// and updates speed and acceleration in place.
func (st *stepper) advance(x, force, next linalg.Vector) error {
	dt, c := st.dt, st.damping
	dt2 := dt * dt
	alphaDt2 := Alpha * dt2
	alphaDt := Alpha * dt

	for j := range st.inner {
		xj, vj, aj := x[j], st.speed[j], st.accel[j]
		st.inner[j] = xj + dt*vj + (0.5-Alpha)*dt2*aj
		if c != 0 {
			st.inner[j] += c * (Delta*dt*xj + (Delta-Alpha)*dt2*vj + (Delta/2-Alpha)*dt2*dt*aj)
		}
	}
	if err := linalg.MulVecTo(st.rhs, st.mass, st.inner); err != nil {
		return err
	}
	for j := range st.rhs {
		st.rhs[j] += alphaDt2 * force[j]
	}

	xNew, err := st.solver.Solve(st.rhs)
	if err != nil {
		return err
	}

	for j := range xNew {
		if math.IsNaN(xNew[j]) || math.IsInf(xNew[j], 0) {
			return ErrUnstable
		}
		diff := xNew[j] - x[j]
		vj, aj := st.speed[j], st.accel[j]
		st.accel[j] = diff/alphaDt2 - vj/alphaDt + (1-1/(2*Alpha))*aj
		st.speed[j] = Delta/alphaDt*diff + (1-Delta/Alpha)*vj + (1-Delta/(2*Alpha))*dt*aj
	}
	copy(next, xNew)
	return nil
}
