package solver

import (
	"errors"
	"fmt"

	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/initial"
	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
	"github.com/RomanSalimgareev/friction-problem/internal/symmetry"
)

var (
	// ErrInvalidParameter indicates a simulation parameter outside its domain.
	ErrInvalidParameter = errors.New("solver: invalid parameter")

	// ErrUnstable indicates a displacement that is no longer finite.
	ErrUnstable = errors.New("solver: displacement diverged (NaN or Inf)")
)

// StepError wraps a failure with the step at which it happened.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Config is the time discretization.
type Config struct {
	Time float64
	Dt   float64
}

// Problem is the full, unreduced system to integrate. The solver works on
// copies; nothing in Problem is modified.
type Problem struct {
	Stiffness *linalg.Matrix
	Mass      *linalg.Matrix
	Initial   *initial.State
	Friction  friction.Params
}

// StepInfo is passed to metrics and observers before each step is advanced.
// Vectors and matrices are the solver's own reduced buffers and must not be
// retained or modified.
type StepInfo struct {
	Step         int
	Time         float64
	Displacement linalg.Vector
	Speed        linalg.Vector
	Acceleration linalg.Vector
	Force        linalg.Vector
	Stiffness    *linalg.Matrix
	Mass         *linalg.Matrix
	Decision     friction.Decision
}

type Metric interface {
	Name() string
	Observe(s StepInfo)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s StepInfo)
}

// NodeLabels name the active DOF in the order of symmetry.Active.
var NodeLabels = [...]string{"node1", "node2", "node5", "node6"}

// Result is the displacement history of a run. Row k of History is the
// reduced displacement at Times[k].
type Result struct {
	History    *linalg.Matrix
	Times      linalg.Vector
	Metrics    map[string]float64
	Steps      int
	StickSteps int
	// Completed is the number of valid rows; it is below Steps only when
	// a run stopped early.
	Completed int
}

// Truncate drops the rows past Completed.
func (r *Result) Truncate() error {
	if r.Completed >= r.History.Rows() {
		return nil
	}
	h, err := linalg.FromRows(r.History.RawRows()[:r.Completed]...)
	if err != nil {
		return err
	}
	r.History = h
	r.Times = r.Times[:r.Completed]
	r.Steps = r.Completed
	return nil
}

// Node returns the history of active DOF i, in NodeLabels order.
func (r *Result) Node(i int) (linalg.Vector, error) {
	if i < 0 || i >= len(symmetry.Active) {
		return nil, fmt.Errorf("node %d of %d: %w", i, len(symmetry.Active), linalg.ErrOutOfRange)
	}
	return r.History.Column(symmetry.Active[i])
}

// Nodes returns the history of every active DOF.
func (r *Result) Nodes() ([]linalg.Vector, error) {
	out := make([]linalg.Vector, len(symmetry.Active))
	for i := range out {
		col, err := r.Node(i)
		if err != nil {
			return nil, err
		}
		out[i] = col
	}
	return out, nil
}
