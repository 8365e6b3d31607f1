package experiment

import (
	"context"
	"fmt"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/initial"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
)

// Experiment turns a configuration into a solver run: element assembly,
// initial state, then time stepping.
type Experiment struct {
	cfg     *config.Config
	problem solver.Problem
	solver  *solver.Solver
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

// Build assembles the problem. Material errors surface here, before any
// time stepping.
func Build(cfg *config.Config) (solver.Problem, error) {
	if err := cfg.Validate(); err != nil {
		return solver.Problem{}, err
	}
	k, err := fem.Stiffness(cfg.Element)
	if err != nil {
		return solver.Problem{}, err
	}
	kind, err := fem.ParseMassKind(string(cfg.Simulation.Mass))
	if err != nil {
		return solver.Problem{}, err
	}
	m, err := fem.Mass(cfg.Element, kind)
	if err != nil {
		return solver.Problem{}, err
	}
	st, err := initial.Build(k, cfg.Initial)
	if err != nil {
		return solver.Problem{}, fmt.Errorf("initial state: %w", err)
	}
	return solver.Problem{
		Stiffness: k,
		Mass:      m,
		Initial:   st,
		Friction:  cfg.FrictionParams(),
	}, nil
}

func (e *Experiment) Setup(metrics []solver.Metric) error {
	p, err := Build(e.cfg)
	if err != nil {
		return err
	}
	e.problem = p
	e.solver = solver.New()
	for _, m := range metrics {
		e.solver.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*solver.Result, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.solver.Run(ctx, e.SolverConfig(), e.problem)
}

func (e *Experiment) SolverConfig() solver.Config {
	return solver.Config{Time: e.cfg.Simulation.Time, Dt: e.cfg.Simulation.Dt}
}

// GetSolver returns the underlying solver for adding observers
func (e *Experiment) GetSolver() *solver.Solver {
	return e.solver
}

func (e *Experiment) Config() *config.Config { return e.cfg }
