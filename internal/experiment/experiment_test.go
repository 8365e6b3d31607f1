package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/fem"
	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/linalg"
)

func shortConfig(mode friction.Mode) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Simulation.Mode = int(mode)
	cfg.Simulation.Time = 5e-5
	return cfg
}

func TestExperimentRun(t *testing.T) {
	reg := NewRegistry()
	cfg := shortConfig(friction.DryFree)
	exp := New(cfg)

	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}

	if err := exp.Setup(reg.DefaultMetrics(cfg.Mode())); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if res.History.Rows() != 50 {
		t.Errorf("expected 50 rows, got %d", res.History.Rows())
	}
	if res.Metrics["stick_ratio"] != 1 {
		t.Errorf("element at rest without load should stick, got ratio %f", res.Metrics["stick_ratio"])
	}
	if res.Metrics["stability"] != 1 {
		t.Errorf("expected stable run, got %f", res.Metrics["stability"])
	}
}

func TestBuildRejectsMaterial(t *testing.T) {
	cfg := shortConfig(friction.DryFree)
	cfg.Element.PoissonRatio = 0.5
	if _, err := Build(cfg); !errors.Is(err, fem.ErrInvalidMaterial) {
		t.Errorf("expected ErrInvalidMaterial, got %v", err)
	}
}

func TestBuildZeroDt(t *testing.T) {
	cfg := shortConfig(friction.DryFree)
	cfg.Simulation.Dt = 0
	if _, err := Build(cfg); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected config.ErrInvalid, got %v", err)
	}
}

func TestBuildConsistentMass(t *testing.T) {
	cfg := shortConfig(friction.Viscous)
	cfg.Simulation.Mass = fem.Consistent
	cfg.Initial.FromStatic = true
	cfg.Initial.StaticForce = 500

	p, err := Build(cfg)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	if p.Mass.At(0, 3) == 0 {
		t.Error("consistent mass should couple nodes")
	}
	if p.Initial.Displacement.MaxAbs() == 0 {
		t.Error("expected static initial displacement")
	}
	if p.Friction.Mode != friction.Viscous {
		t.Errorf("expected viscous params, got %v", p.Friction.Mode)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	names := reg.ListMetrics()
	if len(names) != 6 {
		t.Errorf("expected 6 metrics, got %v", names)
	}
	for _, name := range names {
		m, err := reg.GetMetric(name)
		if err != nil || m.Name() != name {
			t.Errorf("metric %s: got %v, %v", name, m, err)
		}
	}
	if _, err := reg.GetMetric("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
	for _, m := range reg.DefaultMetrics(friction.Viscous) {
		if m.Name() == "stick_ratio" {
			t.Error("viscous runs should not track stick ratio")
		}
	}
}

func TestSweep(t *testing.T) {
	cfgs := []*config.Config{
		shortConfig(friction.DryFree),
		shortConfig(friction.DryDriven),
		shortConfig(friction.Viscous),
	}
	bad := shortConfig(friction.DryFree)
	bad.Simulation.Dt = 0
	cfgs = append(cfgs, bad)

	results := Sweep(context.Background(), NewRegistry(), cfgs, 2)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results[:3] {
		if r.Err != nil {
			t.Errorf("run %d failed: %v", i, r.Err)
			continue
		}
		if r.Config != cfgs[i] {
			t.Errorf("run %d: results out of order", i)
		}
		if r.Result.Steps != 50 {
			t.Errorf("run %d: expected 50 steps, got %d", i, r.Result.Steps)
		}
	}
	if results[3].Err == nil {
		t.Error("expected error for zero dt")
	}
	if errors.Is(results[3].Err, linalg.ErrDivideByZero) {
		t.Error("config validation should reject zero dt before the solver")
	}
}
