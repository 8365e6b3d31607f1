package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/experiment"
	"github.com/RomanSalimgareev/friction-problem/internal/optim"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
	"github.com/RomanSalimgareev/friction-problem/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario defines a scripted sequence of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. It starts from Preset (family/name) when set,
// otherwise from the defaults, then applies Params by name.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Mode   int                `yaml:"mode"`
	Params map[string]float64 `yaml:"params"`
	Save   bool               `yaml:"save"`
}

// StepResult is the outcome of one scenario step. RunID is empty unless
// the step was saved.
type StepResult struct {
	RunID  string
	Config *config.Config
	Result *solver.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// StepConfig builds the configuration of a step.
func StepConfig(step ScenarioStep) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if step.Preset != "" {
		family, name, _ := strings.Cut(step.Preset, "/")
		cfg = config.GetPreset(family, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", step.Preset)
		}
	}
	if step.Mode != 0 {
		cfg.Simulation.Mode = step.Mode
	}
	for name, v := range step.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order and stops at the first failure.
// st may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := StepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		slog.Info("scenario step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "mode", cfg.Mode())

		exp := experiment.New(cfg)
		if err := exp.Setup(registry.DefaultMetrics(cfg.Mode())); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Config: cfg, Result: result}
		if step.Save {
			if st == nil {
				return results, fmt.Errorf("step %d: no store to save into", i+1)
			}
			if sr.RunID, err = st.Save(cfg, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep varies one named parameter over [Min, Max].
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	Min       float64
	Max       float64
	NumSteps  int
	Workers   int
}

// SweepResult holds the outcome for one parameter value
type SweepResult struct {
	ParamValue float64
	Steps      int
	StickSteps int
	Peak       float64
	Final      float64
	Err        error
}

// RunSweep executes the sweep concurrently. Individual failures are
// reported per value; only an invalid sweep returns an error.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	base := sweep.Base
	if base == nil {
		base = config.DefaultConfig()
	}

	values := optim.Span(sweep.Min, sweep.Max, sweep.NumSteps)
	cfgs := make([]*config.Config, len(values))
	for i, v := range values {
		cfgs[i] = base.Clone()
		if err := cfgs[i].SetParam(sweep.ParamName, v); err != nil {
			return nil, err
		}
	}

	runs := experiment.Sweep(ctx, registry, cfgs, sweep.Workers)
	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{ParamValue: values[i], Err: r.Err}
		if r.Err != nil {
			continue
		}
		results[i].Steps = r.Result.Steps
		results[i].StickSteps = r.Result.StickSteps
		results[i].Peak = r.Result.Metrics["peak_displacement"]
		if lead, err := r.Result.Node(0); err == nil && len(lead) > 0 {
			results[i].Final = lead[len(lead)-1]
		}
	}
	return results, nil
}
