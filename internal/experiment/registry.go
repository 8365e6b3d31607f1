package experiment

import (
	"fmt"
	"sort"

	"github.com/RomanSalimgareev/friction-problem/internal/friction"
	"github.com/RomanSalimgareev/friction-problem/internal/metrics"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
)

// StabilityLimit is the displacement in metres beyond which a step counts
// as unstable for the stability metric.
const StabilityLimit = 1e-3

type Registry struct {
	metrics map[string]func() solver.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() solver.Metric),
	}

	r.metrics["energy"] = func() solver.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() solver.Metric { return metrics.NewEnergyDrift() }
	r.metrics["stability"] = func() solver.Metric { return metrics.NewStability(StabilityLimit) }
	r.metrics["peak_displacement"] = func() solver.Metric { return metrics.NewPeakDisplacement() }
	r.metrics["stick_ratio"] = func() solver.Metric { return metrics.NewStickRatio() }
	r.metrics["resultant"] = func() solver.Metric { return metrics.NewResultant() }

	return r
}

func (r *Registry) GetMetric(name string) (solver.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances suited to mode. Stick
// ratio is meaningless without dry friction.
func (r *Registry) DefaultMetrics(mode friction.Mode) []solver.Metric {
	names := []string{"peak_displacement", "stability", "resultant", "energy"}
	if mode != friction.Viscous {
		names = append(names, "stick_ratio")
	}
	out := make([]solver.Metric, 0, len(names))
	for _, name := range names {
		m, _ := r.GetMetric(name)
		out = append(out, m)
	}
	return out
}
