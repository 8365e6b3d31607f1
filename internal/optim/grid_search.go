package optim

import (
	"context"
	"fmt"
	"math"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/experiment"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
	"gonum.org/v1/gonum/floats"
)

// GridSearch runs every combination of parameter values and keeps the one
// minimising a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	probe := config.DefaultConfig()
	for i, name := range params {
		if _, err := probe.Param(name); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Span returns n evenly spaced values from lo to hi inclusive.
func Span(lo, hi float64, n int) []float64 {
	if n < 2 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

// Search returns the best parameter set, its metric value and the number
// of evaluated runs. Failed runs are skipped; the search fails only when
// none succeeds or ctx is cancelled.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
) (map[string]float64, float64, int, error) {
	if _, err := reg.GetMetric(metricName); err != nil {
		return nil, 0, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64
	evaluated := 0

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, reg, metricName, &best, &bestParams, &evaluated)
	if err != nil {
		return bestParams, best, evaluated, err
	}
	if bestParams == nil {
		return nil, 0, evaluated, fmt.Errorf("optim: no successful run for metric %s", metricName)
	}
	return bestParams, best, evaluated, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	reg *experiment.Registry,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
	evaluated *int,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		cfg := base.Clone()
		for k, v := range current {
			if err := cfg.SetParam(k, v); err != nil {
				return err
			}
		}

		metric, _ := reg.GetMetric(metricName)
		exp := experiment.New(cfg)
		if err := exp.Setup([]solver.Metric{metric}); err != nil {
			return nil
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return nil
		}
		*evaluated++

		val := result.Metrics[metricName]
		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, reg, metricName, best, bestParams, evaluated); err != nil {
			return err
		}
	}
	return nil
}
