package experiment

import (
	"context"
	"runtime"
	"sync"

	"github.com/RomanSalimgareev/friction-problem/internal/config"
	"github.com/RomanSalimgareev/friction-problem/internal/solver"
)

// SweepResult is the outcome of one configuration of a sweep.
type SweepResult struct {
	Config *config.Config
	Result *solver.Result
	Err    error
}

// Sweep runs independent configurations concurrently, at most workers at
// a time (GOMAXPROCS when workers <= 0). Each run gets its own solver and
// metrics; results keep the order of cfgs.
func Sweep(ctx context.Context, reg *Registry, cfgs []*config.Config, workers int) []SweepResult {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]SweepResult, len(cfgs))
	sem := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, cfg := range cfgs {
		wg.Add(1)
		go func(idx int, cfg *config.Config) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx].Config = cfg
			exp := New(cfg)
			if err := exp.Setup(reg.DefaultMetrics(cfg.Mode())); err != nil {
				results[idx].Err = err
				return
			}
			results[idx].Result, results[idx].Err = exp.Run(ctx)
		}(i, cfg)
	}

	wg.Wait()
	return results
}
