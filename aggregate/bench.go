package aggregate

import (
	"context"
	"log/slog"
	"time"

	"wordfreq/config"
)

// benchWorkerCounts is the sweep the benchmark mode runs against the
// single-worker baseline.
var benchWorkerCounts = []int{2, 4, 8}

// BenchResult is one row of the benchmark sweep.
type BenchResult struct {
	Label   string
	Workers int
	Elapsed time.Duration
	Speedup float64
}

// Bench measures a single-worker baseline, then both strategies at
// increasing worker counts over the same sources.
func Bench(ctx context.Context, sources []string, cfg config.Config, log *slog.Logger) ([]BenchResult, error) {
	run := func(strategy config.Strategy, workers int) (time.Duration, error) {
		c := cfg
		c.Workers = workers
		c.Strategy = strategy
		c.Mode = config.ModeSinglePass
		agg, err := New(c, log)
		if err != nil {
			return 0, err
		}
		start := time.Now()
		if _, _, err := agg.Aggregate(ctx, sources); err != nil {
			return 0, err
		}
		return time.Since(start), nil
	}

	base, err := run(config.StrategyShared, 1)
	if err != nil {
		return nil, err
	}
	results := []BenchResult{{Label: "sync", Workers: 1, Elapsed: base, Speedup: 1}}

	for _, strategy := range []config.Strategy{config.StrategyShared, config.StrategyDistributed} {
		for _, workers := range benchWorkerCounts {
			elapsed, err := run(strategy, workers)
			if err != nil {
				return nil, err
			}
			speedup := 0.0
			if elapsed > 0 {
				speedup = float64(base) / float64(elapsed)
			}
			results = append(results, BenchResult{
				Label:   string(strategy),
				Workers: workers,
				Elapsed: elapsed,
				Speedup: speedup,
			})
		}
	}
	return results, nil
}
