// Package aggregate orchestrates workers that scan disjoint subsets of
// the input sources into private frequency maps, then reduces all
// partial maps into one global map. Both concurrency strategies run the
// same worker loop; only the Collector transport differs.
package aggregate

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"wordfreq/config"
	"wordfreq/freqmap"
	"wordfreq/scan"
)

// Collector is the reduction target a worker hands its finished private
// map to: an in-memory merge under mutual exclusion, or an encode and
// send to a remote coordinator.
type Collector interface {
	Contribute(m *freqmap.Map) error
}

// Stats summarizes a completed run.
type Stats struct {
	Sources  int
	Skipped  int
	Distinct int
	Elapsed  time.Duration
}

// Aggregator runs the counting pipeline under a fixed configuration.
type Aggregator struct {
	cfg config.Config
	log *slog.Logger
}

// New validates cfg and returns an Aggregator logging through log. A nil
// logger discards everything.
func New(cfg config.Config, log *slog.Logger) (*Aggregator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregator{cfg: cfg, log: log}, nil
}

// Aggregate counts word occurrences across sources and returns the
// global map. Unreadable sources are skipped with a warning; fatal
// resource conditions (oversized payloads, transport failures) abort the
// run with no partial result. Zero sources yield an empty map.
//
// Counts are identical across strategies and worker counts. Which case
// variant of a word is preserved depends on scan order and may differ
// between runs; that is accepted behavior.
func (a *Aggregator) Aggregate(ctx context.Context, sources []string) (*freqmap.Map, Stats, error) {
	start := time.Now()
	var skipped atomic.Int64

	var global *freqmap.Map
	var err error
	switch a.cfg.Strategy {
	case config.StrategyDistributed:
		global, err = a.runDistributed(ctx, sources, &skipped)
	default:
		global, err = a.runShared(ctx, sources, &skipped)
	}
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{
		Sources:  len(sources),
		Skipped:  int(skipped.Load()),
		Distinct: global.Items(),
		Elapsed:  time.Since(start),
	}
	a.log.Debug("aggregation complete",
		"strategy", string(a.cfg.Strategy),
		"workers", a.cfg.Workers,
		"sources", stats.Sources,
		"skipped", stats.Skipped,
		"distinct", stats.Distinct,
		"elapsed", stats.Elapsed)
	return global, stats, nil
}

// runWorker scans the worker's assigned sources into a private map and
// hands the finished map to col. The scan completes fully before the map
// participates in any reduction.
func (a *Aggregator) runWorker(ctx context.Context, id int, next func() (string, bool), delims *scan.DelimSet, skipped *atomic.Int64, col Collector) error {
	local := freqmap.New()
	for {
		src, ok := next()
		if !ok {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		fileMap, err := a.scanSource(src, delims)
		if err != nil {
			skipped.Add(1)
			a.log.Warn("skipping unreadable source", "worker", id, "source", src, "error", err)
			continue
		}
		local.Merge(fileMap)
	}
	a.log.Debug("worker scan complete", "worker", id, "distinct", local.Items())
	return col.Contribute(local)
}

// scanSource builds a fresh map from one file. Open and read failures
// are recoverable at the caller: the partial map is discarded and the
// source skipped.
func (a *Aggregator) scanSource(path string, delims *scan.DelimSet) (*freqmap.Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m := freqmap.New()
	s := scan.NewScanner(f, delims)
	for s.Scan() {
		m.Insert(s.Word())
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	a.log.Debug("source scanned", "source", path, "distinct", m.Items())
	return m, nil
}

// staticNext walks a round-robin assignment: rank takes sources rank,
// rank+workers, rank+2*workers and so on.
func staticNext(sources []string, rank, workers int) func() (string, bool) {
	i := rank
	return func() (string, bool) {
		if i >= len(sources) {
			return "", false
		}
		s := sources[i]
		i += workers
		return s, true
	}
}

// chanNext draws from a shared jobs channel (dynamic scheduling, for
// load balance when source sizes vary).
func chanNext(jobs <-chan string) func() (string, bool) {
	return func() (string, bool) {
		s, ok := <-jobs
		return s, ok
	}
}
