package aggregate

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"wordfreq/freqmap"
	"wordfreq/scan"
)

// sharedCollector merges contributions into one map under a single
// mutex. The whole merge is the critical section; workers never insert
// into the shared destination directly.
type sharedCollector struct {
	mu     sync.Mutex
	global *freqmap.Map
}

func (c *sharedCollector) Contribute(m *freqmap.Map) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.global.Merge(m)
	return nil
}

// runShared runs the shared-memory strategy: a worker pool drawing
// sources from one jobs channel, each merging its private map into the
// global map when its scan is done.
func (a *Aggregator) runShared(ctx context.Context, sources []string, skipped *atomic.Int64) (*freqmap.Map, error) {
	delims := scan.NewDelimSet(a.cfg.Delimiters)
	jobs := make(chan string, len(sources))
	for _, s := range sources {
		jobs <- s
	}
	close(jobs)

	col := &sharedCollector{global: freqmap.New()}
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < a.cfg.Workers; w++ {
		id := w
		g.Go(func() error {
			return a.runWorker(ctx, id, chanNext(jobs), delims, skipped, col)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return col.global, nil
}
