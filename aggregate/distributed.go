package aggregate

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"wordfreq/codec"
	"wordfreq/freqmap"
	"wordfreq/scan"
	"wordfreq/wire"
)

// wireCollector ships a worker's finished map to the coordinator over
// its own connection. Contribute runs exactly once per worker: every
// worker sends one frame and the coordinator waits for them all.
type wireCollector struct {
	conn       net.Conn
	maxPayload int
}

func (c *wireCollector) Contribute(m *freqmap.Map) error {
	payload, err := codec.Encode(m, c.maxPayload)
	if err != nil {
		return err
	}
	return wire.Send(c.conn, payload, c.maxPayload)
}

// runDistributed runs the message-passing strategy. Workers share no
// memory: each scans a static round-robin share of the sources, encodes
// its map and sends it to the coordinator. Rank 0 is the coordinator; it
// merges its own share directly, without a codec round trip, then
// gathers one contribution per remote worker. A fatal error in any
// worker aborts the whole collective, since a partial contribution set
// cannot produce a correct global count.
func (a *Aggregator) runDistributed(ctx context.Context, sources []string, skipped *atomic.Int64) (*freqmap.Map, error) {
	delims := scan.NewDelimSet(a.cfg.Delimiters)
	workers := a.cfg.Workers
	global := freqmap.New()
	direct := &sharedCollector{global: global}

	if workers == 1 {
		if err := a.runWorker(ctx, 0, staticNext(sources, 0, 1), delims, skipped, direct); err != nil {
			return nil, err
		}
		return global, nil
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("coordinator listen: %w", err)
	}
	defer ln.Close()
	addr := ln.Addr().String()

	g, ctx := errgroup.WithContext(ctx)
	// Closing the listener on cancellation unblocks the coordinator's
	// Accept when a worker fails before contributing.
	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	for rank := 1; rank < workers; rank++ {
		rank := rank
		g.Go(func() error {
			conn, err := net.Dial("tcp", addr)
			if err != nil {
				return fmt.Errorf("worker %d dial coordinator: %w", rank, err)
			}
			defer conn.Close()
			col := &wireCollector{conn: conn, maxPayload: a.cfg.MaxPayload}
			if err := a.runWorker(ctx, rank, staticNext(sources, rank, workers), delims, skipped, col); err != nil {
				return fmt.Errorf("worker %d: %w", rank, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := a.runWorker(ctx, 0, staticNext(sources, 0, workers), delims, skipped, direct); err != nil {
			return err
		}
		for i := 1; i < workers; i++ {
			conn, err := ln.Accept()
			if err != nil {
				return fmt.Errorf("collective gather: %w", err)
			}
			payload, err := wire.Receive(conn, a.cfg.MaxPayload)
			conn.Close()
			if err != nil {
				return fmt.Errorf("receive contribution: %w", err)
			}
			m, dropped, err := codec.Decode(payload, a.cfg.MaxPayload)
			if err != nil {
				return fmt.Errorf("decode contribution: %w", err)
			}
			if dropped > 0 {
				a.log.Warn("dropped malformed records in contribution", "records", dropped)
			}
			global.Merge(m)
			a.log.Debug("contribution merged", "bytes", len(payload), "distinct", m.Items())
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return global, nil
}
