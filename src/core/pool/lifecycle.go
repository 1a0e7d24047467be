package pool

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// Warm opens connections until Min are open. Connections are created
// concurrently and parked in the idle set; the first create error is returned.
func (p *Pool) Warm(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	need := p.cfg.Min - p.numOpen
	if need <= 0 {
		p.mu.Unlock()
		return nil
	}
	p.numOpen += need
	p.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	for range need {
		g.Go(func() error {
			c, err := p.open(gctx)
			if err != nil {
				return err
			}
			return p.Release(c)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	p.log.Debug("pool warmed", "opened", need)
	return nil
}

func (p *Pool) reapLoop(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.cfg.ReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.reap(time.Now())
			if err := p.Warm(ctx); err != nil && ctx.Err() == nil {
				p.log.Warn("failed to maintain minimum connections", "error", err)
			}
		}
	}
}

// reap evicts idle connections past IdleTimeout while more than Min are open.
func (p *Pool) reap(now time.Time) int {
	if p.cfg.IdleTimeout <= 0 {
		return 0
	}

	p.mu.Lock()
	var evicted []*session
	// idle is ordered by return time, so expired connections sit at the front
	for len(p.idle) > 0 && p.numOpen > p.cfg.Min {
		s := p.idle[0]
		if !p.expired(s, now) {
			break
		}
		p.idle[0] = nil
		p.idle = p.idle[1:]
		s.state = stateClosed
		p.slotFreedLocked()
		evicted = append(evicted, s)
	}
	p.mu.Unlock()

	p.closeConns(evicted, "idle_timeout")
	if len(evicted) > 0 {
		p.log.Debug("evicted idle connections", "count", len(evicted))
	}
	return len(evicted)
}
