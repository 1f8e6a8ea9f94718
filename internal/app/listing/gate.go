package listing

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// hostGate enforces the per-host request delay and concurrency cap.
type hostGate struct {
	limiter *rate.Limiter
	sem     *semaphore.Weighted
}

type hostGates struct {
	delay time.Duration
	max   int64

	mu     sync.Mutex
	byHost map[string]*hostGate
}

func newHostGates(delay time.Duration, maxConcurrent int) *hostGates {
	return &hostGates{
		delay:  delay,
		max:    int64(maxConcurrent),
		byHost: make(map[string]*hostGate),
	}
}

func (g *hostGates) get(host string) *hostGate {
	g.mu.Lock()
	defer g.mu.Unlock()

	gate, ok := g.byHost[host]
	if !ok {
		limit := rate.Inf
		if g.delay > 0 {
			limit = rate.Every(g.delay)
		}
		limiter := rate.NewLimiter(limit, 1)
		// Drain the initial token so the first request also waits.
		limiter.Allow()
		gate = &hostGate{
			limiter: limiter,
			sem:     semaphore.NewWeighted(g.max),
		}
		g.byHost[host] = gate
	}
	return gate
}

// acquire blocks until a request to host may start. Every call waits at
// least the full delay, and concurrent callers are additionally spaced by the
// limiter. The returned func must be called when the request completes.
func (g *hostGates) acquire(ctx context.Context, host string) (func(), error) {
	gate := g.get(host)
	if err := gate.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	release := func() { gate.sem.Release(1) }

	start := time.Now()
	if err := gate.limiter.Wait(ctx); err != nil {
		release()
		return nil, err
	}
	if err := sleep(ctx, g.delay-time.Since(start)); err != nil {
		release()
		return nil, err
	}
	return release, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
