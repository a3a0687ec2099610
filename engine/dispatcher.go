package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"
)

// Dispatcher coordinates the engines with staged escalation: the fastest
// engine starts first and heavier engines join if it has not succeeded
// after their delay.
type Dispatcher struct {
	engines          []Engine
	escalationDelays []time.Duration
	memory           *DomainMemory
}

// NewDispatcher creates a Dispatcher. engines[i] starts escalationDelays[i]
// after the race begins; missing delays are zero. memory may be nil.
func NewDispatcher(engines []Engine, escalationDelays []time.Duration, memory *DomainMemory) *Dispatcher {
	delays := make([]time.Duration, len(engines))
	copy(delays, escalationDelays)
	return &Dispatcher{
		engines:          engines,
		escalationDelays: delays,
		memory:           memory,
	}
}

// Engines returns the engine names in escalation order.
func (d *Dispatcher) Engines() []string {
	names := make([]string, len(d.engines))
	for i, e := range d.engines {
		names[i] = e.Name()
	}
	return names
}

// Dispatch returns the first successful result. If every engine fails, it
// returns the last error.
func (d *Dispatcher) Dispatch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if len(d.engines) == 1 {
		return d.engines[0].Fetch(ctx, req)
	}

	host := extractHost(req.URL)
	if d.memory != nil {
		if remembered := d.memory.Get(host); remembered != "" {
			for _, eng := range d.engines {
				if eng.Name() != remembered {
					continue
				}
				result, err := eng.Fetch(ctx, req)
				if err == nil {
					return result, nil
				}
				slog.Debug("remembered engine failed, running full race",
					"host", host, "engine", remembered, "error", err)
				d.memory.Delete(host)
				break
			}
		}
	}

	return d.race(ctx, req, host)
}

// race starts each engine after its escalation delay and returns the first
// success. Engines still waiting when a winner arrives never start; the
// ones in flight are cancelled.
func (d *Dispatcher) race(ctx context.Context, req *FetchRequest, host string) (*FetchResult, error) {
	raceCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	outcomes := make(chan attempt, len(d.engines))
	var wg sync.WaitGroup
	for i, eng := range d.engines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if a, started := d.stage(raceCtx, eng, d.escalationDelays[i], req); started {
				outcomes <- a
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	var errs []error
	for a := range outcomes {
		if a.err != nil {
			slog.Debug("engine failed", "engine", a.engine, "url", req.URL, "error", a.err)
			errs = append(errs, fmt.Errorf("%s: %w", a.engine, a.err))
			continue
		}
		cancel()
		if d.memory != nil {
			d.memory.Set(host, a.engine)
		}
		return a.result, nil
	}

	if len(errs) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("dispatcher: %s: %w", req.URL, err)
		}
		return nil, fmt.Errorf("dispatcher: no engine ran for %s", req.URL)
	}
	return nil, errors.Join(errs...)
}

type attempt struct {
	engine string
	result *FetchResult
	err    error
}

// stage waits out delay and runs e. It reports started=false when the race
// ended before e's turn came.
func (d *Dispatcher) stage(ctx context.Context, e Engine, delay time.Duration, req *FetchRequest) (attempt, bool) {
	if delay > 0 {
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return attempt{}, false
		case <-t.C:
		}
	}
	if ctx.Err() != nil {
		return attempt{}, false
	}
	result, err := e.Fetch(ctx, req)
	return attempt{engine: e.Name(), result: result, err: err}, true
}

// extractHost parses the hostname from a URL string.
func extractHost(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Hostname()
}
