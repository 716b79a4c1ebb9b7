// Package tabulate implements §5's fuzz-differential tabulation: a fixed
// pool of workers, each independently generating, interpreting and
// optionally cross-checking patterns against an external reference
// engine, feeding an append-only result accumulator.
//
// The pool itself is grounded on gitrdm-gokando's internal/parallel.WorkerPool
// (bounded goroutines draining a task channel, backpressure via the
// channel's buffer) but simplified to a fixed-size pool: §5 never asks
// for the teacher's dynamic up/down scaling, only a worker count fixed
// for the run's duration.
package tabulate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Task is one fuzz trial: run performs it and returns its Record, or an
// error if it could not even be attempted (never for an interpreter
// abort or a sat/unsat verdict — those are themselves valid Records).
type Task struct {
	Seed int64
	Run  func(ctx context.Context, seed int64) (Record, error)
}

// Pool runs a fixed number of workers over a stream of tasks, each
// worker seeding its own randomness from BaseSeed+taskIndex (§5).
type Pool struct {
	Workers int
}

// NewPool returns a pool with workers workers, clamped to at least 1.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{Workers: workers}
}

// Run executes n tasks (seeds baseSeed..baseSeed+n-1) across the pool,
// appending every completed Record to the returned Accumulator. A task
// whose Run panics or returns an error is recovered (safe.go) and
// recorded as a FailedAnalysis Record rather than aborting the whole run.
// Once ctx is cancelled no further task is started; tasks already running
// finish, and Run returns ctx's error.
func (p *Pool) Run(ctx context.Context, baseSeed int64, n int, run func(ctx context.Context, seed int64) (Record, error)) (*Accumulator, error) {
	acc := NewAccumulator(2 * p.Workers)

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, p.Workers)
	for i := 0; i < n && ctx.Err() == nil; i++ {
		i := i
		sem <- struct{}{}
		g.Go(func() error {
			defer func() { <-sem }()
			seed := baseSeed + int64(i)
			rec := runSafely(gctx, seed, run)
			acc.Append(rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return acc, err
	}
	return acc, ctx.Err()
}
