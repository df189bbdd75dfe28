// Package sim drives a population tick by tick and hands every finished
// generation to a set of sinks.
package sim

import (
	"context"
	"errors"
	"fmt"

	"smartrockets/internal/env"
	"smartrockets/internal/ga"
)

// Sink consumes one summary per generation boundary
type Sink interface {
	Record(ctx context.Context, s ga.Summary) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, s ga.Summary) error

// Record calls f
func (f SinkFunc) Record(ctx context.Context, s ga.Summary) error {
	return f(ctx, s)
}

// Runner owns the tick loop around a population and its obstacle field
type Runner struct {
	pop       *ga.Population
	obstacles *env.ObstacleField
	sinks     []Sink

	// ReplayEvery > 0 attaches the best rocket's replay to every Nth summary
	ReplayEvery int
	ticks       int
}

// NewRunner creates a runner. A nil field is replaced by an empty one.
func NewRunner(pop *ga.Population, obstacles *env.ObstacleField, sinks ...Sink) *Runner {
	if obstacles == nil {
		obstacles = env.NewObstacleField(5)
	}
	return &Runner{
		pop:       pop,
		obstacles: obstacles,
		sinks:     sinks,
	}
}

// Population returns the driven population
func (r *Runner) Population() *ga.Population {
	return r.pop
}

// Obstacles returns the obstacle field; callers may edit it between ticks
func (r *Runner) Obstacles() *env.ObstacleField {
	return r.obstacles
}

// AddSink registers another consumer of generation summaries
func (r *Runner) AddSink(s Sink) {
	r.sinks = append(r.sinks, s)
}

// Ticks returns the number of ticks run in the current generation
func (r *Runner) Ticks() int {
	return r.ticks
}

// Tick performs exactly one of: advance all rockets by one step, or evaluate
// and evolve a finished generation. ended reports which one happened; the
// summary is only meaningful when ended is true. Sink errors are joined and
// returned after evolution has completed.
func (r *Runner) Tick(ctx context.Context) (summary ga.Summary, ended bool, err error) {
	if !r.pop.AllDone() {
		r.pop.Update(r.obstacles)
		r.ticks++
		return ga.Summary{}, false, nil
	}

	r.pop.Evaluate()
	summary = r.pop.Summarize()
	if r.ReplayEvery > 0 && summary.Generation%r.ReplayEvery == 0 {
		best := r.pop.Best()
		summary.Replay = env.Trace(r.pop.World(), best.DNA, r.obstacles)
		summary.Replay.Generation = summary.Generation
	}
	r.pop.Evolve()
	r.ticks = 0

	var errs []error
	for _, s := range r.sinks {
		if err := s.Record(ctx, summary); err != nil {
			errs = append(errs, err)
		}
	}
	return summary, true, errors.Join(errs...)
}

// Run ticks until the given number of generations has been evolved or ctx is
// cancelled. Sink errors are passed to onErr when it is non-nil and do not
// stop the run.
func (r *Runner) Run(ctx context.Context, generations int, onErr func(error)) (int, error) {
	done := 0
	for done < generations {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		_, ended, err := r.Tick(ctx)
		if err != nil {
			if onErr == nil {
				return done, fmt.Errorf("generation %d: %w", r.pop.Generation()-1, err)
			}
			onErr(err)
		}
		if ended {
			done++
		}
	}
	return done, nil
}
