package sim

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"smartrockets/internal/config"
	"smartrockets/internal/env"
	"smartrockets/internal/eval"
	"smartrockets/internal/ga"
)

func newTestRunner(t *testing.T, sinks ...Sink) *Runner {
	t.Helper()
	cfg := config.Default()
	cfg.GA.Population = 8
	cfg.GA.Lifespan = 15

	world := env.NewWorld(cfg)
	pop, err := ga.NewPopulation(ga.ParamsFromConfig(cfg), world, eval.NewScorer(cfg), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		t.Fatalf("new population: %v", err)
	}
	return NewRunner(pop, env.NewObstacleFieldFromConfig(cfg), sinks...)
}

func TestTickAlternatesBetweenUpdateAndEvolve(t *testing.T) {
	var got []ga.Summary
	r := newTestRunner(t, SinkFunc(func(_ context.Context, s ga.Summary) error {
		got = append(got, s)
		return nil
	}))
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, ended, err := r.Tick(ctx)
		if err != nil || ended {
			t.Fatalf("tick %d: ended=%v err=%v", i, ended, err)
		}
	}
	if r.Ticks() != 15 || !r.Population().AllDone() {
		t.Fatalf("ticks=%d done=%v", r.Ticks(), r.Population().AllDone())
	}

	summary, ended, err := r.Tick(ctx)
	if err != nil || !ended {
		t.Fatalf("boundary tick: ended=%v err=%v", ended, err)
	}
	if summary.Generation != 1 || r.Population().Generation() != 2 {
		t.Fatalf("summary gen=%d population gen=%d", summary.Generation, r.Population().Generation())
	}
	if len(got) != 1 || got[0].Outcomes.Total() != 8 {
		t.Fatalf("sink received %+v", got)
	}
	if r.Ticks() != 0 {
		t.Fatalf("tick counter not reset")
	}
}

func TestRunEvolvesRequestedGenerations(t *testing.T) {
	r := newTestRunner(t)
	r.ReplayEvery = 2
	var replays int
	r.AddSink(SinkFunc(func(_ context.Context, s ga.Summary) error {
		if s.Replay != nil {
			replays++
			if s.Replay.Generation != s.Generation {
				t.Errorf("replay generation %d on summary %d", s.Replay.Generation, s.Generation)
			}
		}
		return nil
	}))

	n, err := r.Run(context.Background(), 4, nil)
	if err != nil || n != 4 {
		t.Fatalf("run: n=%d err=%v", n, err)
	}
	if r.Population().Generation() != 5 || r.Population().Size() != 8 {
		t.Fatalf("generation=%d size=%d", r.Population().Generation(), r.Population().Size())
	}
	if replays != 2 {
		t.Fatalf("replays = %d, want 2", replays)
	}
}

func TestRunReportsSinkErrorsWithoutStopping(t *testing.T) {
	boom := errors.New("disk full")
	r := newTestRunner(t, SinkFunc(func(context.Context, ga.Summary) error { return boom }))

	var seen int
	n, err := r.Run(context.Background(), 2, func(err error) {
		if !errors.Is(err, boom) {
			t.Errorf("unexpected error %v", err)
		}
		seen++
	})
	if err != nil || n != 2 || seen != 2 {
		t.Fatalf("n=%d err=%v seen=%d", n, err, seen)
	}

	r2 := newTestRunner(t, SinkFunc(func(context.Context, ga.Summary) error { return boom }))
	if _, err := r2.Run(context.Background(), 2, nil); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want sink error", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	r := newTestRunner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := r.Run(ctx, 3, nil)
	if !errors.Is(err, context.Canceled) || n != 0 {
		t.Fatalf("n=%d err=%v", n, err)
	}
}
