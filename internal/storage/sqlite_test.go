package storage

import (
	"context"
	"path/filepath"
	"testing"

	"smartrockets/internal/env"
	"smartrockets/internal/ga"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLiteStoreRunAndGenerationsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	runID, err := store.CreateRun(ctx, "seed: 1\n")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	run, ok, err := store.GetRun(ctx, runID)
	if err != nil || !ok {
		t.Fatalf("get run: ok=%v err=%v", ok, err)
	}
	if run.Config != "seed: 1\n" || run.StartedAt.IsZero() {
		t.Fatalf("unexpected run: %+v", run)
	}

	sink := store.ForRun(runID)
	for gen := 1; gen <= 3; gen++ {
		s := ga.Summary{
			Generation:  gen,
			SuccessRate: float64(gen) / 10,
			BestFitness: 5,
			MeanFitness: 1,
			Outcomes:    env.Tally{Hits: gen, Crashes: 10 - gen},
		}
		if err := sink.Record(ctx, s); err != nil {
			t.Fatalf("record gen %d: %v", gen, err)
		}
	}
	// overwrite generation 2
	if err := sink.Record(ctx, ga.Summary{Generation: 2, SuccessRate: 0.9}); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	gens, err := store.Generations(ctx, runID)
	if err != nil {
		t.Fatalf("generations: %v", err)
	}
	if len(gens) != 3 {
		t.Fatalf("stored %d generations, want 3", len(gens))
	}
	if gens[0].Generation != 1 || gens[0].Hits != 1 || gens[0].Crashes != 9 {
		t.Fatalf("unexpected first record: %+v", gens[0])
	}
	if gens[1].SuccessRate != 0.9 {
		t.Fatalf("upsert did not replace generation 2: %+v", gens[1])
	}
}

func TestSQLiteStoreUnknownRun(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, ok, err := store.GetRun(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v, want not found", ok, err)
	}
	gens, err := store.Generations(ctx, "missing")
	if err != nil || len(gens) != 0 {
		t.Fatalf("gens=%v err=%v", gens, err)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	if _, err := store.CreateRun(context.Background(), ""); err == nil {
		t.Fatalf("expected error before init")
	}
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestSQLiteStoreRejectsGenerationsOfUnknownRun(t *testing.T) {
	store := newTestStore(t)
	if err := store.SaveGeneration(context.Background(), "missing", ga.Summary{Generation: 1}); err == nil {
		t.Fatalf("expected foreign key error for unknown run")
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")
	store := NewSQLiteStore(path)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := store.Init(ctx); err != nil {
		t.Fatalf("second init: %v", err)
	}
	runID, err := store.CreateRun(ctx, "seed: 2\n")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := store.Init(ctx); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	if _, ok, err := store.GetRun(ctx, runID); err != nil || !ok {
		t.Fatalf("run lost across reopen: ok=%v err=%v", ok, err)
	}
}
