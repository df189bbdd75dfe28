package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"smartrockets/internal/chart"
	"smartrockets/internal/config"
	"smartrockets/internal/env"
	"smartrockets/internal/eval"
	"smartrockets/internal/ga"
	"smartrockets/internal/logging"
	"smartrockets/internal/metrics"
	"smartrockets/internal/sim"
	"smartrockets/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults are used when empty)")
	generations := flag.Int("generations", 200, "number of generations to run")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	source := *configPath
	if source == "" {
		source = "defaults"
	}
	if err := run(ctx, cfg, source, *generations); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, source string, generations int) error {
	fmt.Printf("Smart Rockets Trainer - Fitness: %s, Clamp: %s\n", cfg.Fitness.Mode, cfg.Physics.Clamp)
	fmt.Printf("Config: %s\n", source)
	fmt.Printf("Population: %d, Lifespan: %d, Mutation: %.3f\n", cfg.GA.Population, cfg.GA.Lifespan, *cfg.GA.MutationRate)

	rng := rand.New(rand.NewSource(cfg.Seed))
	world := env.NewWorld(cfg)
	obstacles := env.NewObstacleFieldFromConfig(cfg)
	fmt.Printf("Obstacles: %d cells of %dpx\n", obstacles.Len(), obstacles.CellSize())
	fmt.Println("---")

	pop, err := ga.NewPopulation(ga.ParamsFromConfig(cfg), world, eval.NewScorer(cfg), rng)
	if err != nil {
		return fmt.Errorf("creating population: %w", err)
	}

	var console io.Writer
	if cfg.Logging.EveryGenSummary {
		console = os.Stdout
	}
	logger, err := logging.NewLogger(cfg.Logging.CSVPath, cfg.Logging.JSONPath, console)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	if err := logger.Init(); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	defer logger.Close()

	runner := sim.NewRunner(pop, obstacles, logger)
	runner.ReplayEvery = cfg.Logging.ReplayEvery

	if cfg.Storage.SQLitePath != "" {
		store := storage.NewSQLiteStore(cfg.Storage.SQLitePath)
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("opening run store: %w", err)
		}
		defer store.Close()

		runID, err := store.CreateRun(ctx, cfg.YAML())
		if err != nil {
			return fmt.Errorf("creating run: %w", err)
		}
		fmt.Printf("Run ID: %s\n", runID)
		runner.AddSink(store.ForRun(runID))
	}

	if cfg.Metrics.Addr != "" {
		collector := metrics.NewCollector()
		runner.AddSink(collector)
		go func() {
			if err := collector.Serve(ctx, cfg.Metrics.Addr); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: metrics server stopped: %v\n", err)
			}
		}()
		fmt.Printf("Metrics: http://%s/metrics\n", cfg.Metrics.Addr)
	}

	runner.AddSink(sim.SinkFunc(func(_ context.Context, s ga.Summary) error {
		writeArtifacts(cfg, logger, s)
		return nil
	}))

	startTime := time.Now()
	done, err := runner.Run(ctx, generations, func(err error) {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	})

	elapsed := time.Since(startTime)
	fmt.Println("---")
	fmt.Printf("Training complete! %d generations in %v\n", done, elapsed)
	if history := logger.History(); len(history) > 0 {
		if err := chart.SuccessRate(history, cfg.Logging.ChartPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write chart: %v\n", err)
		}
		last := history[len(history)-1]
		fmt.Printf("Final success rate: %.1f%% (gen %d)\n", last.SuccessRate*100, last.Generation)
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// writeArtifacts refreshes the success chart and stores replays on their cadence
func writeArtifacts(cfg *config.Config, logger *logging.Logger, s ga.Summary) {
	if cfg.Logging.ChartEvery > 0 && s.Generation%cfg.Logging.ChartEvery == 0 {
		if err := chart.SuccessRate(logger.History(), cfg.Logging.ChartPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to write chart: %v\n", err)
		}
	}

	if s.Replay == nil {
		return
	}
	replayPath := filepath.Join(cfg.Logging.ReplayDir, fmt.Sprintf("replay_gen%d.json", s.Generation))
	if err := s.Replay.Save(replayPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save replay: %v\n", err)
	}
	pngPath := filepath.Join(cfg.Logging.ReplayDir, fmt.Sprintf("trajectory_gen%d.png", s.Generation))
	if err := chart.Trajectory(s.Replay, cfg.World.Width, cfg.World.Height, cfg.World.CellSize, pngPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to draw trajectory: %v\n", err)
	}
}
