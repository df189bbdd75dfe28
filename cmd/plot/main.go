package main

import (
	"flag"
	"fmt"
	"os"

	"smartrockets/internal/chart"
	"smartrockets/internal/env"
	"smartrockets/internal/logging"
)

func main() {
	csvPath := flag.String("csv", "runs/data.csv", "generation log written by train")
	outPath := flag.String("out", "runs/chart.png", "output PNG path")
	replayPath := flag.String("replay", "", "optional replay JSON to draw as a trajectory instead")
	width := flag.Float64("width", 800, "world width for trajectory plots")
	height := flag.Float64("height", 600, "world height for trajectory plots")
	cellSize := flag.Int("cell", 5, "obstacle cell size for trajectory plots")
	flag.Parse()

	if *replayPath != "" {
		replay, err := env.LoadReplay(*replayPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading replay: %v\n", err)
			os.Exit(1)
		}
		if err := chart.Trajectory(replay, *width, *height, *cellSize, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error drawing trajectory: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Trajectory of gen %d written to %s\n", replay.Generation, *outPath)
		return
	}

	points, err := logging.ReadHistory(*csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", *csvPath, err)
		os.Exit(1)
	}
	if len(points) == 0 {
		fmt.Fprintf(os.Stderr, "Error: %s has no generations\n", *csvPath)
		os.Exit(1)
	}
	if err := chart.SuccessRate(points, *outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error drawing chart: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d generations plotted to %s\n", len(points), *outPath)
}
