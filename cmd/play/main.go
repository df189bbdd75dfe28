//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"smartrockets/internal/config"
	"smartrockets/internal/env"
	"smartrockets/internal/eval"
	"smartrockets/internal/ga"
	"smartrockets/internal/sim"
)

var (
	colorBackground = color.RGBA{R: 0x10, G: 0x10, B: 0x18, A: 0xff}
	colorObstacle   = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc8, A: 0xff}
	colorTarget     = color.RGBA{R: 0x40, G: 0xd0, B: 0x60, A: 0xff}
	colorRocket     = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x90}
	colorCrashed    = color.RGBA{R: 0xd0, G: 0x40, B: 0x40, A: 0x90}
)

// Game adapts the rocket runner to the ebiten.Game interface
type Game struct {
	runner *sim.Runner
	world  *env.World
	view   screenView
	speed  int
	paused bool
	last   ga.Summary
}

func main() {
	configPath := flag.String("config", "", "path to config file (defaults are used when empty)")
	speed := flag.Int("speed", 1, "simulation ticks per frame")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	world := env.NewWorld(cfg)
	pop, err := ga.NewPopulation(ga.ParamsFromConfig(cfg), world, eval.NewScorer(cfg), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		log.Fatalf("creating population: %v", err)
	}

	game := &Game{
		runner: sim.NewRunner(pop, env.NewObstacleFieldFromConfig(cfg)),
		world:  world,
		view:   screenView{height: world.Height},
		speed:  max(*speed, 1),
	}

	ebiten.SetWindowTitle("smart rockets")
	ebiten.SetWindowSize(int(world.Width), int(world.Height))

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}

// Update handles input and advances the simulation
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.runner.Obstacles().Clear()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.speed *= 2
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) && g.speed > 1 {
		g.speed /= 2
	}

	cursor := g.view.toWorld(ebiten.CursorPosition())
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		g.runner.Obstacles().Add(cursor)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		g.runner.Obstacles().Remove(cursor)
	}

	if g.paused {
		return nil
	}
	ctx := context.Background()
	for i := 0; i < g.speed; i++ {
		summary, ended, err := g.runner.Tick(ctx)
		if err != nil {
			return err
		}
		if ended {
			g.last = summary
			fmt.Printf("Gen %4d | Success: %5.1f%% | Best: %.4f\n", summary.Generation, summary.SuccessRate*100, summary.BestFitness)
		}
	}
	return nil
}

// Draw renders obstacles, the target and every rocket
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	field := g.runner.Obstacles()
	for _, c := range field.Cells() {
		x, y, side := g.view.cellRect(c, field.CellSize())
		vector.DrawFilledRect(screen, x, y, side, side, colorObstacle, false)
	}

	tx, ty := g.view.toScreen(g.world.Target)
	vector.DrawFilledCircle(screen, tx, ty, float32(g.world.TargetRadius), colorTarget, true)

	for _, r := range g.runner.Population().Rockets {
		clr := colorRocket
		if r.Crashed {
			clr = colorCrashed
		}
		x, y := g.view.toScreen(r.Position)
		vector.DrawFilledCircle(screen, x, y, 3, clr, true)
	}

	status := fmt.Sprintf("Gen %d  tick %d  x%d\nlast success %.1f%%\nLMB add  RMB remove  C clear  SPACE pause",
		g.runner.Population().Generation(), g.runner.Ticks(), g.speed, g.last.SuccessRate*100)
	if g.paused {
		status += "\nPAUSED"
	}
	ebitenutil.DebugPrint(screen, status)
}

// Layout keeps a 1:1 mapping between world units and pixels
func (g *Game) Layout(_, _ int) (int, int) {
	return int(g.world.Width), int(g.world.Height)
}
