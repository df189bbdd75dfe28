// Package chart renders run history and rocket trajectories with gonum/plot.
package chart

import (
	"errors"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"smartrockets/internal/env"
	"smartrockets/internal/logging"
)

var (
	rateColor     = color.RGBA{R: 220, A: 255}
	pathColor     = color.RGBA{R: 30, G: 90, B: 200, A: 255}
	obstacleColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
	targetColor   = color.RGBA{G: 160, A: 255}
)

// SuccessRate draws the percentage of rockets reaching the target per generation
func SuccessRate(points []logging.Point, outPath string) error {
	if len(points) == 0 {
		return errors.New("chart: no generations to plot")
	}

	p := plot.New()
	p.Title.Text = "Rocket evolution"
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = "Rockets reaching the target (%)"
	p.Y.Min = 0
	p.Y.Max = 100
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(points))
	for i, pt := range points {
		pts[i].X = float64(pt.Generation)
		pts[i].Y = pt.SuccessRate * 100
	}

	line, scatter, err := plotter.NewLinePoints(pts)
	if err != nil {
		return err
	}
	line.Color = rateColor
	scatter.Color = rateColor
	scatter.GlyphStyle.Shape = draw.CircleGlyph{}
	scatter.GlyphStyle.Radius = vg.Points(2)

	p.Add(line, scatter)
	p.Legend.Add("success rate", line, scatter)
	p.Legend.Top = true
	p.Legend.Left = true

	return save(p, 8*vg.Inch, 6*vg.Inch, outPath)
}

// Trajectory draws a replayed flight with the target and obstacle cells.
// World and plot share the same y-up orientation.
func Trajectory(replay *env.Replay, width, height float64, cellSize int, outPath string) error {
	if replay == nil || len(replay.Path) == 0 {
		return errors.New("chart: empty replay")
	}

	p := plot.New()
	p.Title.Text = "Best rocket, " + replay.FinalStats.Outcome.String()
	p.X.Min, p.X.Max = 0, width
	p.Y.Min, p.Y.Max = 0, height
	p.Add(plotter.NewGrid())

	if len(replay.Obstacles) > 0 {
		half := float64(cellSize) / 2
		cells := make(plotter.XYs, len(replay.Obstacles))
		for i, c := range replay.Obstacles {
			cells[i].X = float64(c.X) + half
			cells[i].Y = float64(c.Y) + half
		}
		sc, err := plotter.NewScatter(cells)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Shape = draw.BoxGlyph{}
		sc.GlyphStyle.Color = obstacleColor
		sc.GlyphStyle.Radius = vg.Points(1.5)
		p.Add(sc)
	}

	target, err := plotter.NewPolygon(circlePolygon(replay.Target.X, replay.Target.Y, replay.Radius, 64))
	if err != nil {
		return err
	}
	target.Color = targetColor
	target.LineStyle.Color = targetColor
	p.Add(target)

	xy := make(plotter.XYs, len(replay.Path))
	for i, pt := range replay.Path {
		xy[i].X = pt.X
		xy[i].Y = pt.Y
	}
	line, err := plotter.NewLine(xy)
	if err != nil {
		return err
	}
	line.Color = pathColor
	line.Width = vg.Points(1.5)
	p.Add(line)

	start, err := plotter.NewScatter(plotter.XYs{{X: replay.Start.X, Y: replay.Start.Y}})
	if err != nil {
		return err
	}
	start.GlyphStyle.Shape = draw.CircleGlyph{}
	start.GlyphStyle.Color = pathColor
	start.GlyphStyle.Radius = vg.Points(4)
	p.Add(start)

	aspect := height / width
	return save(p, 6*vg.Inch, vg.Length(6*aspect)*vg.Inch, outPath)
}

func circlePolygon(cx, cy, r float64, n int) plotter.XYs {
	pts := make(plotter.XYs, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i].X = cx + r*math.Cos(a)
		pts[i].Y = cy + r*math.Sin(a)
	}
	return pts
}

func save(p *plot.Plot, w, h vg.Length, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return err
	}
	return p.Save(w, h, outPath)
}
