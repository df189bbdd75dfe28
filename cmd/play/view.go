package main

import (
	"github.com/golang/geo/r2"

	"smartrockets/internal/env"
)

// screenView maps y-up world coordinates onto y-down window pixels
type screenView struct {
	height float64
}

func (v screenView) toScreen(p r2.Point) (float32, float32) {
	return float32(p.X), float32(v.height - p.Y)
}

func (v screenView) toWorld(x, y int) r2.Point {
	return r2.Point{X: float64(x), Y: v.height - float64(y)}
}

// cellRect returns the top-left pixel and side length of an obstacle cell.
// Cells are already in world units.
func (v screenView) cellRect(c env.Cell, size int) (x, y, side float32) {
	return float32(c.X), float32(v.height - float64(c.Y+size)), float32(size)
}
