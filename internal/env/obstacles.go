package env

import (
	"math"
	"sort"

	"github.com/golang/geo/r2"

	"smartrockets/internal/config"
)

// Cell is the top-left corner of a grid cell, in world units
type Cell struct {
	X, Y int
}

// Obstacles is the read-only collision query a rocket needs each tick
type Obstacles interface {
	Occupied(p r2.Point) bool
}

// ObstacleField is a set of blocked grid cells of a fixed size
type ObstacleField struct {
	size  int
	cells map[Cell]struct{}
}

// NewObstacleField creates an empty field. Non-positive sizes fall back to 1.
func NewObstacleField(cellSize int) *ObstacleField {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &ObstacleField{
		size:  cellSize,
		cells: make(map[Cell]struct{}),
	}
}

// NewObstacleFieldFromConfig creates a field pre-painted with configured cells and rects
func NewObstacleFieldFromConfig(cfg *config.Config) *ObstacleField {
	f := NewObstacleField(cfg.World.CellSize)
	for _, c := range cfg.Obstacles.Cells {
		f.Add(r2.Point{X: c.X, Y: c.Y})
	}
	for _, r := range cfg.Obstacles.Rects {
		f.AddRect(r.X, r.Y, r.W, r.H)
	}
	return f
}

// CellSize returns the grid spacing
func (f *ObstacleField) CellSize() int {
	return f.size
}

// Snap maps p to its containing cell. Coordinates are floored, so negative
// positions land in the cell to their lower-left rather than toward zero.
func (f *ObstacleField) Snap(p r2.Point) Cell {
	s := float64(f.size)
	return Cell{
		X: int(math.Floor(p.X/s)) * f.size,
		Y: int(math.Floor(p.Y/s)) * f.size,
	}
}

// Contains reports whether the cell is blocked
func (f *ObstacleField) Contains(c Cell) bool {
	_, ok := f.cells[c]
	return ok
}

// Occupied reports whether the cell containing p is blocked
func (f *ObstacleField) Occupied(p r2.Point) bool {
	return f.Contains(f.Snap(p))
}

// Add blocks the cell containing p. Returns false if it was already blocked.
func (f *ObstacleField) Add(p r2.Point) bool {
	c := f.Snap(p)
	if f.Contains(c) {
		return false
	}
	f.cells[c] = struct{}{}
	return true
}

// Remove unblocks the cell containing p. Returns false if it was free.
func (f *ObstacleField) Remove(p r2.Point) bool {
	c := f.Snap(p)
	if !f.Contains(c) {
		return false
	}
	delete(f.cells, c)
	return true
}

// AddRect blocks every cell overlapping the rectangle and returns how many
// cells were newly added.
func (f *ObstacleField) AddRect(x, y, w, h float64) int {
	if w <= 0 || h <= 0 {
		return 0
	}
	s := float64(f.size)
	from := f.Snap(r2.Point{X: x, Y: y})
	// exclusive far edge: a rect ending exactly on a grid line stops there
	to := f.Snap(r2.Point{X: math.Nextafter(x+w, math.Inf(-1)), Y: math.Nextafter(y+h, math.Inf(-1))})

	added := 0
	for cy := from.Y; cy <= to.Y; cy += f.size {
		for cx := from.X; cx <= to.X; cx += f.size {
			if f.Add(r2.Point{X: float64(cx) + s/2, Y: float64(cy) + s/2}) {
				added++
			}
		}
	}
	return added
}

// Clear removes every obstacle
func (f *ObstacleField) Clear() {
	clear(f.cells)
}

// Len returns the number of blocked cells
func (f *ObstacleField) Len() int {
	return len(f.cells)
}

// Cells returns the blocked cells sorted by row, then column
func (f *ObstacleField) Cells() []Cell {
	out := make([]Cell, 0, len(f.cells))
	for c := range f.cells {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}
