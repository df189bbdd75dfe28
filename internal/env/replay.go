package env

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/golang/geo/r2"

	"smartrockets/internal/dna"
)

// Replay stores one rocket's deterministic flight path
type Replay struct {
	Generation int         `json:"generation"`
	Start      r2.Point    `json:"start"`
	Target     r2.Point    `json:"target"`
	Radius     float64     `json:"target_radius"`
	Obstacles  []Cell      `json:"obstacles,omitempty"`
	Genome     dna.Genome  `json:"genome"`
	Path       []r2.Point  `json:"path"`
	FinalStats FlightStats `json:"final_stats"`
}

// Trace re-flies genome from the start position until the rocket is done and
// records its position after every tick. Physics is deterministic, so the
// path matches the live flight under the same obstacles.
func Trace(world *World, genome dna.Genome, obstacles Obstacles) *Replay {
	r := NewRocket(world, genome)
	path := make([]r2.Point, 0, world.Lifespan+1)
	path = append(path, r.Position)

	for !r.Done() {
		r.Step(obstacles)
		path = append(path, r.Position)
	}

	replay := &Replay{
		Start:      world.Start,
		Target:     world.Target,
		Radius:     world.TargetRadius,
		Genome:     genome.Clone(),
		Path:       path,
		FinalStats: r.Stats(),
	}
	if field, ok := obstacles.(*ObstacleField); ok && field != nil {
		replay.Obstacles = field.Cells()
	}
	return replay
}

// Save writes the replay to a file
func (r *Replay) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadReplay loads a replay from a file
func LoadReplay(path string) (*Replay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
