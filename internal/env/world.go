package env

import (
	"math"

	"github.com/golang/geo/r2"

	"smartrockets/internal/config"
)

// ClampMode selects how velocity is limited once it exceeds MaxVelocity
type ClampMode int

const (
	// ClampLegacy multiplies velocity by |v|²/MaxVelocity. This grows the
	// velocity instead of capping it; kept for parity with recorded runs.
	ClampLegacy ClampMode = iota
	// ClampCap rescales velocity to exactly MaxVelocity
	ClampCap
)

const (
	// ThrustGain scales every genome force before it is added to acceleration
	ThrustGain = 2.0
	// GravityY is the constant downward acceleration restored each tick
	GravityY = -0.1
)

// World holds the fixed geometry and physics constants shared by all rockets
type World struct {
	Width        float64
	Height       float64
	Start        r2.Point
	Target       r2.Point
	TargetRadius float64
	Lifespan     int

	MaxVelocity float64
	Clamp       ClampMode

	// NewWorld sets these from ThrustGain and GravityY
	ThrustGain float64
	Gravity    r2.Point
}

// NewWorld builds the world from a loaded config
func NewWorld(cfg *config.Config) *World {
	w := &World{
		Width:        cfg.World.Width,
		Height:       cfg.World.Height,
		TargetRadius: cfg.World.TargetRadius,
		Lifespan:     cfg.GA.Lifespan,
		MaxVelocity:  cfg.Physics.MaxVelocity,
		ThrustGain:   ThrustGain,
		Gravity:      r2.Point{X: 0, Y: GravityY},
	}
	if start := cfg.World.Start; start != nil {
		w.Start = r2.Point{X: start.X, Y: start.Y}
	}
	if target := cfg.World.Target; target != nil {
		w.Target = r2.Point{X: target.X, Y: target.Y}
	}
	if cfg.Physics.Clamp == config.ClampCap {
		w.Clamp = ClampCap
	}
	return w
}

// InBounds reports whether p lies inside the closed screen rectangle
func (w *World) InBounds(p r2.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= w.Width && p.Y <= w.Height
}

// DistanceToTarget returns the Euclidean distance from p to the target
func (w *World) DistanceToTarget(p r2.Point) float64 {
	return p.Sub(w.Target).Norm()
}

func (w *World) limitVelocity(v r2.Point) r2.Point {
	speed2 := v.Dot(v)
	if speed2 <= w.MaxVelocity*w.MaxVelocity {
		return v
	}
	if w.Clamp == ClampCap {
		return v.Mul(w.MaxVelocity / math.Sqrt(speed2))
	}
	return v.Mul(speed2 / w.MaxVelocity)
}
