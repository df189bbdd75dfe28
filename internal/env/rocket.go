package env

import (
	"math"

	"github.com/golang/geo/r2"

	"smartrockets/internal/dna"
)

// Rocket is one simulated agent: physics state plus the genome driving it
type Rocket struct {
	Position r2.Point
	Velocity r2.Point
	DNA      dna.Genome

	Tick      int
	Fitness   float64
	HitTarget bool
	Crashed   bool

	// Closest distance to the target seen so far
	MinDistance float64
	Cause       CrashCause

	acceleration r2.Point
	world        *World
}

// NewRocket places a rocket at the world's start position at rest
func NewRocket(world *World, genome dna.Genome) *Rocket {
	return &Rocket{
		Position:     world.Start,
		DNA:          genome,
		MinDistance:  math.Inf(1),
		acceleration: world.Gravity,
		world:        world,
	}
}

// Terminal reports whether the rocket reached the goal or crashed
func (r *Rocket) Terminal() bool {
	return r.HitTarget || r.Crashed
}

// Done reports whether the rocket will not be stepped again this generation
func (r *Rocket) Done() bool {
	return r.Terminal() || r.Tick >= r.world.Lifespan
}

// Step advances the rocket by one tick. Terminal rockets are left untouched.
// Goal, bounds and obstacle checks run in that order; the first hit wins.
func (r *Rocket) Step(obstacles Obstacles) {
	if r.Terminal() {
		return
	}
	w := r.world

	diff := r.Position.Sub(w.Target)
	dist2 := diff.Dot(diff)
	if d := math.Sqrt(dist2); d < r.MinDistance {
		r.MinDistance = d
	}

	switch {
	case dist2 < w.TargetRadius*w.TargetRadius:
		r.HitTarget = true
		r.Position = w.Target
	case !w.InBounds(r.Position):
		r.Crashed = true
		r.Cause = CrashBounds
	case obstacles != nil && obstacles.Occupied(r.Position):
		r.Crashed = true
		r.Cause = CrashObstacle
	}

	if r.Tick < w.Lifespan {
		r.applyForce(r.DNA.At(r.Tick))
		r.Tick++
	}

	if r.Terminal() {
		return
	}
	r.Velocity = w.limitVelocity(r.Velocity.Add(r.acceleration))
	r.Position = r.Position.Add(r.Velocity)
	r.acceleration = w.Gravity
}

func (r *Rocket) applyForce(force r2.Point) {
	r.acceleration = r.acceleration.Add(force.Mul(r.world.ThrustGain))
}

// Outcome classifies the rocket's current state
func (r *Rocket) Outcome() Outcome {
	switch {
	case r.HitTarget:
		return OutcomeHitTarget
	case r.Crashed:
		return OutcomeCrashed
	case r.Tick >= r.world.Lifespan:
		return OutcomeExhausted
	default:
		return OutcomeFlying
	}
}

// Stats returns a snapshot of the flight for scoring and logging
func (r *Rocket) Stats() FlightStats {
	dist := r.world.DistanceToTarget(r.Position)
	minDist := r.MinDistance
	if dist < minDist {
		minDist = dist
	}
	return FlightStats{
		Outcome:     r.Outcome(),
		Cause:       r.Cause,
		Ticks:       r.Tick,
		Lifespan:    r.world.Lifespan,
		Distance:    dist,
		MinDistance: minDist,
	}
}

// Scorer turns a finished flight into a fitness value
type Scorer interface {
	Score(stats FlightStats) float64
}

// CalculateFitness scores the flight, caches the result and returns it.
// Call it only once the rocket is Done.
func (r *Rocket) CalculateFitness(s Scorer) float64 {
	r.Fitness = s.Score(r.Stats())
	return r.Fitness
}

// Heading returns the direction of travel in radians, 0 when at rest
func (r *Rocket) Heading() float64 {
	if r.Velocity == (r2.Point{}) {
		return 0
	}
	return math.Atan2(r.Velocity.Y, r.Velocity.X)
}
