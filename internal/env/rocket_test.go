package env

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"smartrockets/internal/config"
	"smartrockets/internal/dna"
)

func testWorld(lifespan int) *World {
	return &World{
		Width:        800,
		Height:       600,
		Start:        r2.Point{X: 400, Y: 20},
		Target:       r2.Point{X: 400, Y: 540},
		TargetRadius: 20,
		Lifespan:     lifespan,
		MaxVelocity:  60,
		ThrustGain:   ThrustGain,
		Gravity:      r2.Point{X: 0, Y: GravityY},
	}
}

func TestZeroGenomeFlightWithoutObstacles(t *testing.T) {
	w := testWorld(10)
	r := NewRocket(w, dna.New(w.Lifespan))

	for i := 0; i < w.Lifespan; i++ {
		r.Step(NewObstacleField(5))
	}

	if r.Crashed || r.HitTarget {
		t.Fatalf("crashed=%v hit=%v, want neither", r.Crashed, r.HitTarget)
	}
	if !r.Done() || r.Outcome() != OutcomeExhausted {
		t.Fatalf("outcome = %v, want exhausted", r.Outcome())
	}
	// gravity only: sum of 0.1*k for k=1..10
	if math.Abs(r.Position.Y-(20-5.5)) > 1e-9 || r.Position.X != 400 {
		t.Fatalf("position = %v, want (400, 14.5)", r.Position)
	}
}

func TestZeroGenomeFallsAwayFromTargetInDefaultWorld(t *testing.T) {
	w := NewWorld(config.Default())
	if w.ThrustGain != ThrustGain || w.Gravity != (r2.Point{Y: GravityY}) {
		t.Fatalf("gain=%g gravity=%v", w.ThrustGain, w.Gravity)
	}
	r := NewRocket(w, dna.New(w.Lifespan))
	start := w.DistanceToTarget(r.Position)

	for !r.Done() {
		r.Step(nil)
	}

	if r.HitTarget || !r.Crashed || r.Cause != CrashBounds {
		t.Fatalf("hit=%v crashed=%v cause=%v, want a fall out of bounds", r.HitTarget, r.Crashed, r.Cause)
	}
	if r.Position.Y >= 0 || r.Tick >= w.Lifespan {
		t.Fatalf("position=%v tick=%d, want below the floor before lifespan", r.Position, r.Tick)
	}
	if r.Stats().MinDistance != start {
		t.Fatalf("min distance %g, want the start distance %g", r.Stats().MinDistance, start)
	}
}

func TestThrustIsDoubled(t *testing.T) {
	w := testWorld(3)
	w.Gravity = r2.Point{}
	g := dna.New(w.Lifespan)
	g.Genes[0] = r2.Point{X: 0.5, Y: 0}
	r := NewRocket(w, g)

	r.Step(nil)

	if r.Velocity != (r2.Point{X: 1, Y: 0}) {
		t.Fatalf("velocity = %v, want (1, 0)", r.Velocity)
	}
	if r.Tick != 1 {
		t.Fatalf("tick = %d, want 1", r.Tick)
	}
	r.Step(nil)
	if r.Velocity != (r2.Point{X: 1, Y: 0}) {
		t.Fatalf("acceleration not reset: velocity = %v", r.Velocity)
	}
}

func TestLeavingBoundsCrashesAndFreezes(t *testing.T) {
	w := testWorld(50)
	w.Gravity = r2.Point{}
	r := NewRocket(w, dna.New(w.Lifespan))
	r.Position = r2.Point{X: 1, Y: 300}
	r.Velocity = r2.Point{X: -5, Y: 0}

	r.Step(nil)
	if r.Crashed {
		t.Fatalf("crashed while still inside bounds")
	}
	r.Step(nil)
	if !r.Crashed || r.Cause != CrashBounds {
		t.Fatalf("crashed=%v cause=%v, want bounds crash", r.Crashed, r.Cause)
	}

	pos, vel, tick := r.Position, r.Velocity, r.Tick
	for i := 0; i < 5; i++ {
		r.Step(nil)
	}
	if r.Position != pos || r.Velocity != vel || r.Tick != tick {
		t.Fatalf("terminal rocket kept moving: %v %v %d", r.Position, r.Velocity, r.Tick)
	}
	if !r.Done() || r.Outcome() != OutcomeCrashed {
		t.Fatalf("outcome = %v, want crashed", r.Outcome())
	}
}

func TestObstacleCellCrashes(t *testing.T) {
	w := testWorld(10)
	field := NewObstacleField(5)
	field.Add(w.Start)
	r := NewRocket(w, dna.New(w.Lifespan))

	r.Step(field)

	if !r.Crashed || r.Cause != CrashObstacle {
		t.Fatalf("crashed=%v cause=%v, want obstacle crash", r.Crashed, r.Cause)
	}
	if r.Position != w.Start {
		t.Fatalf("crashed rocket moved to %v", r.Position)
	}
	if r.Tick != 1 {
		t.Fatalf("tick = %d, want 1 on the crash tick", r.Tick)
	}
}

func TestObstaclesAddedBetweenTicksAreSeen(t *testing.T) {
	w := testWorld(10)
	w.Gravity = r2.Point{}
	field := NewObstacleField(5)
	r := NewRocket(w, dna.New(w.Lifespan))

	r.Step(field)
	if r.Crashed {
		t.Fatalf("crashed on empty field")
	}
	field.Add(r.Position)
	r.Step(field)
	if !r.Crashed {
		t.Fatalf("obstacle painted between ticks was ignored")
	}
}

func TestHitTargetSnapsPosition(t *testing.T) {
	w := testWorld(10)
	w.Start = r2.Point{X: w.Target.X + 10, Y: w.Target.Y - 5}
	r := NewRocket(w, dna.New(w.Lifespan))

	r.Step(nil)

	if !r.HitTarget || r.Crashed {
		t.Fatalf("hit=%v crashed=%v, want hit only", r.HitTarget, r.Crashed)
	}
	if r.Position != w.Target {
		t.Fatalf("position = %v, want target %v", r.Position, w.Target)
	}
	if math.Abs(r.MinDistance-math.Hypot(10, 5)) > 1e-9 {
		t.Fatalf("min distance = %v, recorded before the snap", r.MinDistance)
	}
	if r.Outcome() != OutcomeHitTarget || r.Stats().Distance != 0 {
		t.Fatalf("stats = %+v", r.Stats())
	}
}

func TestGoalWinsOverObstacle(t *testing.T) {
	w := testWorld(10)
	w.Start = w.Target
	field := NewObstacleField(5)
	field.Add(w.Target)
	r := NewRocket(w, dna.New(w.Lifespan))

	r.Step(field)

	if !r.HitTarget || r.Crashed {
		t.Fatalf("hit=%v crashed=%v, goal check must win", r.HitTarget, r.Crashed)
	}
}

func TestLegacyClampScalesByExcessRatio(t *testing.T) {
	w := testWorld(10)
	w.Gravity = r2.Point{}
	w.MaxVelocity = 1
	r := NewRocket(w, dna.New(w.Lifespan))
	r.Position = r2.Point{X: 100, Y: 100}
	r.Velocity = r2.Point{X: 2, Y: 0}

	r.Step(nil)

	// |v|² = 4, 4 / 1 = 4
	if r.Velocity != (r2.Point{X: 8, Y: 0}) {
		t.Fatalf("velocity = %v, want (8, 0)", r.Velocity)
	}
}

func TestCapClampLimitsSpeed(t *testing.T) {
	w := testWorld(10)
	w.Gravity = r2.Point{}
	w.MaxVelocity = 1
	w.Clamp = ClampCap
	r := NewRocket(w, dna.New(w.Lifespan))
	r.Position = r2.Point{X: 100, Y: 100}
	r.Velocity = r2.Point{X: 3, Y: 4}

	r.Step(nil)

	if math.Abs(r.Velocity.Norm()-1) > 1e-12 {
		t.Fatalf("speed = %v, want 1", r.Velocity.Norm())
	}
}

func TestHeading(t *testing.T) {
	w := testWorld(10)
	r := NewRocket(w, dna.New(w.Lifespan))
	if r.Heading() != 0 {
		t.Fatalf("heading at rest = %v", r.Heading())
	}
	r.Velocity = r2.Point{X: 0, Y: 1}
	if math.Abs(r.Heading()-math.Pi/2) > 1e-12 {
		t.Fatalf("heading = %v, want pi/2", r.Heading())
	}
}
