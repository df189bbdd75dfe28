package eval

import (
	"smartrockets/internal/config"
	"smartrockets/internal/env"
)

// HitReward is divided by the arrival tick to score rockets that hit the target
const HitReward = 1000.0

// Scorer computes rocket fitness from a finished flight
type Scorer struct {
	Mode         string
	Lifespan     int
	CrashPenalty float64
	CrashFloor   float64
}

// NewScorer creates a scorer from the fitness section of the config
func NewScorer(cfg *config.Config) *Scorer {
	return &Scorer{
		Mode:         cfg.Fitness.Mode,
		Lifespan:     cfg.GA.Lifespan,
		CrashPenalty: *cfg.Fitness.CrashPenalty,
		CrashFloor:   *cfg.Fitness.CrashFloor,
	}
}

// Score computes the fitness score based on the configured mode
func (s *Scorer) Score(stats env.FlightStats) float64 {
	if stats.Outcome == env.OutcomeHitTarget {
		return HitReward / (float64(stats.Ticks) + 1)
	}

	switch s.Mode {
	case config.FitnessFinalDistance:
		return s.fitnessFinalDistance(stats)
	default:
		return s.fitnessMinDistance(stats)
	}
}

// fitnessMinDistance rewards the closest approach, earlier being better,
// and halves the score of crashed rockets.
func (s *Scorer) fitnessMinDistance(stats env.FlightStats) float64 {
	score := 1 / (stats.MinDistance + 1)

	lifespan := s.Lifespan
	if lifespan <= 0 {
		lifespan = stats.Lifespan
	}
	if lifespan > 0 {
		score *= 1 / (float64(stats.Ticks)/float64(lifespan) + 1)
	}

	if stats.Outcome == env.OutcomeCrashed {
		score *= s.CrashPenalty
	}
	return score
}

// fitnessFinalDistance scores by where the rocket ended up; crashes get a
// flat floor.
func (s *Scorer) fitnessFinalDistance(stats env.FlightStats) float64 {
	if stats.Outcome == env.OutcomeCrashed {
		return s.CrashFloor
	}
	return 1 / (stats.Distance + 1)
}
