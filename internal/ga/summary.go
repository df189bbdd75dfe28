package ga

import "smartrockets/internal/env"

// Summary holds per-generation statistics handed to loggers and stores.
// Generation and SuccessRate form the pair the success chart is drawn from.
type Summary struct {
	Generation  int       `json:"generation"`
	SuccessRate float64   `json:"success_rate"`
	BestFitness float64   `json:"best_fitness"`
	MeanFitness float64   `json:"mean_fitness"`
	BestTicks   int       `json:"best_ticks"`
	MinDistance float64   `json:"min_distance"`
	PoolSize    int       `json:"pool_size"`
	Outcomes    env.Tally `json:"outcomes"`

	// Best rocket's re-flown path, filled in by the driver when requested
	Replay *env.Replay `json:"-"`
}

// Summarize computes statistics for the current generation. Call it after
// Evaluate and before Evolve so fitness values and outcomes are final.
func (p *Population) Summarize() Summary {
	s := Summary{
		Generation:  p.generation,
		SuccessRate: p.SuccessRate(),
		PoolSize:    len(p.matingPool),
	}
	if len(p.Rockets) == 0 {
		return s
	}

	var sumFitness float64
	minDist := -1.0
	for _, r := range p.Rockets {
		stats := r.Stats()
		s.Outcomes.Add(stats)
		sumFitness += r.Fitness
		if minDist < 0 || stats.MinDistance < minDist {
			minDist = stats.MinDistance
		}
	}

	best := p.Best()
	s.BestFitness = best.Fitness
	s.BestTicks = best.Tick
	s.MeanFitness = sumFitness / float64(len(p.Rockets))
	s.MinDistance = minDist
	return s
}
