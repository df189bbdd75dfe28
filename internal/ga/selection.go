package ga

import "smartrockets/internal/env"

// Evaluate scores every rocket and rebuilds the mating pool: each rocket's
// index appears floor(fitness/maxFitness*100) times, so selection resolution
// is 1% of the leader's fitness. The pool is empty only when every score is 0.
func (p *Population) Evaluate() {
	maxFitness := 0.0
	for _, r := range p.Rockets {
		if f := r.CalculateFitness(p.scorer); f > maxFitness {
			maxFitness = f
		}
	}

	p.matingPool = p.matingPool[:0]
	if maxFitness <= 0 {
		return
	}
	for i, r := range p.Rockets {
		n := int(r.Fitness / maxFitness * 100)
		for j := 0; j < n; j++ {
			p.matingPool = append(p.matingPool, i)
		}
	}
}

// SelectParent picks a uniformly random entry of the mating pool, which
// favours rockets in proportion to their fitness. With an empty pool any
// rocket may be chosen.
func (p *Population) SelectParent() *env.Rocket {
	if len(p.matingPool) == 0 {
		return p.Rockets[p.rng.Intn(len(p.Rockets))]
	}
	return p.Rockets[p.matingPool[p.rng.Intn(len(p.matingPool))]]
}

// MatingPoolSize returns the number of entries in the current mating pool
func (p *Population) MatingPoolSize() int {
	return len(p.matingPool)
}

// PoolShare returns how many mating pool entries belong to rocket i
func (p *Population) PoolShare(i int) int {
	n := 0
	for _, idx := range p.matingPool {
		if idx == i {
			n++
		}
	}
	return n
}
