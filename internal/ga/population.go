package ga

import (
	"errors"
	"fmt"
	"math/rand"

	"smartrockets/internal/config"
	"smartrockets/internal/dna"
	"smartrockets/internal/env"
)

// ErrInvalidConfig is returned when a population cannot be built from its parameters
var ErrInvalidConfig = errors.New("invalid population config")

// Params holds the evolution constants of a population
type Params struct {
	Size           int
	MutationRate   float64
	ForceMagnitude float64
}

// ParamsFromConfig extracts population parameters from the GA config section
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		Size:           cfg.GA.Population,
		MutationRate:   *cfg.GA.MutationRate,
		ForceMagnitude: cfg.GA.ForceMagnitude,
	}
}

// Population manages the rockets of the current generation
type Population struct {
	Rockets []*env.Rocket

	generation int
	params     Params
	world      *env.World
	scorer     env.Scorer
	rng        *rand.Rand

	// rocket indices repeated by relative fitness; only valid until Evolve
	matingPool []int
}

// NewPopulation creates generation 1: params.Size rockets with zero genomes
func NewPopulation(params Params, world *env.World, scorer env.Scorer, rng *rand.Rand) (*Population, error) {
	switch {
	case params.Size <= 0:
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, params.Size)
	case world == nil:
		return nil, fmt.Errorf("%w: world is required", ErrInvalidConfig)
	case world.Lifespan <= 0:
		return nil, fmt.Errorf("%w: lifespan must be positive, got %d", ErrInvalidConfig, world.Lifespan)
	case scorer == nil:
		return nil, fmt.Errorf("%w: scorer is required", ErrInvalidConfig)
	case rng == nil:
		return nil, fmt.Errorf("%w: rng is required", ErrInvalidConfig)
	}

	p := &Population{
		Rockets:    make([]*env.Rocket, params.Size),
		generation: 1,
		params:     params,
		world:      world,
		scorer:     scorer,
		rng:        rng,
		matingPool: make([]int, 0, 100*params.Size),
	}
	for i := range p.Rockets {
		p.Rockets[i] = env.NewRocket(world, dna.New(world.Lifespan))
	}
	return p, nil
}

// Size returns the population size
func (p *Population) Size() int {
	return len(p.Rockets)
}

// Generation returns the current generation number, starting at 1
func (p *Population) Generation() int {
	return p.generation
}

// World returns the world the rockets fly in
func (p *Population) World() *env.World {
	return p.world
}

// GetRNG returns the population's random number generator
func (p *Population) GetRNG() *rand.Rand {
	return p.rng
}

// Update advances every rocket that is not done by one tick
func (p *Population) Update(obstacles env.Obstacles) {
	for _, r := range p.Rockets {
		if !r.Done() {
			r.Step(obstacles)
		}
	}
}

// AllDone reports whether every rocket hit the target, crashed or ran out of genes
func (p *Population) AllDone() bool {
	for _, r := range p.Rockets {
		if !r.Done() {
			return false
		}
	}
	return true
}

// Evolve breeds the next generation from the mating pool built by Evaluate
// and replaces all rockets at once. Without a prior Evaluate parents are
// drawn uniformly.
func (p *Population) Evolve() {
	next := make([]*env.Rocket, p.params.Size)

	for i := range next {
		// Parents are drawn independently; both may be the same rocket.
		a := p.SelectParent()
		b := p.SelectParent()

		child := a.DNA.Crossover(b.DNA, p.rng)
		child.Mutate(p.params.MutationRate, p.params.ForceMagnitude, p.rng)

		next[i] = env.NewRocket(p.world, child)
	}

	p.Rockets = next
	p.matingPool = p.matingPool[:0]
	p.generation++
}

// SuccessRate returns the fraction of rockets that reached the target
func (p *Population) SuccessRate() float64 {
	if len(p.Rockets) == 0 {
		return 0
	}
	hits := 0
	for _, r := range p.Rockets {
		if r.HitTarget {
			hits++
		}
	}
	return float64(hits) / float64(len(p.Rockets))
}

// Best returns the rocket with highest fitness
func (p *Population) Best() *env.Rocket {
	if len(p.Rockets) == 0 {
		return nil
	}
	best := p.Rockets[0]
	for _, r := range p.Rockets[1:] {
		if r.Fitness > best.Fitness {
			best = r
		}
	}
	return best
}
