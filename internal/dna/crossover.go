package dna

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

// Crossover performs single-point crossover with a uniformly random split
// in [0, Len). Neither parent is modified.
func (g Genome) Crossover(partner Genome, rng *rand.Rand) Genome {
	return g.CrossoverAt(partner, rng.Intn(g.Len()))
}

// CrossoverAt builds a child taking genes below point from g and the rest
// from partner.
func (g Genome) CrossoverAt(partner Genome, point int) Genome {
	size := g.Len()
	if point < 0 {
		point = 0
	}
	if point > size {
		point = size
	}

	child := make([]r2.Point, size)
	copy(child[:point], g.Genes[:point])
	copy(child[point:], partner.Genes[point:])

	return Genome{Genes: child}
}
