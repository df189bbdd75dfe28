package dna

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r2"
)

// Mutate replaces each gene, with probability rate, by a force of the given
// magnitude pointing in a uniformly random direction. Mutates in place.
func (g Genome) Mutate(rate, magnitude float64, rng *rand.Rand) {
	for i := range g.Genes {
		if rng.Float64() < rate {
			g.Genes[i] = RandomForce(magnitude, rng)
		}
	}
}

// RandomForce returns a vector of the given length at a uniform angle in [0, 2π)
func RandomForce(magnitude float64, rng *rand.Rand) r2.Point {
	angle := rng.Float64() * 2 * math.Pi
	return r2.Point{X: math.Cos(angle), Y: math.Sin(angle)}.Mul(magnitude)
}
