// Package dna holds the rocket genome: one thrust vector per simulation tick.
package dna

import "github.com/golang/geo/r2"

// Genome is an ordered sequence of per-tick force vectors.
// Its length is fixed at creation and equals the configured lifespan.
type Genome struct {
	Genes []r2.Point `json:"genes"`
}

// New returns a genome of lifespan zero-force genes
func New(lifespan int) Genome {
	return Genome{Genes: make([]r2.Point, lifespan)}
}

// Len returns the number of genes
func (g Genome) Len() int {
	return len(g.Genes)
}

// At returns the force applied at the given tick
func (g Genome) At(tick int) r2.Point {
	return g.Genes[tick]
}

// Clone creates a deep copy of the genome
func (g Genome) Clone() Genome {
	genes := make([]r2.Point, len(g.Genes))
	copy(genes, g.Genes)
	return Genome{Genes: genes}
}
