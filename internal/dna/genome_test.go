package dna

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
)

func randomGenome(n int, rng *rand.Rand) Genome {
	g := New(n)
	for i := range g.Genes {
		g.Genes[i] = r2.Point{X: rng.NormFloat64(), Y: rng.NormFloat64()}
	}
	return g
}

func TestNewIsZeroFilled(t *testing.T) {
	g := New(25)
	if g.Len() != 25 {
		t.Fatalf("len = %d, want 25", g.Len())
	}
	for i, gene := range g.Genes {
		if gene != (r2.Point{}) {
			t.Fatalf("gene %d = %v, want zero", i, gene)
		}
	}
}

func TestCrossoverAtTakesPrefixAndSuffix(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	a := randomGenome(10, rng)
	b := randomGenome(10, rng)

	for k := 0; k <= 10; k++ {
		child := a.CrossoverAt(b, k)
		if child.Len() != 10 {
			t.Fatalf("k=%d: len = %d", k, child.Len())
		}
		for i := 0; i < 10; i++ {
			want := b.Genes[i]
			if i < k {
				want = a.Genes[i]
			}
			if child.Genes[i] != want {
				t.Fatalf("k=%d gene %d = %v, want %v", k, i, child.Genes[i], want)
			}
		}
	}
}

func TestCrossoverLeavesParentsUntouched(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	a := randomGenome(16, rng)
	b := randomGenome(16, rng)
	aCopy, bCopy := a.Clone(), b.Clone()

	for i := 0; i < 50; i++ {
		child := a.Crossover(b, rng)
		if child.Len() != 16 {
			t.Fatalf("len = %d, want 16", child.Len())
		}
		child.Genes[0] = r2.Point{X: 99, Y: 99}
	}

	for i := range a.Genes {
		if a.Genes[i] != aCopy.Genes[i] || b.Genes[i] != bCopy.Genes[i] {
			t.Fatalf("parent modified at gene %d", i)
		}
	}
}

func TestMutateZeroRateIsNoop(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := randomGenome(40, rng)
	before := g.Clone()

	g.Mutate(0, 0.2, rng)

	for i := range g.Genes {
		if g.Genes[i] != before.Genes[i] {
			t.Fatalf("gene %d changed with rate 0", i)
		}
	}
}

func TestMutateFullRateSetsMagnitude(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	g := New(40)

	g.Mutate(1, 0.2, rng)

	if g.Len() != 40 {
		t.Fatalf("len = %d after mutate", g.Len())
	}
	for i, gene := range g.Genes {
		if math.Abs(gene.Norm()-0.2) > 1e-9 {
			t.Fatalf("gene %d magnitude = %v, want 0.2", i, gene.Norm())
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	g := New(3)
	c := g.Clone()
	c.Genes[1] = r2.Point{X: 1}
	if g.Genes[1] != (r2.Point{}) {
		t.Fatalf("clone shares backing array")
	}
}
