package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamReproducible(t *testing.T) {
	a := NewStream(42).DeriveSeeds(8)
	b := NewStream(42).DeriveSeeds(8)
	assert.Equal(t, a, b)

	c := NewStream(43).DeriveSeeds(8)
	assert.NotEqual(t, a, c)
}

func TestDeriveMatchesNext(t *testing.T) {
	s1 := NewStream(7)
	s2 := NewStream(7)

	derived := s1.Derive()
	seed := s2.Next()

	expected := NewStream(0)
	expected.rng.Seed(seed)
	for i := 0; i < 5; i++ {
		assert.Equal(t, expected.rng.Int63(), derived.Int63())
	}
}

func TestBootstrapRange(t *testing.T) {
	population := []int{3, 9, 27, 81}
	dst := make([]int, 1000)
	Bootstrap(NewStream(1).Derive(), population, dst)

	allowed := map[int]bool{3: true, 9: true, 27: true, 81: true}
	seen := map[int]bool{}
	for _, idx := range dst {
		require.True(t, allowed[idx], "index %d outside population", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, len(population), "1000 draws should hit every member")
}

func TestBootstrapSingleElementPopulation(t *testing.T) {
	dst := make([]int, 50)
	Bootstrap(NewStream(99).Derive(), []int{17}, dst)
	for _, idx := range dst {
		assert.Equal(t, 17, idx)
	}
}
