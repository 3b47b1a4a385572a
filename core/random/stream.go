// Package random derives reproducible generators from a single root seed.
//
// A Stream is owned by one goroutine. Generators handed to workers are
// derived from it up front, so no *rand.Rand is ever shared between goroutines.
package random

import "math/rand"

// Stream is a seeded root generator.
type Stream struct {
	rng *rand.Rand
}

// NewStream creates a Stream seeded with seed.
func NewStream(seed int64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(seed))}
}

// Next draws the next seed from the stream.
func (s *Stream) Next() int64 {
	return s.rng.Int63()
}

// Derive returns an independent generator seeded with Next().
func (s *Stream) Derive() *rand.Rand {
	return rand.New(rand.NewSource(s.Next()))
}

// DeriveSeeds draws n seeds in order.
func (s *Stream) DeriveSeeds(n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = s.Next()
	}
	return seeds
}

// Bootstrap fills dst with indices drawn uniformly with replacement from
// population using rng. dst and population may differ in length.
func Bootstrap(rng *rand.Rand, population, dst []int) {
	n := len(population)
	for j := range dst {
		dst[j] = population[rng.Intn(n)]
	}
}
