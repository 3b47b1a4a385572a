package tree

import (
	"math/rand"
)

// SplitCandidate is one feature column restricted to a node, sorted ascending
// by Values, with Classes aligned to Values.
type SplitCandidate struct {
	Values   []float64
	Classes  []int
	NClasses int
}

// SplitResult describes a split found by a SplitSearcher.
// Samples with value < Threshold go left.
type SplitResult struct {
	Threshold           float64
	ImpurityImprovement float64
	LeftCount           int
}

// SplitSearcher proposes a threshold for one candidate feature.
// ok is false when no split satisfies the searcher's constraints.
// Implementations may hold state and are not safe for concurrent use.
type SplitSearcher interface {
	FindBestSplit(parentImpurity float64, c SplitCandidate, impurity ImpurityCalculator) (result SplitResult, ok bool)
}

// RandomSplitSearcher draws one threshold uniformly between the smallest and
// largest value of the feature, as in extremely randomized trees.
type RandomSplitSearcher struct {
	minimumSplitSize int
	rng              *rand.Rand
}

// NewRandomSplitSearcher creates a searcher whose children hold at least
// minimumSplitSize samples.
func NewRandomSplitSearcher(minimumSplitSize int, seed int64) *RandomSplitSearcher {
	return &RandomSplitSearcher{
		minimumSplitSize: minimumSplitSize,
		rng:              rand.New(rand.NewSource(seed)),
	}
}

// FindBestSplit implements SplitSearcher.
func (s *RandomSplitSearcher) FindBestSplit(parentImpurity float64, c SplitCandidate, impurity ImpurityCalculator) (SplitResult, bool) {
	n := len(c.Values)
	if n < 2 {
		return SplitResult{}, false
	}
	lo, hi := c.Values[0], c.Values[n-1]
	if hi <= lo {
		return SplitResult{}, false
	}

	threshold := lo + s.rng.Float64()*(hi-lo)

	left := make([]float64, c.NClasses)
	right := make([]float64, c.NClasses)
	leftCount := 0
	for i, v := range c.Values {
		if v < threshold {
			left[c.Classes[i]]++
			leftCount++
		} else {
			right[c.Classes[i]]++
		}
	}
	if leftCount < s.minimumSplitSize || n-leftCount < s.minimumSplitSize {
		return SplitResult{}, false
	}

	return SplitResult{
		Threshold:           threshold,
		ImpurityImprovement: improvement(parentImpurity, left, right, leftCount, n-leftCount, impurity),
		LeftCount:           leftCount,
	}, true
}

// ExhaustiveSplitSearcher evaluates the midpoint between every pair of
// distinct consecutive values and keeps the best. Ties keep the lowest threshold.
type ExhaustiveSplitSearcher struct {
	minimumSplitSize int
}

// NewExhaustiveSplitSearcher creates a searcher whose children hold at least
// minimumSplitSize samples.
func NewExhaustiveSplitSearcher(minimumSplitSize int) *ExhaustiveSplitSearcher {
	return &ExhaustiveSplitSearcher{minimumSplitSize: minimumSplitSize}
}

// FindBestSplit implements SplitSearcher.
func (s *ExhaustiveSplitSearcher) FindBestSplit(parentImpurity float64, c SplitCandidate, impurity ImpurityCalculator) (SplitResult, bool) {
	n := len(c.Values)
	if n < 2 || c.Values[n-1] <= c.Values[0] {
		return SplitResult{}, false
	}

	left := make([]float64, c.NClasses)
	right := make([]float64, c.NClasses)
	for _, k := range c.Classes {
		right[k]++
	}

	var (
		best  SplitResult
		found bool
	)
	for i := 1; i < n; i++ {
		k := c.Classes[i-1]
		left[k]++
		right[k]--

		if c.Values[i] <= c.Values[i-1] {
			continue
		}
		if i < s.minimumSplitSize || n-i < s.minimumSplitSize {
			continue
		}

		gain := improvement(parentImpurity, left, right, i, n-i, impurity)
		if !found || gain > best.ImpurityImprovement {
			best = SplitResult{
				Threshold:           (c.Values[i-1] + c.Values[i]) / 2,
				ImpurityImprovement: gain,
				LeftCount:           i,
			}
			found = true
		}
	}
	return best, found
}

func improvement(parent float64, left, right []float64, nLeft, nRight int, impurity ImpurityCalculator) float64 {
	total := float64(nLeft + nRight)
	l := float64(nLeft)
	r := float64(nRight)
	return parent - (l/total)*impurity.Impurity(left, l) - (r/total)*impurity.Impurity(right, r)
}
