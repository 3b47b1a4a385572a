package tree

import (
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
)

// ImpurityCalculator scores the label heterogeneity of a class histogram.
// counts[k] is the number of samples of class k, total their sum.
// Implementations must return 0 for a pure or empty node.
type ImpurityCalculator interface {
	Impurity(counts []float64, total float64) float64
}

// GiniClassificationImpurityCalculator computes 1 - Σ p_k².
type GiniClassificationImpurityCalculator struct{}

// Impurity implements ImpurityCalculator.
func (GiniClassificationImpurityCalculator) Impurity(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	sumSq := 0.0
	for _, c := range counts {
		p := c / total
		sumSq += p * p
	}
	return 1 - sumSq
}

// EntropyClassificationImpurityCalculator computes the Shannon entropy (nats).
type EntropyClassificationImpurityCalculator struct{}

// Impurity implements ImpurityCalculator.
func (EntropyClassificationImpurityCalculator) Impurity(counts []float64, total float64) float64 {
	if total <= 0 {
		return 0
	}
	p := make([]float64, len(counts))
	for k, c := range counts {
		p[k] = c / total
	}
	return stat.Entropy(p)
}

// NewImpurityCalculator returns the calculator for "gini" or "entropy".
func NewImpurityCalculator(criterion string) (ImpurityCalculator, error) {
	switch criterion {
	case "gini":
		return GiniClassificationImpurityCalculator{}, nil
	case "entropy":
		return EntropyClassificationImpurityCalculator{}, nil
	default:
		return nil, errors.NewInvalidConfigurationError("criterion", `must be "gini" or "entropy"`, criterion)
	}
}
