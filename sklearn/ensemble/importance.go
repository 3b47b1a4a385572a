package ensemble

import (
	"gonum.org/v1/gonum/floats"

	"github.com/YuminosukeSato/sciforest/sklearn/tree"
)

// rawVariableImportance sums the raw importance of every tree element-wise.
// The result does not depend on the order of models.
func rawVariableImportance(models []*tree.ClassificationDecisionTreeModel, numberOfFeatures int) []float64 {
	importance := make([]float64, numberOfFeatures)
	for _, m := range models {
		floats.Add(importance, m.GetRawVariableImportance())
	}
	return importance
}

// normalizeToMax scales importance so that its largest entry is 100.
// An all-zero vector is returned unchanged.
func normalizeToMax(importance []float64) []float64 {
	out := make([]float64, len(importance))
	copy(out, importance)
	if len(out) == 0 {
		return out
	}
	maxImportance := floats.Max(out)
	if maxImportance <= 0 {
		return out
	}
	floats.Scale(100/maxImportance, out)
	return out
}
