package ensemble

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sciforest/core/parallel"
	"github.com/YuminosukeSato/sciforest/metrics"
	"github.com/YuminosukeSato/sciforest/pkg/errors"
	"github.com/YuminosukeSato/sciforest/sklearn/tree"
)

// predictThreshold is the row count below which prediction stays sequential.
const predictThreshold = 256

// ClassificationForestModel is a trained forest. Trees are in the order the
// workers finished them.
type ClassificationForestModel struct {
	Trees                 []*tree.ClassificationDecisionTreeModel
	rawVariableImportance []float64
}

func newClassificationForestModel(trees []*tree.ClassificationDecisionTreeModel, rawVariableImportance []float64) *ClassificationForestModel {
	return &ClassificationForestModel{Trees: trees, rawVariableImportance: rawVariableImportance}
}

// GetRawVariableImportance returns a copy of the summed per-feature importance.
func (m *ClassificationForestModel) GetRawVariableImportance() []float64 {
	out := make([]float64, len(m.rawVariableImportance))
	copy(out, m.rawVariableImportance)
	return out
}

// GetVariableImportance maps feature names to importance scaled so the most
// important feature scores 100. Names whose index is out of range are skipped.
func (m *ClassificationForestModel) GetVariableImportance(featureNameToIndex map[string]int) map[string]float64 {
	scaled := normalizeToMax(m.rawVariableImportance)
	out := make(map[string]float64, len(featureNameToIndex))
	for name, idx := range featureNameToIndex {
		if idx < 0 || idx >= len(scaled) {
			continue
		}
		out[name] = scaled[idx]
	}
	return out
}

// PredictObservation returns the majority vote of all trees for one observation.
// Ties go to the smallest class value.
func (m *ClassificationForestModel) PredictObservation(observation []float64) float64 {
	votes := make(map[float64]int, 4)
	for _, t := range m.Trees {
		votes[t.Predict(observation)]++
	}
	var (
		best      float64
		bestVotes = -1
	)
	for class, n := range votes {
		if n > bestVotes || (n == bestVotes && class < best) {
			best, bestVotes = class, n
		}
	}
	return best
}

// PredictObservationProbability averages the leaf class distributions of all
// trees for one observation.
func (m *ClassificationForestModel) PredictObservationProbability(observation []float64) map[float64]float64 {
	out := make(map[float64]float64, 4)
	for _, t := range m.Trees {
		for class, p := range t.PredictProbability(observation) {
			out[class] += p
		}
	}
	n := float64(len(m.Trees))
	for class := range out {
		out[class] /= n
	}
	return out
}

// Predict returns one predicted class per row of observations.
func (m *ClassificationForestModel) Predict(observations mat.Matrix) ([]float64, error) {
	rows, err := m.checkInput("Predict", observations)
	if err != nil {
		return nil, err
	}
	out := make([]float64, rows)
	err = parallel.ParallelizeWithThreshold(rows, predictThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = m.PredictObservation(mat.Row(nil, i, observations))
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PredictProbability returns one class distribution per row of observations.
func (m *ClassificationForestModel) PredictProbability(observations mat.Matrix) ([]map[float64]float64, error) {
	rows, err := m.checkInput("PredictProbability", observations)
	if err != nil {
		return nil, err
	}
	out := make([]map[float64]float64, rows)
	err = parallel.ParallelizeWithThreshold(rows, predictThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = m.PredictObservationProbability(mat.Row(nil, i, observations))
		}
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Score returns the accuracy of Predict(observations) against targets.
func (m *ClassificationForestModel) Score(observations mat.Matrix, targets []float64) (float64, error) {
	pred, err := m.Predict(observations)
	if err != nil {
		return 0, err
	}
	if len(pred) != len(targets) {
		return 0, errors.NewDimensionError("Score", len(pred), len(targets), 0)
	}
	return metrics.Accuracy(mat.NewVecDense(len(targets), targets), mat.NewVecDense(len(pred), pred))
}

func (m *ClassificationForestModel) checkInput(op string, observations mat.Matrix) (int, error) {
	if len(m.Trees) == 0 {
		return 0, errors.NewNotFittedError("ClassificationForestModel", op)
	}
	rows, cols := observations.Dims()
	if rows == 0 {
		return 0, errors.Wrapf(errors.ErrEmptyData, "ClassificationForestModel.%s", op)
	}
	if cols != len(m.rawVariableImportance) {
		return 0, errors.NewDimensionError("ClassificationForestModel."+op, len(m.rawVariableImportance), cols, 1)
	}
	return rows, nil
}
