package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
)

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func TestImpurityCalculators(t *testing.T) {
	gini := GiniClassificationImpurityCalculator{}
	assert.InDelta(t, 0.5, gini.Impurity([]float64{2, 2}, 4), 1e-12)
	assert.Equal(t, 0.0, gini.Impurity([]float64{4, 0}, 4))
	assert.Equal(t, 0.0, gini.Impurity([]float64{0, 0}, 0))

	entropy := EntropyClassificationImpurityCalculator{}
	assert.InDelta(t, math.Ln2, entropy.Impurity([]float64{3, 3}, 6), 1e-12)
	assert.InDelta(t, 0.0, entropy.Impurity([]float64{5, 0}, 5), 1e-12)

	_, err := NewImpurityCalculator("variance")
	var cfgErr *errors.InvalidConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestExhaustiveSplitSearcher(t *testing.T) {
	c := SplitCandidate{
		Values:   []float64{1, 2, 3, 4},
		Classes:  []int{0, 0, 1, 1},
		NClasses: 2,
	}
	gini := GiniClassificationImpurityCalculator{}

	result, ok := NewExhaustiveSplitSearcher(1).FindBestSplit(0.5, c, gini)
	require.True(t, ok)
	assert.Equal(t, 2.5, result.Threshold)
	assert.Equal(t, 2, result.LeftCount)
	assert.InDelta(t, 0.5, result.ImpurityImprovement, 1e-12)

	_, ok = NewExhaustiveSplitSearcher(3).FindBestSplit(0.5, c, gini)
	assert.False(t, ok, "children of 3 cannot both fit in 4 samples")
}

func TestRandomSplitSearcher(t *testing.T) {
	gini := GiniClassificationImpurityCalculator{}

	constant := SplitCandidate{Values: []float64{2, 2, 2}, Classes: []int{0, 1, 0}, NClasses: 2}
	_, ok := NewRandomSplitSearcher(1, 42).FindBestSplit(0.44, constant, gini)
	assert.False(t, ok)

	c := SplitCandidate{
		Values:   []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		Classes:  []int{0, 0, 0, 0, 0, 1, 1, 1, 1, 1},
		NClasses: 2,
	}
	s := NewRandomSplitSearcher(1, 7)
	for i := 0; i < 50; i++ {
		result, ok := s.FindBestSplit(0.5, c, gini)
		if !ok {
			continue
		}
		assert.GreaterOrEqual(t, result.Threshold, 0.0)
		assert.LessOrEqual(t, result.Threshold, 9.0)
		assert.GreaterOrEqual(t, result.LeftCount, 1)
		assert.LessOrEqual(t, result.LeftCount, 9)
		assert.GreaterOrEqual(t, result.ImpurityImprovement, 0.0)
	}
}

func TestDecisionTreeLearner_VariableImportance(t *testing.T) {
	// 特徴量0だけがクラスを決定し、特徴量1は定数
	X := mat.NewDense(6, 2, []float64{
		0, 5,
		1, 5,
		2, 5,
		10, 5,
		11, 5,
		12, 5,
	})
	y := []float64{0, 0, 0, 1, 1, 1}

	learner := NewDecisionTreeLearner(10, 0, 1e-6, 42, NewExhaustiveSplitSearcher(1), GiniClassificationImpurityCalculator{})
	m, err := learner.LearnModel(X, y, allIndices(6))
	require.NoError(t, err)

	importance := m.GetRawVariableImportance()
	require.Len(t, importance, 2)
	assert.InDelta(t, 0.5, importance[0], 1e-12)
	assert.Equal(t, 0.0, importance[1])
	assert.Equal(t, 1, m.Depth())
	assert.Equal(t, 2, m.Leaves())

	assert.Equal(t, 0.0, m.Predict([]float64{1.5, 5}))
	assert.Equal(t, 1.0, m.Predict([]float64{11.5, 5}))
	assert.Equal(t, map[float64]float64{0: 1, 1: 0}, m.PredictProbability([]float64{0, 5}))
}

func TestDecisionTreeLearner_DuplicateIndices(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := []float64{0, 1, 1}

	learner := NewDecisionTreeLearner(10, 0, 1e-6, 1, NewRandomSplitSearcher(1, 1), GiniClassificationImpurityCalculator{})
	tree, err := learner.Learn(X, y, []int{0, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, 1, tree.Leaves())
	assert.Equal(t, 0, tree.Depth())
	assert.Equal(t, 0.0, tree.Predict([]float64{3}))
	// 学習行に含まれないクラスも確率0として保持される
	assert.Equal(t, map[float64]float64{0: 1, 1: 0}, tree.PredictProbability([]float64{3}))
}

func TestDecisionTreeLearner_Determinism(t *testing.T) {
	X := mat.NewDense(40, 3, nil)
	y := make([]float64, 40)
	for i := 0; i < 40; i++ {
		X.Set(i, 0, float64(i))
		X.Set(i, 1, float64((i*7)%11))
		X.Set(i, 2, float64((i*3)%5))
		y[i] = float64((i / 10) % 3)
	}

	grow := func() *BinaryTree {
		learner := NewDecisionTreeLearner(20, 2, 1e-6, 99, NewRandomSplitSearcher(1, 123), GiniClassificationImpurityCalculator{})
		tree, err := learner.Learn(X, y, allIndices(40))
		require.NoError(t, err)
		return tree
	}

	assert.Equal(t, grow(), grow())
}

func TestDecisionTreeLearner_MaximumDepth(t *testing.T) {
	X := mat.NewDense(16, 1, nil)
	y := make([]float64, 16)
	for i := 0; i < 16; i++ {
		X.Set(i, 0, float64(i))
		y[i] = float64(i % 2)
	}

	learner := NewDecisionTreeLearner(1, 0, 1e-9, 3, NewExhaustiveSplitSearcher(1), GiniClassificationImpurityCalculator{})
	tree, err := learner.Learn(X, y, allIndices(16))
	require.NoError(t, err)
	assert.LessOrEqual(t, tree.Depth(), 1)
}

func TestDecisionTreeLearner_Validation(t *testing.T) {
	X := mat.NewDense(4, 2, []float64{0, 0, 1, 1, 2, 2, 3, 3})
	y := []float64{0, 0, 1, 1}
	searcher := NewExhaustiveSplitSearcher(1)
	gini := GiniClassificationImpurityCalculator{}

	tests := []struct {
		name     string
		learner  *DecisionTreeLearner
		targets  []float64
		indices  []int
		wantTree bool
	}{
		{"empty indices", NewDecisionTreeLearner(5, 0, 1e-6, 1, searcher, gini), y, nil, true},
		{"index out of range", NewDecisionTreeLearner(5, 0, 1e-6, 1, searcher, gini), y, []int{0, 4}, true},
		{"negative index", NewDecisionTreeLearner(5, 0, 1e-6, 1, searcher, gini), y, []int{-1}, true},
		{"too many features", NewDecisionTreeLearner(5, 3, 1e-6, 1, searcher, gini), y, allIndices(4), true},
		{"non positive depth", NewDecisionTreeLearner(0, 0, 1e-6, 1, searcher, gini), y, allIndices(4), true},
		{"target mismatch", NewDecisionTreeLearner(5, 0, 1e-6, 1, searcher, gini), y[:3], allIndices(3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.learner.Learn(X, tt.targets, tt.indices)
			require.Error(t, err)
			if tt.wantTree {
				var treeErr *errors.InvalidTreeConstraintError
				assert.True(t, errors.As(err, &treeErr), "got %v", err)
			} else {
				var dimErr *errors.DimensionError
				assert.True(t, errors.As(err, &dimErr), "got %v", err)
			}
		})
	}
}
