package tree

import "gonum.org/v1/gonum/mat"

// ClassificationDecisionTreeModel is a learned tree together with the raw
// variable importance recorded while growing it.
type ClassificationDecisionTreeModel struct {
	Tree               *BinaryTree
	variableImportance []float64
}

// NewClassificationDecisionTreeModel wraps a tree and its raw importance.
func NewClassificationDecisionTreeModel(tree *BinaryTree, variableImportance []float64) *ClassificationDecisionTreeModel {
	return &ClassificationDecisionTreeModel{Tree: tree, variableImportance: variableImportance}
}

// LearnModel grows a tree with l and wraps it with the learner's importance.
func (l *DecisionTreeLearner) LearnModel(observations *mat.Dense, targets []float64, indices []int) (*ClassificationDecisionTreeModel, error) {
	t, err := l.Learn(observations, targets, indices)
	if err != nil {
		return nil, err
	}
	return NewClassificationDecisionTreeModel(t, l.VariableImportance()), nil
}

// Predict returns the predicted class of one observation.
func (m *ClassificationDecisionTreeModel) Predict(observation []float64) float64 {
	return m.Tree.Predict(observation)
}

// PredictProbability returns the class distribution for one observation.
func (m *ClassificationDecisionTreeModel) PredictProbability(observation []float64) map[float64]float64 {
	return m.Tree.PredictProbability(observation)
}

// GetRawVariableImportance returns a copy of the per-feature raw importance.
func (m *ClassificationDecisionTreeModel) GetRawVariableImportance() []float64 {
	out := make([]float64, len(m.variableImportance))
	copy(out, m.variableImportance)
	return out
}

// Depth returns the depth of the tree.
func (m *ClassificationDecisionTreeModel) Depth() int {
	return m.Tree.Depth()
}

// Leaves returns the number of leaves.
func (m *ClassificationDecisionTreeModel) Leaves() int {
	return m.Tree.Leaves()
}
