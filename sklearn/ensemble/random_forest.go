package ensemble

import (
	"github.com/YuminosukeSato/sciforest/sklearn/tree"
)

// ClassificationRandomForestLearner grows classic random forest trees: every
// candidate feature is searched exhaustively for its best threshold.
type ClassificationRandomForestLearner struct {
	*forest
}

// NewClassificationRandomForestLearner validates the options and creates a
// learner. It accepts the same options as the extremely randomized trees learner.
func NewClassificationRandomForestLearner(opts ...Option) (*ClassificationRandomForestLearner, error) {
	f, err := newForest("ClassificationRandomForestLearner", func(minimumSplitSize int, _ int64) tree.SplitSearcher {
		return tree.NewExhaustiveSplitSearcher(minimumSplitSize)
	}, opts)
	if err != nil {
		return nil, err
	}
	f.kind = "random_forest"
	return &ClassificationRandomForestLearner{forest: f}, nil
}
