// Package ensemble provides bagged decision tree learners.
//
// Both learners grow a fixed number of trees in parallel, each on a bootstrap
// sample of the training rows, and combine them into a ClassificationForestModel.
// All randomness derives from a single seed, so a learner configured with one
// thread reproduces the same trees in the same order on every call.
package ensemble

import (
	"github.com/YuminosukeSato/sciforest/sklearn/tree"
)

// ClassificationExtremelyRandomizedTreesLearner grows extremely randomized
// trees: each candidate feature gets a single random threshold between its
// minimum and maximum at the node.
type ClassificationExtremelyRandomizedTreesLearner struct {
	*forest
}

// NewClassificationExtremelyRandomizedTreesLearner validates the options and
// creates a learner. On invalid options it returns an
// *errors.InvalidConfigurationError naming the parameter.
//
//	learner, err := ensemble.NewClassificationExtremelyRandomizedTreesLearner(
//	    ensemble.WithTrees(50),
//	    ensemble.WithNumberOfThreads(4),
//	)
//	model, err := learner.Learn(X, y)
func NewClassificationExtremelyRandomizedTreesLearner(opts ...Option) (*ClassificationExtremelyRandomizedTreesLearner, error) {
	f, err := newForest("ClassificationExtremelyRandomizedTreesLearner", func(minimumSplitSize int, seed int64) tree.SplitSearcher {
		return tree.NewRandomSplitSearcher(minimumSplitSize, seed)
	}, opts)
	if err != nil {
		return nil, err
	}
	f.kind = "extra_trees"
	return &ClassificationExtremelyRandomizedTreesLearner{forest: f}, nil
}
