package ensemble

import (
	"runtime"

	"github.com/YuminosukeSato/sciforest/pkg/log"
)

// Defaults shared by every forest learner.
const (
	DefaultTrees                  = 100
	DefaultMinimumSplitSize       = 1
	DefaultMaximumTreeDepth       = 2000
	DefaultFeaturesPrSplit        = 0
	DefaultMinimumInformationGain = 1e-6
	DefaultSeed                   = 42
)

type forestConfig struct {
	trees                  int
	minimumSplitSize       int
	maximumTreeDepth       int
	featuresPrSplit        int
	minimumInformationGain float64
	seed                   int64
	numberOfThreads        int

	logger  log.Logger
	metrics *TrainingMetrics
}

func defaultForestConfig() forestConfig {
	return forestConfig{
		trees:                  DefaultTrees,
		minimumSplitSize:       DefaultMinimumSplitSize,
		maximumTreeDepth:       DefaultMaximumTreeDepth,
		featuresPrSplit:        DefaultFeaturesPrSplit,
		minimumInformationGain: DefaultMinimumInformationGain,
		seed:                   DefaultSeed,
		numberOfThreads:        runtime.NumCPU(),
	}
}

// Option configures a forest learner.
type Option func(*forestConfig)

// WithTrees sets the number of trees to grow.
func WithTrees(trees int) Option {
	return func(c *forestConfig) {
		c.trees = trees
	}
}

// WithMinimumSplitSize sets the minimum number of samples in each child of a split.
func WithMinimumSplitSize(size int) Option {
	return func(c *forestConfig) {
		c.minimumSplitSize = size
	}
}

// WithMaximumTreeDepth limits the depth of every tree.
func WithMaximumTreeDepth(depth int) Option {
	return func(c *forestConfig) {
		c.maximumTreeDepth = depth
	}
}

// WithFeaturesPrSplit sets how many features are drawn per split.
// 0 uses floor(sqrt(columns)), at least 1.
func WithFeaturesPrSplit(n int) Option {
	return func(c *forestConfig) {
		c.featuresPrSplit = n
	}
}

// WithMinimumInformationGain sets the smallest impurity improvement a split must reach.
func WithMinimumInformationGain(gain float64) Option {
	return func(c *forestConfig) {
		c.minimumInformationGain = gain
	}
}

// WithSeed sets the root seed all per-worker generators derive from.
func WithSeed(seed int64) Option {
	return func(c *forestConfig) {
		c.seed = seed
	}
}

// WithNumberOfThreads sets the number of tree-building workers.
func WithNumberOfThreads(n int) Option {
	return func(c *forestConfig) {
		c.numberOfThreads = n
	}
}

// WithLogger replaces the component logger.
func WithLogger(logger log.Logger) Option {
	return func(c *forestConfig) {
		c.logger = logger
	}
}

// WithMetrics records training metrics on m.
func WithMetrics(m *TrainingMetrics) Option {
	return func(c *forestConfig) {
		c.metrics = m
	}
}
