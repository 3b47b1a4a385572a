package ensemble

import (
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sciforest/core/parallel"
	"github.com/YuminosukeSato/sciforest/core/random"
	"github.com/YuminosukeSato/sciforest/pkg/errors"
	"github.com/YuminosukeSato/sciforest/pkg/log"
	"github.com/YuminosukeSato/sciforest/sklearn/tree"
)

// treeLearner grows one tree on a bootstrap sample. Each worker owns one.
type treeLearner interface {
	LearnModel(observations *mat.Dense, targets []float64, indices []int) (*tree.ClassificationDecisionTreeModel, error)
}

// splitSearcherFactory builds the split strategy for one worker.
type splitSearcherFactory func(minimumSplitSize int, seed int64) tree.SplitSearcher

// forest is the bagging engine shared by the extremely randomized trees and
// random forest learners. Only the split searcher differs between them.
type forest struct {
	name   string
	kind   string // metrics label
	cfg    forestConfig
	logger log.Logger

	newTreeLearner func(featuresPrSplit int, learnerSeed, searcherSeed int64) treeLearner
}

func newForest(name string, newSearcher splitSearcherFactory, opts []Option) (*forest, error) {
	cfg := defaultForestConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = log.GetLoggerWithName(name)
	}

	f := &forest{name: name, cfg: cfg, logger: logger}
	f.newTreeLearner = func(featuresPrSplit int, learnerSeed, searcherSeed int64) treeLearner {
		return tree.NewDecisionTreeLearner(
			cfg.maximumTreeDepth,
			featuresPrSplit,
			cfg.minimumInformationGain,
			learnerSeed,
			newSearcher(cfg.minimumSplitSize, searcherSeed),
			tree.GiniClassificationImpurityCalculator{},
		)
	}
	return f, nil
}

func (c *forestConfig) validate() error {
	if c.trees < 1 {
		return errors.NewInvalidConfigurationError("trees", "must be at least 1", c.trees)
	}
	if c.featuresPrSplit < 0 {
		return errors.NewInvalidConfigurationError("featuresPrSplit", "must be at least 0", c.featuresPrSplit)
	}
	if c.minimumSplitSize <= 0 {
		return errors.NewInvalidConfigurationError("minimumSplitSize", "must be larger than 0", c.minimumSplitSize)
	}
	if c.maximumTreeDepth <= 0 {
		return errors.NewInvalidConfigurationError("maximumTreeDepth", "must be larger than 0", c.maximumTreeDepth)
	}
	if !(c.minimumInformationGain > 0) {
		return errors.NewInvalidConfigurationError("minimumInformationGain", "must be larger than 0", c.minimumInformationGain)
	}
	if c.numberOfThreads < 1 {
		return errors.NewInvalidConfigurationError("numberOfThreads", "must be at least 1", c.numberOfThreads)
	}
	return nil
}

// resolveFeaturesPrSplit returns the configured value, or floor(sqrt(columns))
// (at least 1) when it is 0.
func (f *forest) resolveFeaturesPrSplit(columns int) int {
	if f.cfg.featuresPrSplit != 0 {
		return f.cfg.featuresPrSplit
	}
	return max(1, int(math.Sqrt(float64(columns))))
}

// Learn grows the forest on every row of observations.
func (f *forest) Learn(observations *mat.Dense, targets []float64) (*ClassificationForestModel, error) {
	rows, _ := observations.Dims()
	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	return f.LearnIndices(observations, targets, indices)
}

type worker struct {
	bootstrap *rand.Rand
	learner   treeLearner
}

// LearnIndices grows the forest using indices as the bootstrap population.
// It blocks until every tree is built. Either all trees are returned or the
// call fails as a whole.
func (f *forest) LearnIndices(observations *mat.Dense, targets []float64, indices []int) (_ *ClassificationForestModel, err error) {
	start := time.Now()
	rows, cols := observations.Dims()
	defer func() {
		if err != nil {
			f.cfg.metrics.learnFailed(f.kind)
			f.logger.Error("forest training failed",
				log.OperationKey, log.OperationFit,
				log.TreesKey, f.cfg.trees,
				"error", err,
			)
		}
	}()

	if rows != len(targets) {
		return nil, errors.NewDimensionError("LearnIndices", rows, len(targets), 0)
	}
	if len(indices) == 0 {
		return nil, errors.NewInvalidTreeConstraintError("indices", "at least one row index is required")
	}

	featuresPrSplit := f.resolveFeaturesPrSplit(cols)
	workers := f.cfg.numberOfThreads

	// 全ワーカーの乱数は呼び出し側のゴルーチンで事前に導出する
	root := random.NewStream(f.cfg.seed)
	pool := make([]worker, workers)
	for i := range pool {
		pool[i].bootstrap = root.Derive()
		learnerSeed := root.Next()
		pool[i].learner = f.newTreeLearner(featuresPrSplit, learnerSeed, root.Next())
	}

	f.logger.Info("forest training started",
		log.ModelNameKey, f.name,
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, len(indices),
		log.FeaturesKey, cols,
		log.TreesKey, f.cfg.trees,
		log.WorkersKey, workers,
		log.FeaturesPerSplitKey, featuresPrSplit,
		log.RandomSeedKey, f.cfg.seed,
	)

	// ワーカーごとの本数は固定なので、同じシードとスレッド数なら同じ木の集合になる
	queues := parallel.Partition(f.cfg.trees, workers)
	sink := parallel.NewSink[*tree.ClassificationDecisionTreeModel](f.cfg.trees)

	err = parallel.Drain(queues, func(id int) error {
		w := &pool[id]
		treeIndices := make([]int, len(indices))
		random.Bootstrap(w.bootstrap, indices, treeIndices)

		buildStart := time.Now()
		m, err := w.learner.LearnModel(observations, targets, treeIndices)
		if err != nil {
			return err
		}
		f.cfg.metrics.observeTree(f.kind, time.Since(buildStart))
		sink.Add(m)

		f.logger.Debug("tree built",
			log.WorkerIDKey, id,
			"tree.depth", m.Depth(),
			"tree.leaves", m.Leaves(),
		)
		return nil
	}, parallel.WithWorkerHooks(
		func(int) { f.cfg.metrics.workerStarted(f.kind) },
		func(int) { f.cfg.metrics.workerStopped(f.kind) },
	))
	if err != nil {
		return nil, err
	}

	trees := sink.Items()
	if len(trees) != f.cfg.trees {
		return nil, errors.NewConcurrencyFailureError("LearnIndices",
			errors.Newf("expected %d trees, collected %d", f.cfg.trees, len(trees)))
	}

	model := newClassificationForestModel(trees, rawVariableImportance(trees, cols))

	f.logger.Info("forest training finished",
		log.OperationKey, log.OperationFit,
		log.TreesBuiltKey, len(trees),
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return model, nil
}

// ForestLearner is implemented by every forest learner in this package.
type ForestLearner interface {
	Learn(observations *mat.Dense, targets []float64) (*ClassificationForestModel, error)
	LearnIndices(observations *mat.Dense, targets []float64, indices []int) (*ClassificationForestModel, error)
}

var (
	_ ForestLearner = (*ClassificationExtremelyRandomizedTreesLearner)(nil)
	_ ForestLearner = (*ClassificationRandomForestLearner)(nil)
)
