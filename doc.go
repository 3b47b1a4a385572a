// Package sciforest provides randomized decision tree ensembles for Go,
// designed for backend services that train and serve classifiers in-process.
//
// sciforest grows bagged classification trees in parallel on a gonum matrix.
// Every random choice derives from a single seed, so training is reproducible.
//
// # Installation
//
//	go get github.com/YuminosukeSato/sciforest
//
// # Quick Start
//
// Here's a simple example of extremely randomized trees:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/sciforest/sklearn/ensemble"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(6, 2, []float64{
//	        0, 0,
//	        0, 1,
//	        1, 0,
//	        3, 3,
//	        3, 4,
//	        4, 3,
//	    })
//	    y := []float64{0, 0, 0, 1, 1, 1}
//
//	    learner, err := ensemble.NewClassificationExtremelyRandomizedTreesLearner(
//	        ensemble.WithTrees(50),
//	        ensemble.WithNumberOfThreads(4),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    model, err := learner.Learn(X, y)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("Importance:", model.GetRawVariableImportance())
//	}
//
// # Packages
//
//   - sklearn/ensemble: forest learners (extremely randomized trees, random forest) and ClassificationForestModel
//   - sklearn/tree: single-tree learner, split searchers, impurity and DecisionTreeClassifier
//   - config: YAML and environment configuration for forest learners
//   - metrics: classification metrics (Accuracy, ClassificationError)
//   - core/model: estimator interfaces and fitted state
//   - core/parallel: work queue, worker pool and row-parallel helpers
//   - core/random: seed derivation and bootstrap sampling
//   - pkg/errors, pkg/log: error types and structured logging
//
// # Concurrency
//
// A Learn call starts its own workers and blocks until every tree is built.
// Training data is only read. A learner may be reused but not shared between
// concurrent Learn calls when it carries a custom Logger that is not safe for
// concurrent use.
//
// # License
//
// sciforest is released under the MIT License.
package sciforest
