package ensemble

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
)

// TrainingMetrics collects Prometheus metrics for forest training.
// Every series is labelled with the learner kind ("extra_trees" or "random_forest").
type TrainingMetrics struct {
	TreesBuilt        *prometheus.CounterVec
	TreeBuildDuration *prometheus.HistogramVec
	ActiveWorkers     *prometheus.GaugeVec
	LearnFailures     *prometheus.CounterVec
}

// NewTrainingMetrics creates the training metrics and registers them on reg.
// Collectors already registered on reg by an earlier call are reused, so
// several learners may share one registry.
func NewTrainingMetrics(reg prometheus.Registerer) (*TrainingMetrics, error) {
	m := &TrainingMetrics{
		TreesBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sciforest_trees_built_total",
			Help: "Total number of decision trees built by forest learners",
		}, []string{"learner"}),
		TreeBuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sciforest_tree_build_duration_seconds",
			Help:    "Time spent growing a single decision tree",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"learner"}),
		ActiveWorkers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sciforest_active_workers",
			Help: "Number of tree-building workers currently running",
		}, []string{"learner"}),
		LearnFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sciforest_learn_failures_total",
			Help: "Total number of Learn calls that failed",
		}, []string{"learner"}),
	}

	var err error
	if m.TreesBuilt, err = register(reg, m.TreesBuilt); err != nil {
		return nil, err
	}
	if m.TreeBuildDuration, err = register(reg, m.TreeBuildDuration); err != nil {
		return nil, err
	}
	if m.ActiveWorkers, err = register(reg, m.ActiveWorkers); err != nil {
		return nil, err
	}
	if m.LearnFailures, err = register(reg, m.LearnFailures); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, errors.Wrap(err, "register training metrics")
	}
	return c, nil
}

// nil-safe recorders used by the tree-building workers

func (m *TrainingMetrics) observeTree(learner string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.TreesBuilt.WithLabelValues(learner).Inc()
	m.TreeBuildDuration.WithLabelValues(learner).Observe(elapsed.Seconds())
}

func (m *TrainingMetrics) workerStarted(learner string) {
	if m == nil {
		return
	}
	m.ActiveWorkers.WithLabelValues(learner).Inc()
}

func (m *TrainingMetrics) workerStopped(learner string) {
	if m == nil {
		return
	}
	m.ActiveWorkers.WithLabelValues(learner).Dec()
}

func (m *TrainingMetrics) learnFailed(learner string) {
	if m == nil {
		return
	}
	m.LearnFailures.WithLabelValues(learner).Inc()
}
