package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
	"github.com/YuminosukeSato/sciforest/sklearn/ensemble"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sciforest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, LearnerExtraTrees, conf.Forest.Learner)
	assert.Equal(t, ensemble.DefaultTrees, conf.Forest.Trees)
	assert.Equal(t, ensemble.DefaultMinimumSplitSize, conf.Forest.MinimumSplitSize)
	assert.Equal(t, ensemble.DefaultMaximumTreeDepth, conf.Forest.MaximumTreeDepth)
	assert.Equal(t, ensemble.DefaultFeaturesPrSplit, conf.Forest.FeaturesPrSplit)
	assert.Equal(t, ensemble.DefaultMinimumInformationGain, conf.Forest.MinimumInformationGain)
	assert.Equal(t, int64(ensemble.DefaultSeed), conf.Forest.Seed)
	assert.Equal(t, runtime.NumCPU(), conf.Forest.NumberOfThreads)
	assert.Equal(t, "info", conf.Log.Level)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
forest:
  learner: random_forest
  trees: 25
  features_pr_split: 2
  seed: 9
  number_of_threads: 2
log:
  level: debug
`)
	t.Setenv("SCIFOREST_FOREST_TREES", "40")

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, LearnerRandomForest, conf.Forest.Learner)
	assert.Equal(t, 40, conf.Forest.Trees, "environment overrides the file")
	assert.Equal(t, 2, conf.Forest.FeaturesPrSplit)
	assert.Equal(t, int64(9), conf.Forest.Seed)
	assert.Equal(t, 2, conf.Forest.NumberOfThreads)
	assert.Equal(t, ensemble.DefaultMaximumTreeDepth, conf.Forest.MaximumTreeDepth)
	assert.Equal(t, "debug", conf.Log.Level)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		param string
	}{
		{"zero trees", "forest:\n  trees: 0\n", "trees"},
		{"zero threads", "forest:\n  number_of_threads: 0\n", "number_of_threads"},
		{"zero gain", "forest:\n  minimum_information_gain: 0\n", "minimum_information_gain"},
		{"negative features", "forest:\n  features_pr_split: -1\n", "features_pr_split"},
		{"unknown learner", "forest:\n  learner: boosting\n", "learner"},
		{"unknown log level", "log:\n  level: trace\n", "level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.yaml))
			require.Error(t, err)

			var cfgErr *errors.InvalidConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, tt.param, cfgErr.Param)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestForestConfig_NewLearner(t *testing.T) {
	conf, err := Load("")
	require.NoError(t, err)

	learner, err := conf.Forest.NewLearner()
	require.NoError(t, err)
	assert.IsType(t, &ensemble.ClassificationExtremelyRandomizedTreesLearner{}, learner)

	conf.Forest.Learner = LearnerRandomForest
	learner, err = conf.Forest.NewLearner()
	require.NoError(t, err)
	assert.IsType(t, &ensemble.ClassificationRandomForestLearner{}, learner)

	conf.Forest.Trees = 0
	learner, err = conf.Forest.NewLearner()
	assert.Nil(t, learner)
	var cfgErr *errors.InvalidConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestLogConfig_ApplyLogLevel(t *testing.T) {
	assert.NoError(t, LogConfig{Level: "warn"}.ApplyLogLevel())
	assert.Error(t, LogConfig{Level: "loud"}.ApplyLogLevel())
	assert.NoError(t, LogConfig{Level: "info"}.ApplyLogLevel())
}
