// Package config loads forest training settings from a YAML file and
// SCIFOREST_* environment variables.
package config

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
	"github.com/YuminosukeSato/sciforest/pkg/log"
	"github.com/YuminosukeSato/sciforest/sklearn/ensemble"
)

// Learner kinds accepted in ForestConfig.Learner.
const (
	LearnerExtraTrees   = "extra_trees"
	LearnerRandomForest = "random_forest"
)

// EnvPrefix prefixes every environment override, e.g. SCIFOREST_FOREST_TREES.
const EnvPrefix = "SCIFOREST"

// Config is the top-level configuration.
type Config struct {
	Forest ForestConfig `mapstructure:"forest"`
	Log    LogConfig    `mapstructure:"log"`
}

// ForestConfig holds the learner hyperparameters.
type ForestConfig struct {
	Learner                string  `mapstructure:"learner"                  validate:"oneof=extra_trees random_forest"`
	Trees                  int     `mapstructure:"trees"                    validate:"min=1"`
	MinimumSplitSize       int     `mapstructure:"minimum_split_size"       validate:"min=1"`
	MaximumTreeDepth       int     `mapstructure:"maximum_tree_depth"       validate:"min=1"`
	FeaturesPrSplit        int     `mapstructure:"features_pr_split"        validate:"min=0"`
	MinimumInformationGain float64 `mapstructure:"minimum_information_gain" validate:"gt=0"`
	Seed                   int64   `mapstructure:"seed"`
	NumberOfThreads        int     `mapstructure:"number_of_threads"        validate:"min=1"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper, threads int) {
	v.SetDefault("forest.learner", LearnerExtraTrees)
	v.SetDefault("forest.trees", ensemble.DefaultTrees)
	v.SetDefault("forest.minimum_split_size", ensemble.DefaultMinimumSplitSize)
	v.SetDefault("forest.maximum_tree_depth", ensemble.DefaultMaximumTreeDepth)
	v.SetDefault("forest.features_pr_split", ensemble.DefaultFeaturesPrSplit)
	v.SetDefault("forest.minimum_information_gain", ensemble.DefaultMinimumInformationGain)
	v.SetDefault("forest.seed", ensemble.DefaultSeed)
	v.SetDefault("forest.number_of_threads", threads)
	v.SetDefault("log.level", "info")
}

// Load reads path (YAML) if it is not empty, applies environment overrides
// and validates the result. Invalid values are reported as
// *errors.InvalidConfigurationError naming the offending key.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, runtime.NumCPU())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config %s", path)
		}
	}

	var conf Config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := Validate(&conf); err != nil {
		return nil, err
	}

	log.GetLoggerWithName("config").Debug("configuration loaded",
		"config.file", path,
		"forest.learner", conf.Forest.Learner,
		log.TreesKey, conf.Forest.Trees,
		log.WorkersKey, conf.Forest.NumberOfThreads,
	)
	return &conf, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// エラーにはフィールド名ではなく設定キーを使う
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate checks conf against its validate tags.
func Validate(conf *Config) error {
	err := validate.Struct(conf)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		reason := fmt.Sprintf("failed '%s' constraint", fe.Tag())
		if fe.Param() != "" {
			reason = fmt.Sprintf("failed '%s=%s' constraint", fe.Tag(), fe.Param())
		}
		return errors.NewInvalidConfigurationError(fe.Field(), reason, fe.Value())
	}
	return errors.Wrap(err, "validate config")
}

// Options converts the forest settings into learner options.
func (c ForestConfig) Options() []ensemble.Option {
	return []ensemble.Option{
		ensemble.WithTrees(c.Trees),
		ensemble.WithMinimumSplitSize(c.MinimumSplitSize),
		ensemble.WithMaximumTreeDepth(c.MaximumTreeDepth),
		ensemble.WithFeaturesPrSplit(c.FeaturesPrSplit),
		ensemble.WithMinimumInformationGain(c.MinimumInformationGain),
		ensemble.WithSeed(c.Seed),
		ensemble.WithNumberOfThreads(c.NumberOfThreads),
	}
}

// NewLearner builds the configured learner. extra options are applied after
// the configured ones.
func (c ForestConfig) NewLearner(extra ...ensemble.Option) (ensemble.ForestLearner, error) {
	opts := append(c.Options(), extra...)
	switch c.Learner {
	case LearnerRandomForest:
		learner, err := ensemble.NewClassificationRandomForestLearner(opts...)
		if err != nil {
			return nil, err
		}
		return learner, nil
	case LearnerExtraTrees, "":
		learner, err := ensemble.NewClassificationExtremelyRandomizedTreesLearner(opts...)
		if err != nil {
			return nil, err
		}
		return learner, nil
	default:
		return nil, errors.NewInvalidConfigurationError("learner", "must be extra_trees or random_forest", c.Learner)
	}
}

// ApplyLogLevel sets the global log level from c.
func (c LogConfig) ApplyLogLevel() error {
	level, err := log.ToLogLevel(c.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
