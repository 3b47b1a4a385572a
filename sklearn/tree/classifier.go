package tree

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sciforest/core/model"
	"github.com/YuminosukeSato/sciforest/metrics"
	"github.com/YuminosukeSato/sciforest/pkg/errors"
	"github.com/YuminosukeSato/sciforest/pkg/log"
)

// unlimitedDepth is used when max_depth is not set.
const unlimitedDepth = 2000

// DecisionTreeClassifier is a scikit-learn style CART classifier built on
// DecisionTreeLearner with exhaustive split search.
type DecisionTreeClassifier struct {
	state  *model.StateManager
	logger log.Logger

	// ハイパーパラメータ
	criterion       string
	maxDepth        int // -1 は無制限
	minSamplesSplit int
	minSamplesLeaf  int
	maxFeatures     int // 0 は全特徴量
	randomState     int64

	// 学習結果
	model_              *ClassificationDecisionTreeModel
	classes_            []float64
	nClasses_           int
	featureImportances_ []float64
}

// Option configures a DecisionTreeClassifier.
type Option func(*DecisionTreeClassifier)

// WithCriterion sets the impurity criterion, "gini" or "entropy".
func WithCriterion(criterion string) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.criterion = criterion
	}
}

// WithMaxDepth limits the tree depth. -1 means unlimited.
func WithMaxDepth(depth int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxDepth = depth
	}
}

// WithMinSamplesSplit sets the number of samples a node needs to be split.
func WithMinSamplesSplit(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesSplit = n
	}
}

// WithMinSamplesLeaf sets the minimum number of samples in each child.
func WithMinSamplesLeaf(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.minSamplesLeaf = n
	}
}

// WithMaxFeatures sets how many features are examined per split. 0 means all.
func WithMaxFeatures(n int) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.maxFeatures = n
	}
}

// WithRandomState seeds the feature sampling.
func WithRandomState(seed int64) Option {
	return func(dt *DecisionTreeClassifier) {
		dt.randomState = seed
	}
}

// NewDecisionTreeClassifier creates a classifier with sklearn defaults.
func NewDecisionTreeClassifier(opts ...Option) *DecisionTreeClassifier {
	dt := &DecisionTreeClassifier{
		state:           model.NewStateManager(),
		logger:          log.GetLoggerWithName("DecisionTreeClassifier"),
		criterion:       "gini",
		maxDepth:        -1,
		minSamplesSplit: 2,
		minSamplesLeaf:  1,
	}
	for _, opt := range opts {
		opt(dt)
	}
	return dt
}

var (
	_ model.Classifier         = (*DecisionTreeClassifier)(nil)
	_ model.FeatureImportancer = (*DecisionTreeClassifier)(nil)
)

// Fit grows the tree. y must be an n×1 matrix of class labels.
func (dt *DecisionTreeClassifier) Fit(X, y mat.Matrix) (err error) {
	defer errors.Recover(&err, "DecisionTreeClassifier.Fit")

	observations, targets, err := dt.validateFitInput(X, y)
	if err != nil {
		return err
	}
	rows, cols := observations.Dims()

	impurity, err := NewImpurityCalculator(dt.criterion)
	if err != nil {
		return err
	}
	if err := dt.validateParams(cols); err != nil {
		return err
	}

	maxDepth := dt.maxDepth
	if maxDepth < 0 {
		maxDepth = unlimitedDepth
	}

	learner := NewDecisionTreeLearner(maxDepth, dt.maxFeatures, 0, dt.randomState,
		NewExhaustiveSplitSearcher(dt.minSamplesLeaf), impurity)
	learner.SetMinimumSamplesSplit(dt.minSamplesSplit)

	indices := make([]int, rows)
	for i := range indices {
		indices[i] = i
	}
	m, err := learner.LearnModel(observations, targets, indices)
	if err != nil {
		return err
	}

	dt.model_ = m
	dt.classes_ = m.Tree.Classes
	dt.nClasses_ = len(m.Tree.Classes)
	dt.featureImportances_ = normalizeImportances(m.GetRawVariableImportance())
	dt.state.SetFitted(cols, rows)

	dt.logger.Debug("decision tree fitted",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, rows,
		log.FeaturesKey, cols,
		"tree.depth", m.Depth(),
		"tree.leaves", m.Leaves(),
	)
	return nil
}

func (dt *DecisionTreeClassifier) validateFitInput(X, y mat.Matrix) (*mat.Dense, []float64, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "DecisionTreeClassifier.Fit")
	}
	yRows, yCols := y.Dims()
	if yCols != 1 {
		return nil, nil, errors.NewDimensionError("DecisionTreeClassifier.Fit", 1, yCols, 1)
	}
	if yRows != rows {
		return nil, nil, errors.NewDimensionError("DecisionTreeClassifier.Fit", rows, yRows, 0)
	}
	targets := make([]float64, rows)
	for i := range targets {
		targets[i] = y.At(i, 0)
	}
	return mat.DenseCopyOf(X), targets, nil
}

func (dt *DecisionTreeClassifier) validateParams(nFeatures int) error {
	if dt.maxDepth == 0 || dt.maxDepth < -1 {
		return errors.NewInvalidConfigurationError("max_depth", "must be -1 or larger than 0", dt.maxDepth)
	}
	if dt.minSamplesSplit < 2 {
		return errors.NewInvalidConfigurationError("min_samples_split", "must be at least 2", dt.minSamplesSplit)
	}
	if dt.minSamplesLeaf < 1 {
		return errors.NewInvalidConfigurationError("min_samples_leaf", "must be at least 1", dt.minSamplesLeaf)
	}
	if dt.maxFeatures < 0 || dt.maxFeatures > nFeatures {
		return errors.NewInvalidConfigurationError("max_features",
			fmt.Sprintf("must be in [0, %d]", nFeatures), dt.maxFeatures)
	}
	return nil
}

// Predict returns the predicted class labels as an n×1 matrix.
func (dt *DecisionTreeClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.requirePredictable("Predict", X); err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, dt.model_.Predict(mat.Row(nil, i, X)))
	}
	return out, nil
}

// PredictProba returns class probabilities, one column per entry of Classes().
func (dt *DecisionTreeClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if err := dt.requirePredictable("PredictProba", X); err != nil {
		return nil, err
	}
	rows, _ := X.Dims()
	out := mat.NewDense(rows, dt.nClasses_, nil)
	for i := 0; i < rows; i++ {
		probs := dt.model_.PredictProbability(mat.Row(nil, i, X))
		for k, class := range dt.classes_ {
			out.Set(i, k, probs[class])
		}
	}
	return out, nil
}

// Score returns the accuracy of Predict(X) against y.
func (dt *DecisionTreeClassifier) Score(X, y mat.Matrix) (float64, error) {
	pred, err := dt.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.AccuracyMatrix(y, pred)
}

func (dt *DecisionTreeClassifier) requirePredictable(method string, X mat.Matrix) error {
	if err := dt.state.RequireFitted("DecisionTreeClassifier", method); err != nil {
		return err
	}
	_, cols := X.Dims()
	return dt.state.RequireFeatures("DecisionTreeClassifier."+method, cols)
}

// Classes returns the class labels seen during Fit, ascending.
func (dt *DecisionTreeClassifier) Classes() []float64 {
	out := make([]float64, len(dt.classes_))
	copy(out, dt.classes_)
	return out
}

// GetFeatureImportances returns importances normalised to sum to 1.
// A tree without splits yields all zeros.
func (dt *DecisionTreeClassifier) GetFeatureImportances() []float64 {
	out := make([]float64, len(dt.featureImportances_))
	copy(out, dt.featureImportances_)
	return out
}

// GetDepth returns the depth of the fitted tree, 0 before Fit.
func (dt *DecisionTreeClassifier) GetDepth() int {
	if dt.model_ == nil {
		return 0
	}
	return dt.model_.Depth()
}

// GetNLeaves returns the number of leaves of the fitted tree, 0 before Fit.
func (dt *DecisionTreeClassifier) GetNLeaves() int {
	if dt.model_ == nil {
		return 0
	}
	return dt.model_.Leaves()
}

// GetParams returns the hyperparameters keyed by their sklearn names.
func (dt *DecisionTreeClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"criterion":         dt.criterion,
		"max_depth":         dt.maxDepth,
		"min_samples_split": dt.minSamplesSplit,
		"min_samples_leaf":  dt.minSamplesLeaf,
		"max_features":      dt.maxFeatures,
		"random_state":      dt.randomState,
	}
}

// SetParams updates hyperparameters and resets the fitted state.
func (dt *DecisionTreeClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "criterion":
			v, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			dt.criterion = v
		case "max_depth", "min_samples_split", "min_samples_leaf", "max_features":
			v, ok := value.(int)
			if !ok {
				return errors.NewValidationError(key, "must be an int", value)
			}
			switch key {
			case "max_depth":
				dt.maxDepth = v
			case "min_samples_split":
				dt.minSamplesSplit = v
			case "min_samples_leaf":
				dt.minSamplesLeaf = v
			default:
				dt.maxFeatures = v
			}
		case "random_state":
			switch v := value.(type) {
			case int:
				dt.randomState = int64(v)
			case int64:
				dt.randomState = v
			default:
				return errors.NewValidationError(key, "must be an integer", value)
			}
		default:
			return errors.NewValidationError(key, "unknown parameter", value)
		}
	}
	dt.state.Reset()
	return nil
}

func normalizeImportances(raw []float64) []float64 {
	total := floats.Sum(raw)
	if total <= 0 {
		return make([]float64, len(raw))
	}
	floats.Scale(1/total, raw)
	return raw
}
