package tree

import (
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/sciforest/pkg/errors"
)

// DecisionTreeLearner grows one classification tree over a subset of rows.
//
// Split candidates are drawn per node: featuresPrSplit features are sampled
// without replacement and each is handed to the SplitSearcher; the best
// improvement wins. A learner is not safe for concurrent use but may be reused
// for many trees.
type DecisionTreeLearner struct {
	maximumTreeDepth       int
	featuresPrSplit        int
	minimumInformationGain float64
	minimumSamplesSplit    int
	rng                    *rand.Rand
	splitSearcher          SplitSearcher
	impurityCalculator     ImpurityCalculator

	variableImportance []float64
	features           []int
	pairs              valueClassPairs
}

// NewDecisionTreeLearner creates a learner. featuresPrSplit 0 means all features.
func NewDecisionTreeLearner(maximumTreeDepth, featuresPrSplit int, minimumInformationGain float64, seed int64,
	splitSearcher SplitSearcher, impurityCalculator ImpurityCalculator) *DecisionTreeLearner {
	return &DecisionTreeLearner{
		maximumTreeDepth:       maximumTreeDepth,
		featuresPrSplit:        featuresPrSplit,
		minimumInformationGain: minimumInformationGain,
		minimumSamplesSplit:    2,
		rng:                    rand.New(rand.NewSource(seed)),
		splitSearcher:          splitSearcher,
		impurityCalculator:     impurityCalculator,
	}
}

// SetMinimumSamplesSplit sets how many samples a node needs before a split is
// attempted. The default is 2.
func (l *DecisionTreeLearner) SetMinimumSamplesSplit(n int) {
	l.minimumSamplesSplit = n
}

// VariableImportance returns the raw importance of the last learned tree:
// for every split, the impurity improvement weighted by the fraction of the
// training subset that reached the node, summed per feature.
func (l *DecisionTreeLearner) VariableImportance() []float64 {
	out := make([]float64, len(l.variableImportance))
	copy(out, l.variableImportance)
	return out
}

type buildItem struct {
	node    int
	indices []int
	depth   int
}

// Learn grows a tree on the rows of observations listed in indices.
// Indices may repeat; each occurrence counts as one sample.
func (l *DecisionTreeLearner) Learn(observations *mat.Dense, targets []float64, indices []int) (*BinaryTree, error) {
	rows, cols := observations.Dims()
	if err := l.validate(rows, cols, targets, indices); err != nil {
		return nil, err
	}

	classes, classOf := classIndex(targets)
	nClasses := len(classes)

	featuresPrSplit := l.featuresPrSplit
	if featuresPrSplit == 0 {
		featuresPrSplit = cols
	}
	l.variableImportance = make([]float64, cols)
	l.features = make([]int, cols)
	for f := range l.features {
		l.features[f] = f
	}

	t := &BinaryTree{Classes: classes}
	rootSize := float64(len(indices))

	own := make([]int, len(indices))
	copy(own, indices)
	t.Nodes = append(t.Nodes, Node{})
	stack := []buildItem{{node: 0, indices: own, depth: 0}}

	counts := make([]float64, nClasses)
	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for k := range counts {
			counts[k] = 0
		}
		for _, idx := range item.indices {
			counts[classOf[idx]]++
		}
		n := float64(len(item.indices))
		nodeImpurity := l.impurityCalculator.Impurity(counts, n)
		value := classes[argmax(counts)]

		if item.depth > t.depth {
			t.depth = item.depth
		}

		feature, split, ok := -1, SplitResult{}, false
		if item.depth < l.maximumTreeDepth && nodeImpurity > 0 && len(item.indices) >= l.minimumSamplesSplit {
			feature, split, ok = l.bestSplit(observations, item.indices, classOf, nClasses, nodeImpurity, featuresPrSplit)
		}
		if !ok || split.ImpurityImprovement < l.minimumInformationGain ||
			split.LeftCount <= 0 || split.LeftCount >= len(item.indices) {
			t.Nodes[item.node] = l.makeLeaf(t, value, counts, n)
			continue
		}

		l.variableImportance[feature] += split.ImpurityImprovement * n / rootSize

		left := make([]int, 0, split.LeftCount)
		right := make([]int, 0, len(item.indices)-split.LeftCount)
		for _, idx := range item.indices {
			if observations.At(idx, feature) < split.Threshold {
				left = append(left, idx)
			} else {
				right = append(right, idx)
			}
		}

		leftNode := len(t.Nodes)
		rightNode := leftNode + 1
		t.Nodes = append(t.Nodes, Node{}, Node{})
		t.Nodes[item.node] = Node{
			FeatureIndex: feature,
			Threshold:    split.Threshold,
			Left:         leftNode,
			Right:        rightNode,
			Value:        value,
			LeafIndex:    -1,
		}
		stack = append(stack,
			buildItem{node: rightNode, indices: right, depth: item.depth + 1},
			buildItem{node: leftNode, indices: left, depth: item.depth + 1},
		)
	}
	return t, nil
}

func (l *DecisionTreeLearner) validate(rows, cols int, targets []float64, indices []int) error {
	if rows != len(targets) {
		return errors.NewDimensionError("DecisionTreeLearner.Learn", rows, len(targets), 0)
	}
	if len(indices) == 0 {
		return errors.NewInvalidTreeConstraintError("indices", "at least one row index is required")
	}
	if l.featuresPrSplit > cols {
		return errors.NewInvalidTreeConstraintError("featuresPrSplit",
			fmt.Sprintf("%d exceeds %d available features", l.featuresPrSplit, cols))
	}
	if l.maximumTreeDepth <= 0 {
		return errors.NewInvalidTreeConstraintError("maximumTreeDepth", "must be larger than 0")
	}
	for _, idx := range indices {
		if idx < 0 || idx >= rows {
			return errors.NewInvalidTreeConstraintError("indices",
				fmt.Sprintf("row index %d outside [0, %d)", idx, rows))
		}
	}
	return nil
}

func (l *DecisionTreeLearner) makeLeaf(t *BinaryTree, value float64, counts []float64, n float64) Node {
	probs := make([]float64, len(counts))
	for k, c := range counts {
		probs[k] = c / n
	}
	t.Probabilities = append(t.Probabilities, probs)
	return Node{FeatureIndex: -1, Value: value, LeafIndex: len(t.Probabilities) - 1}
}

// bestSplit samples featuresPrSplit features (partial Fisher-Yates) and asks
// the searcher for each. The first feature reaching the best improvement wins.
func (l *DecisionTreeLearner) bestSplit(observations *mat.Dense, indices []int, classOf []int, nClasses int,
	parentImpurity float64, featuresPrSplit int) (int, SplitResult, bool) {
	var (
		bestFeature = -1
		best        SplitResult
		found       bool
	)
	numFeatures := len(l.features)
	for i := 0; i < featuresPrSplit; i++ {
		j := i + l.rng.Intn(numFeatures-i)
		l.features[i], l.features[j] = l.features[j], l.features[i]
		feature := l.features[i]

		candidate := l.candidate(observations, indices, classOf, feature, nClasses)
		result, ok := l.splitSearcher.FindBestSplit(parentImpurity, candidate, l.impurityCalculator)
		if !ok {
			continue
		}
		if !found || result.ImpurityImprovement > best.ImpurityImprovement {
			bestFeature, best, found = feature, result, true
		}
	}
	return bestFeature, best, found
}

func (l *DecisionTreeLearner) candidate(observations *mat.Dense, indices []int, classOf []int, feature, nClasses int) SplitCandidate {
	n := len(indices)
	if cap(l.pairs.values) < n {
		l.pairs.values = make([]float64, n)
		l.pairs.classes = make([]int, n)
	}
	l.pairs.values = l.pairs.values[:n]
	l.pairs.classes = l.pairs.classes[:n]
	for i, idx := range indices {
		l.pairs.values[i] = observations.At(idx, feature)
		l.pairs.classes[i] = classOf[idx]
	}
	sort.Sort(&l.pairs)
	return SplitCandidate{Values: l.pairs.values, Classes: l.pairs.classes, NClasses: nClasses}
}

type valueClassPairs struct {
	values  []float64
	classes []int
}

func (p *valueClassPairs) Len() int           { return len(p.values) }
func (p *valueClassPairs) Less(i, j int) bool { return p.values[i] < p.values[j] }
func (p *valueClassPairs) Swap(i, j int) {
	p.values[i], p.values[j] = p.values[j], p.values[i]
	p.classes[i], p.classes[j] = p.classes[j], p.classes[i]
}

// classIndex returns the sorted distinct targets and, per row, the index of
// its target in that slice.
func classIndex(targets []float64) ([]float64, []int) {
	seen := make(map[float64]struct{}, 8)
	for _, y := range targets {
		seen[y] = struct{}{}
	}
	classes := make([]float64, 0, len(seen))
	for y := range seen {
		classes = append(classes, y)
	}
	sort.Float64s(classes)

	pos := make(map[float64]int, len(classes))
	for k, y := range classes {
		pos[y] = k
	}
	classOf := make([]int, len(targets))
	for i, y := range targets {
		classOf[i] = pos[y]
	}
	return classes, classOf
}

// argmax returns the first index of the largest count, so ties resolve to
// the smallest class value.
func argmax(counts []float64) int {
	best := 0
	for k, c := range counts {
		if c > counts[best] {
			best = k
		}
	}
	return best
}
