package tree

// Node is one node of a BinaryTree. Leaves have FeatureIndex -1.
type Node struct {
	FeatureIndex int
	Threshold    float64
	Left         int
	Right        int
	// Value is the majority class of the samples that reached the node.
	Value float64
	// LeafIndex indexes BinaryTree.Probabilities for leaves, -1 otherwise.
	LeafIndex int
}

// IsLeaf reports whether n has no children.
func (n Node) IsLeaf() bool {
	return n.FeatureIndex < 0
}

// BinaryTree is a grown classification tree. Nodes[0] is the root.
type BinaryTree struct {
	Nodes []Node
	// Probabilities[leaf][k] is the fraction of class Classes[k] in the leaf.
	Probabilities [][]float64
	Classes       []float64
	depth         int
}

// leaf walks observation down to its leaf node.
func (t *BinaryTree) leaf(observation []float64) Node {
	node := t.Nodes[0]
	for !node.IsLeaf() {
		if observation[node.FeatureIndex] < node.Threshold {
			node = t.Nodes[node.Left]
		} else {
			node = t.Nodes[node.Right]
		}
	}
	return node
}

// Predict returns the majority class of the leaf observation falls in.
func (t *BinaryTree) Predict(observation []float64) float64 {
	return t.leaf(observation).Value
}

// PredictProbability returns the class distribution of the leaf observation
// falls in, keyed by class value.
func (t *BinaryTree) PredictProbability(observation []float64) map[float64]float64 {
	probs := t.Probabilities[t.leaf(observation).LeafIndex]
	out := make(map[float64]float64, len(t.Classes))
	for k, class := range t.Classes {
		out[class] = probs[k]
	}
	return out
}

// Depth is the number of edges on the longest root-to-leaf path.
func (t *BinaryTree) Depth() int {
	return t.depth
}

// Leaves returns the number of leaf nodes.
func (t *BinaryTree) Leaves() int {
	return len(t.Probabilities)
}
