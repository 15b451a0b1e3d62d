package classifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/Veraticus/petal/internal/model"
)

// Node is one entry of a flattened decision tree. A node with both children
// set to -1 is a leaf and carries per-class weights in Value.
type Node struct {
	Value     []float64 `json:"value,omitempty"`
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
}

// IsLeaf reports whether the node terminates a path.
func (n Node) IsLeaf() bool {
	return n.Left == -1 && n.Right == -1
}

// DecisionTree is a CART classifier. Samples with feature <= threshold go left.
type DecisionTree struct {
	nodes   []Node
	leaves  map[int][]float64
	classes int
}

// NewDecisionTree validates the node array and precomputes leaf distributions.
// Children must come after their parent so every walk terminates.
func NewDecisionTree(nodes []Node, classes int) (*DecisionTree, error) {
	if len(nodes) == 0 {
		return nil, errors.New("tree has no nodes")
	}
	if classes <= 0 {
		return nil, errors.New("tree has no classes")
	}

	leaves := make(map[int][]float64)
	for i, node := range nodes {
		if node.IsLeaf() {
			if len(node.Value) != classes {
				return nil, fmt.Errorf("leaf %d has %d class weights, want %d", i, len(node.Value), classes)
			}
			dist, err := normalize(node.Value)
			if err != nil {
				return nil, fmt.Errorf("leaf %d: %w", i, err)
			}
			leaves[i] = dist
			continue
		}

		if node.Feature < 0 || node.Feature >= model.FeatureCount {
			return nil, fmt.Errorf("node %d splits on feature %d, want 0..%d", i, node.Feature, model.FeatureCount-1)
		}
		for _, child := range []int{node.Left, node.Right} {
			if child <= i || child >= len(nodes) {
				return nil, fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}

	return &DecisionTree{nodes: nodes, leaves: leaves, classes: classes}, nil
}

// Classify implements Classifier.
func (t *DecisionTree) Classify(_ context.Context, features model.Features) (int, error) {
	return argmax(t.leaf(features.Vector())), nil
}

// ClassifyWithConfidence implements Classifier.
func (t *DecisionTree) ClassifyWithConfidence(_ context.Context, features model.Features) ([]float64, error) {
	dist := t.leaf(features.Vector())
	out := make([]float64, len(dist))
	copy(out, dist)
	return out, nil
}

// Classes returns the number of classes the tree distinguishes.
func (t *DecisionTree) Classes() int {
	return t.classes
}

func (t *DecisionTree) leaf(x [model.FeatureCount]float64) []float64 {
	idx := 0
	for {
		node := t.nodes[idx]
		if node.IsLeaf() {
			return t.leaves[idx]
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}
