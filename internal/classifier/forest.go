package classifier

import (
	"context"
	"errors"

	"github.com/Veraticus/petal/internal/model"
)

// Forest averages the leaf distributions of its trees.
type Forest struct {
	trees []*DecisionTree
}

// NewForest builds a forest; all trees must agree on the class count.
func NewForest(trees []*DecisionTree) (*Forest, error) {
	if len(trees) == 0 {
		return nil, errors.New("forest has no trees")
	}
	for _, tree := range trees[1:] {
		if tree.Classes() != trees[0].Classes() {
			return nil, errors.New("forest trees disagree on class count")
		}
	}
	return &Forest{trees: trees}, nil
}

// Classify implements Classifier.
func (f *Forest) Classify(ctx context.Context, features model.Features) (int, error) {
	dist, err := f.ClassifyWithConfidence(ctx, features)
	if err != nil {
		return 0, err
	}
	return argmax(dist), nil
}

// ClassifyWithConfidence implements Classifier.
func (f *Forest) ClassifyWithConfidence(_ context.Context, features model.Features) ([]float64, error) {
	x := features.Vector()
	mean := make([]float64, f.trees[0].Classes())
	for _, tree := range f.trees {
		for i, p := range tree.leaf(x) {
			mean[i] += p
		}
	}
	for i := range mean {
		mean[i] /= float64(len(f.trees))
	}
	return mean, nil
}
