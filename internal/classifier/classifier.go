// Package classifier loads pre-trained species classifiers from disk.
//
// An artifact is read once at startup and the returned Classifier is
// immutable, so a single value can be shared by every session without
// locking. Supported artifacts are JSON envelopes describing a decision
// tree, a random forest or a multinomial logistic regression, and ONNX
// models exported with a label output and a probability output.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/Veraticus/petal/internal/model"
)

// Classifier predicts a species from one feature record.
type Classifier interface {
	// Classify returns the predicted class index.
	Classify(ctx context.Context, features model.Features) (int, error)
	// ClassifyWithConfidence returns one probability per class, ordered by class index.
	ClassifyWithConfidence(ctx context.Context, features model.Features) ([]float64, error)
}

// Close releases resources held by c, if it holds any.
func Close(c Classifier) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// argmax returns the index of the largest value; ties go to the lowest index.
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

// normalize scales non-negative weights so they sum to one.
func normalize(weights []float64) ([]float64, error) {
	var sum float64
	for _, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("negative class weight %v", w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, errors.New("class weights sum to zero")
	}
	out := make([]float64, len(weights))
	for i, w := range weights {
		out[i] = w / sum
	}
	return out, nil
}
