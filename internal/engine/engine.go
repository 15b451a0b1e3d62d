// Package engine turns a feature record into a labelled prediction.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Veraticus/petal/internal/model"
)

// Internal consistency faults between the artifact and the label table.
var (
	ErrLabelMismatch       = errors.New("predicted class is not in the label table")
	ErrInvalidDistribution = errors.New("classifier returned an invalid probability distribution")
)

// sumTolerance bounds float drift in a probability distribution.
const sumTolerance = 1e-6

// Engine runs the classifier and maps its output onto the label table.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	classifier Classifier
}

// New creates an engine around a loaded classifier.
func New(classifier Classifier) *Engine {
	return &Engine{classifier: classifier}
}

// Predict classifies one record. Label and distribution faults are returned,
// never masked.
func (e *Engine) Predict(ctx context.Context, features model.Features) (model.Prediction, error) {
	index, err := e.classifier.Classify(ctx, features)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("predict failed: %w", err)
	}

	label, ok := model.LookupLabel(index)
	if !ok {
		slog.Error("Classifier returned unknown class", "index", index, "classes", model.ClassCount)
		return model.Prediction{}, fmt.Errorf("%w: index %d, table has %d classes", ErrLabelMismatch, index, model.ClassCount)
	}

	probs, err := e.classifier.ClassifyWithConfidence(ctx, features)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("predict probability failed: %w", err)
	}
	if err := validateDistribution(probs); err != nil {
		slog.Error("Classifier returned invalid distribution", "probabilities", probs, "error", err)
		return model.Prediction{}, err
	}

	labels := model.Labels()
	dist := make([]model.ClassProbability, len(probs))
	for i, p := range probs {
		dist[i] = model.ClassProbability{Label: labels[i], Probability: p}
	}

	slog.Debug("Prediction complete",
		"label", label,
		"confidence", probs[index],
		"sepal_length", features.SepalLength,
		"sepal_width", features.SepalWidth,
		"petal_length", features.PetalLength,
		"petal_width", features.PetalWidth,
	)

	return model.Prediction{
		Index:         index,
		Label:         label,
		Probabilities: dist,
		Input:         features,
	}, nil
}

func validateDistribution(probs []float64) error {
	if len(probs) != model.ClassCount {
		return fmt.Errorf("%w: %d entries, want %d", ErrInvalidDistribution, len(probs), model.ClassCount)
	}
	var sum float64
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: entry %d is %v", ErrInvalidDistribution, i, p)
		}
		sum += p
	}
	if math.Abs(sum-1) > sumTolerance {
		return fmt.Errorf("%w: entries sum to %v", ErrInvalidDistribution, sum)
	}
	return nil
}
