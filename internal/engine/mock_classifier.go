package engine

import (
	"context"
	"sync"

	"github.com/Veraticus/petal/internal/model"
)

// MockClassifier is a test implementation of the Classifier interface.
// Unless Fixed is set it derives its answer from petal length, which is how
// the three species separate in practice.
type MockClassifier struct {
	Err           error
	Probabilities []float64
	calls         []model.Features
	Index         int
	mu            sync.Mutex
	Fixed         bool
}

// NewMockClassifier creates a mock that derives its answer from the record.
func NewMockClassifier() *MockClassifier {
	return &MockClassifier{}
}

// NewFixedMockClassifier creates a mock that always returns index and probs.
func NewFixedMockClassifier(index int, probs []float64) *MockClassifier {
	return &MockClassifier{Index: index, Probabilities: probs, Fixed: true}
}

// Classify implements Classifier and records the record it was given.
func (m *MockClassifier) Classify(_ context.Context, features model.Features) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, features)
	if m.Err != nil {
		return 0, m.Err
	}
	return m.pick(features), nil
}

// ClassifyWithConfidence implements Classifier.
func (m *MockClassifier) ClassifyWithConfidence(_ context.Context, features model.Features) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	if m.Fixed {
		out := make([]float64, len(m.Probabilities))
		copy(out, m.Probabilities)
		return out, nil
	}

	probs := []float64{0.1, 0.1, 0.1}
	probs[m.pick(features)] = 0.8
	return probs, nil
}

// Calls returns the records passed to Classify.
func (m *MockClassifier) Calls() []model.Features {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Features, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockClassifier) pick(features model.Features) int {
	if m.Fixed {
		return m.Index
	}
	switch {
	case features.PetalLength < 2.5:
		return int(model.Setosa)
	case features.PetalLength < 5.0:
		return int(model.Versicolor)
	default:
		return int(model.Virginica)
	}
}
