package engine

import (
	"context"

	"github.com/Veraticus/petal/internal/model"
)

// Classifier defines the contract for species prediction.
type Classifier interface {
	Classify(ctx context.Context, features model.Features) (int, error)
	ClassifyWithConfidence(ctx context.Context, features model.Features) ([]float64, error)
}
