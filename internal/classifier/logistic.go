package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Veraticus/petal/internal/model"
)

// Logistic is a multinomial logistic regression: softmax(coef·x + intercept).
type Logistic struct {
	coef      [][]float64
	intercept []float64
}

// NewLogistic validates that coef has one row of FeatureCount weights per class.
func NewLogistic(coef [][]float64, intercept []float64) (*Logistic, error) {
	if len(coef) == 0 {
		return nil, errors.New("logistic model has no coefficients")
	}
	if len(intercept) != len(coef) {
		return nil, fmt.Errorf("logistic model has %d intercepts for %d classes", len(intercept), len(coef))
	}
	for i, row := range coef {
		if len(row) != model.FeatureCount {
			return nil, fmt.Errorf("coefficient row %d has %d weights, want %d", i, len(row), model.FeatureCount)
		}
	}
	return &Logistic{coef: coef, intercept: intercept}, nil
}

// Classify implements Classifier.
func (l *Logistic) Classify(_ context.Context, features model.Features) (int, error) {
	return argmax(l.scores(features.Vector())), nil
}

// ClassifyWithConfidence implements Classifier.
func (l *Logistic) ClassifyWithConfidence(_ context.Context, features model.Features) ([]float64, error) {
	return softmax(l.scores(features.Vector())), nil
}

func (l *Logistic) scores(x [model.FeatureCount]float64) []float64 {
	out := make([]float64, len(l.coef))
	for k, row := range l.coef {
		z := l.intercept[k]
		for j, w := range row {
			z += w * x[j]
		}
		out[k] = z
	}
	return out
}

func softmax(z []float64) []float64 {
	peak := z[argmax(z)]
	out := make([]float64, len(z))
	var sum float64
	for i, v := range z {
		out[i] = math.Exp(v - peak)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
