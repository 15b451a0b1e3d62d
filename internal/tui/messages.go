package tui

import "github.com/Veraticus/petal/internal/model"

// predictionMsg carries the outcome of a prediction for the record it was computed on.
type predictionMsg struct {
	err        error
	prediction model.Prediction
	features   model.Features
}
