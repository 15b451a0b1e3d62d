package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupLabel(t *testing.T) {
	tests := []struct {
		want  string
		index int
		ok    bool
	}{
		{index: 0, want: "Setosa", ok: true},
		{index: 1, want: "Versicolor", ok: true},
		{index: 2, want: "Virginica", ok: true},
		{index: 3, ok: false},
		{index: -1, ok: false},
	}

	for _, tt := range tests {
		got, ok := LookupLabel(tt.index)
		assert.Equal(t, tt.ok, ok, "index %d", tt.index)
		assert.Equal(t, tt.want, got, "index %d", tt.index)
	}
}

func TestLabels_ReturnsCopy(t *testing.T) {
	labels := Labels()
	labels[0] = "Rose"

	assert.Equal(t, []string{"Setosa", "Versicolor", "Virginica"}, Labels())
	assert.Equal(t, "Unknown", Species(5).String())
	assert.Equal(t, "Virginica", Virginica.String())
}

func TestPrediction_Confidence(t *testing.T) {
	p := Prediction{
		Index: 1,
		Label: "Versicolor",
		Probabilities: []ClassProbability{
			{Label: "Setosa", Probability: 0.1},
			{Label: "Versicolor", Probability: 0.7},
			{Label: "Virginica", Probability: 0.2},
		},
	}

	assert.InDelta(t, 0.7, p.Confidence(), 1e-9)
	assert.Equal(t, []float64{0.1, 0.7, 0.2}, p.Distribution())
	assert.Zero(t, Prediction{Index: 4}.Confidence())
}
