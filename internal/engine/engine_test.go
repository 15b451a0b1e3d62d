package engine

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Veraticus/petal/internal/classifier"
	"github.com/Veraticus/petal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureEngine(t *testing.T, name string) *Engine {
	t.Helper()
	c, err := classifier.Load(filepath.Join("..", "classifier", "testdata", name))
	require.NoError(t, err)
	return New(c)
}

func assertValidPrediction(t *testing.T, p model.Prediction) {
	t.Helper()
	assert.Contains(t, []string{"Setosa", "Versicolor", "Virginica"}, p.Label)
	require.Len(t, p.Probabilities, model.ClassCount)

	var sum float64
	for i, cp := range p.Probabilities {
		assert.Equal(t, model.Labels()[i], cp.Label)
		assert.GreaterOrEqual(t, cp.Probability, 0.0)
		assert.LessOrEqual(t, cp.Probability, 1.0)
		sum += cp.Probability
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestEngine_Predict_Scenarios(t *testing.T) {
	tests := []struct {
		name      string
		features  model.Features
		wantLabel string
	}{
		{
			name:      "defaults",
			features:  model.DefaultFeatures(),
			wantLabel: "Versicolor",
		},
		{
			name:      "every field at minimum",
			features:  model.Features{SepalLength: 4.0, SepalWidth: 2.0, PetalLength: 1.0, PetalWidth: 0.1},
			wantLabel: "Setosa",
		},
		{
			name:      "every field at maximum",
			features:  model.Features{SepalLength: 8.0, SepalWidth: 4.5, PetalLength: 7.0, PetalWidth: 2.5},
			wantLabel: "Virginica",
		},
	}

	for _, fixture := range []string{"iris_tree.json", "iris_forest.json", "iris_logistic.json"} {
		e := fixtureEngine(t, fixture)
		for _, tt := range tests {
			t.Run(fixture+"/"+tt.name, func(t *testing.T) {
				p, err := e.Predict(context.Background(), tt.features)
				require.NoError(t, err)

				assertValidPrediction(t, p)
				assert.Equal(t, tt.wantLabel, p.Label)
				assert.Equal(t, tt.features, p.Input)
			})
		}
	}
}

func TestEngine_Predict_Idempotent(t *testing.T) {
	e := fixtureEngine(t, "iris_forest.json")
	ctx := context.Background()

	first, err := e.Predict(ctx, model.DefaultFeatures())
	require.NoError(t, err)
	second, err := e.Predict(ctx, model.DefaultFeatures())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Predict_PassesRecordInFieldOrder(t *testing.T) {
	mock := NewMockClassifier()
	e := New(mock)
	f := model.Features{SepalLength: 6.1, SepalWidth: 2.8, PetalLength: 4.7, PetalWidth: 1.2}

	p, err := e.Predict(context.Background(), f)
	require.NoError(t, err)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, [model.FeatureCount]float64{6.1, 2.8, 4.7, 1.2}, calls[0].Vector())
	assert.Equal(t, "Versicolor", p.Label)
	assert.InDelta(t, 0.8, p.Confidence(), 1e-9)
}

func TestEngine_Predict_LabelMismatch(t *testing.T) {
	tests := []struct {
		name  string
		index int
	}{
		{name: "index past table", index: 3},
		{name: "negative index", index: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(NewFixedMockClassifier(tt.index, []float64{0.2, 0.3, 0.5}))

			_, err := e.Predict(context.Background(), model.DefaultFeatures())
			assert.ErrorIs(t, err, ErrLabelMismatch)
		})
	}
}

func TestEngine_Predict_LabelMismatchFromArtifact(t *testing.T) {
	e := fixtureEngine(t, "four_classes.json")
	f := model.DefaultFeatures()
	f.PetalLength = 7.0

	_, err := e.Predict(context.Background(), f)
	assert.ErrorIs(t, err, ErrLabelMismatch)
}

func TestEngine_Predict_InvalidDistribution(t *testing.T) {
	tests := []struct {
		name  string
		probs []float64
	}{
		{name: "too few entries", probs: []float64{0.5, 0.5}},
		{name: "too many entries", probs: []float64{0.25, 0.25, 0.25, 0.25}},
		{name: "does not sum to one", probs: []float64{0.5, 0.5, 0.5}},
		{name: "negative entry", probs: []float64{-0.5, 1.0, 0.5}},
		{name: "entry above one", probs: []float64{1.5, -0.25, -0.25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(NewFixedMockClassifier(1, tt.probs))

			_, err := e.Predict(context.Background(), model.DefaultFeatures())
			assert.ErrorIs(t, err, ErrInvalidDistribution)
		})
	}
}

func TestEngine_Predict_ClassifierError(t *testing.T) {
	boom := errors.New("runtime crashed")
	mock := NewMockClassifier()
	mock.Err = boom

	_, err := New(mock).Predict(context.Background(), model.DefaultFeatures())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrLabelMismatch)
}

func TestEngine_Predict_AcrossGrid(t *testing.T) {
	e := fixtureEngine(t, "iris_tree.json")
	ctx := context.Background()

	for _, sl := range []float64{4.0, 6.0, 8.0} {
		for _, sw := range []float64{2.0, 3.3, 4.5} {
			for _, pl := range []float64{1.0, 2.4, 2.5, 4.9, 5.0, 7.0} {
				for _, pw := range []float64{0.1, 1.7, 1.8, 2.5} {
					f := model.Features{SepalLength: sl, SepalWidth: sw, PetalLength: pl, PetalWidth: pw}
					p, err := e.Predict(ctx, f)
					require.NoError(t, err, "features %+v", f)
					assertValidPrediction(t, p)
				}
			}
		}
	}
}
