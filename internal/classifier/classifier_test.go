package classifier

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/petal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	minimumFeatures = model.Features{SepalLength: 4.0, SepalWidth: 2.0, PetalLength: 1.0, PetalWidth: 0.1}
	maximumFeatures = model.Features{SepalLength: 8.0, SepalWidth: 4.5, PetalLength: 7.0, PetalWidth: 2.5}
)

func loadFixture(t *testing.T, name string) Classifier {
	t.Helper()
	c, err := Load(filepath.Join("testdata", name))
	require.NoError(t, err)
	return c
}

func TestLoad_Artifacts(t *testing.T) {
	tests := []struct {
		name     string
		fixture  string
		features model.Features
		want     int
	}{
		{"tree defaults", "iris_tree.json", model.DefaultFeatures(), int(model.Versicolor)},
		{"tree minimum", "iris_tree.json", minimumFeatures, int(model.Setosa)},
		{"tree maximum", "iris_tree.json", maximumFeatures, int(model.Virginica)},
		{"forest defaults", "iris_forest.json", model.DefaultFeatures(), int(model.Versicolor)},
		{"forest minimum", "iris_forest.json", minimumFeatures, int(model.Setosa)},
		{"forest maximum", "iris_forest.json", maximumFeatures, int(model.Virginica)},
		{"logistic defaults", "iris_logistic.json", model.DefaultFeatures(), int(model.Versicolor)},
		{"logistic minimum", "iris_logistic.json", minimumFeatures, int(model.Setosa)},
		{"logistic maximum", "iris_logistic.json", maximumFeatures, int(model.Virginica)},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := loadFixture(t, tt.fixture)

			got, err := c.Classify(ctx, tt.features)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			probs, err := c.ClassifyWithConfidence(ctx, tt.features)
			require.NoError(t, err)
			require.Len(t, probs, model.ClassCount)

			var sum float64
			for _, p := range probs {
				assert.GreaterOrEqual(t, p, 0.0)
				assert.LessOrEqual(t, p, 1.0)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
			assert.Equal(t, tt.want, argmax(probs), "predict must agree with the distribution")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "iris_trained_model.json"))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrArtifactUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_MissingONNXFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "iris.onnx"))

	assert.ErrorIs(t, err, ErrArtifactUnavailable)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_RejectsBadArtifacts(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		fixture string
	}{
		{name: "truncated json", fixture: "corrupt.json", wantErr: ErrMalformedArtifact},
		{name: "feature order", fixture: "wrong_order.json", wantErr: ErrFeatureOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(filepath.Join("testdata", tt.fixture))

			assert.ErrorIs(t, err, ErrArtifactUnavailable)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		payload string
	}{
		{
			name:    "unknown type",
			payload: `{"type": "svm"}`,
			wantErr: ErrUnsupportedArtifact,
		},
		{
			name:    "class mismatch",
			payload: `{"type": "logistic_regression", "classes": ["rose", "tulip", "lily"], "coef": [[0,0,0,0],[0,0,0,0],[0,0,0,0]], "intercept": [0,0,0]}`,
			wantErr: ErrClassMismatch,
		},
		{
			name:    "too few classes",
			payload: `{"type": "decision_tree", "classes": ["setosa"], "nodes": [{"left": -1, "right": -1, "value": [1]}]}`,
			wantErr: ErrClassMismatch,
		},
		{
			name:    "tree without nodes",
			payload: `{"type": "decision_tree"}`,
			wantErr: ErrMalformedArtifact,
		},
		{
			name:    "child pointing backwards",
			payload: `{"type": "decision_tree", "nodes": [{"feature": 0, "threshold": 5, "left": 0, "right": 1}, {"left": -1, "right": -1, "value": [1, 0, 0]}]}`,
			wantErr: ErrMalformedArtifact,
		},
		{
			name:    "split on unknown feature",
			payload: `{"type": "decision_tree", "nodes": [{"feature": 4, "threshold": 5, "left": 1, "right": 2}, {"left": -1, "right": -1, "value": [1, 0, 0]}, {"left": -1, "right": -1, "value": [0, 1, 0]}]}`,
			wantErr: ErrMalformedArtifact,
		},
		{
			name:    "leaf with wrong width",
			payload: `{"type": "decision_tree", "nodes": [{"left": -1, "right": -1, "value": [1, 0]}]}`,
			wantErr: ErrMalformedArtifact,
		},
		{
			name:    "empty leaf",
			payload: `{"type": "decision_tree", "nodes": [{"left": -1, "right": -1, "value": [0, 0, 0]}]}`,
			wantErr: ErrMalformedArtifact,
		},
		{
			name:    "forest without trees",
			payload: `{"type": "random_forest", "trees": []}`,
			wantErr: ErrMalformedArtifact,
		},
		{
			name:    "logistic row too short",
			payload: `{"type": "logistic_regression", "coef": [[1, 2, 3]], "intercept": [0]}`,
			wantErr: ErrMalformedArtifact,
		},
		{
			name:    "logistic intercept mismatch",
			payload: `{"type": "logistic_regression", "coef": [[1, 2, 3, 4]], "intercept": [0, 1]}`,
			wantErr: ErrMalformedArtifact,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDecisionTree_LeafDistribution(t *testing.T) {
	c := loadFixture(t, "iris_tree.json")

	probs, err := c.ClassifyWithConfidence(context.Background(), model.DefaultFeatures())
	require.NoError(t, err)

	assert.InDelta(t, 0.0, probs[0], 1e-9)
	assert.InDelta(t, 47.0/48.0, probs[1], 1e-9)
	assert.InDelta(t, 1.0/48.0, probs[2], 1e-9)

	// Callers must not be able to corrupt the shared leaf.
	probs[1] = 0
	again, err := c.ClassifyWithConfidence(context.Background(), model.DefaultFeatures())
	require.NoError(t, err)
	assert.InDelta(t, 47.0/48.0, again[1], 1e-9)
}

func TestDecisionTree_ThresholdGoesLeft(t *testing.T) {
	c := loadFixture(t, "iris_tree.json")
	f := model.DefaultFeatures()
	f.PetalLength = 2.45

	got, err := c.Classify(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, int(model.Setosa), got)
}

func TestForest_AveragesTrees(t *testing.T) {
	c := loadFixture(t, "iris_forest.json")

	probs, err := c.ClassifyWithConfidence(context.Background(), model.DefaultFeatures())
	require.NoError(t, err)

	assert.InDelta(t, 0.0, probs[0], 1e-9)
	assert.InDelta(t, (49.0/54.0+0.5)/2, probs[1], 1e-9)
	assert.InDelta(t, (5.0/54.0+0.5)/2, probs[2], 1e-9)
}

func TestSoftmax_Stable(t *testing.T) {
	out := softmax([]float64{1000, 1000, 998})

	assert.InDelta(t, 1.0, out[0]+out[1]+out[2], 1e-12)
	assert.InDelta(t, out[0], out[1], 1e-12)
	assert.Less(t, out[2], out[0])
}

func TestArgmax_TiesGoToLowestIndex(t *testing.T) {
	assert.Equal(t, 0, argmax([]float64{0.5, 0.5, 0}))
	assert.Equal(t, 2, argmax([]float64{0.1, 0.2, 0.7}))
}

func TestClose_NoopForPureClassifiers(t *testing.T) {
	assert.NoError(t, Close(loadFixture(t, "iris_logistic.json")))
}
