package components

import (
	"testing"

	"github.com/Veraticus/petal/internal/model"
	tuitest "github.com/Veraticus/petal/internal/tui/testing"
	"github.com/Veraticus/petal/internal/tui/themes"
	"github.com/stretchr/testify/assert"
)

func testPrediction() model.Prediction {
	return model.Prediction{
		Label: "Versicolor",
		Index: 1,
		Input: model.DefaultFeatures(),
		Probabilities: []model.ClassProbability{
			{Label: "Setosa", Probability: 0},
			{Label: "Versicolor", Probability: 0.9792},
			{Label: "Virginica", Probability: 0.0208},
		},
	}
}

func TestResultModel_View(t *testing.T) {
	r := NewResultModel(testPrediction(), themes.Default)
	view := tuitest.StripANSI(r.View())

	assert.True(t, tuitest.ContainsInOrder(view,
		"Prediction Result",
		"The predicted Iris species is Versicolor",
		"Prediction Details",
		"Input Data:",
		"Sepal Length", "Sepal Width", "Petal Length", "Petal Width",
		"5.5", "3.0", "4.0", "1.2",
		"Prediction Probabilities:",
		"Setosa", "0.00%",
		"Versicolor", "97.92%",
		"Virginica", "2.08%",
	))
	assert.Contains(t, view, "🌺")
}

func TestResultModel_SetWidth(t *testing.T) {
	r := NewResultModel(testPrediction(), themes.Default)

	r.SetWidth(200)
	wide := r.View()
	r.SetWidth(10)
	narrow := r.View()

	assert.Greater(t, len(wide), len(narrow))
	assert.Equal(t, testPrediction(), r.Prediction())
}
