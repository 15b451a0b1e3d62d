package model

// ClassProbability is one bar of the probability distribution.
type ClassProbability struct {
	Label       string  `json:"label"`
	Probability float64 `json:"probability"`
}

// Prediction is the result of one trigger. It is never persisted.
type Prediction struct {
	Label         string             `json:"label"`
	Probabilities []ClassProbability `json:"probabilities"`
	Input         Features           `json:"input"`
	Index         int                `json:"index"`
}

// Confidence returns the probability assigned to the predicted class.
func (p Prediction) Confidence() float64 {
	if p.Index < 0 || p.Index >= len(p.Probabilities) {
		return 0
	}
	return p.Probabilities[p.Index].Probability
}

// Distribution returns the raw probabilities ordered by class index.
func (p Prediction) Distribution() []float64 {
	out := make([]float64, len(p.Probabilities))
	for i, cp := range p.Probabilities {
		out[i] = cp.Probability
	}
	return out
}
