package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/Veraticus/petal/internal/model"
)

// ErrPropertyViolation marks a prediction that breaks an output guarantee.
var ErrPropertyViolation = errors.New("prediction property violated")

// gridPoints is the number of evenly spaced values per field in the sweep.
const gridPoints = 5

// Predictor turns a feature record into a labelled prediction.
type Predictor interface {
	Predict(ctx context.Context, features model.Features) (model.Prediction, error)
}

// Grid returns the sweep of records checked by Verify: every combination of
// min, default, max and evenly spaced points of each field.
func Grid() []model.Features {
	var axes [model.FeatureCount][]float64
	for i, spec := range model.Fields {
		axes[i] = axis(spec)
	}

	total := 1
	for _, a := range axes {
		total *= len(a)
	}

	grid := make([]model.Features, 0, total)
	for n := 0; n < total; n++ {
		var f model.Features
		rest := n
		for i, spec := range model.Fields {
			a := axes[i]
			f.Set(spec.Field, a[rest%len(a)])
			rest /= len(a)
		}
		grid = append(grid, f)
	}
	return grid
}

func axis(spec model.FieldSpec) []float64 {
	values := []float64{spec.Min, spec.Default, spec.Max}
	for i := 1; i < gridPoints-1; i++ {
		v := spec.Min + (spec.Max-spec.Min)*float64(i)/float64(gridPoints-1)
		values = append(values, spec.Clamp(v))
	}
	slices.Sort(values)
	return slices.Compact(values)
}

// Verify predicts f twice and checks the output guarantees: a label from the
// table matching the index, the echoed input, a valid distribution, and
// identical results on repeat.
func Verify(ctx context.Context, p Predictor, f model.Features) error {
	first, err := p.Predict(ctx, f)
	if err != nil {
		return err
	}

	labels := model.Labels()
	switch {
	case first.Index < 0 || first.Index >= len(labels):
		return fmt.Errorf("%w: index %d out of range for %+v", ErrPropertyViolation, first.Index, f)
	case first.Label != labels[first.Index]:
		return fmt.Errorf("%w: label %q does not match index %d", ErrPropertyViolation, first.Label, first.Index)
	case first.Input != f:
		return fmt.Errorf("%w: echoed input %+v differs from %+v", ErrPropertyViolation, first.Input, f)
	}

	probs := first.Distribution()
	if err := validateDistribution(probs); err != nil {
		return fmt.Errorf("%w: %w", ErrPropertyViolation, err)
	}
	for i, cp := range first.Probabilities {
		if cp.Label != labels[i] {
			return fmt.Errorf("%w: bar %d labelled %q, want %q", ErrPropertyViolation, i, cp.Label, labels[i])
		}
	}

	second, err := p.Predict(ctx, f)
	if err != nil {
		return err
	}
	if second.Index != first.Index || !slices.EqualFunc(probs, second.Distribution(), sameFloat) {
		return fmt.Errorf("%w: repeated prediction differs for %+v", ErrPropertyViolation, f)
	}
	return nil
}

func sameFloat(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}
