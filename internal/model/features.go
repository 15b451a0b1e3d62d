// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"math"
)

// FeatureCount is the number of measurements in a feature record.
const FeatureCount = 4

// Field identifies one measurement of a feature record.
type Field int

// Fields in the order the classifier was trained on.
const (
	FieldSepalLength Field = iota
	FieldSepalWidth
	FieldPetalLength
	FieldPetalWidth
)

// Features is one flower's measurements in centimetres.
// The struct field order is the order the artifact expects.
type Features struct {
	SepalLength float64 `json:"sepal_length"`
	SepalWidth  float64 `json:"sepal_width"`
	PetalLength float64 `json:"petal_length"`
	PetalWidth  float64 `json:"petal_width"`
}

// DefaultFeatures returns the record every form starts with.
func DefaultFeatures() Features {
	var f Features
	for _, spec := range Fields {
		f.Set(spec.Field, spec.Default)
	}
	return f
}

// Vector returns the measurements in training order.
func (f Features) Vector() [FeatureCount]float64 {
	return [FeatureCount]float64{f.SepalLength, f.SepalWidth, f.PetalLength, f.PetalWidth}
}

// Get returns the value of a single field.
func (f Features) Get(field Field) float64 {
	switch field {
	case FieldSepalLength:
		return f.SepalLength
	case FieldSepalWidth:
		return f.SepalWidth
	case FieldPetalLength:
		return f.PetalLength
	case FieldPetalWidth:
		return f.PetalWidth
	default:
		panic(fmt.Sprintf("model: unknown field %d", field))
	}
}

// Set stores v in a single field without clamping.
func (f *Features) Set(field Field, v float64) {
	switch field {
	case FieldSepalLength:
		f.SepalLength = v
	case FieldSepalWidth:
		f.SepalWidth = v
	case FieldPetalLength:
		f.PetalLength = v
	case FieldPetalWidth:
		f.PetalWidth = v
	default:
		panic(fmt.Sprintf("model: unknown field %d", field))
	}
}

// Clamped returns a copy with every field snapped and clamped to its control range.
func (f Features) Clamped() Features {
	out := f
	for _, spec := range Fields {
		out.Set(spec.Field, spec.Clamp(f.Get(spec.Field)))
	}
	return out
}

// FieldSpec configures the bounded control for one field.
type FieldSpec struct {
	Key     string
	Label   string
	Field   Field
	Min     float64
	Max     float64
	Default float64
	Step    float64
}

// Fields lists the control specs in training order.
var Fields = [FeatureCount]FieldSpec{
	{Field: FieldSepalLength, Key: "sepal_length", Label: "Sepal Length", Min: 4.0, Max: 8.0, Default: 5.5, Step: 0.1},
	{Field: FieldSepalWidth, Key: "sepal_width", Label: "Sepal Width", Min: 2.0, Max: 4.5, Default: 3.0, Step: 0.1},
	{Field: FieldPetalLength, Key: "petal_length", Label: "Petal Length", Min: 1.0, Max: 7.0, Default: 4.0, Step: 0.1},
	{Field: FieldPetalWidth, Key: "petal_width", Label: "Petal Width", Min: 0.1, Max: 2.5, Default: 1.2, Step: 0.1},
}

// FeatureKeys returns the field keys in training order.
func FeatureKeys() []string {
	keys := make([]string, 0, FeatureCount)
	for _, spec := range Fields {
		keys = append(keys, spec.Key)
	}
	return keys
}

// SpecFor returns the control spec of a field.
func SpecFor(field Field) FieldSpec {
	return Fields[field]
}

// FieldByKey looks up a control spec by its key, e.g. "petal_width".
func FieldByKey(key string) (FieldSpec, bool) {
	for _, spec := range Fields {
		if spec.Key == key {
			return spec, true
		}
	}
	return FieldSpec{}, false
}

// Clamp snaps v to the step grid anchored at Min and bounds it to [Min, Max].
// NaN falls back to the default.
func (s FieldSpec) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return s.Default
	}
	n := math.Round((v - s.Min) / s.Step)
	v = s.Min + n*s.Step
	v = math.Max(s.Min, math.Min(s.Max, v))
	return s.round(v)
}

// Nudge moves v by n steps and clamps the result.
func (s FieldSpec) Nudge(v float64, n int) float64 {
	return s.Clamp(v + float64(n)*s.Step)
}

// Fraction is the position of v within the range, in [0, 1].
func (s FieldSpec) Fraction(v float64) float64 {
	if s.Max <= s.Min {
		return 0
	}
	return math.Max(0, math.Min(1, (v-s.Min)/(s.Max-s.Min)))
}

// round strips float noise left by step arithmetic.
func (s FieldSpec) round(v float64) float64 {
	scale := math.Round(1 / s.Step)
	if scale < 1 {
		return v
	}
	return math.Round(v*scale) / scale
}
