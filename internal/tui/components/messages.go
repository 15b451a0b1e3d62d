package components

import "github.com/Veraticus/petal/internal/model"

// SliderChangedMsg reports a new value for one measurement.
type SliderChangedMsg struct {
	Field model.Field
	Value float64
}
