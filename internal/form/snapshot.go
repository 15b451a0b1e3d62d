package form

import "github.com/Veraticus/petal/internal/model"

// Control describes one input control as sent to clients.
type Control struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Step  float64 `json:"step"`
	Value float64 `json:"value"`
}

// Snapshot is a serialisable view of a session.
type Snapshot struct {
	Result   *model.Prediction `json:"result,omitempty"`
	State    string            `json:"state"`
	Error    string            `json:"error,omitempty"`
	Controls []Control         `json:"controls"`
}

// Snapshot captures the current controls, state and result.
func (s *Session) Snapshot() Snapshot {
	controls := make([]Control, 0, model.FeatureCount)
	for _, spec := range model.Fields {
		controls = append(controls, Control{
			Key:   spec.Key,
			Label: spec.Label,
			Min:   spec.Min,
			Max:   spec.Max,
			Step:  spec.Step,
			Value: s.values.Get(spec.Field),
		})
	}

	snap := Snapshot{
		State:    s.state.String(),
		Controls: controls,
	}
	if result, ok := s.Result(); ok {
		snap.Result = &result
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}
