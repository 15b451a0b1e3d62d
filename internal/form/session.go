// Package form holds the state of one interactive prediction session.
//
// A session has two states. It starts Idle; a trigger runs the predictor and
// moves it to Rendered. Changing any input afterwards drops the result and
// returns the session to Idle, so a displayed prediction always matches the
// displayed inputs.
package form

import (
	"context"

	"github.com/Veraticus/petal/internal/model"
)

// State is the render state of a session.
type State int

const (
	// StateIdle means no result is shown for the current inputs.
	StateIdle State = iota
	// StateRendered means the result matches the current inputs.
	StateRendered
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendered:
		return "rendered"
	default:
		return "unknown"
	}
}

// Predictor classifies a feature record.
type Predictor interface {
	Predict(ctx context.Context, features model.Features) (model.Prediction, error)
}

// Session is not safe for concurrent use; each user gets their own.
type Session struct {
	predictor Predictor
	err       error
	result    model.Prediction
	values    model.Features
	state     State
}

// NewSession starts a session with every control at its default.
func NewSession(predictor Predictor) *Session {
	return &Session{
		predictor: predictor,
		values:    model.DefaultFeatures(),
		state:     StateIdle,
	}
}

// Features assembles the current control values into one record.
func (s *Session) Features() model.Features {
	return s.values
}

// Value returns the current value of one control.
func (s *Session) Value(field model.Field) float64 {
	return s.values.Get(field)
}

// Set clamps v into the control's range and stores it. It reports whether
// the value changed; a change invalidates any rendered result.
func (s *Session) Set(field model.Field, v float64) bool {
	v = model.SpecFor(field).Clamp(v)
	if v == s.values.Get(field) {
		return false
	}
	s.values.Set(field, v)
	s.invalidate()
	return true
}

// Nudge moves one control by n steps.
func (s *Session) Nudge(field model.Field, n int) bool {
	return s.Set(field, model.SpecFor(field).Nudge(s.values.Get(field), n))
}

// Reset restores every control to its default.
func (s *Session) Reset() bool {
	defaults := model.DefaultFeatures()
	if s.values == defaults {
		return false
	}
	s.values = defaults
	s.invalidate()
	return true
}

// Trigger runs the predictor on the current record.
func (s *Session) Trigger(ctx context.Context) (model.Prediction, error) {
	features := s.values
	prediction, err := s.predictor.Predict(ctx, features)
	s.Apply(features, prediction, err)
	return prediction, err
}

// Apply records the outcome of a prediction computed elsewhere. Outcomes for
// a record that no longer matches the inputs are dropped. It reports whether
// the outcome was kept.
func (s *Session) Apply(features model.Features, prediction model.Prediction, err error) bool {
	if features != s.values {
		return false
	}
	if err != nil {
		s.invalidate()
		s.err = err
		return true
	}
	s.result = prediction
	s.err = nil
	s.state = StateRendered
	return true
}

// State returns the current render state.
func (s *Session) State() State {
	return s.state
}

// Result returns the rendered prediction, if any.
func (s *Session) Result() (model.Prediction, bool) {
	if s.state != StateRendered {
		return model.Prediction{}, false
	}
	return s.result, true
}

// Err returns the error of the last trigger, if it failed.
func (s *Session) Err() error {
	return s.err
}

func (s *Session) invalidate() {
	s.state = StateIdle
	s.result = model.Prediction{}
	s.err = nil
}
