package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const predictTimeout = 10 * time.Second

// predict runs the predictor on a snapshot of the current record.
func (m Model) predict() tea.Cmd {
	features := m.session.Features()
	predictor := m.config.Predictor

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), predictTimeout)
		defer cancel()

		p, err := predictor.Predict(ctx, features)
		return predictionMsg{features: features, prediction: p, err: err}
	}
}

