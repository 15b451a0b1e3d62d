package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sections := []string{
		m.theme.Title.Render("🌺 Iris Flower Species Predictor"),
		m.theme.Subtitle.Render("Enter the measurements of the iris flower to predict its species."),
		"",
		m.theme.Heading.Render("Flower Measurements (in cm)"),
	}
	for _, s := range m.sliders {
		sections = append(sections, s.View())
	}
	sections = append(sections,
		"",
		m.renderButton(),
		"",
		m.renderBody(),
		"",
		m.help.View(m.keymap),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return m.theme.RoundedBox.Render(content)
}

func (m Model) renderButton() string {
	if m.focus == focusButton {
		return m.theme.ButtonFocused.Render("Predict Species")
	}
	return m.theme.Button.Render("Predict Species")
}

// renderBody shows the result, the last error or a hint, in that order of precedence.
func (m Model) renderBody() string {
	if err := m.session.Err(); err != nil {
		return m.theme.StatusError.Render(fmt.Sprintf("✗ Prediction failed: %v", err))
	}
	if _, ok := m.session.Result(); ok {
		return m.result.View()
	}
	if m.pending {
		return m.theme.StatusPending.Render("Predicting…")
	}
	return m.theme.StatusPending.Render("Adjust the measurements and press Enter to predict.")
}
