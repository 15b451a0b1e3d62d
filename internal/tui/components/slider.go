package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/petal/internal/model"
	"github.com/Veraticus/petal/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultTrackWidth = 30
	minTrackWidth     = 10
	bigStep           = 10
)

// SliderModel is a bounded numeric control for one measurement.
type SliderModel struct {
	theme   themes.Theme
	spec    model.FieldSpec
	value   float64
	width   int
	focused bool
}

// NewSliderModel creates a slider positioned at value.
func NewSliderModel(spec model.FieldSpec, value float64, theme themes.Theme) SliderModel {
	return SliderModel{
		spec:  spec,
		value: spec.Clamp(value),
		theme: theme,
		width: defaultTrackWidth,
	}
}

// Update handles key presses while the slider is focused. A change moves
// the knob and is reported as a SliderChangedMsg.
func (m SliderModel) Update(msg tea.Msg) (SliderModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	next := m.value
	switch keyMsg.String() {
	case "left", "h":
		next = m.spec.Nudge(m.value, -1)
	case "right", "l":
		next = m.spec.Nudge(m.value, 1)
	case "shift+left", "H":
		next = m.spec.Nudge(m.value, -bigStep)
	case "shift+right", "L":
		next = m.spec.Nudge(m.value, bigStep)
	case "home":
		next = m.spec.Min
	case "end":
		next = m.spec.Max
	}

	if next == m.value {
		return m, nil
	}
	m.value = next
	field := m.spec.Field
	return m, func() tea.Msg {
		return SliderChangedMsg{Field: field, Value: next}
	}
}

// SetValue moves the slider.
func (m *SliderModel) SetValue(v float64) {
	m.value = m.spec.Clamp(v)
}

// Value returns the current value.
func (m SliderModel) Value() float64 {
	return m.value
}

// Field returns the measurement this slider controls.
func (m SliderModel) Field() model.Field {
	return m.spec.Field
}

// Focus gives the slider keyboard focus.
func (m *SliderModel) Focus() {
	m.focused = true
}

// Blur removes keyboard focus.
func (m *SliderModel) Blur() {
	m.focused = false
}

// Focused reports whether the slider has focus.
func (m SliderModel) Focused() bool {
	return m.focused
}

// SetWidth sets the track width in cells.
func (m *SliderModel) SetWidth(width int) {
	m.width = max(width, minTrackWidth)
}

// View renders the label line and the track.
func (m SliderModel) View() string {
	marker := "  "
	label := m.theme.Normal.Render(m.spec.Label)
	if m.focused {
		marker = m.theme.Selected.Render("▸ ")
		label = m.theme.Selected.Render(m.spec.Label)
	}

	value := m.theme.Bold.Render(fmt.Sprintf("%.1f cm", m.value))
	gap := m.width + 10 - lipgloss.Width(label) - lipgloss.Width(value)
	header := marker + label + strings.Repeat(" ", max(gap, 1)) + value

	bounds := lipgloss.NewStyle().Foreground(m.theme.Muted)
	track := bounds.Render(fmt.Sprintf("%4.1f ", m.spec.Min)) +
		m.renderTrack() +
		bounds.Render(fmt.Sprintf(" %.1f", m.spec.Max))

	return header + "\n  " + track
}

func (m SliderModel) renderTrack() string {
	pos := int(math.Round(m.spec.Fraction(m.value) * float64(m.width-1)))
	pos = max(0, min(m.width-1, pos))

	filled := m.theme.SliderFill.Render(strings.Repeat("━", pos))
	knob := m.theme.SliderKnob.Render("●")
	rest := m.theme.SliderTrack.Render(strings.Repeat("─", m.width-1-pos))
	return filled + knob + rest
}
