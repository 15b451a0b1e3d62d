// Package tui implements the interactive terminal form.
package tui

import (
	"log/slog"

	"github.com/Veraticus/petal/internal/form"
	"github.com/Veraticus/petal/internal/model"
	"github.com/Veraticus/petal/internal/tui/components"
	"github.com/Veraticus/petal/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// focusButton is the focus index of the Predict button, after the sliders.
const focusButton = model.FeatureCount

// Model holds the main TUI state.
type Model struct {
	theme    themes.Theme
	session  *form.Session
	result   components.ResultModel
	help     help.Model
	config   Config
	keymap   KeyMap
	sliders  []components.SliderModel
	width    int
	height   int
	focus    int
	pending  bool
	quitting bool
}

// newModel creates a new model with the given configuration.
func newModel(cfg Config) Model {
	session := form.NewSession(cfg.Predictor)

	sliders := make([]components.SliderModel, 0, model.FeatureCount)
	for _, spec := range model.Fields {
		sliders = append(sliders, components.NewSliderModel(spec, session.Value(spec.Field), cfg.Theme))
	}

	h := help.New()
	h.ShowAll = cfg.ShowHelp

	m := Model{
		config:  cfg,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    h,
		session: session,
		sliders: sliders,
		width:   cfg.Width,
		height:  cfg.Height,
	}
	m.setFocus(0)
	m.resize()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case components.SliderChangedMsg:
		if m.session.Set(msg.Field, msg.Value) {
			m.pending = false
		}
		m.syncSliders()
		return m, nil

	case predictionMsg:
		return m.handlePrediction(msg), nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.ForceQuit), key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.Next):
		m.setFocus(m.focus + 1)

	case key.Matches(msg, m.keymap.Prev):
		m.setFocus(m.focus - 1)

	case key.Matches(msg, m.keymap.Predict):
		m.pending = true
		return m, m.predict()

	case key.Matches(msg, m.keymap.Reset):
		if m.session.Reset() {
			m.pending = false
			m.syncSliders()
		}

	default:
		if m.focus < focusButton {
			// The session is updated here rather than through the slider's
			// message so a trigger in the same burst of keys sees the change.
			slider, _ := m.sliders[m.focus].Update(msg)
			if m.session.Set(slider.Field(), slider.Value()) {
				m.pending = false
			}
			m.sliders[m.focus] = slider
			m.syncSliders()
		}
	}

	return m, nil
}

func (m Model) handlePrediction(msg predictionMsg) Model {
	if !m.session.Apply(msg.features, msg.prediction, msg.err) {
		slog.Debug("Dropped prediction for outdated inputs")
		return m
	}
	m.pending = false

	if msg.err != nil {
		slog.Error("Prediction failed", "error", msg.err)
		return m
	}
	m.result = components.NewResultModel(msg.prediction, m.theme)
	m.result.SetWidth(m.contentWidth())
	return m
}

// setFocus moves focus, wrapping around the sliders and the button.
func (m *Model) setFocus(i int) {
	n := focusButton + 1
	m.focus = ((i % n) + n) % n
	for j := range m.sliders {
		if j == m.focus {
			m.sliders[j].Focus()
		} else {
			m.sliders[j].Blur()
		}
	}
}

func (m *Model) syncSliders() {
	for i := range m.sliders {
		m.sliders[i].SetValue(m.session.Value(m.sliders[i].Field()))
	}
}

func (m *Model) resize() {
	w := m.contentWidth()
	for i := range m.sliders {
		m.sliders[i].SetWidth(w - 12)
	}
	m.result.SetWidth(w)
	m.help.Width = w
}

// contentWidth is the usable width inside the border and padding.
func (m Model) contentWidth() int {
	return max(m.width-8, 20)
}
