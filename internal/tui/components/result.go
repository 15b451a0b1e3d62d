package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/petal/internal/model"
	"github.com/Veraticus/petal/internal/tui/themes"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultBarWidth = 30
	columnWidth     = 14
	labelWidth      = 12
)

// ResultModel renders a prediction: banner, input echo and probability bars.
type ResultModel struct {
	theme      themes.Theme
	prediction model.Prediction
	input      table.Model
	barWidth   int
}

// NewResultModel creates a result panel for p.
func NewResultModel(p model.Prediction, theme themes.Theme) ResultModel {
	return ResultModel{
		prediction: p,
		theme:      theme,
		input:      newInputTable(p.Input, theme),
		barWidth:   defaultBarWidth,
	}
}

func newInputTable(f model.Features, theme themes.Theme) table.Model {
	columns := make([]table.Column, 0, model.FeatureCount)
	row := make(table.Row, 0, model.FeatureCount)
	for _, spec := range model.Fields {
		columns = append(columns, table.Column{Title: spec.Label, Width: columnWidth})
		row = append(row, fmt.Sprintf("%.1f", f.Get(spec.Field)))
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Cell

	return table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{row}),
		table.WithFocused(false),
		table.WithHeight(3),
		table.WithStyles(styles),
	)
}

// Prediction returns the prediction being shown.
func (m ResultModel) Prediction() model.Prediction {
	return m.prediction
}

// SetWidth fits the probability bars into width cells.
func (m *ResultModel) SetWidth(width int) {
	m.barWidth = max(width-labelWidth-10, minTrackWidth)
}

// View renders the result panel.
func (m ResultModel) View() string {
	sections := []string{
		m.theme.Heading.Render("Prediction Result"),
		m.renderBanner(),
		"",
		m.theme.Heading.Render("Prediction Details"),
		m.theme.Bold.Render("Input Data:"),
		m.input.View(),
		"",
		m.theme.Bold.Render("Prediction Probabilities:"),
		m.renderBars(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m ResultModel) renderBanner() string {
	label := m.prediction.Label
	return m.theme.Banner.Render(fmt.Sprintf("%s The predicted Iris species is %s",
		themes.GetSpeciesIcon(label),
		m.theme.StatusSuccess.Render(label),
	))
}

func (m ResultModel) renderBars() string {
	lines := make([]string, 0, len(m.prediction.Probabilities))
	for i, cp := range m.prediction.Probabilities {
		color := m.theme.Secondary
		name := m.theme.Normal.Render(fmt.Sprintf("%-*s", labelWidth, cp.Label))
		if i == m.prediction.Index {
			color = m.theme.Success
			name = m.theme.Bold.Render(fmt.Sprintf("%-*s", labelWidth, cp.Label))
		}

		bar := progress.New(
			progress.WithSolidFill(string(color)),
			progress.WithWidth(m.barWidth),
			progress.WithoutPercentage(),
		)
		lines = append(lines, fmt.Sprintf("%s %s %6.2f%%", name, bar.ViewAs(cp.Probability), cp.Probability*100))
	}
	return strings.Join(lines, "\n")
}
