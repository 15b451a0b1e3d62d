package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/petal/internal/model"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

const barWidth = 24

// FormatPrediction renders a prediction for plain terminal output.
func FormatPrediction(p model.Prediction) string {
	banner := SuccessStyle.Bold(true).Render(
		fmt.Sprintf("%s The predicted Iris species is %s", CheckIcon, p.Label))

	var input strings.Builder
	for _, spec := range model.Fields {
		fmt.Fprintf(&input, "%-14s %.1f cm\n", spec.Label, p.Input.Get(spec.Field))
	}

	var bars strings.Builder
	for i, cp := range p.Probabilities {
		fill := string(InfoColor)
		label := fmt.Sprintf("%-12s", cp.Label)
		if i == p.Index {
			fill = string(SuccessColor)
			label = BoldStyle.Render(label)
		}
		bar := progress.New(
			progress.WithSolidFill(fill),
			progress.WithWidth(barWidth),
			progress.WithoutPercentage(),
		)
		fmt.Fprintf(&bars, "%s %s %6.2f%%\n", label, bar.ViewAs(cp.Probability), cp.Probability*100)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		FormatTitle("Prediction Result"),
		banner,
		"",
		TableHeaderStyle.Render("Input Data"),
		strings.TrimRight(input.String(), "\n"),
		"",
		TableHeaderStyle.Render("Prediction Probabilities"),
		strings.TrimRight(bars.String(), "\n"),
	)
}
