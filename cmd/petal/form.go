package main

import (
	"github.com/Veraticus/petal/internal/tui"
	"github.com/Veraticus/petal/internal/tui/themes"
	"github.com/spf13/cobra"
)

func formCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Open the interactive prediction form (default)",
		Long: `Open the interactive form. Adjust the four measurements with the arrow keys
and press Enter to predict the species. Logs go to a rotating file so they do
not disturb the screen.`,
		RunE:        runForm,
		Annotations: map[string]string{annotationTUI: "true"},
	}
}

func runForm(cmd *cobra.Command, _ []string) error {
	// The artifact loads before the form appears, so a missing file halts here.
	predictor, release, err := loadEngine(settings, 0)
	if err != nil {
		return err
	}
	defer release()

	return tui.Run(cmd.Context(),
		tui.WithPredictor(predictor),
		tui.WithTheme(themes.GetTheme(settings.Theme)),
	)
}
