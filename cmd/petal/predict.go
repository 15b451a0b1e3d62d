package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/petal/internal/cli"
	"github.com/Veraticus/petal/internal/form"
	"github.com/Veraticus/petal/internal/model"
	"github.com/spf13/cobra"
)

func predictCmd() *cobra.Command {
	var (
		values [model.FeatureCount]float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the species for one set of measurements",
		Long: `Predict the species for one set of measurements and print the result.
Omitted measurements use the form defaults; values outside a control's range
are clamped to it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			predictor, release, err := loadEngine(settings, 0)
			if err != nil {
				return err
			}
			defer release()

			var f model.Features
			for _, spec := range model.Fields {
				f.Set(spec.Field, values[spec.Field])
			}
			return runPredict(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), predictor, f, asJSON)
		},
	}

	for _, spec := range model.Fields {
		cmd.Flags().Float64Var(&values[spec.Field], flagName(spec), spec.Default,
			fmt.Sprintf("%s in cm (%.1f to %.1f)", spec.Label, spec.Min, spec.Max))
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the prediction as JSON")

	return cmd
}

// flagName turns sepal_length into sepal-length.
func flagName(spec model.FieldSpec) string {
	return strings.ReplaceAll(spec.Key, "_", "-")
}

func runPredict(ctx context.Context, out, errOut io.Writer, predictor form.Predictor, f model.Features, asJSON bool) error {
	clamped := f.Clamped()
	if clamped != f {
		fmt.Fprintln(errOut, cli.FormatWarning("Measurements outside the supported range were clamped."))
	}

	p, err := predictor.Predict(ctx, clamped)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	_, err = fmt.Fprintln(out, cli.FormatPrediction(p))
	return err
}
