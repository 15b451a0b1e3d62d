package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/petal/internal/cli"
	"github.com/Veraticus/petal/internal/engine"
	"github.com/Veraticus/petal/internal/model"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// errCheckFailed is returned when any record in the sweep fails.
var errCheckFailed = errors.New("model check failed")

// maxReported caps the failures listed in the summary.
const maxReported = 10

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the model across the input grid",
		Long: `Run the model over a grid of measurements covering each control's minimum,
default, maximum and evenly spaced points between, and verify every
prediction: a known label, three probabilities in [0, 1] summing to 1, and
identical results when repeated.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			predictor, release, err := loadEngine(settings, 0)
			if err != nil {
				return err
			}
			defer release()

			handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx, stop := handler.HandleInterrupts(cmd.Context(), "Check")
			defer stop()

			return runCheck(ctx, cmd.OutOrStdout(), predictor, engine.Grid())
		},
	}
}

type checkFailure struct {
	err      error
	features model.Features
}

func runCheck(ctx context.Context, out io.Writer, predictor engine.Predictor, grid []model.Features) error {
	bar := progressbar.NewOptions(len(grid),
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[magenta][bold]Checking predictions...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(out); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)

	var failures []checkFailure
	for _, f := range grid {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := engine.Verify(ctx, predictor, f); err != nil {
			failures = append(failures, checkFailure{features: f, err: err})
		}
		if err := bar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}

	if _, err := fmt.Fprintln(out, checkSummary(len(grid), failures)); err != nil {
		return err
	}
	if len(failures) > 0 {
		return fmt.Errorf("%w: %d of %d records", errCheckFailed, len(failures), len(grid))
	}
	return nil
}

func checkSummary(total int, failures []checkFailure) string {
	if len(failures) == 0 {
		return cli.RenderBox("Check Passed",
			cli.FormatSuccess(fmt.Sprintf("%d records verified", total)))
	}

	body := cli.FormatError(fmt.Sprintf("%d of %d records failed", len(failures), total))
	for i, fail := range failures {
		if i == maxReported {
			body += fmt.Sprintf("\n  … and %d more", len(failures)-maxReported)
			break
		}
		f := fail.features
		body += fmt.Sprintf("\n  (%.1f, %.1f, %.1f, %.1f): %v",
			f.SepalLength, f.SepalWidth, f.PetalLength, f.PetalWidth, fail.err)
	}
	return cli.RenderBox("Check Failed", body)
}
