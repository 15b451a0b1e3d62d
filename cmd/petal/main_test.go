package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/petal/internal/classifier"
	"github.com/Veraticus/petal/internal/common"
	"github.com/Veraticus/petal/internal/config"
	"github.com/Veraticus/petal/internal/engine"
	"github.com/Veraticus/petal/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const treeArtifact = "../../internal/classifier/testdata/iris_tree.json"

type brokenPredictor struct{}

func (brokenPredictor) Predict(_ context.Context, f model.Features) (model.Prediction, error) {
	return model.Prediction{
		Label: "Setosa",
		Index: 0,
		Input: f,
		Probabilities: []model.ClassProbability{
			{Label: "Setosa", Probability: 0.9},
			{Label: "Versicolor", Probability: 0.9},
			{Label: "Virginica", Probability: 0.9},
		},
	}, nil
}

func testSettings(path string) config.Settings {
	return config.Settings{ModelPath: path, LogLevel: "info", LogFormat: "console"}
}

func TestLoadEngine(t *testing.T) {
	t.Run("missing artifact", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "iris_trained_model.json")

		_, _, err := loadEngine(testSettings(path), 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, classifier.ErrArtifactUnavailable)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Equal(t,
			"Error: '"+path+"' not found. Please ensure the model file is in the correct directory.",
			common.UserMessage(err))
	})

	t.Run("corrupt artifact", func(t *testing.T) {
		_, _, err := loadEngine(testSettings("../../internal/classifier/testdata/corrupt.json"), 0)

		assert.ErrorIs(t, err, classifier.ErrMalformedArtifact)
		assert.Contains(t, common.UserMessage(err), "could not be loaded as a model artifact")
	})

	for _, cacheSize := range []int{0, 16} {
		e, release, err := loadEngine(testSettings(treeArtifact), cacheSize)
		require.NoError(t, err)

		p, err := e.Predict(context.Background(), model.DefaultFeatures())
		require.NoError(t, err)
		assert.Equal(t, "Versicolor", p.Label)
		release()
	}
}

func TestRunPredict(t *testing.T) {
	e, release, err := loadEngine(testSettings(treeArtifact), 0)
	require.NoError(t, err)
	defer release()

	t.Run("text", func(t *testing.T) {
		var out, errOut bytes.Buffer
		require.NoError(t, runPredict(context.Background(), &out, &errOut, e, model.DefaultFeatures(), false))

		assert.Contains(t, out.String(), "The predicted Iris species is")
		assert.Contains(t, out.String(), "Versicolor")
		assert.Empty(t, errOut.String())
	})

	t.Run("json with clamping", func(t *testing.T) {
		var out, errOut bytes.Buffer
		f := model.Features{SepalLength: 4.0, SepalWidth: 2.0, PetalLength: 0.2, PetalWidth: 0.1}
		require.NoError(t, runPredict(context.Background(), &out, &errOut, e, f, true))

		var p model.Prediction
		require.NoError(t, json.Unmarshal(out.Bytes(), &p))
		assert.Equal(t, "Setosa", p.Label)
		assert.InDelta(t, 1.0, p.Input.PetalLength, 1e-9)
		assert.Contains(t, errOut.String(), "clamped")
	})
}

func TestRunCheck(t *testing.T) {
	t.Run("passes", func(t *testing.T) {
		e, release, err := loadEngine(testSettings(treeArtifact), 0)
		require.NoError(t, err)
		defer release()

		var out bytes.Buffer
		require.NoError(t, runCheck(context.Background(), &out, e, engine.Grid()))
		assert.Contains(t, out.String(), "Check Passed")
	})

	t.Run("reports violations", func(t *testing.T) {
		grid := engine.Grid()[:20]

		var out bytes.Buffer
		err := runCheck(context.Background(), &out, brokenPredictor{}, grid)

		assert.ErrorIs(t, err, errCheckFailed)
		assert.Contains(t, out.String(), "Check Failed")
		assert.Contains(t, out.String(), "20 of 20 records failed")
		assert.Contains(t, out.String(), "and 10 more")
	})

	t.Run("stops when canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := runCheck(ctx, &bytes.Buffer{}, brokenPredictor{}, engine.Grid())
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := testSettings(treeArtifact)
	s.LogFile = filepath.Join(t.TempDir(), "petal.log")

	require.NoError(t, setupLogging(s, true))
	slog.Info("Form started")
	require.NoError(t, logCloser.Close())

	data, err := os.ReadFile(s.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Form started")

	s.LogLevel = "verbose"
	assert.ErrorIs(t, setupLogging(s, false), common.ErrInvalidConfig)
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "sepal-length", flagName(model.SpecFor(model.FieldSepalLength)))
	assert.Equal(t, "petal-width", flagName(model.SpecFor(model.FieldPetalWidth)))
}

func TestVersionCommand(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	cmd.Run(cmd, nil)

	assert.Equal(t, "petal version dev\n", out.String())
}

func TestPredictCommand_EndToEnd(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"predict", "--model", treeArtifact, "--json",
		"--sepal-length", "8", "--sepal-width", "4.5", "--petal-length", "7", "--petal-width", "2.5"})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var p model.Prediction
	require.NoError(t, json.Unmarshal(out.Bytes(), &p))
	assert.Equal(t, "Virginica", p.Label)
	assert.Equal(t, model.Features{SepalLength: 8, SepalWidth: 4.5, PetalLength: 7, PetalWidth: 2.5}, p.Input)
}

func TestRootCommand_AcceptsTheme(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Cleanup(func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	})

	missing := filepath.Join(t.TempDir(), "missing.json")
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"--theme", "catppuccin-mocha", "--model", missing})

	err := rootCmd.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Contains(t, common.UserMessage(err), "not found", "halts on the artifact, not on flag parsing")
	assert.Equal(t, "catppuccin-mocha", settings.Theme)
}
