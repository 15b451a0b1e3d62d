package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/Veraticus/petal/internal/classifier"
	"github.com/Veraticus/petal/internal/common"
	"github.com/Veraticus/petal/internal/config"
	"github.com/Veraticus/petal/internal/engine"
)

// envKeyReplacer maps config keys like serve.addr to PETAL_SERVE_ADDR.
var envKeyReplacer = strings.NewReplacer(".", "_")

// loadEngine loads the artifact once and wraps it in an engine. A cacheSize
// above zero memoises predictions. The returned func releases the artifact.
func loadEngine(s config.Settings, cacheSize int) (*engine.Engine, func(), error) {
	var opts []classifier.Option
	if s.ONNXLibrary != "" {
		opts = append(opts, classifier.WithONNXLibrary(s.ONNXLibrary))
	}

	c, err := classifier.Load(s.ModelPath, opts...)
	if err != nil {
		return nil, nil, artifactError(s.ModelPath, err)
	}

	if cacheSize > 0 {
		cached, err := classifier.NewCached(c, cacheSize)
		if err != nil {
			_ = classifier.Close(c)
			return nil, nil, fmt.Errorf("failed to create prediction cache: %w", err)
		}
		c = cached
	}

	release := func() {
		if err := classifier.Close(c); err != nil {
			slog.Warn("Failed to release model artifact", "error", err)
		}
	}
	return engine.New(c), release, nil
}

// artifactError turns a load failure into the message shown at startup.
func artifactError(path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return common.NewUserError(
			fmt.Sprintf("Error: '%s' not found. Please ensure the model file is in the correct directory.", path), err)
	}
	return common.NewUserError(
		fmt.Sprintf("Error: '%s' could not be loaded as a model artifact.", path), err)
}
