package classifier

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/petal/internal/model"
	"golang.org/x/text/cases"
)

// Artifact types understood by Decode.
const (
	TypeDecisionTree       = "decision_tree"
	TypeRandomForest       = "random_forest"
	TypeLogisticRegression = "logistic_regression"
)

// artifact is the JSON envelope written by the training pipeline.
type artifact struct {
	Type      string         `json:"type"`
	Classes   []string       `json:"classes,omitempty"`
	Features  []string       `json:"features,omitempty"`
	Nodes     []Node         `json:"nodes,omitempty"`
	Trees     []treeArtifact `json:"trees,omitempty"`
	Coef      [][]float64    `json:"coef,omitempty"`
	Intercept []float64      `json:"intercept,omitempty"`
}

type treeArtifact struct {
	Nodes []Node `json:"nodes"`
}

// options configures Load.
type options struct {
	onnxLibrary string
}

// Option is a functional option for Load.
type Option func(*options)

// WithONNXLibrary sets the ONNX Runtime shared library used for .onnx artifacts.
// By default libonnxruntime.so next to the artifact is used.
func WithONNXLibrary(path string) Option {
	return func(o *options) {
		o.onnxLibrary = path
	}
}

// Load reads the artifact at path. The file is read exactly once.
func Load(path string, opts ...Option) (Classifier, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if strings.EqualFold(filepath.Ext(path), ".onnx") {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArtifactUnavailable, err)
		}
		lib := o.onnxLibrary
		if lib == "" {
			lib = filepath.Join(filepath.Dir(path), "libonnxruntime.so")
		}
		c, err := NewONNX(path, lib)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrArtifactUnavailable, err)
		}
		return c, nil
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrArtifactUnavailable, err)
	}
	c, err := Decode(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactUnavailable, path, err)
	}
	slog.Debug("Loaded classifier artifact", "path", path, "bytes", len(payload))
	return c, nil
}

// Decode builds a classifier from a JSON artifact.
func Decode(payload []byte) (Classifier, error) {
	var a artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}

	if err := checkFeatures(a.Features); err != nil {
		return nil, err
	}
	if err := checkClasses(a.Classes); err != nil {
		return nil, err
	}

	classes := len(a.Classes)
	if classes == 0 {
		classes = model.ClassCount
	}

	switch a.Type {
	case TypeDecisionTree:
		tree, err := NewDecisionTree(a.Nodes, classes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
		}
		return tree, nil

	case TypeRandomForest:
		trees := make([]*DecisionTree, 0, len(a.Trees))
		for i, ta := range a.Trees {
			tree, err := NewDecisionTree(ta.Nodes, classes)
			if err != nil {
				return nil, fmt.Errorf("%w: tree %d: %w", ErrMalformedArtifact, i, err)
			}
			trees = append(trees, tree)
		}
		forest, err := NewForest(trees)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
		}
		return forest, nil

	case TypeLogisticRegression:
		lr, err := NewLogistic(a.Coef, a.Intercept)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
		}
		return lr, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedArtifact, a.Type)
	}
}

// checkFeatures verifies a declared feature order against the form's order.
// Names such as "Petal Width (cm)" are accepted for "petal_width".
func checkFeatures(declared []string) error {
	if len(declared) == 0 {
		return nil
	}
	want := model.FeatureKeys()
	if len(declared) != len(want) {
		return fmt.Errorf("%w: got %d features, want %d", ErrFeatureOrder, len(declared), len(want))
	}
	for i, name := range declared {
		if featureKey(name) != want[i] {
			return fmt.Errorf("%w: position %d is %q, want %q", ErrFeatureOrder, i, name, want[i])
		}
	}
	return nil
}

// checkClasses verifies declared class names against the label table.
func checkClasses(declared []string) error {
	if len(declared) == 0 {
		return nil
	}
	labels := model.Labels()
	if len(declared) != len(labels) {
		return fmt.Errorf("%w: got %d classes, want %d", ErrClassMismatch, len(declared), len(labels))
	}
	fold := cases.Fold()
	for i, name := range declared {
		name = strings.TrimPrefix(strings.TrimSpace(name), "Iris-")
		name = strings.TrimPrefix(name, "iris-")
		if fold.String(name) != fold.String(labels[i]) {
			return fmt.Errorf("%w: class %d is %q, want %q", ErrClassMismatch, i, declared[i], labels[i])
		}
	}
	return nil
}

func featureKey(name string) string {
	name = cases.Fold().String(strings.TrimSpace(name))
	name = strings.TrimSuffix(name, "(cm)")
	name = strings.TrimSpace(name)
	return strings.ReplaceAll(name, " ", "_")
}
