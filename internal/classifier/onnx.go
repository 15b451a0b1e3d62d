package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Veraticus/petal/internal/model"
	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// ONNXClassifier runs a classifier exported to ONNX, e.g. with skl2onnx and
// zipmap disabled. The model takes a float32 [1, 4] input and produces an
// int64 label output followed by a float32 [1, classes] probability output.
type ONNXClassifier struct {
	session   *ort.DynamicAdvancedSession
	inputName string
	labelName string
	probsName string
	classes   int64
}

// NewONNX opens an inference session for the model at modelPath.
func NewONNX(modelPath, libPath string) (*ONNXClassifier, error) {
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	if len(inputs) != 1 {
		return nil, fmt.Errorf("onnx: expected 1 input, got %d", len(inputs))
	}
	if len(outputs) < 2 {
		return nil, fmt.Errorf("onnx: expected label and probability outputs, got %d outputs", len(outputs))
	}
	if outputs[1].OrtValueType != ort.ONNXTypeTensor {
		return nil, errors.New("onnx: probability output is not a tensor (export with zipmap disabled)")
	}

	classes := int64(model.ClassCount)
	if dims := outputs[1].Dimensions; len(dims) == 2 && dims[1] > 0 {
		classes = dims[1]
	}

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name, outputs[1].Name},
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &ONNXClassifier{
		session:   session,
		inputName: inputs[0].Name,
		labelName: outputs[0].Name,
		probsName: outputs[1].Name,
		classes:   classes,
	}, nil
}

// Classify implements Classifier.
func (c *ONNXClassifier) Classify(ctx context.Context, features model.Features) (int, error) {
	label, _, err := c.run(ctx, features)
	return label, err
}

// ClassifyWithConfidence implements Classifier.
func (c *ONNXClassifier) ClassifyWithConfidence(ctx context.Context, features model.Features) ([]float64, error) {
	_, probs, err := c.run(ctx, features)
	return probs, err
}

// Close releases the ONNX session.
func (c *ONNXClassifier) Close() error {
	return c.session.Destroy()
}

func (c *ONNXClassifier) run(ctx context.Context, features model.Features) (int, []float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	vec := features.Vector()
	data := make([]float32, len(vec))
	for i, v := range vec {
		data[i] = float32(v)
	}

	in, err := ort.NewTensor(ort.NewShape(1, model.FeatureCount), data)
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create %s tensor: %w", c.inputName, err)
	}
	defer in.Destroy()

	label, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create %s tensor: %w", c.labelName, err)
	}
	defer label.Destroy()

	probs, err := ort.NewEmptyTensor[float32](ort.NewShape(1, c.classes))
	if err != nil {
		return 0, nil, fmt.Errorf("onnx: failed to create %s tensor: %w", c.probsName, err)
	}
	defer probs.Destroy()

	if err := c.session.Run([]ort.Value{in}, []ort.Value{label, probs}); err != nil {
		return 0, nil, fmt.Errorf("onnx: inference failed: %w", err)
	}

	raw := probs.GetData()
	out := make([]float64, len(raw))
	for i, p := range raw {
		out[i] = float64(p)
	}
	return int(label.GetData()[0]), out, nil
}
