package predict

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
)

// Input and output names of a scikit-learn classifier exported with
// zipmap disabled.
const (
	ONNXInputName         = "float_input"
	ONNXOutputLabel       = "output_label"
	ONNXOutputProbability = "output_probability"
)

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

// InitONNXRuntime loads the onnxruntime shared library once per process.
func InitONNXRuntime(libraryPath string) error {
	ortInitOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		ortInitErr = ort.InitializeEnvironment()
	})
	return ortInitErr
}

// DestroyONNXRuntime releases the onnxruntime environment.
func DestroyONNXRuntime() {
	if ort.IsInitialized() {
		if err := ort.DestroyEnvironment(); err != nil {
			prLog.WithError(err).Error("Failed to destroy onnxruntime environment.")
		}
	}
}

// ONNXClassifier runs an exported classifier through onnxruntime.
// The session is shared and only read after construction.
type ONNXClassifier struct {
	session *ort.DynamicAdvancedSession
	dim     int
}

// NewONNXClassifier builds a session from the model bytes. InitONNXRuntime
// must have been called first.
func NewONNXClassifier(modelData []byte) (*ONNXClassifier, error) {
	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(modelData)
	if err != nil {
		return nil, errors.Wrap(err, "read onnx model info")
	}
	dim := -1
	for _, in := range inputs {
		if in.Name == ONNXInputName && len(in.Dimensions) > 0 {
			dim = int(in.Dimensions[len(in.Dimensions)-1])
		}
	}
	if dim <= 0 {
		return nil, fmt.Errorf("onnx model has no fixed width input %s", ONNXInputName)
	}
	found := 0
	for _, out := range outputs {
		if out.Name == ONNXOutputLabel || out.Name == ONNXOutputProbability {
			found++
		}
	}
	if found != 2 {
		return nil, fmt.Errorf("onnx model must expose %s and %s", ONNXOutputLabel, ONNXOutputProbability)
	}

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(modelData,
		[]string{ONNXInputName}, []string{ONNXOutputLabel, ONNXOutputProbability}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create onnx session")
	}
	return &ONNXClassifier{session: session, dim: dim}, nil
}

func (oc *ONNXClassifier) FeatureNames() []string {
	return nil
}

func (oc *ONNXClassifier) Dim() int {
	return oc.dim
}

func (oc *ONNXClassifier) run(x []float64) (int64, []float32, error) {
	if len(x) != oc.dim {
		return 0, nil, fmt.Errorf("onnx model expects %d features, got %d", oc.dim, len(x))
	}
	data := make([]float32, len(x))
	for i, v := range x {
		data[i] = float32(v)
	}
	input, err := ort.NewTensor(ort.NewShape(1, int64(oc.dim)), data)
	if err != nil {
		return 0, nil, err
	}
	defer input.Destroy()

	label, err := ort.NewEmptyTensor[int64](ort.NewShape(1))
	if err != nil {
		return 0, nil, err
	}
	defer label.Destroy()

	proba, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		return 0, nil, err
	}
	defer proba.Destroy()

	if err := oc.session.Run([]ort.Value{input}, []ort.Value{label, proba}); err != nil {
		return 0, nil, errors.Wrap(err, "run onnx session")
	}
	out := make([]float32, 2)
	copy(out, proba.GetData())
	return label.GetData()[0], out, nil
}

func (oc *ONNXClassifier) Predict(x []float64) (int, error) {
	label, _, err := oc.run(x)
	return int(label), err
}

func (oc *ONNXClassifier) PredictProba(x []float64) ([]float64, error) {
	_, proba, err := oc.run(x)
	if err != nil {
		return nil, err
	}
	return []float64{float64(proba[0]), float64(proba[1])}, nil
}

func (oc *ONNXClassifier) Close() error {
	if oc.session == nil {
		return nil
	}
	return oc.session.Destroy()
}

// PredictWithProba returns the label and probabilities from a single run.
func (oc *ONNXClassifier) PredictWithProba(x []float64) (int, []float64, error) {
	label, proba, err := oc.run(x)
	if err != nil {
		return 0, nil, err
	}
	return int(label), []float64{float64(proba[0]), float64(proba[1])}, nil
}
