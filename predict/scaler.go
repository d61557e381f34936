package predict

import (
	"encoding/json"
	"fmt"
	"io"

	M "churn/model"

	"github.com/pkg/errors"
)

// StandardScaler is (x - mean) / scale per feature.
type StandardScaler struct {
	names []string
	mean  []float64
	scale []float64
}

func NewStandardScaler(names []string, mean, scale []float64) (*StandardScaler, error) {
	if len(mean) == 0 {
		return nil, errors.New("scaler has no features")
	}
	if len(mean) != len(scale) {
		return nil, fmt.Errorf("scaler mean has %d values, scale has %d", len(mean), len(scale))
	}
	if names != nil && len(names) != len(mean) {
		return nil, fmt.Errorf("scaler has %d feature names for %d features", len(names), len(mean))
	}
	s := &StandardScaler{
		names: names,
		mean:  make([]float64, len(mean)),
		scale: make([]float64, len(scale)),
	}
	copy(s.mean, mean)
	for i, v := range scale {
		// Constant features are left unscaled.
		if v == 0 {
			v = 1
		}
		s.scale[i] = v
	}
	return s, nil
}

// LoadStandardScaler reads a scaler.json artifact.
func LoadStandardScaler(r io.Reader) (*StandardScaler, error) {
	var file scalerFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode scaler")
	}
	if file.Type != "" && file.Type != TypeStandardScaler {
		return nil, fmt.Errorf("unsupported scaler type %s", file.Type)
	}
	return NewStandardScaler(file.FeatureNames, file.Mean, file.Scale)
}

func (s *StandardScaler) FeatureNames() []string {
	return s.names
}

func (s *StandardScaler) Dim() int {
	return len(s.mean)
}

func (s *StandardScaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.mean) {
		return nil, &M.ScalingError{Expected: len(s.mean), Got: len(x)}
	}
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = (v - s.mean[i]) / s.scale[i]
	}
	return out, nil
}
