package predict

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	M "churn/model"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

const defaultThreshold = 0.5

// LogisticRegression scores p = sigmoid(coef.x + intercept) for the positive class.
type LogisticRegression struct {
	names     []string
	coef      []float64
	intercept float64
	classes   [2]int
	threshold float64
}

// LoadLogisticRegression reads a customer_churn_model.json artifact.
func LoadLogisticRegression(r io.Reader) (*LogisticRegression, error) {
	var file logisticRegressionFile
	if err := json.NewDecoder(r).Decode(&file); err != nil {
		return nil, errors.Wrap(err, "decode model")
	}
	if file.Type != "" && file.Type != TypeLogisticRegression {
		return nil, fmt.Errorf("unsupported model type %s", file.Type)
	}
	if len(file.Coef) == 0 {
		return nil, errors.New("model has no coefficients")
	}
	if file.FeatureNames != nil && len(file.FeatureNames) != len(file.Coef) {
		return nil, fmt.Errorf("model has %d feature names for %d coefficients",
			len(file.FeatureNames), len(file.Coef))
	}

	lr := &LogisticRegression{
		names:     file.FeatureNames,
		coef:      file.Coef,
		intercept: file.Intercept,
		classes:   [2]int{0, 1},
		threshold: defaultThreshold,
	}
	if file.Classes != nil {
		if len(file.Classes) != 2 {
			return nil, fmt.Errorf("model must have 2 classes, has %d", len(file.Classes))
		}
		lr.classes = [2]int{file.Classes[0], file.Classes[1]}
	}
	if file.Threshold != nil {
		if *file.Threshold <= 0 || *file.Threshold >= 1 {
			return nil, fmt.Errorf("invalid model threshold %v", *file.Threshold)
		}
		lr.threshold = *file.Threshold
	}
	return lr, nil
}

func (lr *LogisticRegression) FeatureNames() []string {
	return lr.names
}

func (lr *LogisticRegression) Dim() int {
	return len(lr.coef)
}

func (lr *LogisticRegression) probability(x []float64) (float64, error) {
	if len(x) != len(lr.coef) {
		return 0, &M.ScalingError{Expected: len(lr.coef), Got: len(x)}
	}
	z := floats.Dot(lr.coef, x) + lr.intercept
	return 1 / (1 + math.Exp(-z)), nil
}

func (lr *LogisticRegression) Predict(x []float64) (int, error) {
	p, err := lr.probability(x)
	if err != nil {
		return 0, err
	}
	if p >= lr.threshold {
		return lr.classes[1], nil
	}
	return lr.classes[0], nil
}

func (lr *LogisticRegression) PredictProba(x []float64) ([]float64, error) {
	p, err := lr.probability(x)
	if err != nil {
		return nil, err
	}
	return []float64{1 - p, p}, nil
}

func (lr *LogisticRegression) Close() error {
	return nil
}
