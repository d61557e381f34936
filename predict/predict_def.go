package predict

import (
	log "github.com/sirupsen/logrus"
)

var prLog = log.WithField("prefix", "Predict")

// Artifact type tags stored in the JSON artifacts.
const (
	TypeStandardScaler     = "standard_scaler"
	TypeLogisticRegression = "logistic_regression"
)

// Scaler applies the fitted input normalisation to a feature vector.
type Scaler interface {
	// FeatureNames returns the names the scaler was fitted with, nil when unknown.
	FeatureNames() []string
	Dim() int
	Transform(x []float64) ([]float64, error)
}

// Classifier is a fitted binary classifier over scaled features.
type Classifier interface {
	// FeatureNames returns the names the classifier was fitted with, nil when unknown.
	FeatureNames() []string
	Dim() int
	Predict(x []float64) (int, error)
	// PredictProba returns the class probabilities, index 1 is the churn class.
	PredictProba(x []float64) ([]float64, error)
	Close() error
}

type scalerFile struct {
	Type         string    `json:"type"`
	FeatureNames []string  `json:"feature_names"`
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
}

type logisticRegressionFile struct {
	Type         string    `json:"type"`
	FeatureNames []string  `json:"feature_names"`
	Coef         []float64 `json:"coef"`
	Intercept    float64   `json:"intercept"`
	Classes      []int     `json:"classes"`
	Threshold    *float64  `json:"threshold,omitempty"`
}
