package model

import "fmt"

const (
	LabelChurn   = "churn"
	LabelNoChurn = "no-churn"
)

// PredictionResult is the outcome of a single inference call.
type PredictionResult struct {
	Label       string  `json:"label"`
	Churn       bool    `json:"churn"`
	Probability float64 `json:"probability"`
	Message     string  `json:"message"`
}

// NewPredictionResult builds the result card for a binary class and the
// positive class probability.
func NewPredictionResult(class int, probability float64) PredictionResult {
	result := PredictionResult{Probability: probability}
	if class == 1 {
		result.Label = LabelChurn
		result.Churn = true
		result.Message = fmt.Sprintf("Customer is likely to churn. Churn probability: %.2f", probability)
		return result
	}
	result.Label = LabelNoChurn
	result.Message = fmt.Sprintf("Customer is not likely to churn. Churn probability: %.2f", probability)
	return result
}
