package handler

import (
	"io"
	"net/http"
	"time"

	C "churn/config"
	"churn/features"
	"churn/metrics"
	mid "churn/middleware"
	M "churn/model"
	U "churn/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	FieldTypeCategorical = "categorical"
	FieldTypeBinary      = "binary"
	FieldTypeInteger     = "integer"
	FieldTypeNumber      = "number"
)

// FieldSchema describes one input of the prediction form.
type FieldSchema struct {
	Name    string      `json:"name"`
	Type    string      `json:"type"`
	Values  []string    `json:"values,omitempty"`
	Min     *float64    `json:"min,omitempty"`
	Max     *float64    `json:"max,omitempty"`
	Default interface{} `json:"default"`
	// ModelInput is false for fields collected for reference only.
	ModelInput bool `json:"model_input"`
}

func bound(v float64) *float64 {
	return &v
}

// PredictionSchema lists the form fields in display order.
func PredictionSchema() []FieldSchema {
	table := features.DefaultEncodingTable()
	defaults := M.DefaultCustomerRecord()
	categoricals := defaults.Categoricals()

	fields := make([]FieldSchema, 0, len(features.FeatureOrder)+1)
	for _, name := range features.FeatureOrder {
		switch name {
		case M.ColumnSeniorCitizen:
			fields = append(fields, FieldSchema{Name: name, Type: FieldTypeBinary,
				Values: []string{M.SeniorCitizenNo, M.SeniorCitizenYes}, Default: defaults.SeniorCitizen, ModelInput: true})
		case M.ColumnTenure:
			fields = append(fields, FieldSchema{Name: name, Type: FieldTypeInteger,
				Min: bound(M.TenureMin), Max: bound(M.TenureMax), Default: defaults.Tenure, ModelInput: true})
		case M.ColumnMonthlyCharges:
			fields = append(fields, FieldSchema{Name: name, Type: FieldTypeNumber,
				Min: bound(M.MonthlyChargesMin), Max: bound(M.MonthlyChargesMax), Default: defaults.MonthlyCharges, ModelInput: true})
		default:
			fields = append(fields, FieldSchema{Name: name, Type: FieldTypeCategorical,
				Values: table.Domain(name), Default: categoricals[name], ModelInput: true})
		}
	}
	fields = append(fields, FieldSchema{Name: M.ColumnTotalCharges, Type: FieldTypeNumber,
		Min: bound(M.TotalChargesMin), Max: bound(M.TotalChargesMax), Default: defaults.TotalCharges, ModelInput: false})
	return fields
}

func PredictSchemaHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"fields": PredictionSchema()})
}

// PredictHandler scores one customer. Fields missing from the payload take
// the form defaults.
func PredictHandler(services *C.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logCtx := log.WithField("reqId", U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID))
		metrics.Increment(metrics.IncrPredictionCount)

		record := M.DefaultCustomerRecord()
		if err := c.ShouldBindJSON(&record); err != nil && err != io.EOF {
			logCtx.WithError(err).Error("Predict failed. Invalid JSON.")
			metrics.Increment(metrics.IncrPredictionValidationFailure)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload."})
			return
		}

		vector, err := services.Assembler.Assemble(record)
		if err != nil {
			logCtx.WithError(err).Info("Predict failed. Invalid customer record.")
			metrics.Increment(metrics.IncrPredictionValidationFailure)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		result, err := services.Predictor.Predict(vector)
		if err != nil {
			logCtx.WithError(err).Error("Predict failed.")
			metrics.Increment(metrics.IncrPredictionFailure)
			status := http.StatusInternalServerError
			if errors.Is(err, M.ErrValidation) {
				status = http.StatusBadRequest
			}
			c.AbortWithStatusJSON(status, gin.H{"error": "Prediction failed."})
			return
		}

		if result.Churn {
			metrics.Increment(metrics.IncrPredictionChurnCount)
		}
		metrics.RecordLatencySince(metrics.LatencyPrediction, start)
		logCtx.WithFields(log.Fields{"label": result.Label, "probability": result.Probability}).
			Debug("Predicted churn.")
		c.JSON(http.StatusOK, result)
	}
}
