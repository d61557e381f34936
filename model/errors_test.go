package model

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestUnknownCategoryIsValidationError(t *testing.T) {
	var err error = &UnknownCategoryError{Attribute: ColumnInternetService, Value: "Satellite"}
	assert.True(t, errors.Is(err, ErrValidation))

	wrapped := errors.Wrap(err, "assemble")
	assert.True(t, errors.Is(wrapped, ErrValidation))

	var unknown *UnknownCategoryError
	assert.True(t, errors.As(wrapped, &unknown))
	assert.Equal(t, "Satellite", unknown.Value)
}

func TestScalingErrorIsNotValidation(t *testing.T) {
	var err error = &ScalingError{Expected: 18, Got: 19}
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "19")
}

func TestArtifactLoadErrorUnwrap(t *testing.T) {
	err := &ArtifactLoadError{Artifact: "model", Path: "artifacts/model.json", Err: os.ErrNotExist}
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "artifacts/model.json")
}

func TestNewPredictionResult(t *testing.T) {
	churn := NewPredictionResult(1, 0.8123)
	assert.Equal(t, LabelChurn, churn.Label)
	assert.True(t, churn.Churn)
	assert.Contains(t, churn.Message, "0.81")

	stay := NewPredictionResult(0, 0.1)
	assert.Equal(t, LabelNoChurn, stay.Label)
	assert.False(t, stay.Churn)
}
