package model

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrValidation is matched by every input validation failure,
// including unknown categories.
var ErrValidation = errors.New("validation failed")

// ValidationError is returned for out of range or malformed input fields.
type ValidationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value %v for %s: %s", e.Value, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// UnknownCategoryError is returned when a categorical value is not part of
// its attribute's encoding domain.
type UnknownCategoryError struct {
	Attribute string
	Value     string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q for %s", e.Value, e.Attribute)
}

func (e *UnknownCategoryError) Is(target error) bool {
	return target == ErrValidation
}

// ScalingError is returned when a feature vector does not match the
// dimensionality the scaler was fitted with.
type ScalingError struct {
	Expected int
	Got      int
}

func (e *ScalingError) Error() string {
	return fmt.Sprintf("feature vector has %d values, scaler expects %d", e.Got, e.Expected)
}

// MissingColumnError is returned when a required dataset column is absent.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %s", e.Column)
}

// ArtifactLoadError is returned when the model, scaler or dataset cannot be
// read or does not match the expected feature schema.
type ArtifactLoadError struct {
	Artifact string
	Path     string
	Err      error
}

func (e *ArtifactLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to load %s: %v", e.Artifact, e.Err)
	}
	return fmt.Sprintf("failed to load %s from %s: %v", e.Artifact, e.Path, e.Err)
}

func (e *ArtifactLoadError) Unwrap() error {
	return e.Err
}
