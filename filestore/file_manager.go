package filestore

import (
	"io"
)

// Names of the artifacts a store is expected to hold.
const (
	ModelFileNameJSON      = "customer_churn_model.json"
	ModelFileNameONNX      = "customer_churn_model.onnx"
	ScalerFileName         = "scaler.json"
	DefaultDatasetFileName = "WA_Fn-UseC_-Telco-Customer-Churn.csv"

	ModelFormatJSON = "json"
	ModelFormatONNX = "onnx"
)

// FileManager reads the model, scaler and bundled dataset from a store.
type FileManager interface {
	// Get opens the file for reading. Callers close the returned reader.
	Get(dir, fileName string) (io.ReadCloser, error)
	GetBucketName() string
	GetArtifactsDir() string
	GetModelFilePathAndName(format string) (string, string)
	GetScalerFilePathAndName() (string, string)
	GetDefaultDatasetFilePathAndName() (string, string)
}

// ModelFileName returns the artifact file name for a model format.
func ModelFileName(format string) string {
	if format == ModelFormatONNX {
		return ModelFileNameONNX
	}
	return ModelFileNameJSON
}
