package predict

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"churn/features"
	"churn/filestore"
	M "churn/model"
	serviceDisk "churn/services/disk"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func copyTestArtifacts(t *testing.T) string {
	baseDir := t.TempDir()
	artifactsDir := filepath.Join(baseDir, "artifacts")
	require.Nil(t, os.MkdirAll(artifactsDir, 0755))
	for _, name := range []string{filestore.ScalerFileName, filestore.ModelFileNameJSON} {
		data, err := ioutil.ReadFile(filepath.Join("testdata", name))
		require.Nil(t, err)
		require.Nil(t, ioutil.WriteFile(filepath.Join(artifactsDir, name), data, 0644))
	}
	return baseDir
}

func assemble(t *testing.T, record M.CustomerRecord) features.FeatureVector {
	vector, err := features.NewAssembler(features.DefaultEncodingTable()).Assemble(record)
	require.Nil(t, err)
	return vector
}

func TestStandardScalerTransform(t *testing.T) {
	scaler, err := NewStandardScaler(nil, []float64{1, 10, 5}, []float64{2, 5, 0})
	require.Nil(t, err)

	out, err := scaler.Transform([]float64{3, 0, 7})
	assert.Nil(t, err)
	// Zero scale leaves the centred value as is.
	assert.Equal(t, []float64{1, -2, 2}, out)

	_, err = scaler.Transform([]float64{1, 2})
	var scalingErr *M.ScalingError
	assert.True(t, errors.As(err, &scalingErr))
	assert.Equal(t, 3, scalingErr.Expected)
	assert.Equal(t, 2, scalingErr.Got)
}

func TestLoadStandardScalerRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"NotJSON", "mean=1"},
		{"WrongType", `{"type":"min_max_scaler","mean":[1],"scale":[1]}`},
		{"LengthMismatch", `{"mean":[1,2],"scale":[1]}`},
		{"Empty", `{"mean":[],"scale":[]}`},
		{"NamesMismatch", `{"feature_names":["a"],"mean":[1,2],"scale":[1,1]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadStandardScaler(strings.NewReader(tt.body))
			assert.NotNil(t, err)
		})
	}
}

func TestLogisticRegression(t *testing.T) {
	lr, err := LoadLogisticRegression(strings.NewReader(
		`{"type":"logistic_regression","coef":[1,-1],"intercept":0,"classes":[0,1],"threshold":0.5}`))
	require.Nil(t, err)
	assert.Equal(t, 2, lr.Dim())

	class, err := lr.Predict([]float64{2, 0})
	assert.Nil(t, err)
	assert.Equal(t, 1, class)
	proba, err := lr.PredictProba([]float64{2, 0})
	assert.Nil(t, err)
	assert.InDelta(t, 0.8808, proba[1], 1e-4)
	assert.InDelta(t, 1.0, proba[0]+proba[1], 1e-12)

	class, err = lr.Predict([]float64{0, 2})
	assert.Nil(t, err)
	assert.Equal(t, 0, class)

	_, err = lr.Predict([]float64{1})
	assert.NotNil(t, err)

	_, err = LoadLogisticRegression(strings.NewReader(`{"coef":[1],"threshold":1.5}`))
	assert.NotNil(t, err)
	_, err = LoadLogisticRegression(strings.NewReader(`{"coef":[1],"classes":[0,1,2]}`))
	assert.NotNil(t, err)
}

func TestNewPredictorVerifiesDimensions(t *testing.T) {
	scaler, err := NewStandardScaler(nil, make([]float64, 19), make([]float64, 19))
	require.Nil(t, err)
	lr := &LogisticRegression{coef: make([]float64, 18), threshold: 0.5, classes: [2]int{0, 1}}

	_, err = NewPredictor(scaler, lr)
	var loadErr *M.ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "scaler", loadErr.Artifact)

	scaler, err = NewStandardScaler(nil, make([]float64, 18), make([]float64, 18))
	require.Nil(t, err)
	lr.names = make([]string, 18)
	copy(lr.names, features.FeatureOrder)
	lr.names[17] = M.ColumnTotalCharges
	_, err = NewPredictor(scaler, lr)
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "model", loadErr.Artifact)

	lr.names = nil
	_, err = NewPredictor(scaler, lr)
	assert.Nil(t, err)
}

func TestLoadArtifactsAndPredict(t *testing.T) {
	fm := serviceDisk.New(copyTestArtifacts(t))
	predictor, err := LoadArtifacts(fm, filestore.ModelFormatJSON)
	require.Nil(t, err)
	defer predictor.Close()

	// The fixture model scores sigmoid(1 - 0.1 * tenure).
	record := M.DefaultCustomerRecord()
	record.Tenure = 0
	result, err := predictor.Predict(assemble(t, record))
	assert.Nil(t, err)
	assert.Equal(t, M.LabelChurn, result.Label)
	assert.True(t, result.Churn)
	assert.InDelta(t, 0.7311, result.Probability, 1e-4)
	assert.Contains(t, result.Message, "0.73")

	record.Tenure = 72
	result, err = predictor.Predict(assemble(t, record))
	assert.Nil(t, err)
	assert.Equal(t, M.LabelNoChurn, result.Label)
	assert.False(t, result.Churn)
	assert.InDelta(t, 0.0020, result.Probability, 1e-4)
}

func TestPredictScalingError(t *testing.T) {
	fm := serviceDisk.New(copyTestArtifacts(t))
	predictor, err := LoadArtifacts(fm, filestore.ModelFormatJSON)
	require.Nil(t, err)

	_, err = predictor.Predict(features.FeatureVector{Values: make([]float64, 19)})
	var scalingErr *M.ScalingError
	assert.True(t, errors.As(err, &scalingErr))
}

func TestLoadArtifactsMissing(t *testing.T) {
	fm := serviceDisk.New(t.TempDir())
	_, err := LoadArtifacts(fm, filestore.ModelFormatJSON)
	var loadErr *M.ArtifactLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "scaler", loadErr.Artifact)
	assert.True(t, os.IsNotExist(errors.Cause(loadErr.Err)))

	fm = serviceDisk.New(copyTestArtifacts(t))
	_, err = LoadArtifacts(fm, "pickle")
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "model", loadErr.Artifact)
}

func TestBundledArtifacts(t *testing.T) {
	predictor, err := LoadArtifacts(serviceDisk.New(".."), filestore.ModelFormatJSON)
	require.Nil(t, err)

	result, err := predictor.Predict(assemble(t, M.DefaultCustomerRecord()))
	assert.Nil(t, err)
	assert.True(t, result.Probability >= 0 && result.Probability <= 1)
	assert.Equal(t, result.Probability >= 0.5, result.Churn)

	// New fibre customer on a monthly contract.
	record := M.DefaultCustomerRecord()
	record.Tenure = 1
	record.InternetService = "Fiber optic"
	record.MonthlyCharges = 95
	result, err = predictor.Predict(assemble(t, record))
	assert.Nil(t, err)
	assert.True(t, result.Churn)
}

func TestBundledArtifactsDeterministic(t *testing.T) {
	predictor, err := LoadArtifacts(serviceDisk.New(".."), filestore.ModelFormatJSON)
	require.Nil(t, err)
	defer predictor.Close()

	vector := assemble(t, M.DefaultCustomerRecord())
	values := append([]float64(nil), vector.Values...)

	first, err := predictor.Predict(vector)
	require.Nil(t, err)
	for i := 0; i < 50; i++ {
		// A fresh vector each time, so assembly is covered too.
		result, err := predictor.Predict(assemble(t, M.DefaultCustomerRecord()))
		require.Nil(t, err)
		assert.Equal(t, first, result)
	}
	again, err := predictor.Predict(vector)
	require.Nil(t, err)
	assert.Equal(t, first, again)
	// Prediction does not touch the caller's vector.
	assert.Equal(t, values, vector.Values)
}
