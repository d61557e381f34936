package predict

import (
	"bytes"
	"fmt"
	"io/ioutil"

	"churn/features"
	"churn/filestore"
	M "churn/model"

	log "github.com/sirupsen/logrus"
)

// Predictor scales a feature vector and runs the classifier on it.
// It is built once and shared by all requests.
type Predictor struct {
	scaler     Scaler
	classifier Classifier
}

type probaPredictor interface {
	PredictWithProba(x []float64) (int, []float64, error)
}

// NewPredictor checks that both artifacts were fitted on features.FeatureOrder.
func NewPredictor(scaler Scaler, classifier Classifier) (*Predictor, error) {
	want := len(features.FeatureOrder)
	if scaler.Dim() != want {
		return nil, &M.ArtifactLoadError{Artifact: "scaler",
			Err: fmt.Errorf("fitted on %d features, expected %d", scaler.Dim(), want)}
	}
	if classifier.Dim() != want {
		return nil, &M.ArtifactLoadError{Artifact: "model",
			Err: fmt.Errorf("fitted on %d features, expected %d", classifier.Dim(), want)}
	}
	if err := checkFeatureNames(scaler.FeatureNames()); err != nil {
		return nil, &M.ArtifactLoadError{Artifact: "scaler", Err: err}
	}
	if err := checkFeatureNames(classifier.FeatureNames()); err != nil {
		return nil, &M.ArtifactLoadError{Artifact: "model", Err: err}
	}
	return &Predictor{scaler: scaler, classifier: classifier}, nil
}

func checkFeatureNames(names []string) error {
	if names == nil {
		return nil
	}
	for i, name := range names {
		if name != features.FeatureOrder[i] {
			return fmt.Errorf("feature %d is %s, expected %s", i, name, features.FeatureOrder[i])
		}
	}
	return nil
}

// Predict returns the label and churn probability for an assembled vector.
func (p *Predictor) Predict(vector features.FeatureVector) (M.PredictionResult, error) {
	scaled, err := p.scaler.Transform(vector.Values)
	if err != nil {
		return M.PredictionResult{}, err
	}

	var class int
	var proba []float64
	if pp, ok := p.classifier.(probaPredictor); ok {
		class, proba, err = pp.PredictWithProba(scaled)
		if err != nil {
			return M.PredictionResult{}, err
		}
	} else {
		class, err = p.classifier.Predict(scaled)
		if err != nil {
			return M.PredictionResult{}, err
		}
		proba, err = p.classifier.PredictProba(scaled)
		if err != nil {
			return M.PredictionResult{}, err
		}
	}
	if len(proba) < 2 {
		return M.PredictionResult{}, fmt.Errorf("classifier returned %d probabilities", len(proba))
	}
	return M.NewPredictionResult(class, proba[1]), nil
}

// Close releases the classifier.
func (p *Predictor) Close() error {
	return p.classifier.Close()
}

// LoadArtifacts reads the scaler and the model in the given format from the
// file manager and builds a Predictor.
func LoadArtifacts(fm filestore.FileManager, modelFormat string) (*Predictor, error) {
	logCtx := prLog.WithFields(log.Fields{"Bucket": fm.GetBucketName(), "ModelFormat": modelFormat})

	path, name := fm.GetScalerFilePathAndName()
	data, err := readArtifact(fm, path, name)
	if err != nil {
		return nil, &M.ArtifactLoadError{Artifact: "scaler", Path: path + name, Err: err}
	}
	scaler, err := LoadStandardScaler(bytes.NewReader(data))
	if err != nil {
		return nil, &M.ArtifactLoadError{Artifact: "scaler", Path: path + name, Err: err}
	}

	path, name = fm.GetModelFilePathAndName(modelFormat)
	data, err = readArtifact(fm, path, name)
	if err != nil {
		return nil, &M.ArtifactLoadError{Artifact: "model", Path: path + name, Err: err}
	}
	var classifier Classifier
	switch modelFormat {
	case filestore.ModelFormatONNX:
		classifier, err = NewONNXClassifier(data)
	case filestore.ModelFormatJSON, "":
		classifier, err = LoadLogisticRegression(bytes.NewReader(data))
	default:
		err = fmt.Errorf("unsupported model format %s", modelFormat)
	}
	if err != nil {
		return nil, &M.ArtifactLoadError{Artifact: "model", Path: path + name, Err: err}
	}

	predictor, err := NewPredictor(scaler, classifier)
	if err != nil {
		classifier.Close()
		return nil, err
	}
	logCtx.WithField("Features", scaler.Dim()).Info("Loaded prediction artifacts.")
	return predictor, nil
}

func readArtifact(fm filestore.FileManager, path, name string) ([]byte, error) {
	rc, err := fm.Get(path, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ioutil.ReadAll(rc)
}
