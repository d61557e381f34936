package config

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"time"

	"churn/features"
	"churn/filestore"
	"churn/metrics"
	"churn/predict"
	serviceDisk "churn/services/disk"
	serviceGCS "churn/services/gcstorage"
	serviceS3 "churn/services/s3"

	"contrib.go.opencensus.io/exporter/stackdriver"
	"github.com/evalphobia/logrus_sentry"
	"github.com/imdario/mergo"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	DEVELOPMENT = "development"
	EnvPrefix   = "churn"

	ArtifactStoreDisk = "disk"
	ArtifactStoreS3   = "s3"
	ArtifactStoreGCS  = "gcs"
)

type Configuration struct {
	AppName          string   `yaml:"app_name" envconfig:"APP_NAME"`
	Env              string   `yaml:"env" envconfig:"ENV"`
	Port             int      `yaml:"port" envconfig:"PORT"`
	ArtifactStore    string   `yaml:"artifact_store" envconfig:"ARTIFACT_STORE"`
	ArtifactBaseDir  string   `yaml:"artifact_base_dir" envconfig:"ARTIFACT_BASE_DIR"`
	ArtifactBucket   string   `yaml:"artifact_bucket" envconfig:"ARTIFACT_BUCKET"`
	AWSRegion        string   `yaml:"aws_region" envconfig:"AWS_REGION"`
	ModelFormat      string   `yaml:"model_format" envconfig:"MODEL_FORMAT"`
	ONNXLibraryPath  string   `yaml:"onnx_library_path" envconfig:"ONNX_LIBRARY_PATH"`
	DatasetDelimiter string   `yaml:"dataset_delimiter" envconfig:"DATASET_DELIMITER"`
	MaxUploadBytes   int64    `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	AllowedOrigins   []string `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	SentryDSN        string   `yaml:"sentry_dsn" envconfig:"SENTRY_DSN"`
	MetricsProjectID string   `yaml:"metrics_project_id" envconfig:"METRICS_PROJECT_ID"`
	MetricsLocation  string   `yaml:"metrics_location" envconfig:"METRICS_LOCATION"`
}

// DefaultConfiguration runs the service against the bundled artifacts.
func DefaultConfiguration() Configuration {
	return Configuration{
		AppName:          "churn_server",
		Env:              DEVELOPMENT,
		Port:             8080,
		ArtifactStore:    ArtifactStoreDisk,
		ArtifactBaseDir:  ".",
		AWSRegion:        "us-east-1",
		ModelFormat:      filestore.ModelFormatJSON,
		DatasetDelimiter: ",",
		MaxUploadBytes:   32 << 20,
		AllowedOrigins:   []string{"*"},
		MetricsLocation:  "us-east1",
	}
}

func (c *Configuration) IsDevelopment() bool {
	return strings.Compare(c.Env, DEVELOPMENT) == 0
}

// Delimiter returns the configured dataset delimiter as a rune.
func (c *Configuration) Delimiter() rune {
	if c.DatasetDelimiter == "" {
		return ','
	}
	if c.DatasetDelimiter == `\t` {
		return '\t'
	}
	return []rune(c.DatasetDelimiter)[0]
}

// Load builds the configuration from the optional YAML file and CHURN_*
// environment variables. Environment wins over the file, defaults fill what
// neither sets.
func Load(configFilePath string) (*Configuration, error) {
	var fileConfig Configuration
	if configFilePath != "" {
		configFileAbsPath, _ := filepath.Abs(configFilePath)
		logCtx := log.WithFields(log.Fields{"file": configFileAbsPath})

		raw, err := ioutil.ReadFile(configFileAbsPath)
		if err != nil {
			logCtx.WithError(err).Error("Failed to load config")
			return nil, err
		}
		if err := yaml.UnmarshalStrict(raw, &fileConfig); err != nil {
			logCtx.WithError(err).Error("Failed to unmarshal yaml")
			return nil, err
		}
		logCtx.Info("Config File Loaded")
	}

	var configuration Configuration
	if err := envconfig.Process(EnvPrefix, &configuration); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := mergo.Merge(&configuration, fileConfig); err != nil {
		return nil, errors.Wrap(err, "merge config file")
	}
	if err := mergo.Merge(&configuration, DefaultConfiguration()); err != nil {
		return nil, errors.Wrap(err, "merge defaults")
	}
	if err := configuration.Validate(); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func (c *Configuration) Validate() error {
	switch c.ArtifactStore {
	case ArtifactStoreDisk:
	case ArtifactStoreS3, ArtifactStoreGCS:
		if c.ArtifactBucket == "" {
			return fmt.Errorf("artifact_bucket is required for %s store", c.ArtifactStore)
		}
	default:
		return fmt.Errorf("unknown artifact_store %s", c.ArtifactStore)
	}
	if c.ModelFormat != filestore.ModelFormatJSON && c.ModelFormat != filestore.ModelFormatONNX {
		return fmt.Errorf("unknown model_format %s", c.ModelFormat)
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid max_upload_bytes %d", c.MaxUploadBytes)
	}
	return nil
}

var sentryHook *logrus_sentry.SentryHook

func InitLogging(c *Configuration) {
	// Log as JSON instead of the default ASCII formatter.
	log.SetFormatter(&log.JSONFormatter{})

	if c.IsDevelopment() {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
	initSentryHook(c)
}

func initSentryHook(c *Configuration) {
	if c.SentryDSN == "" {
		return
	}
	hook, err := logrus_sentry.NewSentryHook(c.SentryDSN, []log.Level{
		log.PanicLevel,
		log.FatalLevel,
		log.ErrorLevel,
	})
	if err != nil {
		log.WithError(err).Error("Failed to initialize sentry hook.")
		return
	}
	hook.Timeout = 20 * time.Second
	hook.StacktraceConfiguration.Enable = true
	hook.SetEnvironment(c.Env)
	log.AddHook(hook)
	sentryHook = hook
}

// SafeFlushSentryHook waits for pending events to be sent.
func SafeFlushSentryHook() {
	if sentryHook != nil {
		sentryHook.Flush()
	}
}

// Services are built once at start and handed to the handlers.
type Services struct {
	Config          *Configuration
	FileManager     filestore.FileManager
	Assembler       *features.Assembler
	Predictor       *predict.Predictor
	MetricsExporter *stackdriver.Exporter
}

// NewFileManager returns the artifact store of the configuration.
func NewFileManager(c *Configuration) (filestore.FileManager, error) {
	switch c.ArtifactStore {
	case ArtifactStoreS3:
		return serviceS3.New(c.ArtifactBucket, c.AWSRegion), nil
	case ArtifactStoreGCS:
		return serviceGCS.New(c.ArtifactBucket)
	default:
		return serviceDisk.New(c.ArtifactBaseDir), nil
	}
}

// InitServices loads the prediction artifacts and starts the metrics exporter.
// Failing to load the artifacts is fatal for the server.
func InitServices(c *Configuration) (*Services, error) {
	fileManager, err := NewFileManager(c)
	if err != nil {
		log.WithError(err).Error("Failed to initialize artifact store.")
		return nil, err
	}

	if c.ModelFormat == filestore.ModelFormatONNX {
		if err := predict.InitONNXRuntime(c.ONNXLibraryPath); err != nil {
			log.WithError(err).Error("Failed to initialize onnxruntime.")
			return nil, err
		}
	}

	predictor, err := predict.LoadArtifacts(fileManager, c.ModelFormat)
	if err != nil {
		log.WithError(err).Error("Failed to load prediction artifacts.")
		return nil, err
	}
	log.WithFields(log.Fields{"store": c.ArtifactStore, "format": c.ModelFormat}).Info("Predictor initialized")

	return &Services{
		Config:          c,
		FileManager:     fileManager,
		Assembler:       features.NewAssembler(features.DefaultEncodingTable()),
		Predictor:       predictor,
		MetricsExporter: metrics.InitMetrics(c.Env, c.AppName, c.MetricsProjectID, c.MetricsLocation),
	}, nil
}

// Close releases the predictor and flushes metrics.
func (s *Services) Close() {
	if err := s.Predictor.Close(); err != nil {
		log.WithError(err).Error("Failed to close predictor.")
	}
	if s.Config.ModelFormat == filestore.ModelFormatONNX {
		predict.DestroyONNXRuntime()
	}
	metrics.StopMetrics(s.MetricsExporter)
}
