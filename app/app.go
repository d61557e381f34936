package main

import (
	"flag"
	"strconv"
	"strings"

	C "churn/config"
	H "churn/handler"
	mid "churn/middleware"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// ./app --config=config.yaml --env=development --port=8080 --artifact_store=disk --artifact_base_dir=. --model_format=json
func main() {
	configFile := flag.String("config", "", "Path to a yaml configuration file")

	env := flag.String("env", C.DEVELOPMENT, "")
	port := flag.Int("port", 8080, "")

	artifactStore := flag.String("artifact_store", C.ArtifactStoreDisk, "disk, s3 or gcs")
	artifactBaseDir := flag.String("artifact_base_dir", ".", "Directory holding artifacts/ and datasets/ for the disk store")
	artifactBucket := flag.String("artifact_bucket", "", "Bucket for the s3 and gcs stores")
	awsRegion := flag.String("aws_region", "us-east-1", "")

	modelFormat := flag.String("model_format", "json", "json or onnx")
	onnxLibraryPath := flag.String("onnx_library_path", "", "Path to the onnxruntime shared library")

	allowedOrigins := flag.String("allowed_origins", "*", "Comma separated list of allowed origins")
	sentryDSN := flag.String("sentry_dsn", "", "Sentry DSN")
	flag.Parse()

	config, err := C.Load(*configFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration.")
	}

	// Flags given on the command line win over file and environment.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "env":
			config.Env = *env
		case "port":
			config.Port = *port
		case "artifact_store":
			config.ArtifactStore = *artifactStore
		case "artifact_base_dir":
			config.ArtifactBaseDir = *artifactBaseDir
		case "artifact_bucket":
			config.ArtifactBucket = *artifactBucket
		case "aws_region":
			config.AWSRegion = *awsRegion
		case "model_format":
			config.ModelFormat = *modelFormat
		case "onnx_library_path":
			config.ONNXLibraryPath = *onnxLibraryPath
		case "allowed_origins":
			config.AllowedOrigins = strings.Split(*allowedOrigins, ",")
		case "sentry_dsn":
			config.SentryDSN = *sentryDSN
		}
	})
	if err := config.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration.")
	}

	C.InitLogging(config)
	defer C.SafeFlushSentryHook()

	services, err := C.InitServices(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
		return
	}
	defer services.Close()

	if !config.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(mid.CustomCors(config.AllowedOrigins))
	r.Use(mid.RequestIdGenerator())
	r.Use(mid.Logger())
	r.Use(mid.Recovery())
	r.Use(mid.MaxBodySize(config.MaxUploadBytes))

	H.InitAppRoutes(r, services)
	if err := r.Run(":" + strconv.Itoa(config.Port)); err != nil {
		log.WithError(err).Error("Server stopped.")
	}
}
