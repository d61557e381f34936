package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"churn/filestore"
	serviceDisk "churn/services/disk"
	serviceS3 "churn/services/s3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, ioutil.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.Nil(t, err)
	assert.Equal(t, DefaultConfiguration(), *c)
	assert.True(t, c.IsDevelopment())
	assert.Equal(t, ',', c.Delimiter())
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfigFile(t, `
env: staging
port: 9090
model_format: json
dataset_delimiter: ";"
allowed_origins:
  - https://churn.example.com
`)
	t.Setenv("CHURN_PORT", "7070")

	c, err := Load(path)
	require.Nil(t, err)
	// Environment wins over the file.
	assert.Equal(t, 7070, c.Port)
	// File wins over defaults.
	assert.Equal(t, "staging", c.Env)
	assert.False(t, c.IsDevelopment())
	assert.Equal(t, ';', c.Delimiter())
	assert.Equal(t, []string{"https://churn.example.com"}, c.AllowedOrigins)
	// Defaults fill the rest.
	assert.Equal(t, ArtifactStoreDisk, c.ArtifactStore)
	assert.Equal(t, int64(32<<20), c.MaxUploadBytes)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(t, err)

	_, err = Load(writeConfigFile(t, "unknown_key: 1\n"))
	assert.NotNil(t, err)

	_, err = Load(writeConfigFile(t, "artifact_store: s3\n"))
	assert.NotNil(t, err)

	_, err = Load(writeConfigFile(t, "model_format: pickle\n"))
	assert.NotNil(t, err)

	t.Setenv("CHURN_PORT", "not-a-port")
	_, err = Load("")
	assert.NotNil(t, err)
}

func TestDelimiter(t *testing.T) {
	tests := []struct {
		value string
		want  rune
	}{
		{"", ','},
		{",", ','},
		{"|", '|'},
		{`\t`, '\t'},
	}
	for _, tt := range tests {
		c := &Configuration{DatasetDelimiter: tt.value}
		assert.Equal(t, tt.want, c.Delimiter())
	}
}

func TestNewFileManager(t *testing.T) {
	c := DefaultConfiguration()
	c.ArtifactBaseDir = "/var/churn"
	fm, err := NewFileManager(&c)
	require.Nil(t, err)
	assert.IsType(t, &serviceDisk.DiskDriver{}, fm)
	path, name := fm.GetScalerFilePathAndName()
	assert.Equal(t, "/var/churn/artifacts/", path)
	assert.Equal(t, filestore.ScalerFileName, name)

	c.ArtifactStore = ArtifactStoreS3
	c.ArtifactBucket = "churn-artifacts"
	fm, err = NewFileManager(&c)
	require.Nil(t, err)
	assert.IsType(t, &serviceS3.S3Driver{}, fm)
	assert.Equal(t, "churn-artifacts", fm.GetBucketName())
}

func TestInitServices(t *testing.T) {
	c := DefaultConfiguration()
	c.ArtifactBaseDir = ".."
	services, err := InitServices(&c)
	require.Nil(t, err)
	defer services.Close()
	assert.NotNil(t, services.Predictor)
	assert.NotNil(t, services.Assembler)
	assert.Nil(t, services.MetricsExporter)

	c.ArtifactBaseDir = t.TempDir()
	_, err = InitServices(&c)
	assert.NotNil(t, err)
}

func TestInitLogging(t *testing.T) {
	c := DefaultConfiguration()
	InitLogging(&c)
	SafeFlushSentryHook()
}

func TestLoadExampleFile(t *testing.T) {
	c, err := Load("config.example.yaml")
	require.Nil(t, err)
	assert.Equal(t, ArtifactStoreDisk, c.ArtifactStore)
	assert.Equal(t, int64(32<<20), c.MaxUploadBytes)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
}
