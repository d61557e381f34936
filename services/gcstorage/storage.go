package gcstorage

import (
	"context"
	"churn/filestore"
	"io"

	"cloud.google.com/go/storage"
)

const (
	separator = "/"
)

var _ filestore.FileManager = (*GCSDriver)(nil)

type GCSDriver struct {
	client     *storage.Client
	BucketName string
}

func New(bucketName string) (*GCSDriver, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	d := &GCSDriver{
		BucketName: bucketName,
		client:     client,
	}
	return d, nil
}

func (gcsd *GCSDriver) Get(dir, fileName string) (io.ReadCloser, error) {
	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	rc, err := obj.NewReader(ctx)
	return rc, err
}

func (gcsd *GCSDriver) GetBucketName() string {
	return gcsd.BucketName
}

func (gcsd *GCSDriver) GetArtifactsDir() string {
	return "artifacts" + separator
}

func (gcsd *GCSDriver) GetModelFilePathAndName(format string) (string, string) {
	return gcsd.GetArtifactsDir(), filestore.ModelFileName(format)
}

func (gcsd *GCSDriver) GetScalerFilePathAndName() (string, string) {
	return gcsd.GetArtifactsDir(), filestore.ScalerFileName
}

func (gcsd *GCSDriver) GetDefaultDatasetFilePathAndName() (string, string) {
	return "datasets" + separator, filestore.DefaultDatasetFileName
}
