package s3

import (
	"churn/filestore"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
)

const (
	separator = "/"
)

var _ filestore.FileManager = (*S3Driver)(nil)

type S3Driver struct {
	s3         *s3.S3
	BucketName string
	Region     string
}

func New(bucketName, region string) *S3Driver {
	session := session.Must(session.NewSession())
	s3 := s3.New(session, aws.NewConfig().WithRegion(region))
	return &S3Driver{s3: s3, BucketName: bucketName, Region: region}
}

func (sd *S3Driver) Get(dir, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Dir":        dir,
		"FileName":   fileName,
		"BucketName": sd.BucketName,
	}).Debug("S3Driver Getting file")

	input := s3.GetObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(dir + fileName),
	}
	op, err := sd.s3.GetObject(&input)
	if err != nil {
		return nil, err
	}
	return op.Body, nil
}

func (sd *S3Driver) GetBucketName() string {
	return sd.BucketName
}

func (sd *S3Driver) GetArtifactsDir() string {
	return "artifacts" + separator
}

func (sd *S3Driver) GetModelFilePathAndName(format string) (string, string) {
	return sd.GetArtifactsDir(), filestore.ModelFileName(format)
}

func (sd *S3Driver) GetScalerFilePathAndName() (string, string) {
	return sd.GetArtifactsDir(), filestore.ScalerFileName
}

func (sd *S3Driver) GetDefaultDatasetFilePathAndName() (string, string) {
	return "datasets" + separator, filestore.DefaultDatasetFileName
}
