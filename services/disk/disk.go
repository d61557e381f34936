package disk

import (
	"churn/filestore"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

var _ filestore.FileManager = (*DiskDriver)(nil)

type DiskDriver struct {
	// Root of the artifacts and datasets directories.
	// Analogus to bucket name.
	baseDir string
}

func New(baseDir string) *DiskDriver {
	return &DiskDriver{baseDir: strings.TrimSuffix(baseDir, "/")}
}

// Get opens a file in read only mode.
// Caller should take care of closing the returned io.ReadCloser.
func (dd *DiskDriver) Get(path, fileName string) (io.ReadCloser, error) {
	log.WithFields(log.Fields{
		"Path":     path,
		"FileName": fileName,
	}).Debug("DiskDriver Opening file")

	if !strings.HasSuffix(path, "/") {
		// Append / to the end if not present.
		path = path + "/"
	}
	file, err := os.OpenFile(path+fileName, os.O_RDONLY, 0444)
	return file, err
}

func (dd *DiskDriver) GetBucketName() string {
	return dd.baseDir
}

func (dd *DiskDriver) GetObjectSize(path, fileName string) (int64, error) {
	if !strings.HasSuffix(path, "/") {
		path = path + "/"
	}
	objInfo, err := os.Stat(path + fileName)
	if err != nil {
		return 0, err
	}
	return objInfo.Size(), nil
}

func (dd *DiskDriver) GetArtifactsDir() string {
	return fmt.Sprintf("%s/artifacts/", dd.baseDir)
}

func (dd *DiskDriver) GetModelFilePathAndName(format string) (string, string) {
	return dd.GetArtifactsDir(), filestore.ModelFileName(format)
}

func (dd *DiskDriver) GetScalerFilePathAndName() (string, string) {
	return dd.GetArtifactsDir(), filestore.ScalerFileName
}

func (dd *DiskDriver) GetDefaultDatasetFilePathAndName() (string, string) {
	return fmt.Sprintf("%s/datasets/", dd.baseDir), filestore.DefaultDatasetFileName
}
