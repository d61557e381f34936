package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	C "churn/config"
	"churn/dashboard"
	"churn/dataset"
	"churn/metrics"
	mid "churn/middleware"
	M "churn/model"
	U "churn/util"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Query and form parameters of the analysis routes.
const (
	ParamTab     = "tab"
	ParamColumn  = "column"
	ParamShowRaw = "show_raw"
	ParamRawRows = "raw_rows"
	ParamBins    = "bins"
	FormFile     = "file"
)

const maxRawRows = 100

func getDashboardOptions(c *gin.Context) (dashboard.Options, error) {
	opts := dashboard.Options{
		Tab:     c.Query(ParamTab),
		Column:  c.Query(ParamColumn),
		ShowRaw: U.ParseBoolParam(c.Query(ParamShowRaw)),
	}
	if value := c.Query(ParamRawRows); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 || n > maxRawRows {
			return opts, &dashboard.InvalidOptionError{Option: ParamRawRows, Value: value}
		}
		opts.RawRows = n
	}
	if value := c.Query(ParamBins); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return opts, &dashboard.InvalidOptionError{Option: ParamBins, Value: value}
		}
		opts.Bins = n
	}
	return opts, nil
}

// DefaultDatasetAnalysisHandler analyses the bundled Telco dataset.
func DefaultDatasetAnalysisHandler(services *C.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logCtx := log.WithField("reqId", U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID))
		metrics.Increment(metrics.IncrAnalysisCount)

		opts, err := getDashboardOptions(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		path, name := services.FileManager.GetDefaultDatasetFilePathAndName()
		logCtx = logCtx.WithField("dataset", path+name)
		reader, err := services.FileManager.Get(path, name)
		if err != nil {
			logCtx.WithError(err).Error("Failed to open default dataset.")
			metrics.Increment(metrics.IncrAnalysisFailure)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Default dataset is not available."})
			return
		}
		defer reader.Close()

		ds, err := dataset.ReadCSV(reader, services.Config.Delimiter())
		if err != nil {
			logCtx.WithError(err).Error("Failed to read default dataset.")
			metrics.Increment(metrics.IncrAnalysisFailure)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Default dataset is not readable."})
			return
		}

		buildAnalysisResponse(c, logCtx, ds, opts, http.StatusInternalServerError)
		metrics.RecordLatencySince(metrics.LatencyAnalysis, start)
	}
}

// UploadedDatasetAnalysisHandler analyses a CSV uploaded as the file form field.
func UploadedDatasetAnalysisHandler(services *C.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logCtx := log.WithField("reqId", U.GetScopeByKeyAsString(c, mid.SCOPE_REQ_ID))
		metrics.Increment(metrics.IncrAnalysisCount)
		metrics.Increment(metrics.IncrAnalysisUploadCount)

		opts, err := getDashboardOptions(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		fileHeader, err := c.FormFile(FormFile)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Uploaded file is too large."})
				return
			}
			logCtx.WithError(err).Info("Analysis upload without a file.")
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing CSV file."})
			return
		}
		logCtx = logCtx.WithFields(log.Fields{"fileName": fileHeader.Filename, "size": fileHeader.Size})
		if !U.IsCSVFileName(fileHeader.Filename) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Only .csv files are supported."})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			logCtx.WithError(err).Error("Failed to open uploaded file.")
			metrics.Increment(metrics.IncrAnalysisFailure)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file."})
			return
		}
		defer file.Close()

		ds, err := readUpload(file, services.Config.Delimiter())
		if err != nil {
			logCtx.WithError(err).Info("Uploaded file is not a valid CSV.")
			metrics.Increment(metrics.IncrAnalysisFailure)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is not a valid CSV: " + err.Error()})
			return
		}

		buildAnalysisResponse(c, logCtx, ds, opts, http.StatusBadRequest)
		metrics.RecordLatencySince(metrics.LatencyAnalysis, start)
	}
}

func readUpload(r io.Reader, delimiter rune) (*dataset.Dataset, error) {
	ds, err := dataset.ReadCSV(r, delimiter)
	if err != nil {
		return nil, err
	}
	if ds.NumRows() == 0 {
		return nil, errors.New("no data rows")
	}
	return ds, nil
}

// buildAnalysisResponse cleans the dataset and writes the report. A missing
// column fails with missingColumnStatus: the bundled dataset is expected to
// be complete, an upload is not.
func buildAnalysisResponse(c *gin.Context, logCtx *log.Entry, ds *dataset.Dataset,
	opts dashboard.Options, missingColumnStatus int) {

	cleaned, err := dataset.Clean(ds)
	if err != nil {
		logCtx.WithError(err).Error("Failed to clean dataset.")
		metrics.Increment(metrics.IncrAnalysisFailure)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to clean dataset."})
		return
	}
	metrics.CountInt(metrics.CountDatasetDroppedRows, int64(cleaned.DroppedRows))

	report, err := dashboard.Build(cleaned, opts)
	if err != nil {
		metrics.Increment(metrics.IncrAnalysisFailure)
		var missing *M.MissingColumnError
		switch {
		case errors.As(err, &missing):
			logCtx.WithError(err).Info("Dataset is missing a required column.")
			c.AbortWithStatusJSON(missingColumnStatus, gin.H{"error": err.Error()})
		case errors.Is(err, M.ErrValidation):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logCtx.WithError(err).Error("Failed to build analysis report.")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to build analysis report."})
		}
		return
	}
	c.JSON(http.StatusOK, report)
}
