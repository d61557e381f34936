package main

import (
	"encoding/csv"
	"flag"
	"io"
	"os"
	"strconv"
	"strings"

	C "churn/config"
	"churn/dataset"
	"churn/features"
	"churn/metrics"
	"churn/predict"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	log "github.com/sirupsen/logrus"
)

// Columns appended to every scored row.
const (
	ColumnPredictedLabel       = "predicted_label"
	ColumnPredictedProbability = "churn_probability"
	ColumnPredictionError      = "prediction_error"
)

// go run scripts/run_batch_predict/main.go --input=customers.csv --artifact_base_dir=.
func main() {
	configFile := flag.String("config", "", "Path to a yaml configuration file")
	input := flag.String("input", "", "CSV file of customers to score")
	output := flag.String("output", "", "Output CSV, defaults to <input>.predictions.csv")
	artifactBaseDir := flag.String("artifact_base_dir", "", "Overrides artifact_base_dir of the configuration")
	flag.Parse()

	if *input == "" {
		log.Fatal("--input is required.")
	}
	if *output == "" {
		*output = strings.TrimSuffix(*input, ".csv") + ".predictions.csv"
	}

	config, err := C.Load(*configFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration.")
	}
	if *artifactBaseDir != "" {
		config.ArtifactBaseDir = *artifactBaseDir
	}
	C.InitLogging(config)
	defer C.SafeFlushSentryHook()

	services, err := C.InitServices(config)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize.")
	}
	defer services.Close()

	logCtx := log.WithFields(log.Fields{"input": *input, "output": *output})

	in, err := os.Open(*input)
	if err != nil {
		logCtx.WithError(err).Fatal("Failed to open input.")
	}
	defer in.Close()

	ds, err := dataset.ReadCSV(in, config.Delimiter())
	if err != nil {
		logCtx.WithError(err).Fatal("Failed to read input.")
	}

	out, err := os.Create(*output)
	if err != nil {
		logCtx.WithError(err).Fatal("Failed to create output.")
	}
	defer out.Close()

	bar := progressbar.Default(int64(ds.NumRows()), "scoring")
	scored, failed, err := scoreDataset(ds, services.Assembler, services.Predictor, out, bar)
	if err != nil {
		logCtx.WithError(err).Fatal("Batch prediction failed.")
	}
	metrics.CountInt(metrics.IncrBatchPredictionCount, int64(scored))
	logCtx.WithFields(log.Fields{"scored": scored, "failed": failed}).Info("Batch prediction done.")
}

// scoreDataset predicts every row of ds and writes it to w with the
// prediction columns appended. Rows that fail validation are kept with the
// error text and counted as failed.
func scoreDataset(ds *dataset.Dataset, assembler *features.Assembler, predictor *predict.Predictor,
	w io.Writer, bar *progressbar.ProgressBar) (int, int, error) {

	writer := csv.NewWriter(w)
	header := append(ds.Header(), ColumnPredictedLabel, ColumnPredictedProbability, ColumnPredictionError)
	if err := writer.Write(header); err != nil {
		return 0, 0, errors.Wrap(err, "write header")
	}

	scored, failed := 0, 0
	for i := 0; i < ds.NumRows(); i++ {
		row := ds.Row(i)
		label, probability, predErr := scoreRecord(ds.Record(i), assembler, predictor)
		if predErr != nil {
			failed++
			row = append(row, "", "", predErr.Error())
		} else {
			scored++
			row = append(row, label, strconv.FormatFloat(probability, 'f', 4, 64), "")
		}
		if err := writer.Write(row); err != nil {
			return scored, failed, errors.Wrapf(err, "write row %d", i)
		}
		_ = bar.Add(1)
	}

	writer.Flush()
	return scored, failed, writer.Error()
}

func scoreRecord(fields map[string]string, assembler *features.Assembler,
	predictor *predict.Predictor) (string, float64, error) {

	record, err := features.ParseCustomerRecord(fields)
	if err != nil {
		return "", 0, err
	}
	vector, err := assembler.Assemble(record)
	if err != nil {
		return "", 0, err
	}
	result, err := predictor.Predict(vector)
	if err != nil {
		return "", 0, err
	}
	return result.Label, result.Probability, nil
}
