package metrics

import (
	"context"
	"time"

	"contrib.go.opencensus.io/exporter/stackdriver"
	log "github.com/sirupsen/logrus"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Metric names. The prefix is the unit: Incr and Count go to the counter
// measure, Latency to the latency distribution.
const (
	IncrPredictionCount             = "prediction_count"
	IncrPredictionChurnCount        = "prediction_churn_count"
	IncrPredictionValidationFailure = "prediction_validation_failure"
	IncrPredictionFailure           = "prediction_failure"
	LatencyPrediction               = "prediction_latency"

	IncrAnalysisCount       = "analysis_count"
	IncrAnalysisUploadCount = "analysis_upload_count"
	IncrAnalysisFailure     = "analysis_failure"
	CountDatasetDroppedRows = "dataset_dropped_rows"
	LatencyAnalysis         = "analysis_latency"

	IncrBatchPredictionCount = "batch_prediction_count"
)

var (
	latencyMs = stats.Float64("churn/latency", "Request latency in milliseconds", stats.UnitMilliseconds)
	events    = stats.Int64("churn/events", "Number of events of a metric", stats.UnitDimensionless)

	// NameKey tags every measurement with its metric name.
	NameKey, _ = tag.NewKey("metric_name")
)

// Stackdriver does not honour the buckets but export fails without them.
var latencyBucketsMs = []float64{0, 5, 25, 100, 250, 1000, 5000}

func views() []*view.View {
	return []*view.View{
		{
			Name:        "churn_latency",
			Description: "Latency distribution per metric",
			Measure:     latencyMs,
			Aggregation: view.Distribution(latencyBucketsMs...),
			TagKeys:     []tag.Key{NameKey},
		},
		{
			Name:        "churn_event_count",
			Description: "Event count per metric",
			Measure:     events,
			Aggregation: view.Sum(),
			TagKeys:     []tag.Key{NameKey},
		},
	}
}

// serviceTask is reported as a generic_task monitored resource.
// https://cloud.google.com/monitoring/api/resources#tag_generic_task
type serviceTask struct {
	project  string
	location string
	env      string
	app      string
}

func (t *serviceTask) MonitoredResource() (string, map[string]string) {
	return "generic_task", map[string]string{
		"project_id": t.project,
		"location":   t.location,
		"namespace":  t.env,
		"job":        t.app,
		"task_id":    t.app + "-" + t.env,
	}
}

// InitMetrics registers the views and starts the stackdriver exporter.
// Returns nil in development or when no project is configured, recording
// then only feeds the local views.
func InitMetrics(env, appName, projectID, location string) *stackdriver.Exporter {
	if env == "development" || projectID == "" {
		return nil
	}
	logCtx := log.WithFields(log.Fields{"project": projectID, "app": appName})

	if err := view.Register(views()...); err != nil {
		logCtx.WithError(err).Error("Failed to register metric views.")
		return nil
	}

	exporter, err := stackdriver.NewExporter(stackdriver.Options{
		ProjectID:         projectID,
		MetricPrefix:      "custom.googleapis.com/" + appName + "/",
		ReportingInterval: time.Minute,
		MonitoredResource: &serviceTask{project: projectID, location: location, env: env, app: appName},
		Context:           context.Background(),
		Timeout:           30 * time.Second,
	})
	if err != nil {
		logCtx.WithError(err).Error("Failed to create metrics exporter.")
		return nil
	}
	view.SetReportingPeriod(time.Minute)
	if err := exporter.StartMetricsExporter(); err != nil {
		logCtx.WithError(err).Error("Failed to start metrics exporter.")
		return nil
	}
	logCtx.Info("Metrics exporter started.")
	return exporter
}

func record(metricName string, m stats.Measurement) {
	ctx, err := tag.New(context.Background(), tag.Upsert(NameKey, metricName))
	if err != nil {
		log.WithError(err).WithField("metric", metricName).Error("Failed to tag metric.")
		return
	}
	stats.Record(ctx, m)
}

// Increment adds one to the metric.
func Increment(metricName string) {
	CountInt(metricName, 1)
}

func CountInt(metricName string, count int64) {
	record(metricName, events.M(count))
}

// RecordLatency records latency in milliseconds.
func RecordLatency(metricName string, latency float64) {
	record(metricName, latencyMs.M(latency))
}

func RecordLatencySince(metricName string, start time.Time) {
	RecordLatency(metricName, float64(time.Since(start).Milliseconds()))
}

// StopMetrics flushes pending data and stops the exporter.
func StopMetrics(exporter *stackdriver.Exporter) {
	if exporter == nil {
		return
	}
	exporter.Flush()
	exporter.StopMetricsExporter()
}
