package quickchart

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	quickchartgo "github.com/henomis/quickchart-go"
	log "github.com/sirupsen/logrus"
)

const (
	ChartTypeBar     = "bar"
	ChartTypeBoxPlot = "boxplot"
	ChartTypePie     = "pie"
)

// Colors used for the churn label series, in label order.
var SeriesColors = []string{"#4e79a7", "#e15759", "#76b7b2", "#f28e2b", "#59a14f", "#edc948"}

type ChartConfig struct {
	Type    string        `json:"type"`
	Data    ChartData     `json:"data"`
	Options *ChartOptions `json:"options,omitempty"`
}
type ChartData struct {
	Labels   []interface{} `json:"labels"`
	DataSets []Dataset     `json:"datasets"`
}
type Dataset struct {
	Label           string        `json:"label"`
	Data            []interface{} `json:"data"`
	BackgroundColor string        `json:"backgroundColor,omitempty"`
	Fill            bool          `json:"fill"`
}
type ChartOptions struct {
	Title ChartTitle `json:"title"`
}
type ChartTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

// BoxPlotPoint is one box of a boxplot dataset.
type BoxPlotPoint struct {
	Min      float64   `json:"min"`
	Q1       float64   `json:"q1"`
	Median   float64   `json:"median"`
	Q3       float64   `json:"q3"`
	Max      float64   `json:"max"`
	Outliers []float64 `json:"outliers,omitempty"`
}

type TableConfig struct {
	Title      string        `json:"title"`
	Columns    []Column      `json:"columns"`
	DataSource []interface{} `json:"dataSource"`
}
type Column struct {
	Width     int    `json:"width"`
	Title     string `json:"title"`
	DataIndex string `json:"dataIndex"`
}

// NewChartConfig builds a chart of the given type with a title.
func NewChartConfig(chartType, title string, labels []string, datasets ...Dataset) ChartConfig {
	chartLabels := make([]interface{}, len(labels))
	for i, l := range labels {
		chartLabels[i] = l
	}
	for i := range datasets {
		if datasets[i].BackgroundColor == "" && chartType != ChartTypePie {
			datasets[i].BackgroundColor = SeriesColors[i%len(SeriesColors)]
		}
	}
	config := ChartConfig{
		Type: chartType,
		Data: ChartData{Labels: chartLabels, DataSets: datasets},
	}
	if title != "" {
		config.Options = &ChartOptions{Title: ChartTitle{Display: true, Text: title}}
	}
	return config
}

// NewIntDataset builds a dataset from counts.
func NewIntDataset(label string, values []int) Dataset {
	data := make([]interface{}, len(values))
	for i, v := range values {
		data[i] = v
	}
	return Dataset{Label: label, Data: data}
}

// NewBoxPlotDataset builds a dataset with one box per chart label.
func NewBoxPlotDataset(label string, points []BoxPlotPoint) Dataset {
	data := make([]interface{}, len(points))
	for i, p := range points {
		data[i] = p
	}
	return Dataset{Label: label, Data: data}
}

func GetChartImageUrlForConfig(config ChartConfig) (url string, err error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		log.WithError(err).Error("failed to marshal chart config")
		return "", errors.New("failed to get chart url from quickchart")
	}
	qc := quickchartgo.New()
	qc.Config = string(bytes)
	url, err = qc.GetUrl()
	if err != nil {
		log.WithError(err).Error("failed to get chart url from quickchart")
		return "", errors.New("failed to get chart url from quickchart")
	}
	return url, nil
}

func GetTableURLfromTableConfig(config TableConfig) (string, error) {
	bytes, err := json.Marshal(config)
	if err != nil {
		return "", errors.New("Failed to marshal table config")
	}
	url := fmt.Sprintf("https://api.quickchart.io/v1/table?data=%s", url.QueryEscape(string(bytes)))
	return url, nil
}
