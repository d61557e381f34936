package quickchart

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChartConfig(t *testing.T) {
	config := NewChartConfig(ChartTypeBar, "Churn by Contract", []string{"Month-to-month", "One year"},
		NewIntDataset("No", []int{1, 2}), NewIntDataset("Yes", []int{3, 0}))

	assert.Equal(t, ChartTypeBar, config.Type)
	require.NotNil(t, config.Options)
	assert.Equal(t, "Churn by Contract", config.Options.Title.Text)
	assert.Len(t, config.Data.DataSets, 2)
	assert.Equal(t, SeriesColors[0], config.Data.DataSets[0].BackgroundColor)
	assert.Equal(t, SeriesColors[1], config.Data.DataSets[1].BackgroundColor)

	untitled := NewChartConfig(ChartTypePie, "", []string{"No", "Yes"}, NewIntDataset("Churn", []int{4, 3}))
	assert.Nil(t, untitled.Options)
	assert.Equal(t, "", untitled.Data.DataSets[0].BackgroundColor)
}

func TestGetChartImageUrlForConfig(t *testing.T) {
	config := NewChartConfig(ChartTypeBoxPlot, "MonthlyCharges by Churn", []string{"No", "Yes"},
		NewBoxPlotDataset("MonthlyCharges", []BoxPlotPoint{
			{Min: 20, Q1: 30, Median: 50, Q3: 70, Max: 110},
			{Min: 25, Q1: 60, Median: 75, Q3: 90, Max: 115, Outliers: []float64{118}},
		}))

	chartURL, err := GetChartImageUrlForConfig(config)
	assert.Nil(t, err)
	assert.NotEmpty(t, chartURL)
	_, err = url.Parse(chartURL)
	assert.Nil(t, err)

	unescaped, err := url.QueryUnescape(chartURL)
	assert.Nil(t, err)
	assert.True(t, strings.Contains(unescaped, "boxplot"))
}

func TestGetTableURLfromTableConfig(t *testing.T) {
	config := TableConfig{
		Title:   "Correlation",
		Columns: []Column{{Width: 100, Title: "Column", DataIndex: "column"}},
		DataSource: []interface{}{
			map[string]interface{}{"column": "tenure"},
		},
	}
	tableURL, err := GetTableURLfromTableConfig(config)
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(tableURL, "https://api.quickchart.io/v1/table?data="))

	parsed, err := url.Parse(tableURL)
	require.Nil(t, err)
	var decoded TableConfig
	assert.Nil(t, json.Unmarshal([]byte(parsed.Query().Get("data")), &decoded))
	assert.Equal(t, "Correlation", decoded.Title)
}
