package dashboard

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"churn/dataset"
	M "churn/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanedFixture(t *testing.T) dataset.CleanResult {
	f, err := os.Open("../dataset/testdata/telco_small.csv")
	require.Nil(t, err)
	defer f.Close()
	ds, err := dataset.ReadCSV(f, 0)
	require.Nil(t, err)
	result, err := dataset.Clean(ds)
	require.Nil(t, err)
	return result
}

func TestBuildAllTabs(t *testing.T) {
	report, err := Build(cleanedFixture(t), Options{})
	require.Nil(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, 1, report.DroppedRows)
	assert.Equal(t, Tabs, report.Tabs)
	require.NotNil(t, report.Overview)
	require.NotNil(t, report.Categorical)
	require.NotNil(t, report.Tenure)
	require.NotNil(t, report.InternetContract)
	require.NotNil(t, report.PaymentCharges)
	require.NotNil(t, report.Correlation)
	assert.Nil(t, report.Raw)

	assert.Equal(t, 7, report.Overview.Metrics.Rows)
	assert.NotEmpty(t, report.Overview.LabelChart.URL)
	assert.Len(t, report.Overview.Describe, 3)
	assert.Len(t, report.Overview.Distributions, 2)

	assert.Equal(t, DefaultCategoricalColumn, report.Categorical.Selected)
	assert.Len(t, report.Categorical.Columns, 16)
	assert.Equal(t, 2, report.Categorical.CrossTab.Table.Count("Female", "Yes"))

	assert.Equal(t, "Churn by Tenure Group", report.Tenure.CrossTab.Chart.Title)
	assert.Equal(t, 3, report.InternetContract.Contract.Table.Count("Month-to-month", "Yes"))
	assert.Len(t, report.PaymentCharges.MonthlyCharges.Stats, 2)
	assert.True(t, strings.HasPrefix(report.Correlation.TableURL, "https://api.quickchart.io/v1/table"))

	_, err = json.Marshal(report)
	assert.Nil(t, err)
}

func TestBuildSingleTab(t *testing.T) {
	report, err := Build(cleanedFixture(t), Options{Tab: TabCategorical, Column: M.ColumnContract, ShowRaw: true})
	require.Nil(t, err)
	assert.Equal(t, []string{TabCategorical}, report.Tabs)
	assert.Nil(t, report.Overview)
	assert.Nil(t, report.Correlation)
	require.NotNil(t, report.Categorical)
	assert.Equal(t, M.ColumnContract, report.Categorical.Selected)

	require.NotNil(t, report.Raw)
	assert.Len(t, report.Raw.Rows, DefaultRawRows)
	assert.NotContains(t, report.Raw.Header, M.ColumnCustomerID)
}

func TestBuildReportIDsDiffer(t *testing.T) {
	cleaned := cleanedFixture(t)
	first, err := Build(cleaned, Options{Tab: TabTenure})
	require.Nil(t, err)
	second, err := Build(cleaned, Options{Tab: TabTenure})
	require.Nil(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestBuildInvalidOptions(t *testing.T) {
	cleaned := cleanedFixture(t)

	_, err := Build(cleaned, Options{Tab: "forecast"})
	var invalid *InvalidOptionError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "tab", invalid.Option)
	assert.True(t, errors.Is(err, M.ErrValidation))

	_, err = Build(cleaned, Options{Column: M.ColumnMonthlyCharges})
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "column", invalid.Option)
}

func TestBuildMissingChurn(t *testing.T) {
	ds, err := dataset.ReadCSV(strings.NewReader("gender,tenure\nMale,3\n"), 0)
	require.Nil(t, err)
	cleaned, err := dataset.Clean(ds)
	require.Nil(t, err)

	_, err = Build(cleaned, Options{Tab: TabOverview})
	var missing *M.MissingColumnError
	assert.True(t, errors.As(err, &missing))
}

func TestFormatCoefficient(t *testing.T) {
	assert.Equal(t, "0.91", formatCoefficient(0.9074))
	assert.Equal(t, "-1.00", formatCoefficient(-1))
	assert.Equal(t, "12.5-20.0", formatBin(12.5, 20))
}
