package dashboard

import (
	"churn/analytics"
	"churn/dataset"
	M "churn/model"
	"churn/quickchart"

	"github.com/pkg/errors"
)

var distributionColumns = []string{M.ColumnMonthlyCharges, M.ColumnTotalCharges}

func chart(config quickchart.ChartConfig, title string) (Chart, error) {
	url, err := quickchart.GetChartImageUrlForConfig(config)
	if err != nil {
		return Chart{}, errors.Wrapf(err, "chart %s", title)
	}
	return Chart{Title: title, URL: url}, nil
}

// crossTabChart draws one bar series per churn label.
func crossTabChart(table *analytics.CrossTable, title string) (Chart, error) {
	datasets := make([]quickchart.Dataset, 0, len(table.Labels))
	for i, label := range table.Labels {
		counts := make([]int, len(table.Categories))
		for j, category := range table.Categories {
			counts[j] = table.Counts[category][i]
		}
		datasets = append(datasets, quickchart.NewIntDataset(label, counts))
	}
	return chart(quickchart.NewChartConfig(quickchart.ChartTypeBar, title, table.Categories, datasets...), title)
}

func crossTabView(ds *dataset.Dataset, attribute, title string) (CrossTabView, error) {
	table, err := analytics.CrossTab(ds, attribute)
	if err != nil {
		return CrossTabView{}, err
	}
	c, err := crossTabChart(table, title)
	if err != nil {
		return CrossTabView{}, err
	}
	return CrossTabView{Table: table, Chart: c}, nil
}

func buildOverview(ds *dataset.Dataset, bins int) (*OverviewTab, error) {
	metrics, err := analytics.Overview(ds)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(metrics.LabelCounts))
	counts := make([]int, len(metrics.LabelCounts))
	for i, lc := range metrics.LabelCounts {
		labels[i] = lc.Label
		counts[i] = lc.Count
	}
	labelChart, err := chart(quickchart.NewChartConfig(quickchart.ChartTypeBar, "Target Variable Distribution",
		labels, quickchart.NewIntDataset(M.ColumnChurn, counts)), "Target Variable Distribution")
	if err != nil {
		return nil, err
	}

	tab := &OverviewTab{Metrics: metrics, LabelChart: labelChart}

	// Describe and distributions cover the numeric columns present.
	numeric := make([]string, 0, len(analytics.DefaultCorrelationColumns))
	for _, c := range analytics.DefaultCorrelationColumns {
		if ds.HasColumn(c) {
			numeric = append(numeric, c)
		}
	}
	if len(numeric) > 0 {
		tab.Describe, err = analytics.Describe(ds, numeric)
		if err != nil {
			return nil, err
		}
	}

	tab.Distributions = make([]DistributionView, 0, len(distributionColumns))
	for _, column := range distributionColumns {
		if !ds.HasColumn(column) {
			continue
		}
		h, err := analytics.Distribution(ds, column, bins)
		if err != nil {
			return nil, err
		}
		binLabels := make([]string, len(h.Bins))
		binCounts := make([]int, len(h.Bins))
		for i, b := range h.Bins {
			binLabels[i] = formatBin(b.Lower, b.Upper)
			binCounts[i] = int(b.Count)
		}
		title := column + " Distribution"
		c, err := chart(quickchart.NewChartConfig(quickchart.ChartTypeBar, title, binLabels,
			quickchart.NewIntDataset(column, binCounts)), title)
		if err != nil {
			return nil, err
		}
		tab.Distributions = append(tab.Distributions, DistributionView{Column: column, Histogram: h, Chart: c})
	}
	return tab, nil
}

func buildCategorical(ds *dataset.Dataset, column string) (*CategoricalTab, error) {
	view, err := crossTabView(ds, column, "Churn by "+column)
	if err != nil {
		return nil, err
	}
	return &CategoricalTab{
		Columns:  append([]string(nil), analytics.CategoricalColumns...),
		Selected: column,
		CrossTab: view,
	}, nil
}

func buildTenure(ds *dataset.Dataset) (*TenureTab, error) {
	table, err := analytics.TenureBucketCrossTab(ds)
	if err != nil {
		return nil, err
	}
	c, err := crossTabChart(table, "Churn by Tenure Group")
	if err != nil {
		return nil, err
	}
	return &TenureTab{CrossTab: CrossTabView{Table: table, Chart: c}}, nil
}

func buildInternetContract(ds *dataset.Dataset) (*InternetContractTab, error) {
	internet, err := crossTabView(ds, M.ColumnInternetService, "Churn by Internet Service")
	if err != nil {
		return nil, err
	}
	contract, err := crossTabView(ds, M.ColumnContract, "Churn by Contract Type")
	if err != nil {
		return nil, err
	}
	return &InternetContractTab{InternetService: internet, Contract: contract}, nil
}

func boxPlotView(ds *dataset.Dataset, column, title string) (BoxPlotView, error) {
	stats, err := analytics.BoxStats(ds, column, M.ColumnChurn)
	if err != nil {
		return BoxPlotView{}, err
	}
	groups := make([]string, len(stats))
	points := make([]quickchart.BoxPlotPoint, len(stats))
	for i, s := range stats {
		groups[i] = s.Group
		points[i] = quickchart.BoxPlotPoint{Min: s.LowerWhisker, Q1: s.Q1, Median: s.Median,
			Q3: s.Q3, Max: s.UpperWhisker, Outliers: s.Outliers}
	}
	c, err := chart(quickchart.NewChartConfig(quickchart.ChartTypeBoxPlot, title, groups,
		quickchart.NewBoxPlotDataset(column, points)), title)
	if err != nil {
		return BoxPlotView{}, err
	}
	return BoxPlotView{Column: column, Stats: stats, Chart: c}, nil
}

func buildPaymentCharges(ds *dataset.Dataset) (*PaymentChargesTab, error) {
	payment, err := crossTabView(ds, M.ColumnPaymentMethod, "Churn by Payment Method")
	if err != nil {
		return nil, err
	}
	monthly, err := boxPlotView(ds, M.ColumnMonthlyCharges, "Monthly Charges vs Churn")
	if err != nil {
		return nil, err
	}
	total, err := boxPlotView(ds, M.ColumnTotalCharges, "Total Charges vs Churn")
	if err != nil {
		return nil, err
	}
	return &PaymentChargesTab{PaymentMethod: payment, MonthlyCharges: monthly, TotalCharges: total}, nil
}

func buildCorrelation(ds *dataset.Dataset) (*CorrelationTab, error) {
	matrix, err := analytics.NumericCorrelation(ds, nil)
	if err != nil {
		return nil, err
	}

	columns := []quickchart.Column{{Width: 140, Title: "", DataIndex: "column"}}
	for _, c := range matrix.Columns {
		columns = append(columns, quickchart.Column{Width: 120, Title: c, DataIndex: c})
	}
	rows := make([]interface{}, 0, len(matrix.Columns))
	for i, name := range matrix.Columns {
		row := map[string]interface{}{"column": name}
		for j, other := range matrix.Columns {
			row[other] = formatCoefficient(matrix.Values[i][j])
		}
		rows = append(rows, row)
	}
	url, err := quickchart.GetTableURLfromTableConfig(quickchart.TableConfig{
		Title:      "Correlation Heatmap (Numerical Features)",
		Columns:    columns,
		DataSource: rows,
	})
	if err != nil {
		return nil, err
	}
	return &CorrelationTab{Matrix: matrix, TableURL: url}, nil
}
