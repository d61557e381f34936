package analytics

import (
	"sort"
	"strings"

	"churn/dataset"
	M "churn/model"
)

const (
	PositiveLabel = "Yes"
	NegativeLabel = "No"
)

// IsPositiveLabel reports whether a churn label means the customer left.
func IsPositiveLabel(label string) bool {
	return strings.EqualFold(strings.TrimSpace(label), PositiveLabel)
}

// NormalizeLabel maps any casing of yes or no to PositiveLabel or
// NegativeLabel. Other labels are only trimmed.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	switch {
	case strings.EqualFold(label, PositiveLabel):
		return PositiveLabel
	case strings.EqualFold(label, NegativeLabel):
		return NegativeLabel
	}
	return label
}

type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

type OverviewMetrics struct {
	Rows             int          `json:"rows"`
	Columns          int          `json:"columns"`
	ChurnCount       int          `json:"churn_count"`
	ChurnRatePercent float64      `json:"churn_rate_percent"`
	LabelCounts      []LabelCount `json:"label_counts"`
}

// Overview computes the headline metrics of a cleaned dataset.
func Overview(ds *dataset.Dataset) (OverviewMetrics, error) {
	labels, err := ds.Column(M.ColumnChurn)
	if err != nil {
		return OverviewMetrics{}, err
	}

	counts := make(map[string]int)
	churned := 0
	for _, label := range labels {
		counts[NormalizeLabel(label)]++
		if IsPositiveLabel(label) {
			churned++
		}
	}

	overview := OverviewMetrics{
		Rows:        ds.NumRows(),
		Columns:     ds.NumColumns(),
		ChurnCount:  churned,
		LabelCounts: make([]LabelCount, 0, len(counts)),
	}
	if overview.Rows > 0 {
		overview.ChurnRatePercent = 100 * float64(churned) / float64(overview.Rows)
	}
	for label, count := range counts {
		overview.LabelCounts = append(overview.LabelCounts, LabelCount{Label: label, Count: count})
	}
	sort.Slice(overview.LabelCounts, func(i, j int) bool {
		return overview.LabelCounts[i].Label < overview.LabelCounts[j].Label
	})
	return overview, nil
}
