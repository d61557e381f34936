package analytics

import (
	"encoding/json"
	"math"
	"sort"

	"churn/dataset"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary is the describe row set of one numeric column.
type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"25%"`
	Median float64 `json:"50%"`
	Q3     float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// Describe summarises numeric columns. Std is the sample standard deviation
// and quartiles interpolate linearly between order statistics.
// DefaultCorrelationColumns are used when columns is empty.
func Describe(ds *dataset.Dataset, columns []string) ([]Summary, error) {
	if len(columns) == 0 {
		columns = DefaultCorrelationColumns
	}
	summaries := make([]Summary, 0, len(columns))
	for _, name := range columns {
		values, err := ds.Float64Column(name)
		if err != nil {
			return nil, err
		}
		summary := summarize(values)
		summary.Column = name
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func summarize(values []float64) Summary {
	s := Summary{Count: len(values)}
	if len(values) == 0 {
		nan := math.NaN()
		s.Mean, s.Std, s.Min, s.Q1, s.Median, s.Q3, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s.Mean = stat.Mean(sorted, nil)
	s.Std = math.NaN()
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates between the two closest ranks of sorted values,
// position p*(n-1). gonum's stat.Quantile has no such kind.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}
	frac := pos - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// MarshalJSON writes undefined statistics as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Column string   `json:"column"`
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		Std    *float64 `json:"std"`
		Min    *float64 `json:"min"`
		Q1     *float64 `json:"25%"`
		Median *float64 `json:"50%"`
		Q3     *float64 `json:"75%"`
		Max    *float64 `json:"max"`
	}{s.Column, s.Count, nullable(s.Mean), nullable(s.Std), nullable(s.Min),
		nullable(s.Q1), nullable(s.Median), nullable(s.Q3), nullable(s.Max)})
}
