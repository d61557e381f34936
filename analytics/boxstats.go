package analytics

import (
	"sort"

	"churn/dataset"
)

// BoxStat is the five number summary of one group, whiskers reach the most
// extreme values within 1.5 IQR of the quartiles.
type BoxStat struct {
	Group        string    `json:"group"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers"`
}

// BoxStats summarises the numeric column value for each distinct value of by,
// groups in lexicographic order.
func BoxStats(ds *dataset.Dataset, value, by string) ([]BoxStat, error) {
	values, err := ds.Float64Column(value)
	if err != nil {
		return nil, err
	}
	groups, err := ds.Column(by)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string][]float64)
	for i, g := range groups {
		grouped[g] = append(grouped[g], values[i])
	}
	names := make([]string, 0, len(grouped))
	for g := range grouped {
		names = append(names, g)
	}
	sort.Strings(names)

	stats := make([]BoxStat, 0, len(names))
	for _, g := range names {
		stats = append(stats, boxStat(g, grouped[g]))
	}
	return stats, nil
}

func boxStat(group string, values []float64) BoxStat {
	summary := summarize(values)
	box := BoxStat{
		Group:    group,
		Count:    summary.Count,
		Min:      summary.Min,
		Q1:       summary.Q1,
		Median:   summary.Median,
		Q3:       summary.Q3,
		Max:      summary.Max,
		Outliers: make([]float64, 0),
	}
	iqr := box.Q3 - box.Q1
	low, high := box.Q1-1.5*iqr, box.Q3+1.5*iqr
	box.LowerWhisker, box.UpperWhisker = box.Max, box.Min
	for _, v := range values {
		if v < low || v > high {
			box.Outliers = append(box.Outliers, v)
			continue
		}
		if v < box.LowerWhisker {
			box.LowerWhisker = v
		}
		if v > box.UpperWhisker {
			box.UpperWhisker = v
		}
	}
	sort.Float64s(box.Outliers)
	return box
}
