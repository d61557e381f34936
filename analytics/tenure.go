package analytics

import (
	"churn/dataset"
	M "churn/model"
)

// Tenure buckets, right edges inclusive. Tenure 0 belongs to the first bucket.
var (
	TenureBucketLabels = []string{"0–12 months", "13–24 months", "25–48 months", "49–72 months"}
	tenureBucketEdges  = []float64{12, 24, 48, 72}
)

// TenureBucket returns the bucket label of a tenure in months. Values outside
// [0, 72] have no bucket.
func TenureBucket(tenure float64) (string, bool) {
	if tenure < 0 || tenure > 72 {
		return "", false
	}
	for i, edge := range tenureBucketEdges {
		if tenure <= edge {
			return TenureBucketLabels[i], true
		}
	}
	return "", false
}

// TenureBucketCrossTab counts churn labels per tenure bucket. All four buckets
// are present even when empty, rows without a bucket are left out.
func TenureBucketCrossTab(ds *dataset.Dataset) (*CrossTable, error) {
	tenures, err := ds.Float64Column(M.ColumnTenure)
	if err != nil {
		return nil, err
	}
	labels, err := ds.Column(M.ColumnChurn)
	if err != nil {
		return nil, err
	}

	buckets := make([]string, len(tenures))
	for i, tenure := range tenures {
		// Unbucketed rows are treated as missing.
		buckets[i], _ = TenureBucket(tenure)
	}
	return buildCrossTab("tenure_group", buckets, labels, TenureBucketLabels)
}
