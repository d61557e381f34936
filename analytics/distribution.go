package analytics

import (
	"churn/dataset"
	"churn/histogram"
)

const DefaultDistributionBins = 20

// Distribution bins a numeric column into equal width buckets.
func Distribution(ds *dataset.Dataset, column string, bins int) (*histogram.NumericHistogramStruct, error) {
	values, err := ds.Float64Column(column)
	if err != nil {
		return nil, err
	}
	if bins <= 0 {
		bins = DefaultDistributionBins
	}
	return histogram.NewNumericHistogramFromValues(bins, values), nil
}
