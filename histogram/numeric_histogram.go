package histogram

import (
	"math"
)

type NumericHistogram interface {
	Add(value float64)

	Mean() float64

	Variance() float64

	CDF(x float64) float64

	Count() uint64
}

// NumericHistogramStruct counts values in n equal width bins over [Min, Max].
// The last bin is closed on the right.
type NumericHistogramStruct struct {
	Bins  []NumericBin `json:"bins"`
	Min   float64      `json:"min"`
	Max   float64      `json:"max"`
	Total uint64       `json:"total"`

	sum   float64
	sumSq float64
}

type NumericBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count uint64  `json:"count"`
}

// New Histogram with n bins over [min, max].
func NewNumericHistogram(n int, min, max float64) *NumericHistogramStruct {
	if n <= 0 {
		n = 1
	}
	if max <= min {
		max = min + 1
	}
	width := (max - min) / float64(n)
	bins := make([]NumericBin, n)
	for i := range bins {
		bins[i].Lower = min + float64(i)*width
		bins[i].Upper = min + float64(i+1)*width
	}
	bins[n-1].Upper = max
	return &NumericHistogramStruct{Bins: bins, Min: min, Max: max}
}

// NewNumericHistogramFromValues spans the histogram over the range of values.
// NaN values are skipped.
func NewNumericHistogramFromValues(n int, values []float64) *NumericHistogramStruct {
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	if math.IsInf(min, 1) {
		min, max = 0, 1
	}
	h := NewNumericHistogram(n, min, max)
	for _, v := range values {
		h.Add(v)
	}
	return h
}

// Add counts the value. Values outside the range fall in the edge bins.
func (h *NumericHistogramStruct) Add(value float64) {
	if math.IsNaN(value) {
		return
	}
	n := len(h.Bins)
	i := int((value - h.Min) / (h.Max - h.Min) * float64(n))
	if i < 0 {
		i = 0
	} else if i >= n {
		i = n - 1
	}
	h.Bins[i].Count++
	h.Total++
	h.sum += value
	h.sumSq += value * value
}

func (h *NumericHistogramStruct) Mean() float64 {
	if h.Total == 0 {
		return 0
	}
	return h.sum / float64(h.Total)
}

// Variance is the population variance of the added values.
func (h *NumericHistogramStruct) Variance() float64 {
	if h.Total == 0 {
		return 0
	}
	mean := h.Mean()
	return math.Max(0, h.sumSq/float64(h.Total)-mean*mean)
}

// CDF assumes values are uniformly spread within each bin.
func (h *NumericHistogramStruct) CDF(x float64) float64 {
	if h.Total == 0 {
		return 0
	}
	sum := 0.0
	for _, bin := range h.Bins {
		var factor float64
		if x < bin.Lower {
			factor = 0
		} else if x >= bin.Upper {
			factor = 1
		} else {
			factor = (x - bin.Lower) / (bin.Upper - bin.Lower)
		}
		sum += float64(bin.Count) * factor
	}
	return sum / float64(h.Total)
}

func (h *NumericHistogramStruct) Count() uint64 {
	return h.Total
}
