package histogram

import (
	"fmt"
	"sort"
	"strings"
)

type CategoricalHistogram interface {
	Add([]string) error

	// When initialized with a template, can use dictionaries to add elements
	// to histogram.
	AddMap(m map[string]string) error

	PDF(x []string) (float64, error)

	Frequency(x []string) uint64

	Count() uint64
}

// CategoricalHistogramStruct keeps exact joint frequencies of d categorical
// variables along with the marginal frequencies of each variable.
type CategoricalHistogramStruct struct {
	Joint     map[string]uint64
	Marginals []map[string]uint64
	Total     uint64
	Dimension int
	Template  *CategoricalHistogramTemplate
}

type CategoricalHistogramTemplateUnit struct {
	Name       string
	IsRequired bool
	Default    string
}

type CategoricalHistogramTemplate []CategoricalHistogramTemplateUnit

const keySeparator = "\x1f"

// New Categorical Histogram with d categorical variables.
func NewCategoricalHistogram(d int, t *CategoricalHistogramTemplate) (*CategoricalHistogramStruct, error) {
	if d <= 0 {
		return nil, fmt.Errorf("Invalid dimension %d", d)
	}
	if t != nil && len(*t) != d {
		return nil, fmt.Errorf("Mismatch in dimension %d and template length %d", d, len(*t))
	}
	marginals := make([]map[string]uint64, d)
	for i := range marginals {
		marginals[i] = make(map[string]uint64)
	}
	return &CategoricalHistogramStruct{
		Joint:     make(map[string]uint64),
		Marginals: marginals,
		Total:     0,
		Dimension: d,
		Template:  t,
	}, nil
}

func (h *CategoricalHistogramStruct) Add(values []string) error {
	if h.Dimension != len(values) {
		return fmt.Errorf("Input dimension %d not matching histogram dimension %d.",
			len(values), h.Dimension)
	}
	h.Total++
	complete := true
	for i, v := range values {
		// If the value of a variable is empty, it is assumed to be missing.
		// Missing values are left out of the joint frequencies.
		if v == "" {
			complete = false
			continue
		}
		h.Marginals[i][v]++
	}
	if complete {
		h.Joint[strings.Join(values, keySeparator)]++
	}
	return nil
}

func (h *CategoricalHistogramStruct) AddMap(keyValues map[string]string) error {
	if h.Template == nil {
		return fmt.Errorf("Template not initialized")
	}
	vec := make([]string, h.Dimension)
	template := *h.Template
	for i := range template {
		if value, ok := keyValues[template[i].Name]; ok {
			vec[i] = value
		} else if !template[i].IsRequired {
			// If Default value is not set it is set to "", which is
			// assumed to be missing.
			vec[i] = template[i].Default
		} else {
			return fmt.Errorf("Missing required key %s in %v", template[i].Name, keyValues)
		}
	}
	return h.Add(vec)
}

// Frequency returns the number of complete observations equal to x.
// Unseen combinations read as 0.
func (h *CategoricalHistogramStruct) Frequency(x []string) uint64 {
	if len(x) != h.Dimension {
		return 0
	}
	return h.Joint[strings.Join(x, keySeparator)]
}

func (h *CategoricalHistogramStruct) PDF(x []string) (float64, error) {
	if h.Dimension != len(x) {
		return 0.0, fmt.Errorf("Input dimension %d not matching histogram dimension %d.",
			len(x), h.Dimension)
	}
	if h.Total == 0 {
		return 0.0, nil
	}
	return float64(h.Frequency(x)) / float64(h.Total), nil
}

// MarginalFrequency returns how often value was seen for variable i.
func (h *CategoricalHistogramStruct) MarginalFrequency(i int, value string) uint64 {
	if i < 0 || i >= h.Dimension {
		return 0
	}
	return h.Marginals[i][value]
}

// Symbols returns the distinct values seen for variable i, sorted.
func (h *CategoricalHistogramStruct) Symbols(i int) []string {
	if i < 0 || i >= h.Dimension {
		return nil
	}
	symbols := make([]string, 0, len(h.Marginals[i]))
	for k := range h.Marginals[i] {
		symbols = append(symbols, k)
	}
	sort.Strings(symbols)
	return symbols
}

func (h *CategoricalHistogramStruct) Count() uint64 {
	return h.Total
}
