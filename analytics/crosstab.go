package analytics

import (
	"sort"

	"churn/dataset"
	"churn/features"
	"churn/histogram"
	M "churn/model"
)

// CategoricalColumns are the attributes offered in the categorical breakdown.
var CategoricalColumns = []string{
	M.ColumnGender,
	M.ColumnSeniorCitizen,
	M.ColumnPartner,
	M.ColumnDependents,
	M.ColumnPhoneService,
	M.ColumnMultipleLines,
	M.ColumnInternetService,
	M.ColumnOnlineSecurity,
	M.ColumnOnlineBackup,
	M.ColumnDeviceProtection,
	M.ColumnTechSupport,
	M.ColumnStreamingTV,
	M.ColumnStreamingMovies,
	M.ColumnContract,
	M.ColumnPaperlessBilling,
	M.ColumnPaymentMethod,
}

// CrossTable counts rows per (category, label). Pairs never observed read as 0.
type CrossTable struct {
	Attribute  string           `json:"attribute"`
	Categories []string         `json:"categories"`
	Labels     []string         `json:"labels"`
	Counts     map[string][]int `json:"counts"`
}

// Count returns the number of rows with the category and label.
func (c *CrossTable) Count(category, label string) int {
	for i, l := range c.Labels {
		if l == label {
			if row, ok := c.Counts[category]; ok {
				return row[i]
			}
		}
	}
	return 0
}

// Total returns the number of rows of a category.
func (c *CrossTable) Total(category string) int {
	total := 0
	for _, n := range c.Counts[category] {
		total += n
	}
	return total
}

// CrossTab counts label occurrences per value of attribute. Labels are
// normalised as in Overview. Categories follow the encoding domain when the
// attribute has one, other values are appended in lexicographic order.
func CrossTab(ds *dataset.Dataset, attribute string) (*CrossTable, error) {
	return crossTabWithDomain(ds, attribute, features.DefaultEncodingTable().Domain(attribute))
}

func crossTabWithDomain(ds *dataset.Dataset, attribute string, domain []string) (*CrossTable, error) {
	values, err := ds.Column(attribute)
	if err != nil {
		return nil, err
	}
	labels, err := ds.Column(M.ColumnChurn)
	if err != nil {
		return nil, err
	}
	return buildCrossTab(attribute, values, labels, domain)
}

func buildCrossTab(attribute string, values, labels, domain []string) (*CrossTable, error) {
	template := histogram.CategoricalHistogramTemplate{
		{Name: attribute, IsRequired: true},
		{Name: M.ColumnChurn, IsRequired: true},
	}
	h, err := histogram.NewCategoricalHistogram(len(template), &template)
	if err != nil {
		return nil, err
	}
	for i := range values {
		row := map[string]string{attribute: values[i], M.ColumnChurn: NormalizeLabel(labels[i])}
		if err := h.AddMap(row); err != nil {
			return nil, err
		}
	}

	categories := orderCategories(domain, h.Symbols(0))
	tab := &CrossTable{
		Attribute:  attribute,
		Categories: categories,
		Labels:     h.Symbols(1),
		Counts:     make(map[string][]int, len(categories)),
	}
	for _, category := range categories {
		row := make([]int, len(tab.Labels))
		for j, label := range tab.Labels {
			row[j] = int(h.Frequency([]string{category, label}))
		}
		tab.Counts[category] = row
	}
	return tab, nil
}

func orderCategories(domain, observed []string) []string {
	categories := make([]string, 0, len(domain)+len(observed))
	known := make(map[string]bool, len(domain))
	for _, v := range domain {
		categories = append(categories, v)
		known[v] = true
	}
	extra := make([]string, 0)
	for _, v := range observed {
		if !known[v] {
			extra = append(extra, v)
		}
	}
	sort.Strings(extra)
	return append(categories, extra...)
}
