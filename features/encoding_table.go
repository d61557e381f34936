package features

import (
	"fmt"

	M "churn/model"
)

// Domain is the ordered list of legal values for one categorical attribute.
// The code of a value is its position in Values.
type Domain struct {
	Attribute string
	Values    []string
}

// EncodingTable maps categorical values to integer codes. It is read-only
// after construction and safe for concurrent use.
type EncodingTable struct {
	attributes []string
	domains    map[string][]string
	codes      map[string]map[string]int
}

// NewEncodingTable validates the domains and builds the lookup table.
func NewEncodingTable(domains ...Domain) (*EncodingTable, error) {
	table := &EncodingTable{
		attributes: make([]string, 0, len(domains)),
		domains:    make(map[string][]string, len(domains)),
		codes:      make(map[string]map[string]int, len(domains)),
	}
	for _, d := range domains {
		if d.Attribute == "" {
			return nil, fmt.Errorf("encoding table: empty attribute name")
		}
		if _, exists := table.domains[d.Attribute]; exists {
			return nil, fmt.Errorf("encoding table: duplicate attribute %s", d.Attribute)
		}
		if len(d.Values) == 0 {
			return nil, fmt.Errorf("encoding table: empty domain for %s", d.Attribute)
		}
		codes := make(map[string]int, len(d.Values))
		for i, v := range d.Values {
			if _, exists := codes[v]; exists {
				return nil, fmt.Errorf("encoding table: duplicate value %q for %s", v, d.Attribute)
			}
			codes[v] = i
		}
		values := make([]string, len(d.Values))
		copy(values, d.Values)

		table.attributes = append(table.attributes, d.Attribute)
		table.domains[d.Attribute] = values
		table.codes[d.Attribute] = codes
	}
	return table, nil
}

var (
	yesNo           = []string{"No", "Yes"}
	internetOptions = []string{"No", "Yes", "No internet service"}
)

// DefaultDomains is the table the churn model was trained with. Order matters:
// changing it silently changes the codes fed to the model.
func DefaultDomains() []Domain {
	return []Domain{
		{Attribute: M.ColumnGender, Values: []string{"Female", "Male"}},
		{Attribute: M.ColumnPartner, Values: yesNo},
		{Attribute: M.ColumnDependents, Values: yesNo},
		{Attribute: M.ColumnPhoneService, Values: yesNo},
		{Attribute: M.ColumnMultipleLines, Values: []string{"No", "Yes", "No phone service"}},
		{Attribute: M.ColumnInternetService, Values: []string{"DSL", "Fiber optic", "No"}},
		{Attribute: M.ColumnOnlineSecurity, Values: internetOptions},
		{Attribute: M.ColumnOnlineBackup, Values: internetOptions},
		{Attribute: M.ColumnDeviceProtection, Values: internetOptions},
		{Attribute: M.ColumnTechSupport, Values: internetOptions},
		{Attribute: M.ColumnStreamingTV, Values: internetOptions},
		{Attribute: M.ColumnStreamingMovies, Values: internetOptions},
		{Attribute: M.ColumnContract, Values: []string{"Month-to-month", "One year", "Two year"}},
		{Attribute: M.ColumnPaperlessBilling, Values: yesNo},
		{Attribute: M.ColumnPaymentMethod, Values: []string{
			"Electronic check", "Mailed check", "Bank transfer (automatic)", "Credit card (automatic)"}},
	}
}

// DefaultEncodingTable returns the training-time encoding table.
func DefaultEncodingTable() *EncodingTable {
	table, err := NewEncodingTable(DefaultDomains()...)
	if err != nil {
		// Static table, only a programming error gets here.
		panic(err)
	}
	return table
}

// Encode returns the integer code of value for attribute.
func (t *EncodingTable) Encode(attribute, value string) (int, error) {
	codes, ok := t.codes[attribute]
	if !ok {
		return 0, &M.UnknownCategoryError{Attribute: attribute, Value: value}
	}
	code, ok := codes[value]
	if !ok {
		return 0, &M.UnknownCategoryError{Attribute: attribute, Value: value}
	}
	return code, nil
}

// Has reports whether attribute is part of the table.
func (t *EncodingTable) Has(attribute string) bool {
	_, ok := t.domains[attribute]
	return ok
}

// Domain returns a copy of the ordered values of attribute, nil when unknown.
func (t *EncodingTable) Domain(attribute string) []string {
	values, ok := t.domains[attribute]
	if !ok {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}

// Attributes returns the attributes in table order.
func (t *EncodingTable) Attributes() []string {
	out := make([]string, len(t.attributes))
	copy(out, t.attributes)
	return out
}
