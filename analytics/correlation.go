package analytics

import (
	"encoding/json"
	"fmt"
	"math"

	"churn/dataset"
	M "churn/model"

	"gonum.org/v1/gonum/stat"
)

// DefaultCorrelationColumns are the numeric columns of the cleaned dataset.
var DefaultCorrelationColumns = []string{M.ColumnTenure, M.ColumnMonthlyCharges, M.ColumnTotalCharges}

// CorrelationMatrix holds pairwise Pearson coefficients. Entries involving a
// constant column are NaN.
type CorrelationMatrix struct {
	Columns []string
	Values  [][]float64
}

// Get returns the coefficient of two columns.
func (c *CorrelationMatrix) Get(a, b string) (float64, error) {
	i, j := -1, -1
	for k, name := range c.Columns {
		if name == a {
			i = k
		}
		if name == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return math.NaN(), fmt.Errorf("correlation of %s and %s not computed", a, b)
	}
	return c.Values[i][j], nil
}

// MarshalJSON writes NaN coefficients as null.
func (c *CorrelationMatrix) MarshalJSON() ([]byte, error) {
	values := make([][]*float64, len(c.Values))
	for i, row := range c.Values {
		values[i] = make([]*float64, len(row))
		for j := range row {
			if !math.IsNaN(row[j]) {
				values[i][j] = &row[j]
			}
		}
	}
	return json.Marshal(struct {
		Columns []string     `json:"columns"`
		Values  [][]*float64 `json:"values"`
	}{c.Columns, values})
}

// NumericCorrelation computes the Pearson correlation matrix of the columns.
// DefaultCorrelationColumns are used when columns is empty.
func NumericCorrelation(ds *dataset.Dataset, columns []string) (*CorrelationMatrix, error) {
	if len(columns) == 0 {
		columns = DefaultCorrelationColumns
	}
	data := make([][]float64, len(columns))
	constant := make([]bool, len(columns))
	for i, name := range columns {
		values, err := ds.Float64Column(name)
		if err != nil {
			return nil, err
		}
		data[i] = values
		constant[i] = len(values) < 2 || stat.Variance(values, nil) == 0
	}

	matrix := &CorrelationMatrix{
		Columns: append([]string(nil), columns...),
		Values:  make([][]float64, len(columns)),
	}
	for i := range columns {
		matrix.Values[i] = make([]float64, len(columns))
	}
	for i := range columns {
		for j := i; j < len(columns); j++ {
			var r float64
			switch {
			case constant[i] || constant[j]:
				r = math.NaN()
			case i == j:
				r = 1
			default:
				r = stat.Correlation(data[i], data[j], nil)
			}
			matrix.Values[i][j] = r
			matrix.Values[j][i] = r
		}
	}
	return matrix, nil
}
