package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	M "churn/model"
)

// Dataset is an in-memory table of string cells with a named header.
// Values are never modified in place, operations return new datasets.
type Dataset struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// New builds a dataset. Every row must have one cell per header column.
func New(header []string, rows [][]string) (*Dataset, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("dataset has no header")
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			return nil, fmt.Errorf("empty column name at position %d", i)
		}
		if _, exists := index[name]; exists {
			return nil, fmt.Errorf("duplicate column %s", name)
		}
		index[name] = i
	}
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d", i+1, len(row), len(header))
		}
	}
	h := make([]string, len(header))
	copy(h, header)
	return &Dataset{header: h, index: index, rows: rows}, nil
}

func (d *Dataset) Header() []string {
	h := make([]string, len(d.header))
	copy(h, d.header)
	return h
}

func (d *Dataset) NumRows() int {
	return len(d.rows)
}

func (d *Dataset) NumColumns() int {
	return len(d.header)
}

func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// ColumnIndex returns the position of the column, MissingColumnError when absent.
func (d *Dataset) ColumnIndex(name string) (int, error) {
	i, ok := d.index[name]
	if !ok {
		return -1, &M.MissingColumnError{Column: name}
	}
	return i, nil
}

// Column returns a copy of the cells of a column.
func (d *Dataset) Column(name string) ([]string, error) {
	i, err := d.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(d.rows))
	for r, row := range d.rows {
		values[r] = row[i]
	}
	return values, nil
}

// Float64Column parses every cell of a column as a float.
func (d *Dataset) Float64Column(name string) ([]float64, error) {
	cells, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	values := make([]float64, len(cells))
	for r, cell := range cells {
		v, ok := ParseNumber(cell)
		if !ok {
			return nil, &M.ValidationError{Field: name, Value: cell,
				Reason: fmt.Sprintf("row %d is not a finite decimal number", r+1)}
		}
		values[r] = v
	}
	return values, nil
}

// ParseNumber parses a decimal cell. Hex and underscore forms, NaN and
// infinities are rejected.
func ParseNumber(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.ContainsAny(cell, "xX_") {
		return 0, false
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Row returns a copy of row i.
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.rows[i]))
	copy(row, d.rows[i])
	return row
}

// Record returns row i keyed by column name.
func (d *Dataset) Record(i int) map[string]string {
	record := make(map[string]string, len(d.header))
	for c, name := range d.header {
		record[name] = d.rows[i][c]
	}
	return record
}

// Head returns copies of the first n rows.
func (d *Dataset) Head(n int) [][]string {
	if n > len(d.rows) {
		n = len(d.rows)
	}
	head := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		head = append(head, d.Row(i))
	}
	return head
}

// DropColumn returns a dataset without the column. The receiver is returned
// unchanged when the column is absent.
func (d *Dataset) DropColumn(name string) *Dataset {
	drop, ok := d.index[name]
	if !ok {
		return d
	}
	header := make([]string, 0, len(d.header)-1)
	header = append(header, d.header[:drop]...)
	header = append(header, d.header[drop+1:]...)

	rows := make([][]string, len(d.rows))
	for r, row := range d.rows {
		out := make([]string, 0, len(row)-1)
		out = append(out, row[:drop]...)
		out = append(out, row[drop+1:]...)
		rows[r] = out
	}
	ds, _ := New(header, rows)
	return ds
}
