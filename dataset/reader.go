package dataset

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const DefaultDelimiter = ','

// ReadCSV reads a delimited file with a header row. A leading UTF-8 or UTF-16
// byte order mark is honoured and stripped. A delimiter of 0 means comma.
func ReadCSV(r io.Reader, delimiter rune) (*Dataset, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.Comma = delimiter
	// Every row must match the header width.
	reader.FieldsPerRecord = 0

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("csv has no header row")
	}
	if err != nil {
		return nil, errors.Wrap(err, "read csv header")
	}
	for i, name := range header {
		header[i] = norm.NFC.String(strings.TrimSpace(name))
	}

	rows := make([][]string, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "read csv")
		}
		rows = append(rows, row)
	}
	return New(header, rows)
}
