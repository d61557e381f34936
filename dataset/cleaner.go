package dataset

import (
	M "churn/model"

	log "github.com/sirupsen/logrus"
)

// CleanResult is the cleaned dataset and the number of rows removed because
// TotalCharges was missing, not numeric or not finite.
type CleanResult struct {
	Dataset     *Dataset
	DroppedRows int
}

// Clean drops the customerID column and removes rows whose TotalCharges cell
// is blank, not a decimal number or not finite. When TotalCharges is absent
// only the id column is dropped. The input is not modified.
func Clean(ds *Dataset) (CleanResult, error) {
	cleaned := ds.DropColumn(M.ColumnCustomerID)

	col, ok := cleaned.index[M.ColumnTotalCharges]
	if !ok {
		return CleanResult{Dataset: cleaned}, nil
	}

	rows := make([][]string, 0, len(cleaned.rows))
	dropped := 0
	for _, row := range cleaned.rows {
		if _, ok := ParseNumber(row[col]); !ok {
			dropped++
			continue
		}
		out := make([]string, len(row))
		copy(out, row)
		rows = append(rows, out)
	}

	result, err := New(cleaned.header, rows)
	if err != nil {
		return CleanResult{}, err
	}
	if dropped > 0 {
		log.WithFields(log.Fields{"DroppedRows": dropped, "Rows": len(rows)}).
			Info("Dropped rows with missing TotalCharges.")
	}
	return CleanResult{Dataset: result, DroppedRows: dropped}, nil
}
