package features

import (
	"math"
	"strconv"
	"strings"

	M "churn/model"
)

// FeatureOrder is the column order the scaler and the classifier were fitted
// with. TotalCharges is collected by the form but is not a model input.
var FeatureOrder = []string{
	M.ColumnGender,
	M.ColumnSeniorCitizen,
	M.ColumnPartner,
	M.ColumnDependents,
	M.ColumnTenure,
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
	M.ColumnMonthlyCharges,
}

// FeatureVector is the numeric model input in FeatureOrder.
type FeatureVector struct {
	Names  []string  `json:"names"`
	Values []float64 `json:"values"`
}

// Len returns the number of features.
func (v FeatureVector) Len() int {
	return len(v.Values)
}

// Assembler turns customer records into feature vectors.
type Assembler struct {
	table *EncodingTable
}

func NewAssembler(table *EncodingTable) *Assembler {
	return &Assembler{table: table}
}

// Table returns the encoding table used by the assembler.
func (a *Assembler) Table() *EncodingTable {
	return a.table
}

// Assemble validates the record and builds the feature vector. Nothing is
// returned on error.
func (a *Assembler) Assemble(record M.CustomerRecord) (FeatureVector, error) {
	if err := validateNumerics(record); err != nil {
		return FeatureVector{}, err
	}

	var senior float64
	switch record.SeniorCitizen {
	case M.SeniorCitizenYes:
		senior = 1
	case M.SeniorCitizenNo:
		senior = 0
	default:
		return FeatureVector{}, &M.ValidationError{Field: M.ColumnSeniorCitizen,
			Value: record.SeniorCitizen, Reason: "expected Yes or No"}
	}

	categoricals := record.Categoricals()
	values := make([]float64, 0, len(FeatureOrder))
	for _, name := range FeatureOrder {
		switch name {
		case M.ColumnSeniorCitizen:
			values = append(values, senior)
		case M.ColumnTenure:
			values = append(values, float64(record.Tenure))
		case M.ColumnMonthlyCharges:
			values = append(values, record.MonthlyCharges)
		default:
			code, err := a.table.Encode(name, categoricals[name])
			if err != nil {
				return FeatureVector{}, err
			}
			values = append(values, float64(code))
		}
	}

	names := make([]string, len(FeatureOrder))
	copy(names, FeatureOrder)
	return FeatureVector{Names: names, Values: values}, nil
}

func validateNumerics(record M.CustomerRecord) error {
	if record.Tenure < M.TenureMin || record.Tenure > M.TenureMax {
		return &M.ValidationError{Field: M.ColumnTenure, Value: record.Tenure,
			Reason: "must be between 0 and 72 months"}
	}
	if err := checkRange(M.ColumnMonthlyCharges, record.MonthlyCharges,
		M.MonthlyChargesMin, M.MonthlyChargesMax); err != nil {
		return err
	}
	return checkRange(M.ColumnTotalCharges, record.TotalCharges,
		M.TotalChargesMin, M.TotalChargesMax)
}

func checkRange(field string, value, min, max float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return &M.ValidationError{Field: field, Value: value, Reason: "not a finite number"}
	}
	if value < min || value > max {
		return &M.ValidationError{Field: field, Value: value,
			Reason: "must be between " + strconv.FormatFloat(min, 'f', -1, 64) +
				" and " + strconv.FormatFloat(max, 'f', -1, 64)}
	}
	return nil
}

// ParseCustomerRecord builds a record from string fields keyed by column name,
// as found in a CSV row or a submitted form. Fields that are absent keep the
// form defaults. Only parsing happens here, Assemble does the validation.
func ParseCustomerRecord(fields map[string]string) (M.CustomerRecord, error) {
	record := M.DefaultCustomerRecord()

	setters := map[string]*string{
		M.ColumnGender:           &record.Gender,
		M.ColumnSeniorCitizen:    &record.SeniorCitizen,
		M.ColumnPartner:          &record.Partner,
		M.ColumnDependents:       &record.Dependents,
		M.ColumnPhoneService:     &record.PhoneService,
		M.ColumnMultipleLines:    &record.MultipleLines,
		M.ColumnInternetService:  &record.InternetService,
		M.ColumnOnlineSecurity:   &record.OnlineSecurity,
		M.ColumnOnlineBackup:     &record.OnlineBackup,
		M.ColumnDeviceProtection: &record.DeviceProtection,
		M.ColumnTechSupport:      &record.TechSupport,
		M.ColumnStreamingTV:      &record.StreamingTV,
		M.ColumnStreamingMovies:  &record.StreamingMovies,
		M.ColumnContract:         &record.Contract,
		M.ColumnPaperlessBilling: &record.PaperlessBilling,
		M.ColumnPaymentMethod:    &record.PaymentMethod,
	}
	for column, target := range setters {
		if value, ok := fields[column]; ok {
			*target = value
		}
	}

	// The dataset stores SeniorCitizen as 0/1.
	switch strings.TrimSpace(record.SeniorCitizen) {
	case "1":
		record.SeniorCitizen = M.SeniorCitizenYes
	case "0":
		record.SeniorCitizen = M.SeniorCitizenNo
	}

	if value, ok := fields[M.ColumnTenure]; ok {
		tenure, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return M.CustomerRecord{}, &M.ValidationError{Field: M.ColumnTenure, Value: value, Reason: "not an integer"}
		}
		record.Tenure = tenure
	}
	if value, ok := fields[M.ColumnMonthlyCharges]; ok {
		charges, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return M.CustomerRecord{}, &M.ValidationError{Field: M.ColumnMonthlyCharges, Value: value, Reason: "not a number"}
		}
		record.MonthlyCharges = charges
	}
	if value, ok := fields[M.ColumnTotalCharges]; ok {
		charges, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return M.CustomerRecord{}, &M.ValidationError{Field: M.ColumnTotalCharges, Value: value, Reason: "not a number"}
		}
		record.TotalCharges = charges
	}
	return record, nil
}
