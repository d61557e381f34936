package model

// Column names of the Telco customer churn schema. The prediction form uses
// the same names for its fields.
const (
	ColumnCustomerID       = "customerID"
	ColumnGender           = "gender"
	ColumnSeniorCitizen    = "SeniorCitizen"
	ColumnPartner          = "Partner"
	ColumnDependents       = "Dependents"
	ColumnTenure           = "tenure"
	ColumnPhoneService     = "PhoneService"
	ColumnMultipleLines    = "MultipleLines"
	ColumnInternetService  = "InternetService"
	ColumnOnlineSecurity   = "OnlineSecurity"
	ColumnOnlineBackup     = "OnlineBackup"
	ColumnDeviceProtection = "DeviceProtection"
	ColumnTechSupport      = "TechSupport"
	ColumnStreamingTV      = "StreamingTV"
	ColumnStreamingMovies  = "StreamingMovies"
	ColumnContract         = "Contract"
	ColumnPaperlessBilling = "PaperlessBilling"
	ColumnPaymentMethod    = "PaymentMethod"
	ColumnMonthlyCharges   = "MonthlyCharges"
	ColumnTotalCharges     = "TotalCharges"
	ColumnChurn            = "Churn"
)

// Bounds accepted by the prediction form.
const (
	TenureMin         = 0
	TenureMax         = 72
	MonthlyChargesMin = 0.0
	MonthlyChargesMax = 150.0
	TotalChargesMin   = 0.0
	TotalChargesMax   = 10000.0
)

const (
	SeniorCitizenYes = "Yes"
	SeniorCitizenNo  = "No"
)

// CustomerRecord holds the raw field values of one prediction request.
// TotalCharges is collected for reference and is not a model input.
type CustomerRecord struct {
	Gender           string  `json:"gender"`
	SeniorCitizen    string  `json:"SeniorCitizen"`
	Partner          string  `json:"Partner"`
	Dependents       string  `json:"Dependents"`
	Tenure           int     `json:"tenure"`
	PhoneService     string  `json:"PhoneService"`
	MultipleLines    string  `json:"MultipleLines"`
	InternetService  string  `json:"InternetService"`
	OnlineSecurity   string  `json:"OnlineSecurity"`
	OnlineBackup     string  `json:"OnlineBackup"`
	DeviceProtection string  `json:"DeviceProtection"`
	TechSupport      string  `json:"TechSupport"`
	StreamingTV      string  `json:"StreamingTV"`
	StreamingMovies  string  `json:"StreamingMovies"`
	Contract         string  `json:"Contract"`
	PaperlessBilling string  `json:"PaperlessBilling"`
	PaymentMethod    string  `json:"PaymentMethod"`
	MonthlyCharges   float64 `json:"MonthlyCharges"`
	TotalCharges     float64 `json:"TotalCharges"`
}

// DefaultCustomerRecord returns the values the prediction form starts with.
func DefaultCustomerRecord() CustomerRecord {
	return CustomerRecord{
		Gender:           "Male",
		SeniorCitizen:    SeniorCitizenNo,
		Partner:          "Yes",
		Dependents:       "Yes",
		Tenure:           10,
		PhoneService:     "Yes",
		MultipleLines:    "No",
		InternetService:  "DSL",
		OnlineSecurity:   "Yes",
		OnlineBackup:     "Yes",
		DeviceProtection: "Yes",
		TechSupport:      "Yes",
		StreamingTV:      "Yes",
		StreamingMovies:  "Yes",
		Contract:         "Month-to-month",
		PaperlessBilling: "Yes",
		PaymentMethod:    "Electronic check",
		MonthlyCharges:   70.0,
		TotalCharges:     3000.0,
	}
}

// Categoricals returns the categorical fields keyed by column name.
// SeniorCitizen is not included, it is a yes/no flag and not an encoded category.
func (r CustomerRecord) Categoricals() map[string]string {
	return map[string]string{
		ColumnGender:           r.Gender,
		ColumnPartner:          r.Partner,
		ColumnDependents:       r.Dependents,
		ColumnPhoneService:     r.PhoneService,
		ColumnMultipleLines:    r.MultipleLines,
		ColumnInternetService:  r.InternetService,
		ColumnOnlineSecurity:   r.OnlineSecurity,
		ColumnOnlineBackup:     r.OnlineBackup,
		ColumnDeviceProtection: r.DeviceProtection,
		ColumnTechSupport:      r.TechSupport,
		ColumnStreamingTV:      r.StreamingTV,
		ColumnStreamingMovies:  r.StreamingMovies,
		ColumnContract:         r.Contract,
		ColumnPaperlessBilling: r.PaperlessBilling,
		ColumnPaymentMethod:    r.PaymentMethod,
	}
}
