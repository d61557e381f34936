package dashboard

import (
	"fmt"
	"strings"

	"churn/analytics"
	"churn/dataset"
	"churn/histogram"
	M "churn/model"

	"github.com/rs/xid"
	log "github.com/sirupsen/logrus"
)

// Tab names, in display order.
const (
	TabOverview         = "overview"
	TabCategorical      = "categorical"
	TabTenure           = "tenure"
	TabInternetContract = "internet_contract"
	TabPaymentCharges   = "payment_charges"
	TabCorrelation      = "correlation"
)

var Tabs = []string{
	TabOverview,
	TabCategorical,
	TabTenure,
	TabInternetContract,
	TabPaymentCharges,
	TabCorrelation,
}

const (
	DefaultCategoricalColumn = M.ColumnGender
	DefaultRawRows           = 5
)

// Options selects what a report contains. An empty Tab builds every tab.
type Options struct {
	Tab     string
	Column  string
	ShowRaw bool
	RawRows int
	Bins    int
}

type Chart struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type CrossTabView struct {
	Table *analytics.CrossTable `json:"table"`
	Chart Chart                 `json:"chart"`
}

type DistributionView struct {
	Column    string                            `json:"column"`
	Histogram *histogram.NumericHistogramStruct `json:"histogram"`
	Chart     Chart                             `json:"chart"`
}

type OverviewTab struct {
	Metrics       analytics.OverviewMetrics `json:"metrics"`
	LabelChart    Chart                     `json:"label_chart"`
	Describe      []analytics.Summary       `json:"describe"`
	Distributions []DistributionView        `json:"distributions"`
}

type CategoricalTab struct {
	Columns  []string     `json:"columns"`
	Selected string       `json:"selected"`
	CrossTab CrossTabView `json:"crosstab"`
}

type TenureTab struct {
	CrossTab CrossTabView `json:"crosstab"`
}

type InternetContractTab struct {
	InternetService CrossTabView `json:"internet_service"`
	Contract        CrossTabView `json:"contract"`
}

type BoxPlotView struct {
	Column string              `json:"column"`
	Stats  []analytics.BoxStat `json:"stats"`
	Chart  Chart               `json:"chart"`
}

type PaymentChargesTab struct {
	PaymentMethod  CrossTabView `json:"payment_method"`
	MonthlyCharges BoxPlotView  `json:"monthly_charges"`
	TotalCharges   BoxPlotView  `json:"total_charges"`
}

type CorrelationTab struct {
	Matrix   *analytics.CorrelationMatrix `json:"matrix"`
	TableURL string                       `json:"table_url"`
}

type RawPreview struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Report is the analysis of one dataset. Tabs not requested are nil.
type Report struct {
	ID               string               `json:"id"`
	DroppedRows      int                  `json:"dropped_rows"`
	Tabs             []string             `json:"tabs"`
	Overview         *OverviewTab         `json:"overview,omitempty"`
	Categorical      *CategoricalTab      `json:"categorical,omitempty"`
	Tenure           *TenureTab           `json:"tenure,omitempty"`
	InternetContract *InternetContractTab `json:"internet_contract,omitempty"`
	PaymentCharges   *PaymentChargesTab   `json:"payment_charges,omitempty"`
	Correlation      *CorrelationTab      `json:"correlation,omitempty"`
	Raw              *RawPreview          `json:"raw,omitempty"`
}

// InvalidOptionError is returned for an unknown tab or column.
type InvalidOptionError struct {
	Option string
	Value  string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Option, e.Value)
}

func (e *InvalidOptionError) Is(target error) bool {
	return target == M.ErrValidation
}

func validTab(tab string) bool {
	for _, t := range Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

func validColumn(column string) bool {
	for _, c := range analytics.CategoricalColumns {
		if c == column {
			return true
		}
	}
	return false
}

// Build computes the requested tabs of the report for a cleaned dataset.
func Build(cleaned dataset.CleanResult, opts Options) (*Report, error) {
	tab := strings.TrimSpace(opts.Tab)
	if tab != "" && !validTab(tab) {
		return nil, &InvalidOptionError{Option: "tab", Value: opts.Tab}
	}
	column := strings.TrimSpace(opts.Column)
	if column == "" {
		column = DefaultCategoricalColumn
	}
	if !validColumn(column) {
		return nil, &InvalidOptionError{Option: "column", Value: opts.Column}
	}

	ds := cleaned.Dataset
	report := &Report{
		ID:          xid.New().String(),
		DroppedRows: cleaned.DroppedRows,
	}
	logCtx := log.WithFields(log.Fields{"ReportID": report.ID, "Tab": tab, "Rows": ds.NumRows()})

	if tab == "" {
		report.Tabs = append([]string(nil), Tabs...)
	} else {
		report.Tabs = []string{tab}
	}

	var err error
	for _, t := range report.Tabs {
		switch t {
		case TabOverview:
			report.Overview, err = buildOverview(ds, opts.Bins)
		case TabCategorical:
			report.Categorical, err = buildCategorical(ds, column)
		case TabTenure:
			report.Tenure, err = buildTenure(ds)
		case TabInternetContract:
			report.InternetContract, err = buildInternetContract(ds)
		case TabPaymentCharges:
			report.PaymentCharges, err = buildPaymentCharges(ds)
		case TabCorrelation:
			report.Correlation, err = buildCorrelation(ds)
		}
		if err != nil {
			logCtx.WithError(err).WithField("BuildingTab", t).Error("Failed to build dashboard tab.")
			return nil, err
		}
	}

	if opts.ShowRaw {
		n := opts.RawRows
		if n <= 0 {
			n = DefaultRawRows
		}
		report.Raw = &RawPreview{Header: ds.Header(), Rows: ds.Head(n)}
	}
	logCtx.WithField("DroppedRows", report.DroppedRows).Debug("Built dashboard report.")
	return report, nil
}
