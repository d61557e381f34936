package handler

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	C "churn/config"
	"churn/dashboard"
	M "churn/model"
	serviceDisk "churn/services/disk"
	U "churn/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServices(t *testing.T) *C.Services {
	config := C.DefaultConfiguration()
	config.ArtifactBaseDir = ".."
	services, err := C.InitServices(&config)
	require.Nil(t, err)
	t.Cleanup(services.Close)
	return services
}

func setupRouter(services *C.Services) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	InitAppRoutes(r, services)
	return r
}

func sendRequest(t *testing.T, r *gin.Engine, rb *U.RequestBuilder) *httptest.ResponseRecorder {
	req, err := rb.Build()
	require.Nil(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	require.Nil(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestStatus(t *testing.T) {
	r := setupRouter(setupServices(t))
	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodGet, "/status"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"model_format":"json"`)
}

func TestPredictSchema(t *testing.T) {
	r := setupRouter(setupServices(t))
	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodGet, "/predict/schema"))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Fields []FieldSchema `json:"fields"`
	}
	decodeBody(t, w, &body)
	assert.Len(t, body.Fields, 19)
	assert.Equal(t, M.ColumnGender, body.Fields[0].Name)
	assert.Equal(t, []string{"Female", "Male"}, body.Fields[0].Values)

	tenure := body.Fields[4]
	assert.Equal(t, M.ColumnTenure, tenure.Name)
	assert.Equal(t, 72.0, *tenure.Max)

	total := body.Fields[18]
	assert.Equal(t, M.ColumnTotalCharges, total.Name)
	assert.False(t, total.ModelInput)
}

func TestPredictDefaults(t *testing.T) {
	r := setupRouter(setupServices(t))

	// An empty object takes every form default.
	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/predict").
		WithPostParams(map[string]interface{}{}))
	require.Equal(t, http.StatusOK, w.Code)

	var result M.PredictionResult
	decodeBody(t, w, &result)
	assert.True(t, result.Probability >= 0 && result.Probability <= 1)
	assert.Equal(t, result.Probability >= 0.5, result.Churn)
	assert.NotEmpty(t, result.Message)
}

func TestPredictChurn(t *testing.T) {
	r := setupRouter(setupServices(t))

	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/predict").
		WithPostParams(map[string]interface{}{
			M.ColumnTenure:          1,
			M.ColumnInternetService: "Fiber optic",
			M.ColumnMonthlyCharges:  95,
		}))
	require.Equal(t, http.StatusOK, w.Code)

	var result M.PredictionResult
	decodeBody(t, w, &result)
	assert.True(t, result.Churn)
	assert.Equal(t, M.LabelChurn, result.Label)
}

func TestPredictValidation(t *testing.T) {
	r := setupRouter(setupServices(t))

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"TenureOutOfRange", map[string]interface{}{M.ColumnTenure: 80}},
		{"MonthlyChargesOutOfRange", map[string]interface{}{M.ColumnMonthlyCharges: 151}},
		{"UnknownCategory", map[string]interface{}{M.ColumnInternetService: "Satellite"}},
		{"WrongType", map[string]interface{}{M.ColumnTenure: "ten"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/predict").WithPostParams(tt.payload))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestDefaultDatasetAnalysis(t *testing.T) {
	r := setupRouter(setupServices(t))

	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodGet, "/analysis"))
	require.Equal(t, http.StatusOK, w.Code)

	var report dashboard.Report
	decodeBody(t, w, &report)
	assert.Equal(t, dashboard.Tabs, report.Tabs)
	assert.Equal(t, 3, report.DroppedRows)
	require.NotNil(t, report.Overview)
	assert.Equal(t, 297, report.Overview.Metrics.Rows)
	assert.Nil(t, report.Raw)
}

func TestDefaultDatasetAnalysisSingleTab(t *testing.T) {
	r := setupRouter(setupServices(t))

	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodGet, "/analysis").
		WithQueryParam(ParamTab, dashboard.TabCategorical).
		WithQueryParam(ParamColumn, M.ColumnContract).
		WithQueryParam(ParamShowRaw, "true").
		WithQueryParam(ParamRawRows, "3"))
	require.Equal(t, http.StatusOK, w.Code)

	var report dashboard.Report
	decodeBody(t, w, &report)
	assert.Equal(t, []string{dashboard.TabCategorical}, report.Tabs)
	assert.Nil(t, report.Overview)
	require.NotNil(t, report.Categorical)
	require.NotNil(t, report.Raw)
	assert.Len(t, report.Raw.Rows, 3)
	assert.NotContains(t, report.Raw.Header, M.ColumnCustomerID)
}

func TestAnalysisInvalidOptions(t *testing.T) {
	r := setupRouter(setupServices(t))

	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodGet, "/analysis").WithQueryParam(ParamTab, "forecast"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendRequest(t, r, U.NewRequestBuilder(http.MethodGet, "/analysis").WithQueryParam(ParamColumn, M.ColumnTenure))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendRequest(t, r, U.NewRequestBuilder(http.MethodGet, "/analysis").WithQueryParam(ParamRawRows, "-1"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDefaultDatasetMissing(t *testing.T) {
	services := setupServices(t)
	services.FileManager = serviceDisk.New(t.TempDir())
	r := setupRouter(services)

	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodGet, "/analysis"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestUploadedDatasetAnalysis(t *testing.T) {
	r := setupRouter(setupServices(t))
	data, err := ioutil.ReadFile(filepath.Join("..", "dataset", "testdata", "telco_small.csv"))
	require.Nil(t, err)

	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/analysis").
		WithQueryParam(ParamTab, dashboard.TabOverview).
		WithMultipartFile(FormFile, "telco_small.csv", data))
	require.Equal(t, http.StatusOK, w.Code)

	var report dashboard.Report
	decodeBody(t, w, &report)
	assert.Equal(t, 1, report.DroppedRows)
	require.NotNil(t, report.Overview)
	assert.Equal(t, 7, report.Overview.Metrics.Rows)
	assert.Equal(t, 3, report.Overview.Metrics.ChurnCount)
}

func TestUploadedDatasetAnalysisErrors(t *testing.T) {
	r := setupRouter(setupServices(t))

	// No file field.
	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/analysis").
		WithMultipartFile("other", "telco.csv", []byte("a,b\n1,2\n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/analysis").
		WithMultipartFile(FormFile, "telco.xlsx", []byte("a,b\n1,2\n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Ragged rows.
	w = sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/analysis").
		WithMultipartFile(FormFile, "telco.csv", []byte("a,b\n1,2,3\n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Header only.
	w = sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/analysis").
		WithMultipartFile(FormFile, "telco.csv", []byte("gender,Churn\n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/analysis").
		WithQueryParam(ParamTab, dashboard.TabOverview).
		WithMultipartFile(FormFile, "telco.csv", []byte("gender,tenure\nMale,3\n")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), M.ColumnChurn)

	// Non-numeric cells in numeric columns are bad input.
	numericErrors := []struct {
		tab  string
		body string
	}{
		{dashboard.TabTenure, "tenure,MonthlyCharges,Churn\n3,20,No\nabc,30,Yes\n"},
		{dashboard.TabOverview, "tenure,MonthlyCharges,Churn\n3,20,No\n4,Inf,Yes\n"},
		{dashboard.TabCorrelation, "tenure,MonthlyCharges,Churn\n3,0x1p3,No\n4,30,Yes\n"},
	}
	for _, tt := range numericErrors {
		w = sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/analysis").
			WithQueryParam(ParamTab, tt.tab).
			WithMultipartFile(FormFile, "telco.csv", []byte(tt.body)))
		assert.Equal(t, http.StatusBadRequest, w.Code, tt.tab)
		assert.Contains(t, w.Body.String(), `"error"`, tt.tab)
	}
}

func TestUploadedDatasetInfiniteTotalCharges(t *testing.T) {
	r := setupRouter(setupServices(t))
	body := "tenure,TotalCharges,MonthlyCharges,Churn\n3,10,5,No\n4,Inf,6,Yes\n5,30,7,No\n"

	w := sendRequest(t, r, U.NewRequestBuilder(http.MethodPost, "/analysis").
		WithQueryParam(ParamTab, dashboard.TabOverview).
		WithMultipartFile(FormFile, "telco.csv", []byte(body)))
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, w.Body.Bytes())

	var report dashboard.Report
	decodeBody(t, w, &report)
	assert.Equal(t, 1, report.DroppedRows)
	require.NotNil(t, report.Overview)
	assert.Equal(t, 2, report.Overview.Metrics.Rows)
	assert.Equal(t, 0, report.Overview.Metrics.ChurnCount)
}
