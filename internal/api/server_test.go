package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"orders-analytics/internal/entity"
)

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) RefreshViews(ctx context.Context, facts []entity.OrderFact) error {
	f.calls++
	return f.err
}

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }

func testFacts() []entity.OrderFact {
	return []entity.OrderFact{
		{
			OrderID:          "1",
			CustomerUniqueID: strPtr("cust_1"),
			Price:            floatPtr(100),
			FreightValue:     floatPtr(10),
			ProductID:        strPtr("prod_1"),
			SellerID:         strPtr("seller_1"),
			ItemQuantity:     intPtr(1),
		},
		{
			OrderID:          "2",
			CustomerUniqueID: strPtr("cust_2"),
			Price:            floatPtr(200),
			FreightValue:     floatPtr(20),
			ProductID:        strPtr("prod_2"),
			SellerID:         strPtr("seller_2"),
			ItemQuantity:     intPtr(2),
		},
	}
}

func newTestServer(refresher ViewRefresher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewServer(testFacts(), refresher, zap.NewNop()).Router()
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, router *gin.Engine, method, target string) (int, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	router.ServeHTTP(rec, req)

	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestCustomersEndpoint(t *testing.T) {
	router := newTestServer(&fakeRefresher{})

	code, body := doRequest(t, router, http.MethodGet, "/api/customers")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body.Status)

	var rows []entity.CustomerSpendingRow
	require.NoError(t, json.Unmarshal(body.Data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "cust_1", rows[0].CustomerUniqueID)
	assert.Equal(t, 100.0, rows[0].TotalOrdersValue)
}

func TestSalesAnalysisEndpoint(t *testing.T) {
	router := newTestServer(&fakeRefresher{})

	code, body := doRequest(t, router, http.MethodGet, "/api/sales_analysis")

	require.Equal(t, http.StatusOK, code)
	var snapshot entity.SalesSnapshot
	require.NoError(t, json.Unmarshal(body.Data, &snapshot))
	assert.Equal(t, "cust_2", snapshot.TopCustomerID)
	assert.Equal(t, 150.0, snapshot.AvgOrderValue)
}

func TestTopCustomersEndpoint(t *testing.T) {
	router := newTestServer(&fakeRefresher{})

	code, body := doRequest(t, router, http.MethodGet, "/api/top_customers?n=2")

	require.Equal(t, http.StatusOK, code)
	var rows []entity.TopCustomerRow
	require.NoError(t, json.Unmarshal(body.Data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "cust_2", rows[0].CustomerUniqueID)
	assert.Equal(t, "cust_1", rows[1].CustomerUniqueID)
}

func TestTopCustomersRejectsNonPositiveN(t *testing.T) {
	router := newTestServer(&fakeRefresher{})

	code, body := doRequest(t, router, http.MethodGet, "/api/top_customers?n=0")

	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "error", body.Status)
}

func TestOrdersByCustomerRequiresID(t *testing.T) {
	router := newTestServer(&fakeRefresher{})

	code, body := doRequest(t, router, http.MethodGet, "/api/orders_by_customer")

	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Customer ID is required", body.Message)
}

func TestOrdersByCustomerReturnsMatchingRows(t *testing.T) {
	router := newTestServer(&fakeRefresher{})

	code, body := doRequest(t, router, http.MethodGet, "/api/orders_by_customer?customer_id=cust_1")

	require.Equal(t, http.StatusOK, code)
	var rows []entity.OrderFact
	require.NoError(t, json.Unmarshal(body.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "cust_1", *rows[0].CustomerUniqueID)
}

func TestOrdersByDateRejectsMalformedDate(t *testing.T) {
	router := newTestServer(&fakeRefresher{})

	code, body := doRequest(t, router, http.MethodGet, "/api/orders_by_date?start_date=bogus&end_date=2022-01-02")

	require.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Message, "bogus")
}

func TestLoadTableUnknownName(t *testing.T) {
	router := newTestServer(&fakeRefresher{})

	code, _ := doRequest(t, router, http.MethodGet, "/api/load_table?table_name=nope")

	assert.Equal(t, http.StatusBadRequest, code)
}

func TestUpdateAnalyticsInvokesRefresher(t *testing.T) {
	refresher := &fakeRefresher{}
	router := newTestServer(refresher)

	code, body := doRequest(t, router, http.MethodPost, "/api/update_analytics")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, 1, refresher.calls)
}
