package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdash/internal/cache"
	"orderdash/internal/metrics"
	"orderdash/internal/model"
	"orderdash/internal/query"
	"orderdash/internal/rollup"
)

func setupApp(t *testing.T) http.Handler {
	t.Helper()
	m := metrics.NewRegistry()
	app := NewApp(query.NewService(cache.NewInMemoryStore(), m), m, time.UTC)
	app.Now = func() time.Time { return time.Date(2024, 1, 7, 15, 30, 0, 0, time.UTC) }
	return NewRouter(app)
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decodeOrders(t *testing.T, rr *httptest.ResponseRecorder) ordersResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp ordersResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestOrders_SingleDay(t *testing.T) {
	h := setupApp(t)
	resp := decodeOrders(t, get(t, h, "/orders?start=2024-01-01&end=2024-01-01"))

	assert.Equal(t, "2024-01-01", resp.StartDate)
	require.Len(t, resp.Orders, 21)
	assert.Equal(t, 21, resp.Summary.TotalOrders)
	assert.Equal(t, 37, resp.Summary.TotalLineItems)

	first := resp.Orders[0]
	assert.Equal(t, "ORD-2024-01-01-0001", first.OrderNumber)
	assert.Equal(t, "Store G", first.StoreName)
	assert.Equal(t, "2024-01-01", first.OrderDate)
	assert.Equal(t, 1215.12, first.TotalAmount)
	require.Len(t, first.LineItems, 3)
	assert.Equal(t, "ITEM-092", first.LineItems[2].ItemNumber)
	assert.InDelta(t, 964.4, first.LineItems[2].TotalPrice, 1e-9)
}

func TestOrders_DefaultPresetIsLastSevenDays(t *testing.T) {
	h := setupApp(t)
	resp := decodeOrders(t, get(t, h, "/orders"))
	assert.Equal(t, "2024-01-01", resp.StartDate)
	assert.Equal(t, "2024-01-07", resp.EndDate)
	assert.Len(t, resp.Orders, 150)
}

func TestOrders_StoreFilterAndSort(t *testing.T) {
	h := setupApp(t)
	resp := decodeOrders(t, get(t, h, "/orders?preset=Last+7+Days&store=Store+A&sort=orderDate&desc=true"))
	require.Len(t, resp.Orders, 15)
	for _, o := range resp.Orders {
		assert.Equal(t, "Store A", o.StoreName)
	}
	assert.Equal(t, "ORD-2024-01-07-0014", resp.Orders[0].OrderNumber)
	assert.Equal(t, "ORD-2024-01-07-0015", resp.Orders[1].OrderNumber)
	assert.Equal(t, "ORD-2024-01-06-0012", resp.Orders[2].OrderNumber)
}

func TestOrders_CommaSeparatedFilters(t *testing.T) {
	h := setupApp(t)
	resp := decodeOrders(t, get(t, h, "/orders?start=2024-01-01&end=2024-01-07&supplier=Supplier+1,Supplier+2"))
	for _, o := range resp.Orders {
		for _, li := range o.LineItems {
			assert.Contains(t, []string{"Supplier 1", "Supplier 2"}, li.SupplierName)
		}
	}
}

func TestOrders_InvertedRangeIsEmpty(t *testing.T) {
	h := setupApp(t)
	resp := decodeOrders(t, get(t, h, "/orders?start=2024-01-07&end=2024-01-01"))
	assert.Empty(t, resp.Orders)
	assert.Equal(t, model.Summary{}, resp.Summary)
}

func TestOrders_BadInput(t *testing.T) {
	h := setupApp(t)
	for _, target := range []string{
		"/orders?start=2024-13-01&end=2024-01-01",
		"/orders?start=2024-01-01",
		"/orders?preset=Yesterday",
		"/orders?sort=price",
		"/orders?desc=maybe",
		"/orders/rollup?window=0",
		"/orders?start=1900-01-01&end=2024-12-31",
		"/orders/summary?start=2024-01-01&end=2025-01-01",
	} {
		rr := get(t, h, target)
		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		assert.Contains(t, rr.Body.String(), "invalid_argument", target)
	}
}

func TestSummary(t *testing.T) {
	h := setupApp(t)
	rr := get(t, h, "/orders/summary?start=2024-01-01&end=2024-01-07")
	require.Equal(t, http.StatusOK, rr.Code)
	var s model.Summary
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, 150, s.TotalOrders)
	assert.Equal(t, 272, s.TotalLineItems)
}

func TestRollup(t *testing.T) {
	h := setupApp(t)
	rr := get(t, h, "/orders/rollup?start=2024-01-01&end=2024-01-07&window=7")
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		WindowDays int             `json:"windowDays"`
		Buckets    []rollup.Bucket `json:"buckets"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 7, body.WindowDays)
	require.NotEmpty(t, body.Buckets)
	var lines int
	for _, b := range body.Buckets {
		assert.Equal(t, "2024-01-01", b.WindowStart)
		lines += b.LineItems
	}
	assert.Equal(t, 272, lines)
}

func TestCatalogRoutes(t *testing.T) {
	h := setupApp(t)
	cases := map[string]int{
		"/catalog/stores":    10,
		"/catalog/suppliers": 15,
		"/catalog/items":     200,
		"/presets":           5,
	}
	for target, n := range cases {
		rr := get(t, h, target)
		require.Equal(t, http.StatusOK, rr.Code, target)
		var list []string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		assert.Len(t, list, n, target)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := setupApp(t)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader("{}")))
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRequestIDEchoed(t *testing.T) {
	h := setupApp(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-Id"))

	rr = get(t, h, "/healthz")
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))
}

func TestMetricsEndpoint(t *testing.T) {
	h := setupApp(t)
	get(t, h, "/orders?start=2024-01-01&end=2024-01-01")
	rr := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "orderdash_orders_generated_total")
}

func TestOrders_FullYearAccepted(t *testing.T) {
	h := setupApp(t)
	rr := get(t, h, "/orders/summary?start=2024-01-01&end=2024-12-31")
	assert.Equal(t, http.StatusOK, rr.Code)
}
