package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mytheresa/item-processing-api/app/config"
	"github.com/mytheresa/item-processing-api/app/database"
	"github.com/mytheresa/item-processing-api/app/items"
	"github.com/mytheresa/item-processing-api/app/logging"
	"github.com/mytheresa/item-processing-api/app/metrics"
	"github.com/mytheresa/item-processing-api/app/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

type testAPI struct {
	t       *testing.T
	handler http.Handler
}

func newTestAPI(t *testing.T, mutate func(cfg *config.Config)) *testAPI {
	t.Helper()

	cfg := config.New()
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1}
	if mutate != nil {
		mutate(cfg)
	}

	db, err := database.Open(cfg.Database, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(t.Context(), db))

	handler, err := NewRouter(t.Context(), cfg, db, logging.Discard(), metrics.New())
	require.NoError(t, err)
	return &testAPI{t: t, handler: handler}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) create(name, category string, value float64, rating int) items.Item {
	a.t.Helper()

	rec := a.do("POST", "/items", map[string]any{
		"name": name, "category": category, "value": value, "rating": rating,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var it items.Item
	require.NoError(a.t, json.NewDecoder(rec.Body).Decode(&it))
	return it
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

// --- Tests ---

func TestRouter_Welcome(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do("GET", "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to the Item Processing API."}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestRouter_ItemLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)

	created := api.create("Laptop", "laptop", 1000, 3)
	assert.NotZero(t, created.ID)

	rec := api.do("GET", fmt.Sprintf("/items/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[items.Item](t, rec))

	rec = api.do("PUT", fmt.Sprintf("/items/%d", created.ID), map[string]any{
		"name": "Laptop 2", "category": "laptop", "value": 1100.5, "rating": 5,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[items.Item](t, rec)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Laptop 2", updated.Name)
	assert.Equal(t, 1100.5, updated.Value)

	rec = api.do("DELETE", fmt.Sprintf("/items/%d", created.ID), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = api.do("GET", fmt.Sprintf("/items/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Item not found"}`, rec.Body.String())

	rec = api.do("DELETE", fmt.Sprintf("/items/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ListFiltersAndPaginates(t *testing.T) {
	api := newTestAPI(t, nil)
	for i := range 5 {
		api.create(fmt.Sprintf("Laptop %d", i), "laptop", float64(100*(i+1)), 3)
	}
	api.create("Phone", "smartphone", 500, 4)

	rec := api.do("GET", "/items?category=laptop&skip=1&limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[[]items.Item](t, rec)
	require.Len(t, page, 2)
	assert.Equal(t, "Laptop 1", page[0].Name)
	assert.Equal(t, "Laptop 2", page[1].Name)

	rec = api.do("GET", "/items", nil)
	assert.Len(t, decode[[]items.Item](t, rec), 6)

	rec = api.do("GET", "/items?category=tablet", nil)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestRouter_RejectsBadInput(t *testing.T) {
	api := newTestAPI(t, nil)

	testCases := []struct {
		name               string
		method             string
		path               string
		body               string
		expectedStatusCode int
	}{
		{name: "Malformed JSON", method: "POST", path: "/items", body: `{"name":`, expectedStatusCode: http.StatusBadRequest},
		{name: "Missing field", method: "POST", path: "/items", body: `{"name":"x","category":"y","value":1}`, expectedStatusCode: http.StatusUnprocessableEntity},
		{name: "Wrong type", method: "POST", path: "/items", body: `{"name":"x","category":"y","value":"cheap","rating":1}`, expectedStatusCode: http.StatusUnprocessableEntity},
		{name: "Non numeric id", method: "GET", path: "/items/abc", expectedStatusCode: http.StatusUnprocessableEntity},
		{name: "Invalid top_n", method: "GET", path: "/process?top_n=0", expectedStatusCode: http.StatusUnprocessableEntity},
		{name: "Unknown route", method: "GET", path: "/nope", expectedStatusCode: http.StatusNotFound},
		{name: "Wrong method", method: "PATCH", path: "/items/1", expectedStatusCode: http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = bytes.NewBufferString(tc.body)
			}
			rec := httptest.NewRecorder()
			api.handler.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, body))

			assert.Equal(t, tc.expectedStatusCode, rec.Code, rec.Body.String())
			var errResp map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
			assert.NotEmpty(t, errResp["error"])
		})
	}
}

func TestRouter_Process(t *testing.T) {
	api := newTestAPI(t, nil)
	api.create("Laptop", "laptop", 1000, 3)
	api.create("Headphones", "headphones", 100, 2)

	rec := api.do("GET", "/process?top_n=1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[process.Response](t, rec)
	require.Len(t, resp.TopItems, 1)
	assert.Equal(t, "Laptop", resp.TopItems[0].Name)
	assert.Equal(t, 1200.0, resp.TopItems[0].Score)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, 645.0, resp.AverageScore)

	rec = api.do("GET", "/process?category=headphones", nil)
	resp = decode[process.Response](t, rec)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, 90.0, resp.AverageScore)
}

func TestRouter_ProcessUsesConfiguredWeights(t *testing.T) {
	api := newTestAPI(t, func(cfg *config.Config) {
		cfg.Scoring.CategoryWeights = map[string]float64{"tablet": 2}
		cfg.Scoring.DefaultWeight = 0.5
	})
	api.create("Tab", "tablet", 100, 3)
	api.create("Laptop", "laptop", 100, 3)

	resp := decode[process.Response](t, api.do("GET", "/process", nil))

	require.Len(t, resp.TopItems, 2)
	assert.Equal(t, 200.0, resp.TopItems[0].Score)
	assert.Equal(t, 50.0, resp.TopItems[1].Score)
	assert.Equal(t, 125.0, resp.AverageScore)
}

func TestRouter_Categories(t *testing.T) {
	api := newTestAPI(t, nil)
	api.create("Laptop", "laptop", 1000, 3)
	api.create("Watch", "wearable", 10, 1)

	rec := api.do("GET", "/categories", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"category":"headphones","weight":0.9,"item_count":0},
		{"category":"laptop","weight":1.2,"item_count":1},
		{"category":"monitor","weight":1.1,"item_count":0},
		{"category":"smartphone","weight":1,"item_count":0},
		{"category":"wearable","weight":1,"item_count":1}
	]`, rec.Body.String())
}

func TestRouter_ResetDatabase(t *testing.T) {
	api := newTestAPI(t, nil)
	api.create("Scratch", "misc", 1, 1)

	rec := api.do("POST", "/reset-database", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Database has been successfully reset and reseeded."}`, rec.Body.String())

	listed := decode[[]items.Item](t, api.do("GET", "/items", nil))
	require.Len(t, listed, len(database.SampleItems()))
	for _, it := range listed {
		assert.NotEqual(t, "Scratch", it.Name)
	}

	resp := decode[process.Response](t, api.do("GET", "/process", nil))
	assert.Equal(t, 7, resp.Count)
	assert.Equal(t, 801.58, resp.AverageScore)
}

func TestRouter_ResetRefusedInProduction(t *testing.T) {
	api := newTestAPI(t, func(cfg *config.Config) {
		cfg.Environment = "production"
	})
	api.create("Keep", "misc", 1, 1)

	rec := api.do("POST", "/reset-database", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, decode[[]items.Item](t, api.do("GET", "/items", nil)), 1)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do("GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())

	api.do("GET", "/items/1", nil)
	api.do("GET", "/process", nil)

	rec = api.do("GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `items_http_requests_total{method="GET",route="/items/{id}",status="404"} 1`)
	assert.Contains(t, body, "items_process_runs_total 1")
}

func TestRouter_RateLimited(t *testing.T) {
	api := newTestAPI(t, func(cfg *config.Config) {
		cfg.Server.RateLimitRPS = 0.001
		cfg.Server.RateLimitBurst = 1
	})

	assert.Equal(t, http.StatusOK, api.do("GET", "/", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, api.do("GET", "/", nil).Code)
}

func TestNewRouter_InvalidWeights(t *testing.T) {
	cfg := config.New()
	cfg.Scoring.CategoryWeights = map[string]float64{"laptop": -1}

	_, err := NewRouter(t.Context(), cfg, nil, logging.Discard(), nil)

	assert.Error(t, err)
}
