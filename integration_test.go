package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/middleware"
	"github.com/kendall-kelly/production-tracker-api/services"
	"github.com/kendall-kelly/production-tracker-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// envelope is the JSON shape every endpoint answers with
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// setupTestRouter builds the full router over a fresh in-memory database.
// Callers authenticate with "Authorization: Bearer <subject>" and hold the given scopes.
func setupTestRouter(t *testing.T, scopes ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testutil.NewTestDB(t)
	services.SetImageService(nil)

	cfg := &config.Config{GoEnv: "test", CORSAllowedOrigins: []string{"*"}}
	return setupRouter(cfg, testutil.BearerAuthMiddleware(scopes...))
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer auth0|planner")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"), "Every response should carry a request ID")
}

// TestHealthEndpointMethod tests that only GET method is allowed
func TestHealthEndpointMethod(t *testing.T) {
	router := setupTestRouter(t)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code, "%s should not be allowed", method)
	}
}

func TestDomainRoutesRequireAuthentication(t *testing.T) {
	router := setupTestRouter(t)

	paths := []string{
		"/api/v1/orders",
		"/api/v1/products",
		"/api/v1/operators",
		"/api/v1/activities",
		"/api/v1/me",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Contains(t, w.Body.String(), "INVALID_TOKEN", path)
	}
}

func TestCatalogWritesRequireScope(t *testing.T) {
	router := setupTestRouter(t)

	w, env := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"code": "P1", "name": "Widget", "price": 10,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_SCOPE", env.Error.Code)

	// reads only need a valid token
	w, env = doRequest(t, router, http.MethodGet, "/api/v1/products", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestOrderDeleteRequiresScope(t *testing.T) {
	router := setupTestRouter(t, middleware.ScopeWriteCatalog)

	w, env := doRequest(t, router, http.MethodDelete, "/api/v1/orders/1", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "INSUFFICIENT_SCOPE", env.Error.Code)
}

// TestProductionFlowIntegration drives an order from creation to completion
// through the HTTP surface
func TestProductionFlowIntegration(t *testing.T) {
	router := setupTestRouter(t, middleware.ScopeWriteCatalog, middleware.ScopeDeleteOrders)

	// Catalog
	var p1, p2 struct {
		ID uint `json:"id"`
	}
	w, env := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"code": "P1", "name": "Widget", "price": 10, "estimated_production_time": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, env, &p1)

	w, env = doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"code": "P2", "name": "Gadget", "price": 5, "estimated_production_time": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, env, &p2)

	// Order fan-out
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"order_number":     "ORD-1",
		"customer_name":    "Acme",
		"customer_contact": "ops@acme.test",
		"delivery_date":    "2026-12-01T00:00:00Z",
		"items": []map[string]interface{}{
			{"product_id": p1.ID, "quantity": 2},
			{"product_id": p2.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order struct {
		ID          uint    `json:"id"`
		Status      string  `json:"status"`
		TotalAmount float64 `json:"total_amount"`
		CreatedBy   string  `json:"created_by"`
		Items       []struct {
			Price float64 `json:"price"`
		} `json:"items"`
	}
	decodeData(t, env, &order)
	assert.Equal(t, "pending", order.Status)
	assert.InDelta(t, 25.0, order.TotalAmount, 0.001)
	assert.Equal(t, "auth0|planner", order.CreatedBy)
	assert.Len(t, order.Items, 2)

	// Duplicate order number
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"order_number":     "ORD-1",
		"customer_name":    "Acme",
		"customer_contact": "ops@acme.test",
		"delivery_date":    "2026-12-01T00:00:00Z",
		"items":            []map[string]interface{}{{"product_id": p1.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORDER_EXISTS", env.Error.Code)

	// Generated activities
	w, env = doRequest(t, router, http.MethodGet, "/api/v1/activities/order/"+itoa(order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var activities []struct {
		ID             uint    `json:"id"`
		ActivityCode   string  `json:"activity_code"`
		Status         string  `json:"status"`
		EstimatedHours float64 `json:"estimated_hours"`
	}
	decodeData(t, env, &activities)
	require.Len(t, activities, 2)
	assert.Equal(t, "ACT-ORD-1-P1", activities[0].ActivityCode)
	assert.Equal(t, "ACT-ORD-1-P2", activities[1].ActivityCode)
	assert.InDelta(t, 4.0, activities[0].EstimatedHours, 0.001)
	assert.InDelta(t, 1.0, activities[1].EstimatedHours, 0.001)

	// Workforce
	w, env = doRequest(t, router, http.MethodPost, "/api/v1/operators", map[string]interface{}{
		"code": "OP-1", "name": "Jo", "role": "assembler",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var operator struct {
		ID uint `json:"id"`
	}
	decodeData(t, env, &operator)

	for _, activity := range activities {
		w, _ = doRequest(t, router, http.MethodPut, "/api/v1/activities/"+itoa(activity.ID)+"/assign", map[string]interface{}{
			"operator_id": operator.ID,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/operators/"+itoa(operator.ID)+"/workload", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var report services.WorkloadReport
	decodeData(t, env, &report)
	assert.Equal(t, 2, report.Workload.TotalActivities)
	assert.Equal(t, 2, report.Workload.PendingActivities)
	assert.InDelta(t, 5.0, report.Workload.TotalEstimatedHours, 0.001)

	// Operators with work cannot be removed
	w, env = doRequest(t, router, http.MethodDelete, "/api/v1/operators/"+itoa(operator.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "OPERATOR_HAS_ACTIVITIES", env.Error.Code)

	// Completing every activity completes the order
	for _, activity := range activities {
		w, _ = doRequest(t, router, http.MethodPut, "/api/v1/activities/"+itoa(activity.ID)+"/status", map[string]interface{}{
			"status": "in-progress",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w, _ = doRequest(t, router, http.MethodPut, "/api/v1/activities/"+itoa(activity.ID)+"/status", map[string]interface{}{
			"status": "completed", "actual_hours": 3,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/orders/"+itoa(order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &order)
	assert.Equal(t, "completed", order.Status)

	// Closed orders cannot be edited
	w, env = doRequest(t, router, http.MethodPut, "/api/v1/orders/"+itoa(order.ID), map[string]interface{}{
		"notes": "late change",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ORDER_CLOSED", env.Error.Code)

	// Delete cascades to activities
	w, env = doRequest(t, router, http.MethodDelete, "/api/v1/orders/"+itoa(order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order removed", env.Message)

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/activities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, env, &activities)
	assert.Empty(t, activities)
}

func TestNotFoundAndValidationErrors(t *testing.T) {
	router := setupTestRouter(t)

	w, env := doRequest(t, router, http.MethodGet, "/api/v1/orders/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", env.Error.Code)

	w, env = doRequest(t, router, http.MethodGet, "/api/v1/activities/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", env.Error.Code)

	w, env = doRequest(t, router, http.MethodPost, "/api/v1/orders", map[string]interface{}{
		"order_number": "ORD-2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	w, env = doRequest(t, router, http.MethodPut, "/api/v1/orders/1/status", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}
