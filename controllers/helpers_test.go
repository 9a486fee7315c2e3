package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/models"
	"github.com/kendall-kelly/production-tracker-api/services"
	"github.com/kendall-kelly/production-tracker-api/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testUserID = "auth0|controller-test"

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// setupTestDB installs a fresh in-memory database without image storage
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	services.SetImageService(nil)
	return testutil.NewTestDB(t)
}

// setupTestRouter registers handler for method and path behind a mock caller
func setupTestRouter(method, path string, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(testutil.MockAuthMiddleware(testUserID))
	router.Handle(method, path, handler)
	return router
}

func performRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func createTestProduct(t *testing.T, db *gorm.DB, code string, price, hours float64) *models.Product {
	t.Helper()
	product := &models.Product{
		Code:                    code,
		Name:                    "Product " + code,
		Price:                   price,
		EstimatedProductionTime: hours,
		Materials:               []models.Material{},
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createTestOperator(t *testing.T, db *gorm.DB, code string) *models.Operator {
	t.Helper()
	operator := &models.Operator{
		Code:     code,
		Name:     "Operator " + code,
		Role:     "assembler",
		Skills:   []string{},
		IsActive: true,
	}
	require.NoError(t, db.Create(operator).Error)
	return operator
}

// createTestOrder creates an order through the service so its activities exist
func createTestOrder(t *testing.T, db *gorm.DB, number string, products ...*models.Product) *models.Order {
	t.Helper()
	items := make([]services.OrderItemInput, 0, len(products))
	for _, p := range products {
		items = append(items, services.OrderItemInput{ProductID: p.ID, Quantity: 1})
	}
	delivery := time.Now().Add(14 * 24 * time.Hour)
	order, err := services.NewOrderService(db).Create(t.Context(), services.Principal{Subject: testUserID}, services.CreateOrderInput{
		OrderNumber:     number,
		CustomerName:    "Acme",
		CustomerContact: "ops@acme.test",
		DeliveryDate:    &delivery,
		Items:           items,
	})
	require.NoError(t, err)
	return order
}

func urlf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

func assertStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, w.Body.String())
}
