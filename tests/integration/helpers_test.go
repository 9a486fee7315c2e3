package integration

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/controllers"
	"github.com/kendall-kelly/production-tracker-api/middleware"
	"github.com/kendall-kelly/production-tracker-api/tests/testutil"
	"github.com/stretchr/testify/require"
)

const plannerSubject = "auth0|planner"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newDomainRouter wires the production routes behind the bearer test middleware
func newDomainRouter(scopes ...string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())

	api := router.Group("/api/v1")
	api.Use(testutil.BearerAuthMiddleware(scopes...))
	{
		api.GET("/uploads/:filename", controllers.GetUploadedImage)

		products := api.Group("/products")
		products.GET("", controllers.ListProducts)
		products.GET("/:id", controllers.GetProduct)
		products.POST("", middleware.RequireScope("write:catalog"), controllers.CreateProduct)
		products.DELETE("/:id", middleware.RequireScope("write:catalog"), controllers.DeleteProduct)
		products.POST("/:id/image", middleware.RequireScope("write:catalog"), controllers.UploadProductImage)

		operators := api.Group("/operators")
		operators.POST("", controllers.CreateOperator)
		operators.DELETE("/:id", controllers.DeleteOperator)
		operators.GET("/:id/workload", controllers.GetOperatorWorkload)

		orders := api.Group("/orders")
		orders.GET("", controllers.ListOrders)
		orders.GET("/:id", controllers.GetOrder)
		orders.POST("", controllers.CreateOrder)
		orders.PUT("/:id", controllers.UpdateOrder)
		orders.PUT("/:id/status", controllers.UpdateOrderStatus)
		orders.DELETE("/:id", middleware.RequireScope("delete:orders"), controllers.DeleteOrder)

		activities := api.Group("/activities")
		activities.GET("", controllers.ListActivities)
		activities.GET("/order/:orderId", controllers.ListActivitiesByOrder)
		activities.GET("/operator/:operatorId", controllers.ListActivitiesByOperator)
		activities.PUT("/:id/assign", controllers.AssignActivity)
		activities.PUT("/:id/status", controllers.UpdateActivityStatus)
	}
	return router
}

func serveJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+plannerSubject)
	return serve(t, router, req)
}

func serveImage(t *testing.T, router http.Handler, path, filename string, content []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+plannerSubject)
	return serve(t, router, req)
}

func serve(t *testing.T, router http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "image/png" && w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
