package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/models"
	"github.com/kendall-kelly/production-tracker-api/services"
)

// UpdateOrderStatusRequest represents the request body for changing an order's status
type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// ListOrders handles GET /api/v1/orders - lists orders, optionally filtered by ?status=
func ListOrders(c *gin.Context) {
	filter := services.OrderFilter{Status: models.OrderStatus(c.Query("status"))}

	orders, err := services.NewOrderService(config.GetDB()).List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/v1/orders - creates an order and its production activities
func CreateOrder(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}

	var req services.CreateOrderInput
	if !bindJSON(c, &req) {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Create(c.Request.Context(), caller, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/v1/orders/:id - edits an open order
func UpdateOrder(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.OrderPatch
	if !bindJSON(c, &req) {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := services.NewOrderService(config.GetDB()).UpdateStatus(c.Request.Context(), caller, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id - removes the order and its activities
func DeleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := services.NewOrderService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order removed",
	})
}
