package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/services"
)

// ListOperators handles GET /api/v1/operators
func ListOperators(c *gin.Context) {
	operators, err := services.NewOperatorService(config.GetDB()).List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, operators)
}

// GetOperator handles GET /api/v1/operators/:id
func GetOperator(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	operator, err := services.NewOperatorService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, operator)
}

// CreateOperator handles POST /api/v1/operators
func CreateOperator(c *gin.Context) {
	var req services.OperatorInput
	if !bindJSON(c, &req) {
		return
	}

	operator, err := services.NewOperatorService(config.GetDB()).Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, operator)
}

// UpdateOperator handles PUT /api/v1/operators/:id
func UpdateOperator(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.OperatorPatch
	if !bindJSON(c, &req) {
		return
	}

	operator, err := services.NewOperatorService(config.GetDB()).Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, operator)
}

// DeleteOperator handles DELETE /api/v1/operators/:id - refused while activities are assigned
func DeleteOperator(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := services.NewOperatorService(config.GetDB()).Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Operator removed",
	})
}

// GetOperatorWorkload handles GET /api/v1/operators/:id/workload
func GetOperatorWorkload(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	report, err := services.NewActivityService(config.GetDB()).Workload(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, report)
}
