package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/models"
	"github.com/kendall-kelly/production-tracker-api/services"
)

// ListActivities handles GET /api/v1/activities - optionally filtered by ?status=
func ListActivities(c *gin.Context) {
	listActivities(c, services.ActivityFilter{Status: models.ActivityStatus(c.Query("status"))})
}

// ListActivitiesByOrder handles GET /api/v1/activities/order/:orderId
func ListActivitiesByOrder(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}
	listActivities(c, services.ActivityFilter{OrderID: orderID})
}

// ListActivitiesByOperator handles GET /api/v1/activities/operator/:operatorId
func ListActivitiesByOperator(c *gin.Context) {
	operatorID, ok := paramID(c, "operatorId")
	if !ok {
		return
	}
	listActivities(c, services.ActivityFilter{OperatorID: operatorID})
}

func listActivities(c *gin.Context, filter services.ActivityFilter) {
	activities, err := services.NewActivityService(config.GetDB()).List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, activities)
}

// GetActivity handles GET /api/v1/activities/:id
func GetActivity(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	activity, err := services.NewActivityService(config.GetDB()).Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, activity)
}

// UpdateActivity handles PUT /api/v1/activities/:id
func UpdateActivity(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.ActivityPatch
	if !bindJSON(c, &req) {
		return
	}

	activity, err := services.NewActivityService(config.GetDB()).Update(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, activity)
}

// AssignActivity handles PUT /api/v1/activities/:id/assign
func AssignActivity(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.Assignment
	if !bindJSON(c, &req) {
		return
	}

	activity, err := services.NewActivityService(config.GetDB()).Assign(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, activity)
}

// UpdateActivityStatus handles PUT /api/v1/activities/:id/status
func UpdateActivityStatus(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.StatusChange
	if !bindJSON(c, &req) {
		return
	}

	activity, err := services.NewActivityService(config.GetDB()).UpdateStatus(c.Request.Context(), caller, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, activity)
}
