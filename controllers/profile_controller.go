package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/config"
	"github.com/kendall-kelly/production-tracker-api/middleware"
	"github.com/kendall-kelly/production-tracker-api/services"
)

// GetMyProfile handles GET /api/v1/me - returns the caller's Auth0 profile
func GetMyProfile(c *gin.Context) {
	caller, ok := principal(c)
	if !ok {
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_TOKEN",
				"message": "Access token not found",
			},
		})
		return
	}

	userInfo, err := services.NewAuth0Service(config.GetConfig()).GetUserInfo(c.Request.Context(), accessToken)
	var auth0Err *services.Auth0Error
	if errors.As(err, &auth0Err) && auth0Err.TokenRejected() {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_TOKEN",
				"message": "Auth0 rejected the access token",
			},
		})
		return
	}
	if err != nil {
		log.Printf("[%s] userinfo lookup for %s failed: %v", middleware.GetRequestID(c), caller.Subject, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH0_ERROR",
				"message": "Failed to fetch user information from Auth0",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"subject": caller.Subject,
			"name":    userInfo.Name,
			"email":   userInfo.Email,
		},
	})
}
