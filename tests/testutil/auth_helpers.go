package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/production-tracker-api/middleware"
)

// TestIssuer is the issuer stamped on mock claims
const TestIssuer = "https://test.auth0.com/"

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject string, scopes []string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  TestIssuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
		},
	}
}

// SetMockAuthContext stores a caller on the context the way EnsureValidToken does
func SetMockAuthContext(c *gin.Context, userID string, scopes []string) {
	c.Set("user_id", userID)
	c.Set("access_token", "test-token-"+userID)
	c.Set("validated_claims", MockValidatedClaims(userID, scopes))
}

// MockAuthMiddleware authenticates every request as userID with the given scopes
func MockAuthMiddleware(userID string, scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAuthContext(c, userID, scopes)
		c.Next()
	}
}

// BearerAuthMiddleware accepts "Authorization: Bearer <subject>" and rejects
// requests without it with the same envelope as EnsureValidToken.
// Every accepted caller gets the given scopes.
func BearerAuthMiddleware(scopes ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subject == "" || subject == c.GetHeader("Authorization") {
			c.AbortWithStatusJSON(401, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TOKEN",
					"message": "Failed to validate JWT.",
				},
			})
			return
		}
		SetMockAuthContext(c, subject, scopes)
		c.Next()
	}
}
