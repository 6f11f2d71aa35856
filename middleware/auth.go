// Package middleware carries the boundary concerns of the API: bearer-token
// identity extraction and per-user admission control.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by Auth for downstream handlers.
const (
	ContextUserID = "userID"
	ContextEmail  = "email"
)

// Auth extracts the user identity from the Authorization bearer token. The
// token signature is NOT verified here: verification belongs to the user
// service that issued it, and this service only needs the user_id claim.
// Requests without a usable identity are rejected with 401 before reaching
// any handler.
func Auth() gin.HandlerFunc {
	parser := jwt.NewParser()

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed token"})
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token missing user_id claim"})
			return
		}

		c.Set(ContextUserID, userID)
		if email, ok := claims["email"].(string); ok {
			c.Set(ContextEmail, email)
		}
		c.Next()
	}
}

// UserID returns the authenticated user set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
