package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"booking/internal/service"
)

// adminUserKey is the context key under which the verified admin username is stored.
const adminUserKey = "adminUser"

// AdminAuth returns middleware that rejects requests without a valid admin
// session token. Verification checks the signature and the embedded expiry
// on every request; administrative handlers never run unauthenticated.
func AdminAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "not authenticated"})
			return
		}

		username, err := authService.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid or expired session"})
			return
		}

		c.Set(adminUserKey, username)
		c.Next()
	}
}

// AdminUser returns the verified admin username from the request context.
func AdminUser(c *gin.Context) string {
	if v, ok := c.Get(adminUserKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
