package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"paysentry.backend/pkg/crypto"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminAuthMiddleware guards operator endpoints with a bcrypt-hashed
// static key. An empty configured hash disables the endpoints entirely.
func AdminAuthMiddleware(adminKeyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKeyHash == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "operator endpoints are disabled",
			})
			return
		}

		key := c.GetHeader(AdminKeyHeader)
		if key == "" || !crypto.CheckAdminKey(key, adminKeyHash) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "invalid operator key",
			})
			return
		}

		c.Next()
	}
}
