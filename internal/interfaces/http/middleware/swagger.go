package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SwaggerProtection hides the documentation routes when they are turned
// off in configuration, answering 404 as if they did not exist.
func SwaggerProtection(enabled bool) gin.HandlerFunc {
	if enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "API documentation is not available",
		})
	}
}
