package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// FeatureGate rejects requests while a feature flag is off.
func FeatureGate(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "AI chat feature is not enabled"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CORSMiddleware handles CORS headers for the public chat widget.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
