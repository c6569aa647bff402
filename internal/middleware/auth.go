package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// InternalAPIKeyHeader carries the service-to-service credential
const InternalAPIKeyHeader = "X-Internal-API-Key"

// InternalAuthMiddleware admits requests whose X-Internal-API-Key matches
// apiKey. An empty apiKey rejects everything with 500 so a missing secret is
// never mistaken for open access.
func InternalAuthMiddleware(apiKey string) gin.HandlerFunc {
	if apiKey == "" {
		log.Error().Str("component", "auth").Msg("Internal API key not set, rejecting all internal requests")
		return func(c *gin.Context) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal API key not configured"})
		}
	}
	expected := []byte(apiKey)

	return func(c *gin.Context) {
		if subtle.ConstantTimeCompare([]byte(c.GetHeader(InternalAPIKeyHeader)), expected) != 1 {
			log.Warn().
				Str("component", "auth").
				Str("path", c.Request.URL.Path).
				Str("client_ip", c.ClientIP()).
				Msg("Rejected internal request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
