package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	endpointdomain "spinlink/internal/endpoint/domain"
	"spinlink/internal/security"
)

// Context keys set by the auth middlewares.
const (
	ctxEndpoint = "auth_endpoint"
	ctxUserID   = "auth_user_id"
)

// EndpointAuthenticator resolves an API key to its endpoint.
type EndpointAuthenticator interface {
	Authenticate(ctx context.Context, displayKey string) (*endpointdomain.Endpoint, error)
}

// apiKeyHeader carries the endpoint API key. The Authorization header is left
// to user-session bearer tokens so both schemes can coexist on one route tree.
const apiKeyHeader = "X-API-Key"

// APIKeyAuth authenticates the calling endpoint by API key. Missing, malformed
// and wrong keys all yield the same 401.
func APIKeyAuth(auth EndpointAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(apiKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}
		endpoint, err := auth.Authenticate(c.Request.Context(), key)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}
		c.Set(ctxEndpoint, endpoint)
		c.Next()
	}
}

// BearerAuth authenticates a user-session bearer token and stashes the user id.
func BearerAuth(tokens *security.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		userID, err := tokens.VerifyUserSession(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// EndpointFromContext returns the endpoint set by APIKeyAuth.
func EndpointFromContext(c *gin.Context) (*endpointdomain.Endpoint, bool) {
	v, ok := c.Get(ctxEndpoint)
	if !ok {
		return nil, false
	}
	e, ok := v.(*endpointdomain.Endpoint)
	return e, ok
}

// UserIDFromContext returns the user id set by BearerAuth.
func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
