package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"spinlink/internal/audit"
)

// Audit records one audit log entry per completed request, best-effort. It
// also stashes the client IP in the request context so deeper layers and the
// audit logger's IP extractor see the same address. Health checks are skipped.
func Audit(logger audit.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(audit.WithClientIP(c.Request.Context(), c.ClientIP()))
		c.Next()

		path := c.FullPath()
		if path == "" || path == "/healthz" {
			return
		}
		ar := audit.ParseRoute(c.Request.Method, path)

		var tenantID, actor string
		if endpoint, ok := EndpointFromContext(c); ok {
			tenantID = endpoint.TenantID
			actor = endpoint.ID
		} else if userID, ok := UserIDFromContext(c); ok {
			actor = userID
		}
		meta := "status=" + strconv.Itoa(c.Writer.Status())
		logger.LogEvent(c.Request.Context(), tenantID, actor, ar.Action, ar.Resource, meta)
	}
}
