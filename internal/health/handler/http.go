package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger checks database reachability. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server answers liveness probes for Kubernetes, load balancers, and CI.
type Server struct {
	db Pinger
}

// NewServer returns a health handler. db may be nil; then only process
// liveness is reported.
func NewServer(db Pinger) *Server {
	return &Server{db: db}
}

// Check handles GET /healthz.
func (s *Server) Check(c *gin.Context) {
	if s.db != nil {
		if err := s.db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
