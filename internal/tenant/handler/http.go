package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spinlink/internal/tenant/service"
)

// Server exposes the public tenant directory.
type Server struct {
	tenants *service.Service
}

func NewServer(tenants *service.Service) *Server {
	return &Server{tenants: tenants}
}

// Resolve handles GET /tenants/resolve?slug=.
func (s *Server) Resolve(c *gin.Context) {
	dir, err := s.tenants.Resolve(c.Request.Context(), c.Query("slug"))
	if err != nil {
		if errors.Is(err, service.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	endpoints := make([]gin.H, 0, len(dir.Endpoints))
	for _, e := range dir.Endpoints {
		item := gin.H{
			"endpoint_id": e.ID,
			"name":        e.Name,
			"address":     e.Address,
			"active":      e.Active,
		}
		if e.LastHeartbeat != nil {
			item["last_heartbeat"] = e.LastHeartbeat.Format(time.RFC3339)
		}
		endpoints = append(endpoints, item)
	}
	shows := make([]gin.H, 0, len(dir.ActiveShows))
	for _, sh := range dir.ActiveShows {
		shows = append(shows, gin.H{
			"show_id":     sh.ID,
			"endpoint_id": sh.EndpointID,
			"name":        sh.Name,
			"occupancy":   sh.Occupancy,
			"capacity":    sh.Capacity,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"tenant_id":    dir.Tenant.ID,
		"slug":         dir.Tenant.Slug,
		"endpoints":    endpoints,
		"active_shows": shows,
	})
}
