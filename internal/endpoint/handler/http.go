package handler

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spinlink/internal/endpoint/service"
	"spinlink/internal/logging"
	"spinlink/internal/server/middleware"
	"spinlink/internal/telemetry"
	telemetrydomain "spinlink/internal/telemetry/domain"
)

// Server exposes endpoint registration and liveness over HTTP.
type Server struct {
	endpoints *service.Service
	emitter   telemetry.EventEmitter
	logger    *zap.Logger
}

func NewServer(endpoints *service.Service, emitter telemetry.EventEmitter, logger *zap.Logger) *Server {
	return &Server{endpoints: endpoints, emitter: emitter, logger: logger}
}

type registerRequest struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Address  string `json:"address"`
}

// Register handles POST /endpoints. The response carries the API key and
// signing secret exactly once; neither is recoverable afterwards.
func (s *Server) Register(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	reg, err := s.endpoints.Register(c.Request.Context(), userID, req.TenantID, req.Name, req.Address)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and address are required"})
		case errors.Is(err, service.ErrTenantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "tenant not found"})
		case errors.Is(err, service.ErrNotTenantOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "tenant belongs to another user"})
		default:
			s.logger.Error("endpoint registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	telemetry.EmitAsync(s.emitter, c.Request.Context(), &telemetrydomain.SessionEvent{
		TenantID:   reg.Endpoint.TenantID,
		EndpointID: reg.Endpoint.ID,
		EventType:  telemetrydomain.EventEndpointRegistered,
		Source:     "api",
		CreatedAt:  reg.Endpoint.CreatedAt,
	})
	c.JSON(http.StatusCreated, gin.H{
		"endpoint_id":    reg.Endpoint.ID,
		"tenant_id":      reg.Endpoint.TenantID,
		"name":           reg.Endpoint.Name,
		"address":        reg.Endpoint.Address,
		"api_key":        reg.DisplayKey,
		"signing_secret": base64.StdEncoding.EncodeToString(reg.Endpoint.SigningSecret),
		"created_at":     reg.Endpoint.CreatedAt.Format(time.RFC3339),
	})
}

// Heartbeat handles PUT /endpoints/:id/heartbeat.
func (s *Server) Heartbeat(c *gin.Context) {
	endpoint, ok := middleware.EndpointFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	at, err := s.endpoints.Heartbeat(c.Request.Context(), endpoint.ID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "endpoint may only report its own heartbeat"})
		case errors.Is(err, service.ErrEndpointNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "endpoint not found"})
		default:
			s.logger.Error("heartbeat failed", logging.EndpointID(endpoint.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	telemetry.EmitAsync(s.emitter, c.Request.Context(), &telemetrydomain.SessionEvent{
		TenantID:   endpoint.TenantID,
		EndpointID: endpoint.ID,
		EventType:  telemetrydomain.EventEndpointHeartbeat,
		Source:     "api",
		CreatedAt:  at,
	})
	c.JSON(http.StatusOK, gin.H{
		"endpoint_id":    endpoint.ID,
		"last_heartbeat": at.Format(time.RFC3339),
	})
}
