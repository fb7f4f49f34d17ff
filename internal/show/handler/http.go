package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"spinlink/internal/connectcode"
	"spinlink/internal/logging"
	"spinlink/internal/server/middleware"
	"spinlink/internal/show/service"
	"spinlink/internal/telemetry"
	telemetrydomain "spinlink/internal/telemetry/domain"
)

// Server exposes the show lifecycle over HTTP: public connect-code resolution
// plus endpoint-authenticated creation and termination.
type Server struct {
	ledger  *service.Ledger
	emitter telemetry.EventEmitter
	logger  *zap.Logger
}

func NewServer(ledger *service.Ledger, emitter telemetry.EventEmitter, logger *zap.Logger) *Server {
	return &Server{ledger: ledger, emitter: emitter, logger: logger}
}

type createShowRequest struct {
	EndpointID string `json:"endpoint_id"`
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
}

// Create handles POST /shows.
func (s *Server) Create(c *gin.Context) {
	endpoint, ok := middleware.EndpointFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	var req createShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	show, err := s.ledger.Create(c.Request.Context(), endpoint.ID, req.EndpointID, req.Name, req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required and capacity must be non-negative"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "endpoint_id does not match the authenticated endpoint"})
		case errors.Is(err, connectcode.ErrExhaustedAttempts):
			s.logger.Error("code generation exhausted", logging.EndpointID(endpoint.ID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not allocate a unique code"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	telemetry.EmitAsync(s.emitter, c.Request.Context(), &telemetrydomain.SessionEvent{
		TenantID:   endpoint.TenantID,
		EndpointID: endpoint.ID,
		ShowID:     show.ID,
		EventType:  telemetrydomain.EventShowCreated,
		Source:     "api",
		CreatedAt:  show.CreatedAt,
	})
	c.JSON(http.StatusCreated, gin.H{
		"show_id":     show.ID,
		"code":        show.Code,
		"name":        show.Name,
		"endpoint_id": show.EndpointID,
		"capacity":    show.Capacity,
		"created_at":  show.CreatedAt.Format(time.RFC3339),
	})
}

// Resolve handles GET /connect/:code. Anonymous; the rate limiter in front of
// it is the only gate.
func (s *Server) Resolve(c *gin.Context) {
	res, err := s.ledger.Resolve(c.Request.Context(), c.Param("code"), c.Query("display_name"), c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCodeNotFound), errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusNotFound, gin.H{"error": "no active show for that code"})
		case errors.Is(err, service.ErrEndpointOffline):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "endpoint is offline"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	telemetry.EmitAsync(s.emitter, c.Request.Context(), &telemetrydomain.SessionEvent{
		ShowID:    res.ShowID,
		SessionID: res.SessionID,
		EventType: telemetrydomain.EventDJConnected,
		Source:    "api",
		CreatedAt: time.Now().UTC(),
	})
	c.JSON(http.StatusOK, gin.H{
		"endpoint_address": res.EndpointAddress,
		"token":            res.Token,
		"token_expires_at": res.TokenExpiresAt.Format(time.RFC3339),
		"show_name":        res.ShowName,
		"occupancy":        res.Occupancy,
		"capacity":         res.Capacity,
		"session_id":       res.SessionID,
	})
}

// End handles DELETE /shows/:id.
func (s *Server) End(c *gin.Context) {
	endpoint, ok := middleware.EndpointFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	show, err := s.ledger.End(c.Request.Context(), endpoint.ID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrShowNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "show not found"})
		case errors.Is(err, service.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "show belongs to another endpoint"})
		case errors.Is(err, service.ErrAlreadyEnded):
			c.JSON(http.StatusBadRequest, gin.H{"error": "show already ended"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	telemetry.EmitAsync(s.emitter, c.Request.Context(), &telemetrydomain.SessionEvent{
		TenantID:   endpoint.TenantID,
		EndpointID: endpoint.ID,
		ShowID:     show.ID,
		EventType:  telemetrydomain.EventShowEnded,
		Source:     "api",
		CreatedAt:  *show.EndedAt,
	})
	c.JSON(http.StatusOK, gin.H{
		"show_id":  show.ID,
		"status":   string(show.Status),
		"ended_at": show.EndedAt.Format(time.RFC3339),
	})
}
