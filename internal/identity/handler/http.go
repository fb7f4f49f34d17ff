package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spinlink/internal/identity/service"
)

// Server exposes user-session token issuance and refresh rotation.
type Server struct {
	tokens *service.TokenService
}

func NewServer(tokens *service.TokenService) *Server {
	return &Server{tokens: tokens}
}

type tokenRequest struct {
	UserID string `json:"user_id"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Token handles POST /auth/token.
func (s *Server) Token(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	pair, err := s.tokens.Issue(c.Request.Context(), req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	writePair(c, pair)
}

// Refresh handles POST /auth/refresh. A refresh token is single-use; reuse of
// a rotated token fails the same way as an unknown one.
func (s *Server) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refresh_token is required"})
		return
	}
	pair, err := s.tokens.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	writePair(c, pair)
}

// Logout handles POST /auth/logout. Revocation is idempotent; unknown tokens
// still get a 200 so logout never leaks token validity.
func (s *Server) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := s.tokens.Revoke(c.Request.Context(), req.RefreshToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func writePair(c *gin.Context, pair *service.TokenPair) {
	c.JSON(http.StatusOK, gin.H{
		"session_token": pair.SessionToken,
		"refresh_token": pair.RefreshToken,
		"expires_at":    pair.ExpiresAt.Format(time.RFC3339),
		"user_id":       pair.UserID,
	})
}
