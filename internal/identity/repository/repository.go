package repository

import (
	"context"
	"time"

	"spinlink/internal/identity/domain"
)

// Repository defines persistence for refresh tokens.
type Repository interface {
	Create(ctx context.Context, t *domain.RefreshToken) error
	// GetByHash returns the refresh token whose stored hash matches, or nil if
	// not found. Verification is lookup-by-hash; the raw value is never stored.
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	// Revoke marks the token as revoked at the given instant.
	Revoke(ctx context.Context, id string, at time.Time) error
	// RevokeAllByUser revokes every usable token of the user.
	RevokeAllByUser(ctx context.Context, userID string, at time.Time) error
}
