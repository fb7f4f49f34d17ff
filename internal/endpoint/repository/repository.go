package repository

import (
	"context"
	"time"

	"spinlink/internal/endpoint/domain"
)

// Repository defines persistence for endpoints.
type Repository interface {
	// GetByID returns the endpoint for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Endpoint, error)
	// GetByAPIKeyPrefix returns the endpoint whose API key carries the given
	// lookup prefix, or nil if not found.
	GetByAPIKeyPrefix(ctx context.Context, prefix string) (*domain.Endpoint, error)
	// ListByTenant returns all endpoints owned by the tenant.
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.Endpoint, error)
	Create(ctx context.Context, e *domain.Endpoint) error
	// UpdateHeartbeat records the endpoint's last heartbeat timestamp.
	UpdateHeartbeat(ctx context.Context, id string, at time.Time) error
}
