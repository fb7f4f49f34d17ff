package repository

import (
	"context"

	"spinlink/internal/tenant/domain"
)

// Repository defines persistence for tenants.
type Repository interface {
	// GetBySlug returns the tenant for the normalized slug, or nil if not found.
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
	// GetByID returns the tenant for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Tenant, error)
	Create(ctx context.Context, t *domain.Tenant) error
}
