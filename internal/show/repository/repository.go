package repository

import (
	"context"
	"errors"
	"time"

	"spinlink/internal/show/domain"
)

// ErrCodeConflict is returned by Create when the show's code is already bound
// to another active show. The partial unique index is the final authority on
// code uniqueness; callers treat this as a signal to regenerate, bounded by
// the generator's attempt cap.
var ErrCodeConflict = errors.New("code already bound to an active show")

// Repository defines persistence for shows.
type Repository interface {
	// Create persists a new active show. Returns ErrCodeConflict if the code
	// lost a race with a concurrent creation.
	Create(ctx context.Context, s *domain.Show) error
	// GetByID returns the show for id, or nil if not found.
	GetByID(ctx context.Context, id string) (*domain.Show, error)
	// CodeExists reports whether the normalized code is bound to an active show.
	CodeExists(ctx context.Context, code string) (bool, error)
	// GetActiveByCode returns the active show holding the normalized code
	// without side effects, or nil when no active show holds it.
	GetActiveByCode(ctx context.Context, code string) (*domain.Show, error)
	// ResolveAndIncrement atomically looks up the active show holding the
	// normalized code and increments its occupancy. Returns the post-increment
	// row, or nil when no active show holds the code. Concurrent calls for the
	// same code must each increment exactly once.
	ResolveAndIncrement(ctx context.Context, code string) (*domain.Show, error)
	// End transitions the show to ended, recording endedAt and clearing the
	// code, but only if it is still active. Returns false when the show was
	// not active (already ended).
	End(ctx context.Context, id string, endedAt time.Time) (bool, error)
	// ListActiveByTenant returns all active shows across the tenant's endpoints.
	ListActiveByTenant(ctx context.Context, tenantID string) ([]*domain.Show, error)
}
