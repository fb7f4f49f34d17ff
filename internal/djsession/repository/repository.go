package repository

import (
	"context"
	"time"

	"spinlink/internal/djsession/domain"
)

// Repository defines persistence for DJ sessions (the append-only join log).
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	// MarkDisconnected records a disconnect timestamp on the session. It is
	// metadata only and does not touch show occupancy.
	MarkDisconnected(ctx context.Context, id string, at time.Time) error
	// ListByShow returns all sessions for the show, oldest first.
	ListByShow(ctx context.Context, showID string) ([]*domain.Session, error)
}
