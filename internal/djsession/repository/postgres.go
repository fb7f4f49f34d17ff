package repository

import (
	"context"
	"database/sql"
	"time"

	"spinlink/internal/djsession/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a DJ session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the session. The session must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	var disconnected sql.NullTime
	if s.DisconnectedAt != nil {
		disconnected = sql.NullTime{Time: *s.DisconnectedAt, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dj_sessions (id, show_id, display_name, client_addr, connected_at, disconnected_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.ShowID, s.DisplayName, s.ClientAddr, s.ConnectedAt, disconnected)
	return err
}

// MarkDisconnected records the disconnect timestamp for the session.
func (r *PostgresRepository) MarkDisconnected(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dj_sessions SET disconnected_at = $2 WHERE id = $1 AND disconnected_at IS NULL`, id, at)
	return err
}

// ListByShow returns all sessions for showID, oldest first.
func (r *PostgresRepository) ListByShow(ctx context.Context, showID string) ([]*domain.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, show_id, display_name, client_addr, connected_at, disconnected_at
		 FROM dj_sessions WHERE show_id = $1 ORDER BY connected_at`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Session
	for rows.Next() {
		var s domain.Session
		var disconnected sql.NullTime
		if err := rows.Scan(&s.ID, &s.ShowID, &s.DisplayName, &s.ClientAddr, &s.ConnectedAt, &disconnected); err != nil {
			return nil, err
		}
		if disconnected.Valid {
			s.DisconnectedAt = &disconnected.Time
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}
