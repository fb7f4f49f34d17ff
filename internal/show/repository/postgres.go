package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"spinlink/internal/show/domain"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a show repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const showColumns = `id, endpoint_id, name, code, status, capacity, occupancy, created_at, ended_at`

// Create persists a new active show. A unique-violation on the partial code
// index is mapped to ErrCodeConflict so the caller can regenerate.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Show) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO shows (`+showColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.EndpointID, s.Name, codeToNullString(s.Code), string(s.Status),
		s.Capacity, s.Occupancy, s.CreatedAt, timeToNullTime(s.EndedAt))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrCodeConflict
	}
	return err
}

// GetByID returns the show for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Show, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+showColumns+` FROM shows WHERE id = $1`, id)
	s, err := scanShow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// CodeExists reports whether code is bound to an active show.
func (r *PostgresRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM shows WHERE code = $1 AND status = 'active')`, code).Scan(&exists)
	return exists, err
}

// GetActiveByCode returns the active show holding code, or nil when none does.
func (r *PostgresRepository) GetActiveByCode(ctx context.Context, code string) (*domain.Show, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+showColumns+` FROM shows WHERE code = $1 AND status = 'active'`, code)
	s, err := scanShow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// ResolveAndIncrement atomically increments occupancy for the active show
// holding code and returns the updated row. The single UPDATE ... RETURNING
// cannot lose concurrent increments, and a resolution racing a termination
// sees either the active row (increment wins) or no row (termination won),
// never a half-applied state.
func (r *PostgresRepository) ResolveAndIncrement(ctx context.Context, code string) (*domain.Show, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE shows SET occupancy = occupancy + 1
		 WHERE code = $1 AND status = 'active'
		 RETURNING `+showColumns, code)
	s, err := scanShow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// End transitions the show to ended and clears its code, but only from the
// active state. Returns false when no active row matched.
func (r *PostgresRepository) End(ctx context.Context, id string, endedAt time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shows SET status = 'ended', ended_at = $2, code = NULL
		 WHERE id = $1 AND status = 'active'`, id, endedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListActiveByTenant returns all active shows owned by the tenant's endpoints,
// oldest first.
func (r *PostgresRepository) ListActiveByTenant(ctx context.Context, tenantID string) ([]*domain.Show, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.endpoint_id, s.name, s.code, s.status, s.capacity, s.occupancy, s.created_at, s.ended_at
		 FROM shows s
		 JOIN endpoints e ON e.id = s.endpoint_id
		 WHERE e.tenant_id = $1 AND s.status = 'active'
		 ORDER BY s.created_at`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Show
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(s rowScanner) (*domain.Show, error) {
	var sh domain.Show
	var code sql.NullString
	var status string
	var endedAt sql.NullTime
	err := s.Scan(&sh.ID, &sh.EndpointID, &sh.Name, &code, &status,
		&sh.Capacity, &sh.Occupancy, &sh.CreatedAt, &endedAt)
	if err != nil {
		return nil, err
	}
	if code.Valid {
		sh.Code = code.String
	}
	sh.Status = domain.ShowStatus(status)
	if endedAt.Valid {
		sh.EndedAt = &endedAt.Time
	}
	return &sh, nil
}

func codeToNullString(code string) sql.NullString {
	return sql.NullString{String: code, Valid: code != ""}
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
