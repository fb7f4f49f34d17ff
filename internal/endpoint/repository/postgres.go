package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"spinlink/internal/endpoint/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an endpoint repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const endpointColumns = `id, tenant_id, name, address, api_key_prefix, api_key_hash, signing_secret, active, last_heartbeat, created_at`

// GetByID returns the endpoint for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Endpoint, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+endpointColumns+` FROM endpoints WHERE id = $1`, id)
	return scanEndpoint(row)
}

// GetByAPIKeyPrefix returns the endpoint whose API key carries prefix, or nil
// if not found. The prefix is unique, so at most one row matches.
func (r *PostgresRepository) GetByAPIKeyPrefix(ctx context.Context, prefix string) (*domain.Endpoint, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+endpointColumns+` FROM endpoints WHERE api_key_prefix = $1`, prefix)
	return scanEndpoint(row)
}

// ListByTenant returns all endpoints owned by tenantID, oldest first.
func (r *PostgresRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Endpoint, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+endpointColumns+` FROM endpoints WHERE tenant_id = $1 ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Endpoint
	for rows.Next() {
		e, err := scanEndpointRows(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create persists the endpoint. The endpoint must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, e *domain.Endpoint) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO endpoints (`+endpointColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		e.ID, e.TenantID, e.Name, e.Address, e.APIKeyPrefix, e.APIKeyHash,
		e.SigningSecret, e.Active, timeToNullTime(e.LastHeartbeat), e.CreatedAt)
	return err
}

// UpdateHeartbeat records the endpoint's last heartbeat timestamp.
func (r *PostgresRepository) UpdateHeartbeat(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE endpoints SET last_heartbeat = $2 WHERE id = $1`, id, at)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEndpoint(row *sql.Row) (*domain.Endpoint, error) {
	e, err := scanEndpointRows(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return e, nil
}

func scanEndpointRows(s rowScanner) (*domain.Endpoint, error) {
	var e domain.Endpoint
	var hb sql.NullTime
	err := s.Scan(&e.ID, &e.TenantID, &e.Name, &e.Address, &e.APIKeyPrefix,
		&e.APIKeyHash, &e.SigningSecret, &e.Active, &hb, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.LastHeartbeat = nullTimeToPtr(hb)
	return &e, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(n sql.NullTime) *time.Time {
	if !n.Valid {
		return nil
	}
	return &n.Time
}
