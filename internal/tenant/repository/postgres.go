package repository

import (
	"context"
	"database/sql"
	"errors"

	"spinlink/internal/tenant/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a tenant repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetBySlug returns the tenant for slug, matched case-insensitively, or nil if
// not found. It returns an error only for database failures, not missing rows.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, slug, owner_user_id, status, created_at
		 FROM tenants WHERE slug = lower($1)`, domain.NormalizeSlug(slug))
	return scanTenant(row)
}

// GetByID returns the tenant for id, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, slug, owner_user_id, status, created_at
		 FROM tenants WHERE id = $1`, id)
	return scanTenant(row)
}

// Create persists the tenant. The tenant must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Tenant) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tenants (id, slug, owner_user_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Slug, t.OwnerUserID, string(t.Status), t.CreatedAt)
	return err
}

func scanTenant(row *sql.Row) (*domain.Tenant, error) {
	var t domain.Tenant
	var status string
	err := row.Scan(&t.ID, &t.Slug, &t.OwnerUserID, &status, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.Status = domain.TenantStatus(status)
	return &t, nil
}
