package domain

import (
	"errors"
	"strings"
	"time"
)

// Tenant represents an organization that owns endpoints. The slug is the
// public routing key used by the directory.
type Tenant struct {
	ID          string
	Slug        string
	OwnerUserID string
	Status      TenantStatus
	CreatedAt   time.Time
}

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// NormalizeSlug lowercases and trims a slug for case-insensitive lookup.
func NormalizeSlug(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Validate validates the tenant for persistence. Returns an error describing
// the first validation failure.
func (t *Tenant) Validate() error {
	if t.Slug == "" {
		return errors.New("slug is required")
	}
	if t.Slug != NormalizeSlug(t.Slug) {
		return errors.New("slug must be lowercase with no surrounding whitespace")
	}
	if t.Status == "" {
		t.Status = TenantStatusActive
	}
	return nil
}
