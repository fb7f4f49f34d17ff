package service

import (
	"context"
	"errors"

	endpointdomain "spinlink/internal/endpoint/domain"
	showdomain "spinlink/internal/show/domain"
	"spinlink/internal/tenant/domain"
)

// ErrTenantNotFound is returned for unknown and suspended tenants alike; the
// directory does not reveal which.
var ErrTenantNotFound = errors.New("tenant not found")

// TenantRepo is the tenant persistence needed by the directory.
type TenantRepo interface {
	GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// EndpointLister lists a tenant's endpoints.
type EndpointLister interface {
	ListByTenant(ctx context.Context, tenantID string) ([]*endpointdomain.Endpoint, error)
}

// ShowLister lists a tenant's active shows.
type ShowLister interface {
	ListActiveByTenant(ctx context.Context, tenantID string) ([]*showdomain.Show, error)
}

// Directory is the public view of a tenant: its endpoints and the shows
// currently running on them.
type Directory struct {
	Tenant      *domain.Tenant
	Endpoints   []*endpointdomain.Endpoint
	ActiveShows []*showdomain.Show
}

// Service resolves tenant slugs to their directory listing.
type Service struct {
	tenants   TenantRepo
	endpoints EndpointLister
	shows     ShowLister
}

func NewService(tenants TenantRepo, endpoints EndpointLister, shows ShowLister) *Service {
	return &Service{tenants: tenants, endpoints: endpoints, shows: shows}
}

// Resolve looks up a tenant by slug, case-insensitively, and returns its
// directory. Suspended tenants resolve the same as unknown ones.
func (s *Service) Resolve(ctx context.Context, rawSlug string) (*Directory, error) {
	slug := domain.NormalizeSlug(rawSlug)
	if slug == "" {
		return nil, ErrTenantNotFound
	}
	tenant, err := s.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if tenant == nil || tenant.Status != domain.TenantStatusActive {
		return nil, ErrTenantNotFound
	}
	endpoints, err := s.endpoints.ListByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	shows, err := s.shows.ListActiveByTenant(ctx, tenant.ID)
	if err != nil {
		return nil, err
	}
	return &Directory{Tenant: tenant, Endpoints: endpoints, ActiveShows: shows}, nil
}
