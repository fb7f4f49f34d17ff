package service

import (
	"context"
	"errors"
	"testing"

	endpointdomain "spinlink/internal/endpoint/domain"
	showdomain "spinlink/internal/show/domain"
	"spinlink/internal/tenant/domain"
)

type memTenantRepo struct {
	tenants map[string]*domain.Tenant
}

func (m *memTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	for _, t := range m.tenants {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

type memEndpointLister struct {
	byTenant map[string][]*endpointdomain.Endpoint
}

func (m *memEndpointLister) ListByTenant(ctx context.Context, tenantID string) ([]*endpointdomain.Endpoint, error) {
	return m.byTenant[tenantID], nil
}

type memShowLister struct {
	byTenant map[string][]*showdomain.Show
}

func (m *memShowLister) ListActiveByTenant(ctx context.Context, tenantID string) ([]*showdomain.Show, error) {
	return m.byTenant[tenantID], nil
}

func newTestDirectory() *Service {
	tenants := &memTenantRepo{tenants: map[string]*domain.Tenant{
		"tenant-1": {ID: "tenant-1", Slug: "club-nine", OwnerUserID: "user-1", Status: domain.TenantStatusActive},
		"tenant-2": {ID: "tenant-2", Slug: "warehouse", OwnerUserID: "user-2", Status: domain.TenantStatusSuspended},
	}}
	endpoints := &memEndpointLister{byTenant: map[string][]*endpointdomain.Endpoint{
		"tenant-1": {
			{ID: "ep-1", TenantID: "tenant-1", Name: "main-floor", Address: "edge-1.example.com:9000", Active: true},
			{ID: "ep-2", TenantID: "tenant-1", Name: "terrace", Address: "edge-2.example.com:9000", Active: false},
		},
	}}
	shows := &memShowLister{byTenant: map[string][]*showdomain.Show{
		"tenant-1": {
			{ID: "show-1", EndpointID: "ep-1", Name: "friday night", Code: "BASS-2345", Status: showdomain.ShowStatusActive, Occupancy: 3},
		},
	}}
	return NewService(tenants, endpoints, shows)
}

func TestResolveDirectory(t *testing.T) {
	svc := newTestDirectory()

	dir, err := svc.Resolve(context.Background(), "club-nine")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if dir.Tenant.ID != "tenant-1" {
		t.Errorf("tenant = %q, want tenant-1", dir.Tenant.ID)
	}
	if len(dir.Endpoints) != 2 {
		t.Errorf("endpoints = %d, want 2", len(dir.Endpoints))
	}
	if len(dir.ActiveShows) != 1 {
		t.Errorf("active shows = %d, want 1", len(dir.ActiveShows))
	}
}

func TestResolveNormalizesSlug(t *testing.T) {
	svc := newTestDirectory()

	if _, err := svc.Resolve(context.Background(), "  Club-Nine "); err != nil {
		t.Fatalf("Resolve with unnormalized slug: %v", err)
	}
}

func TestResolveUnknownAndSuspended(t *testing.T) {
	svc := newTestDirectory()

	if _, err := svc.Resolve(context.Background(), "no-such"); !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("unknown slug: err = %v, want ErrTenantNotFound", err)
	}
	if _, err := svc.Resolve(context.Background(), "warehouse"); !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("suspended tenant: err = %v, want ErrTenantNotFound", err)
	}
	if _, err := svc.Resolve(context.Background(), ""); !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("empty slug: err = %v, want ErrTenantNotFound", err)
	}
}
