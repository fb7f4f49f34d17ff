package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"spinlink/internal/endpoint/domain"
	"spinlink/internal/security"
	tenantdomain "spinlink/internal/tenant/domain"
)

type memEndpointRepo struct {
	mu        sync.Mutex
	endpoints map[string]*domain.Endpoint
}

func newMemEndpointRepo() *memEndpointRepo {
	return &memEndpointRepo{endpoints: map[string]*domain.Endpoint{}}
}

func (m *memEndpointRepo) GetByID(ctx context.Context, id string) (*domain.Endpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.endpoints[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *memEndpointRepo) GetByAPIKeyPrefix(ctx context.Context, prefix string) (*domain.Endpoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.endpoints {
		if e.APIKeyPrefix == prefix {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memEndpointRepo) Create(ctx context.Context, e *domain.Endpoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.endpoints[e.ID] = &cp
	return nil
}

func (m *memEndpointRepo) UpdateHeartbeat(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.endpoints[id]
	if !ok {
		return errors.New("endpoint not found")
	}
	e.LastHeartbeat = &at
	return nil
}

type memTenantRepo struct {
	tenants map[string]*tenantdomain.Tenant
}

func (m *memTenantRepo) GetByID(ctx context.Context, id string) (*tenantdomain.Tenant, error) {
	t, ok := m.tenants[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func newTestService() (*Service, *memEndpointRepo) {
	repo := newMemEndpointRepo()
	tenants := &memTenantRepo{tenants: map[string]*tenantdomain.Tenant{
		"tenant-1": {ID: "tenant-1", Slug: "club-nine", OwnerUserID: "user-1", Status: tenantdomain.TenantStatusActive},
		"tenant-2": {ID: "tenant-2", Slug: "warehouse", OwnerUserID: "user-1", Status: tenantdomain.TenantStatusSuspended},
	}}
	// min cost keeps bcrypt cheap under test
	return NewService(repo, tenants, security.NewHasher(4)), repo
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestService()

	reg, err := svc.Register(context.Background(), "user-1", "tenant-1", "main-floor", "edge-1.example.com:9000")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !strings.HasPrefix(reg.DisplayKey, "slk_") {
		t.Errorf("display key %q missing service prefix", reg.DisplayKey)
	}
	if strings.Contains(reg.Endpoint.APIKeyHash, reg.DisplayKey) {
		t.Error("stored hash must not contain the display key")
	}
	if len(reg.Endpoint.SigningSecret) != 32 {
		t.Errorf("signing secret length = %d, want 32", len(reg.Endpoint.SigningSecret))
	}

	got, err := svc.Authenticate(context.Background(), reg.DisplayKey)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != reg.Endpoint.ID {
		t.Errorf("authenticated endpoint = %q, want %q", got.ID, reg.Endpoint.ID)
	}
}

func TestRegisterTenantChecks(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Register(context.Background(), "user-2", "tenant-1", "floor", "a:1"); !errors.Is(err, ErrNotTenantOwner) {
		t.Errorf("foreign owner: err = %v, want ErrNotTenantOwner", err)
	}
	if _, err := svc.Register(context.Background(), "user-1", "tenant-2", "floor", "a:1"); !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("suspended tenant: err = %v, want ErrTenantNotFound", err)
	}
	if _, err := svc.Register(context.Background(), "user-1", "no-such", "floor", "a:1"); !errors.Is(err, ErrTenantNotFound) {
		t.Errorf("unknown tenant: err = %v, want ErrTenantNotFound", err)
	}
	if _, err := svc.Register(context.Background(), "user-1", "tenant-1", "", "a:1"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty name: err = %v, want ErrInvalidInput", err)
	}
}

func TestAuthenticateFailuresAreUniform(t *testing.T) {
	svc, _ := newTestService()
	reg, err := svc.Register(context.Background(), "user-1", "tenant-1", "main-floor", "edge-1.example.com:9000")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	cases := map[string]string{
		"malformed":      "not-a-key",
		"wrong service":  "xxx_aaaaaaaaaaaa_deadbeef",
		"unknown prefix": "slk_zzzzzzzzzzzz_deadbeef",
		"wrong secret":   reg.DisplayKey + "0",
	}
	for name, key := range cases {
		if _, err := svc.Authenticate(context.Background(), key); !errors.Is(err, ErrInvalidAPIKey) {
			t.Errorf("%s: err = %v, want ErrInvalidAPIKey", name, err)
		}
	}
}

func TestHeartbeat(t *testing.T) {
	svc, repo := newTestService()
	reg, err := svc.Register(context.Background(), "user-1", "tenant-1", "main-floor", "edge-1.example.com:9000")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	id := reg.Endpoint.ID

	at, err := svc.Heartbeat(context.Background(), id, id)
	if err != nil {
		t.Fatalf("Heartbeat: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), id)
	if stored.LastHeartbeat == nil || !stored.LastHeartbeat.Equal(at) {
		t.Errorf("stored heartbeat = %v, want %v", stored.LastHeartbeat, at)
	}

	if _, err := svc.Heartbeat(context.Background(), "ep-other", id); !errors.Is(err, ErrNotOwner) {
		t.Errorf("foreign heartbeat: err = %v, want ErrNotOwner", err)
	}
	if _, err := svc.Heartbeat(context.Background(), "gone", "gone"); !errors.Is(err, ErrEndpointNotFound) {
		t.Errorf("missing endpoint: err = %v, want ErrEndpointNotFound", err)
	}
}
