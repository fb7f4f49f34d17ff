package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"spinlink/internal/endpoint/domain"
	"spinlink/internal/security"
	tenantdomain "spinlink/internal/tenant/domain"
)

var (
	// ErrInvalidAPIKey covers every authentication failure: malformed key,
	// unknown prefix, and secret mismatch all read the same to the caller.
	ErrInvalidAPIKey    = errors.New("invalid API key")
	ErrEndpointNotFound = errors.New("endpoint not found")
	ErrNotOwner         = errors.New("caller does not own this endpoint")
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrNotTenantOwner   = errors.New("caller does not own this tenant")
	ErrInvalidInput     = errors.New("invalid input")
)

// Repo is the endpoint persistence needed by the service.
type Repo interface {
	GetByID(ctx context.Context, id string) (*domain.Endpoint, error)
	GetByAPIKeyPrefix(ctx context.Context, prefix string) (*domain.Endpoint, error)
	Create(ctx context.Context, e *domain.Endpoint) error
	UpdateHeartbeat(ctx context.Context, id string, at time.Time) error
}

// TenantGetter resolves tenants for ownership checks at registration.
type TenantGetter interface {
	GetByID(ctx context.Context, id string) (*tenantdomain.Tenant, error)
}

// Registration is the one-time response to endpoint registration. DisplayKey
// is the only time the full API key is ever visible; the store keeps a hash.
type Registration struct {
	Endpoint   *domain.Endpoint
	DisplayKey string
}

// Service manages endpoint registration, API key authentication, and liveness.
type Service struct {
	repo    Repo
	tenants TenantGetter
	hasher  *security.Hasher
}

func NewService(repo Repo, tenants TenantGetter, hasher *security.Hasher) *Service {
	return &Service{repo: repo, tenants: tenants, hasher: hasher}
}

// Register creates a new endpoint under a tenant the caller owns, minting its
// API key and signing secret. The signing secret stays server-side; the
// capability tokens it signs are how DJs later prove admission to this endpoint.
func (s *Service) Register(ctx context.Context, userID, tenantID, name, address string) (*Registration, error) {
	if name == "" || address == "" {
		return nil, ErrInvalidInput
	}
	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil || tenant.Status != tenantdomain.TenantStatusActive {
		return nil, ErrTenantNotFound
	}
	if tenant.OwnerUserID != userID {
		return nil, ErrNotTenantOwner
	}

	displayKey, prefix, secret, err := security.GenerateAPIKey()
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("hash api key secret: %w", err)
	}
	signingSecret, err := security.NewSigningSecret()
	if err != nil {
		return nil, err
	}

	endpoint := &domain.Endpoint{
		ID:            uuid.New().String(),
		TenantID:      tenant.ID,
		Name:          name,
		Address:       address,
		APIKeyPrefix:  prefix,
		APIKeyHash:    hash,
		SigningSecret: signingSecret,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}
	if err := endpoint.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, endpoint); err != nil {
		return nil, err
	}
	return &Registration{Endpoint: endpoint, DisplayKey: displayKey}, nil
}

// Authenticate resolves a display key to its endpoint. The prefix narrows the
// lookup to one row; bcrypt comparison of the secret half decides. Malformed,
// unknown, and mismatched keys are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, displayKey string) (*domain.Endpoint, error) {
	prefix, secret, err := security.ParseAPIKey(displayKey)
	if err != nil {
		return nil, ErrInvalidAPIKey
	}
	endpoint, err := s.repo.GetByAPIKeyPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	if endpoint == nil {
		return nil, ErrInvalidAPIKey
	}
	if err := s.hasher.Compare(endpoint.APIKeyHash, []byte(secret)); err != nil {
		return nil, ErrInvalidAPIKey
	}
	return endpoint, nil
}

// Heartbeat records a liveness timestamp for the authenticated endpoint. An
// endpoint may only report for itself.
func (s *Service) Heartbeat(ctx context.Context, authEndpointID, endpointID string) (time.Time, error) {
	if endpointID != authEndpointID {
		return time.Time{}, ErrNotOwner
	}
	endpoint, err := s.repo.GetByID(ctx, endpointID)
	if err != nil {
		return time.Time{}, err
	}
	if endpoint == nil {
		return time.Time{}, ErrEndpointNotFound
	}
	at := time.Now().UTC()
	if err := s.repo.UpdateHeartbeat(ctx, endpointID, at); err != nil {
		return time.Time{}, err
	}
	return at, nil
}
