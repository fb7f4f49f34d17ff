package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	identitydomain "spinlink/internal/identity/domain"
	"spinlink/internal/security"
)

// Sentinel errors for the token service; handlers map them to HTTP statuses.
var (
	// ErrInvalidRefreshToken covers unknown, expired, and already-rotated
	// values alike; a second use of a rotated token fails identically to an
	// unknown one.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// TokenPair is the outcome of Issue and Refresh: a user-session token plus the
// opaque refresh value that can redeem the next pair.
type TokenPair struct {
	SessionToken string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string
}

// RefreshTokenRepo is the minimal refresh token repository needed by the token service.
type RefreshTokenRepo interface {
	Create(ctx context.Context, t *identitydomain.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*identitydomain.RefreshToken, error)
	Revoke(ctx context.Context, id string, at time.Time) error
}

// TokenService issues user-session tokens and rotates refresh tokens. Account
// management itself lives outside this service; callers supply an already
// authenticated user id.
type TokenService struct {
	repo       RefreshTokenRepo
	tokens     *security.TokenProvider
	refreshTTL time.Duration
}

// NewTokenService returns a TokenService with the given dependencies.
func NewTokenService(repo RefreshTokenRepo, tokens *security.TokenProvider, refreshTTL time.Duration) *TokenService {
	return &TokenService{repo: repo, tokens: tokens, refreshTTL: refreshTTL}
}

// Issue mints a user-session token and a fresh refresh token for userID.
func (s *TokenService) Issue(ctx context.Context, userID string) (*TokenPair, error) {
	return s.issuePair(ctx, userID)
}

// Refresh validates the opaque refresh value by hash lookup, revokes the
// matched row, and issues a new pair. At most one valid refresh token exists
// per issued pair; reuse of a rotated value is indistinguishable from an
// unknown value to the caller.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, ErrInvalidRefreshToken
	}
	stored, err := s.repo.GetByHash(ctx, security.HashRefreshToken(refreshToken))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if stored == nil || !stored.Usable(now) {
		return nil, ErrInvalidRefreshToken
	}
	if !security.RefreshTokenHashEqual(refreshToken, stored.TokenHash) {
		return nil, ErrInvalidRefreshToken
	}
	if err := s.repo.Revoke(ctx, stored.ID, now); err != nil {
		return nil, err
	}
	return s.issuePair(ctx, stored.UserID)
}

// Revoke invalidates the given refresh value, if it is known and usable.
// Unknown values are a no-op so logout never leaks token existence.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	stored, err := s.repo.GetByHash(ctx, security.HashRefreshToken(refreshToken))
	if err != nil {
		return err
	}
	if stored == nil || stored.RevokedAt != nil {
		return nil
	}
	return s.repo.Revoke(ctx, stored.ID, time.Now().UTC())
}

func (s *TokenService) issuePair(ctx context.Context, userID string) (*TokenPair, error) {
	sessionToken, expiresAt, err := s.tokens.IssueUserSession(userID)
	if err != nil {
		return nil, err
	}
	refreshValue, err := security.NewRefreshToken()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	record := &identitydomain.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: security.HashRefreshToken(refreshValue),
		ExpiresAt: now.Add(s.refreshTTL),
		CreatedAt: now,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return &TokenPair{
		SessionToken: sessionToken,
		RefreshToken: refreshValue,
		ExpiresAt:    expiresAt,
		UserID:       userID,
	}, nil
}
