package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential is the single error surfaced to callers for any
// verification failure. Handlers must not reveal which specific check failed;
// the wrapped causes below exist for logging and tests only.
var ErrInvalidCredential = errors.New("invalid credential")

// Internal causes, all wrapping ErrInvalidCredential. Match with errors.Is.
var (
	// ErrBadSignature covers malformed tokens and signature mismatches.
	ErrBadSignature = fmt.Errorf("%w: bad signature", ErrInvalidCredential)
	// ErrWrongTokenType is returned when the token_type discriminant is absent
	// or belongs to the other signing domain.
	ErrWrongTokenType = fmt.Errorf("%w: wrong token type", ErrInvalidCredential)
	// ErrTokenExpired is returned when the exp claim has passed.
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrInvalidCredential)
	// ErrEndpointMismatch is returned when a capability token's endpoint_id
	// claim does not match the endpoint performing verification.
	ErrEndpointMismatch = fmt.Errorf("%w: endpoint mismatch", ErrInvalidCredential)
	// ErrWrongIssuer is returned when the iss claim does not match.
	ErrWrongIssuer = fmt.Errorf("%w: wrong issuer", ErrInvalidCredential)
)

// Token type discriminants. Each verifier requires its own sentinel so a
// structurally valid token from the other domain is rejected deterministically.
const (
	TokenTypeCapability = "capability"
	TokenTypeUser       = "user"
)

// DefaultCapabilityPermissions is the fixed permission set carried by every
// capability token.
var DefaultCapabilityPermissions = []string{"stream:publish", "session:report"}

// CapabilityClaims holds the claims of a capability token. Signed with the
// target endpoint's secret and verifiable only by that endpoint.
type CapabilityClaims struct {
	jwt.RegisteredClaims
	TokenType   string   `json:"token_type"`
	ShowID      string   `json:"show_id"`
	EndpointID  string   `json:"endpoint_id"`
	Permissions []string `json:"perms"`
}

// UserSessionClaims holds the claims of a user-session token, signed with the
// single global secret.
type UserSessionClaims struct {
	jwt.RegisteredClaims
	TokenType string `json:"token_type"`
}

// TokenProvider issues and verifies the two non-interchangeable token
// families. Capability tokens are keyed per endpoint; user-session tokens use
// the global secret. The two signing domains never share a key.
type TokenProvider struct {
	userSecret    []byte
	issuer        string
	capabilityTTL time.Duration
	userTTL       time.Duration
}

// NewTokenProvider returns a TokenProvider. userSecret signs user-session
// tokens only; capability tokens are signed with the per-call endpoint secret.
func NewTokenProvider(userSecret []byte, issuer string, capabilityTTL, userTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		userSecret:    userSecret,
		issuer:        issuer,
		capabilityTTL: capabilityTTL,
		userTTL:       userTTL,
	}
}

// IssueCapability mints a short-lived capability token for the given DJ
// session, scoped to one show on one endpoint and signed with that endpoint's
// secret. Returns the token string and its absolute expiry.
func (p *TokenProvider) IssueCapability(sessionID, showID, endpointID string, endpointSecret []byte) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(p.capabilityTTL)
	claims := CapabilityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType:   TokenTypeCapability,
		ShowID:      showID,
		EndpointID:  endpointID,
		Permissions: DefaultCapabilityPermissions,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(endpointSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyCapability verifies tokenString under endpointSecret for the endpoint
// with id endpointID. The discriminant is checked before any other claim is
// trusted; then issuer, expiry, and the endpoint_id claim must all hold.
func (p *TokenProvider) VerifyCapability(tokenString, endpointID string, endpointSecret []byte) (*CapabilityClaims, error) {
	claims := &CapabilityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return endpointSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrBadSignature
	}
	if !token.Valid {
		return nil, ErrBadSignature
	}
	if claims.TokenType != TokenTypeCapability {
		return nil, ErrWrongTokenType
	}
	if claims.Issuer != p.issuer {
		return nil, ErrWrongIssuer
	}
	if claims.EndpointID != endpointID {
		return nil, ErrEndpointMismatch
	}
	return claims, nil
}

// IssueUserSession mints a user-session token for userID, signed with the
// global secret. Returns the token string and its absolute expiry.
func (p *TokenProvider) IssueUserSession(userID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(p.userTTL)
	claims := UserSessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    p.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenType: TokenTypeUser,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.userSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// VerifyUserSession verifies tokenString under the global secret and returns
// the subject user id. Tokens without the user discriminant are rejected even
// when otherwise well formed, so a capability token can never pass.
func (p *TokenProvider) VerifyUserSession(tokenString string) (string, error) {
	claims := &UserSessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return p.userSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrBadSignature
	}
	if !token.Valid {
		return "", ErrBadSignature
	}
	if claims.TokenType != TokenTypeUser {
		return "", ErrWrongTokenType
	}
	if claims.Issuer != p.issuer {
		return "", ErrWrongIssuer
	}
	return claims.Subject, nil
}
