package domain

import "time"

// RefreshToken is a persisted record of an opaque refresh token. Only the
// SHA-256 hash of the value is stored; verification is lookup-by-hash.
// Rotation revokes the row on each successful use, so at most one valid token
// exists per issued pair at any time.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time // nil while the token is still usable
	CreatedAt time.Time
}

// Usable reports whether the token can still be exchanged at the given instant.
func (t *RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
