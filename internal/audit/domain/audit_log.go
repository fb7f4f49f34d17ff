package domain

import "time"

// AuditLog represents one recorded control-plane action. Actor is the
// authenticated principal: an endpoint ID for API key calls, a user ID for
// session token calls, or empty for anonymous resolution traffic.
type AuditLog struct {
	ID        string
	TenantID  string
	Actor     string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
