package domain

import (
	"errors"
	"time"
)

// Endpoint is a registered addressable server that owns shows and holds its
// own credential-signing secret. The signing secret is generated at
// registration and is never re-derivable from the API key.
type Endpoint struct {
	ID            string
	TenantID      string
	Name          string
	Address       string
	APIKeyPrefix  string
	APIKeyHash    string
	SigningSecret []byte
	Active        bool
	LastHeartbeat *time.Time // nil until the first heartbeat
	CreatedAt     time.Time
}

// Validate validates the endpoint for persistence. Returns an error describing
// the first validation failure.
func (e *Endpoint) Validate() error {
	if e.TenantID == "" {
		return errors.New("tenant id is required")
	}
	if e.Name == "" {
		return errors.New("name is required")
	}
	if e.Address == "" {
		return errors.New("address is required")
	}
	if e.APIKeyPrefix == "" || e.APIKeyHash == "" {
		return errors.New("api key prefix and hash are required")
	}
	if len(e.SigningSecret) == 0 {
		return errors.New("signing secret is required")
	}
	return nil
}
