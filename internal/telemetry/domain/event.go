package domain

import "time"

// Event types emitted by the coordination core.
const (
	EventShowCreated        = "show_created"
	EventShowEnded          = "show_ended"
	EventDJConnected        = "dj_connected"
	EventEndpointRegistered = "endpoint_registered"
	EventEndpointHeartbeat  = "endpoint_heartbeat"
)

// SessionEvent is one lifecycle event on the event stream. Serialized as JSON
// for Kafka and mirrored as attributes on OTel log records.
type SessionEvent struct {
	TenantID   string    `json:"tenant_id,omitempty"`
	EndpointID string    `json:"endpoint_id,omitempty"`
	ShowID     string    `json:"show_id,omitempty"`
	SessionID  string    `json:"session_id,omitempty"`
	EventType  string    `json:"event_type"`
	Source     string    `json:"source,omitempty"`
	Metadata   []byte    `json:"metadata,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
