package domain

import "time"

// Session is one DJ's join record for a show: an append-only log entry created
// on each successful code resolution, not a live connection object. A
// disconnect is recorded on the session but never decrements the show's
// occupancy counter.
type Session struct {
	ID             string
	ShowID         string
	DisplayName    string
	ClientAddr     string
	ConnectedAt    time.Time
	DisconnectedAt *time.Time // nil while the DJ is presumed connected
}
