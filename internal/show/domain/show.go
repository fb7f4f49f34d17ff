package domain

import (
	"errors"
	"time"
)

// Show is a bounded-lifetime unit of activity owned by one endpoint, exposed
// to the public via a connect code while active. Ended is terminal; the code
// is cleared on termination so the string can be reused by a later show.
type Show struct {
	ID         string
	EndpointID string
	Name       string
	Code       string // empty once ended
	Status     ShowStatus
	Capacity   int
	Occupancy  int
	CreatedAt  time.Time
	EndedAt    *time.Time // nil while active
}

type ShowStatus string

const (
	ShowStatusActive ShowStatus = "active"
	ShowStatusEnded  ShowStatus = "ended"
)

// Validate validates the show for persistence. Returns an error describing the
// first validation failure.
func (s *Show) Validate() error {
	if s.EndpointID == "" {
		return errors.New("endpoint id is required")
	}
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.Status == ShowStatusActive && s.Code == "" {
		return errors.New("active show requires a code")
	}
	if s.Capacity < 0 {
		return errors.New("capacity must not be negative")
	}
	if s.Occupancy < 0 {
		return errors.New("occupancy must not be negative")
	}
	return nil
}
