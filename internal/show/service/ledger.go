package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"spinlink/internal/connectcode"
	djsessiondomain "spinlink/internal/djsession/domain"
	endpointdomain "spinlink/internal/endpoint/domain"
	"spinlink/internal/security"
	showdomain "spinlink/internal/show/domain"
	showrepo "spinlink/internal/show/repository"
)

// Sentinel errors for the ledger; handlers map them to HTTP statuses.
var (
	ErrCodeNotFound    = errors.New("no active show holds that code")
	ErrShowNotFound    = errors.New("show not found")
	ErrNotOwner        = errors.New("endpoint does not own this show")
	ErrAlreadyEnded    = errors.New("show already ended")
	ErrEndpointOffline = errors.New("owning endpoint is offline")
	ErrInvalidInput    = errors.New("invalid input")
)

// ResolveResult is the outcome of resolving a connect code: where to go and
// the capability token that proves the right to go there.
type ResolveResult struct {
	SessionID       string
	ShowID          string
	ShowName        string
	Occupancy       int
	Capacity        int
	EndpointAddress string
	Token           string
	TokenExpiresAt  time.Time
}

// ShowRepo is the minimal show repository needed by the ledger.
type ShowRepo interface {
	Create(ctx context.Context, s *showdomain.Show) error
	GetByID(ctx context.Context, id string) (*showdomain.Show, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	GetActiveByCode(ctx context.Context, code string) (*showdomain.Show, error)
	ResolveAndIncrement(ctx context.Context, code string) (*showdomain.Show, error)
	End(ctx context.Context, id string, endedAt time.Time) (bool, error)
}

// SessionRepo is the minimal DJ session repository needed by the ledger.
type SessionRepo interface {
	Create(ctx context.Context, s *djsessiondomain.Session) error
}

// EndpointGetter resolves endpoints for ownership and liveness checks.
type EndpointGetter interface {
	GetByID(ctx context.Context, id string) (*endpointdomain.Endpoint, error)
}

// Ledger is the authoritative state machine for shows and DJ sessions. All
// operations are safe for concurrent use; the store's constraints, not
// in-process locks, arbitrate races.
type Ledger struct {
	shows     ShowRepo
	sessions  SessionRepo
	endpoints EndpointGetter
	tokens    *security.TokenProvider
}

// NewLedger returns a Ledger with the given dependencies.
func NewLedger(shows ShowRepo, sessions SessionRepo, endpoints EndpointGetter, tokens *security.TokenProvider) *Ledger {
	return &Ledger{shows: shows, sessions: sessions, endpoints: endpoints, tokens: tokens}
}

// Create allocates a new active show under the authenticated endpoint with a
// freshly generated unique code and occupancy zero. The in-memory existence
// check is advisory; the store's partial unique index is the final authority,
// and a constraint violation triggers regeneration within the same attempt cap.
func (l *Ledger) Create(ctx context.Context, authEndpointID, endpointID, name string, capacity int) (*showdomain.Show, error) {
	if name == "" || capacity < 0 {
		return nil, ErrInvalidInput
	}
	if endpointID == "" {
		endpointID = authEndpointID
	}
	if endpointID != authEndpointID {
		return nil, ErrNotOwner
	}
	for attempt := 0; attempt < connectcode.MaxAttempts; attempt++ {
		code, err := connectcode.GenerateUnique(ctx, l.shows.CodeExists)
		if err != nil {
			return nil, err
		}
		show := &showdomain.Show{
			ID:         uuid.New().String(),
			EndpointID: endpointID,
			Name:       name,
			Code:       code,
			Status:     showdomain.ShowStatusActive,
			Capacity:   capacity,
			Occupancy:  0,
			CreatedAt:  time.Now().UTC(),
		}
		if err := show.Validate(); err != nil {
			return nil, err
		}
		err = l.shows.Create(ctx, show)
		if errors.Is(err, showrepo.ErrCodeConflict) {
			continue // lost the race; draw again
		}
		if err != nil {
			return nil, err
		}
		return show, nil
	}
	return nil, connectcode.ErrExhaustedAttempts
}

// Resolve looks up an active show by its normalized code, records a DJ session,
// increments occupancy, and mints a capability token scoped to the owning
// endpoint. A code is not single-use: concurrent resolutions of the same code
// each succeed and each increment occupancy exactly once. Capacity is a soft,
// informational cap and does not gate admission.
func (l *Ledger) Resolve(ctx context.Context, rawCode, displayName, clientAddr string) (*ResolveResult, error) {
	code := connectcode.Normalize(rawCode)
	if code == "" {
		return nil, ErrInvalidInput
	}
	preview, err := l.shows.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if preview == nil {
		return nil, ErrCodeNotFound
	}
	endpoint, err := l.endpoints.GetByID(ctx, preview.EndpointID)
	if err != nil {
		return nil, err
	}
	if endpoint == nil {
		return nil, ErrCodeNotFound
	}
	if !endpoint.Active {
		return nil, ErrEndpointOffline
	}

	show, err := l.shows.ResolveAndIncrement(ctx, code)
	if err != nil {
		return nil, err
	}
	if show == nil {
		// A termination won the race after the preview read.
		return nil, ErrCodeNotFound
	}

	session := &djsessiondomain.Session{
		ID:          uuid.New().String(),
		ShowID:      show.ID,
		DisplayName: displayName,
		ClientAddr:  clientAddr,
		ConnectedAt: time.Now().UTC(),
	}
	if err := l.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token, expiresAt, err := l.tokens.IssueCapability(session.ID, show.ID, endpoint.ID, endpoint.SigningSecret)
	if err != nil {
		return nil, err
	}
	return &ResolveResult{
		SessionID:       session.ID,
		ShowID:          show.ID,
		ShowName:        show.Name,
		Occupancy:       show.Occupancy,
		Capacity:        show.Capacity,
		EndpointAddress: endpoint.Address,
		Token:           token,
		TokenExpiresAt:  expiresAt,
	}, nil
}

// End terminates an active show: status becomes ended, the end timestamp is
// recorded, and the code is cleared so the string can no longer resolve here.
// Ending is deliberately not idempotent; a second call fails with
// ErrAlreadyEnded to surface client bugs.
func (l *Ledger) End(ctx context.Context, authEndpointID, showID string) (*showdomain.Show, error) {
	show, err := l.shows.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}
	if show == nil {
		return nil, ErrShowNotFound
	}
	if show.EndpointID != authEndpointID {
		return nil, ErrNotOwner
	}
	endedAt := time.Now().UTC()
	ended, err := l.shows.End(ctx, showID, endedAt)
	if err != nil {
		return nil, err
	}
	if !ended {
		return nil, ErrAlreadyEnded
	}
	show.Status = showdomain.ShowStatusEnded
	show.Code = ""
	show.EndedAt = &endedAt
	return show, nil
}
