package state

import (
	"time"

	"backoffice/internal/domain/models"
)

// Session action types.
const (
	LoggedIn       = "session/loggedIn"
	LoggedOut      = "session/loggedOut"
	ProfileLoaded  = "session/profileLoaded"
	TokenRefreshed = "session/tokenRefreshed"
)

// Session sources.
const (
	SourceBackend  = "backend"
	SourceIdentity = "identity"
)

// SessionState describes who is signed in.
type SessionState struct {
	Authenticated bool          `json:"authenticated"`
	Username      string        `json:"username,omitempty"`
	Source        string        `json:"source,omitempty"`
	Agent         *models.Agent `json:"agent,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// LoginPayload accompanies LoggedIn.
type LoginPayload struct {
	Username string
	Source   string
	At       time.Time
}

// SessionReducer handles the session/* actions and ignores everything else.
type SessionReducer struct{}

func (SessionReducer) Version() int { return ContractVersion }

func (SessionReducer) Reduce(prev SessionState, action Action) SessionState {
	switch action.Type {
	case LoggedIn:
		p, ok := action.Payload.(LoginPayload)
		if !ok {
			return prev
		}
		return SessionState{Authenticated: true, Username: p.Username, Source: p.Source, UpdatedAt: p.At}
	case ProfileLoaded:
		agent, ok := action.Payload.(models.Agent)
		if !ok || !prev.Authenticated {
			return prev
		}
		next := prev
		next.Agent = &agent
		return next
	case TokenRefreshed:
		at, ok := action.Payload.(time.Time)
		if !ok || !prev.Authenticated {
			return prev
		}
		next := prev
		next.UpdatedAt = at
		return next
	case LoggedOut:
		at, _ := action.Payload.(time.Time)
		return SessionState{UpdatedAt: at}
	default:
		return prev
	}
}
