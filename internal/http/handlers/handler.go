package handlers

import (
	"context"
	"strings"
	"sync"

	"backoffice/internal/api"
	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/identity"
	"backoffice/internal/services"
	"backoffice/internal/state"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Sessions is the part of session.Manager the gateway uses.
type Sessions interface {
	Login(ctx context.Context, creds models.Credentials) error
	LoginWithIdentity(ctx context.Context, username, password string) error
	AdoptIdentityToken(ctx context.Context, tok *identity.Token) error
	Logout(ctx context.Context) error
	Token(ctx context.Context) (string, error)
	State() *state.Store[state.SessionState]
}

// Handler serves the admin gateway. Fields are set once at startup.
type Handler struct {
	API       *api.Services
	Sessions  Sessions
	Identity  *identity.Client
	Reports   services.ReportsService
	Dashboard services.DashboardService
	Logger    *zap.Logger
	// Tokens signs the credential handed to the caller that signed in.
	Tokens *middleware.Tokens

	routerMu sync.RWMutex
	router   *gin.Engine

	// callerMu guards callerSession, the id bound into the current credential.
	callerMu      sync.Mutex
	callerSession string
}

// New builds a Handler over the backend API modules. Credentials issued by
// the Handler stop working as soon as the operator session ends.
func New(apis *api.Services, sessions Sessions, idp *identity.Client, tokens *middleware.Tokens, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	hd := &Handler{
		API:      apis,
		Sessions: sessions,
		Identity: idp,
		Tokens:   tokens,
		Reports: services.ReportsService{
			Cnam:    apis.Cnam,
			Essafwa: apis.Essafwa,
			Glasses: apis.Glasses,
			Docs:    services.DocsService{Logger: logger},
		},
		Dashboard: services.DashboardService{
			Cnam:    apis.Cnam,
			Essafwa: apis.Essafwa,
			Glasses: apis.Glasses,
			Optics:  apis.Optics,
			Logger:  logger,
		},
		Logger: logger,
	}
	sessions.State().Subscribe(func(st state.SessionState) {
		if !st.Authenticated {
			hd.endCallerSession()
		}
	})
	return hd
}

// SignedIn reports whether an operator session is active.
func (h *Handler) SignedIn() bool {
	return h.Sessions.State().State().Authenticated
}

// CallerActive reports whether sessionID is the operator session the
// gateway last handed a credential for, and that session is still signed in.
func (h *Handler) CallerActive(sessionID string) bool {
	h.callerMu.Lock()
	current := h.callerSession
	h.callerMu.Unlock()
	return sessionID != "" && sessionID == current && h.SignedIn()
}

func (h *Handler) beginCallerSession(sessionID string) {
	h.callerMu.Lock()
	h.callerSession = sessionID
	h.callerMu.Unlock()
}

func (h *Handler) endCallerSession() {
	h.callerMu.Lock()
	h.callerSession = ""
	h.callerMu.Unlock()
}

// HasRole reports whether the signed-in agent holds role. The backend
// profile decides when it names a role; identity sessions without one fall
// back to the realm roles of their access token.
func (h *Handler) HasRole(ctx context.Context, role string) bool {
	st := h.Sessions.State().State()
	if st.Agent != nil && strings.TrimSpace(st.Agent.Role) != "" {
		return strings.EqualFold(strings.TrimSpace(st.Agent.Role), role)
	}
	if st.Source != state.SourceIdentity {
		return false
	}
	access, err := h.Sessions.Token(ctx)
	if err != nil {
		return false
	}
	claims, err := identity.ParseClaims(access)
	if err != nil {
		return false
	}
	return claims.HasRole(role)
}
