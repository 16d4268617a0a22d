// Package session owns the signed-in operator's tokens. It persists them in
// the secure store, refreshes the access token shortly before it expires and
// hands it to the HTTP client as its TokenSource.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/identity"
	"backoffice/internal/securestore"
	"backoffice/internal/state"

	"go.uber.org/zap"
)

// Secure store keys.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refresh_token"
	KeySource       = "session_source"
)

const defaultSkew = 30 * time.Second

// ErrNoSession is returned by Token when nobody is signed in.
var ErrNoSession = errors.New("session: not signed in")

// Authenticator is the backend's user API (api.Auth).
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (models.Tokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (models.Tokens, error)
	Me(ctx context.Context) (models.Agent, error)
}

// IdentityProvider is the OpenID Connect handshake (identity.Client).
type IdentityProvider interface {
	PasswordLogin(ctx context.Context, username, password string) (*identity.Token, error)
	Refresh(ctx context.Context, refreshToken string) (*identity.Token, error)
	Logout(ctx context.Context, refreshToken string) error
	UserInfo(ctx context.Context, accessToken string) (*identity.UserInfo, error)
}

// Options configures a Manager. Identity and State are optional.
type Options struct {
	Store    *securestore.Store
	Auth     Authenticator
	Identity IdentityProvider
	State    *state.Store[state.SessionState]
	Logger   *zap.Logger
	// RefreshSkew is how long before exp the access token is renewed.
	RefreshSkew time.Duration
}

// Manager is safe for concurrent use. Token calls are serialized so that
// concurrent callers seeing an expiring token share a single refresh.
type Manager struct {
	store  *securestore.Store
	auth   Authenticator
	idp    IdentityProvider
	state  *state.Store[state.SessionState]
	logger *zap.Logger
	skew   time.Duration
	now    func() time.Time
	mu     sync.Mutex
}

// NewManager validates opts and builds a Manager.
func NewManager(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, errors.New("session: secure store is required")
	}
	if opts.Auth == nil {
		return nil, errors.New("session: authenticator is required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RefreshSkew <= 0 {
		opts.RefreshSkew = defaultSkew
	}
	if opts.State == nil {
		st, err := state.NewStore[state.SessionState](state.SessionReducer{}, state.SessionState{})
		if err != nil {
			return nil, err
		}
		opts.State = st
	}
	return &Manager{
		store:  opts.Store,
		auth:   opts.Auth,
		idp:    opts.Identity,
		state:  opts.State,
		logger: opts.Logger,
		skew:   opts.RefreshSkew,
		now:    time.Now,
	}, nil
}

// State exposes the session state store.
func (m *Manager) State() *state.Store[state.SessionState] { return m.state }

// Login signs in against the backend's /users/login. The agent profile is
// fetched afterwards on a best-effort basis.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) error {
	tokens, err := m.auth.Login(ctx, creds)
	if err != nil {
		return err
	}
	if err := m.begin(ctx, creds.Username, state.SourceBackend, tokens.AccessToken, tokens.RefreshToken); err != nil {
		return err
	}
	m.loadProfile(ctx, state.SourceBackend)
	return nil
}

// LoginWithIdentity signs in with the identity provider's password grant.
func (m *Manager) LoginWithIdentity(ctx context.Context, username, password string) error {
	if m.idp == nil {
		return errors.New("session: identity provider is not configured")
	}
	tok, err := m.idp.PasswordLogin(ctx, username, password)
	if err != nil {
		return err
	}
	if err := m.begin(ctx, username, state.SourceIdentity, tok.AccessToken, tok.RefreshToken); err != nil {
		return err
	}
	m.loadProfile(ctx, state.SourceIdentity)
	return nil
}

// AdoptIdentityToken stores a token obtained by an authorization-code exchange.
func (m *Manager) AdoptIdentityToken(ctx context.Context, tok *identity.Token) error {
	username := ""
	if claims, err := identity.ParseClaims(tok.AccessToken); err == nil {
		username = claims.PreferredUsername
	}
	if err := m.begin(ctx, username, state.SourceIdentity, tok.AccessToken, tok.RefreshToken); err != nil {
		return err
	}
	m.loadProfile(ctx, state.SourceIdentity)
	return nil
}

func (m *Manager) begin(ctx context.Context, username, source, access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.persist(ctx, access, refresh); err != nil {
		return err
	}
	if err := m.store.Put(ctx, KeySource, source); err != nil {
		return err
	}
	m.state.Dispatch(state.Action{
		Type:    state.LoggedIn,
		Payload: state.LoginPayload{Username: username, Source: source, At: m.now().UTC()},
	})
	m.logger.Info("session started", zap.String("username", username), zap.String("source", source))
	return nil
}

func (m *Manager) persist(ctx context.Context, access, refresh string) error {
	if err := m.store.Put(ctx, KeyToken, access); err != nil {
		return err
	}
	if refresh == "" {
		return m.store.Clear(ctx, KeyRefreshToken)
	}
	return m.store.Put(ctx, KeyRefreshToken, refresh)
}

// loadProfile asks the backend for the agent. Identity sessions the backend
// does not know yet fall back to the provider's userinfo document.
func (m *Manager) loadProfile(ctx context.Context, source string) {
	agent, err := m.auth.Me(ctx)
	if err == nil {
		m.state.Dispatch(state.Action{Type: state.ProfileLoaded, Payload: agent})
		return
	}
	m.logger.Info("agent profile unavailable", zap.Error(err))
	if source != state.SourceIdentity || m.idp == nil {
		return
	}

	access, err := m.Token(ctx)
	if err != nil {
		return
	}
	info, err := m.idp.UserInfo(ctx, access)
	if err != nil {
		m.logger.Info("identity userinfo unavailable", zap.Error(err))
		return
	}
	m.state.Dispatch(state.Action{Type: state.ProfileLoaded, Payload: models.Agent{
		Username: info.PreferredUsername,
		Email:    info.Email,
	}})
}

// Restore marks the session as signed in when tokens survive from a
// previous run. It reports whether a session was found.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	m.mu.Lock()
	access, err := m.store.GetString(ctx, KeyToken)
	if errors.Is(err, securestore.ErrNotFound) {
		m.mu.Unlock()
		return false, nil
	}
	if err != nil {
		m.mu.Unlock()
		return false, err
	}
	source := m.source(ctx)
	username := ""
	if claims, err := identity.ParseClaims(access); err == nil {
		username = claims.PreferredUsername
	}
	m.state.Dispatch(state.Action{
		Type:    state.LoggedIn,
		Payload: state.LoginPayload{Username: username, Source: source, At: m.now().UTC()},
	})
	m.mu.Unlock()

	m.loadProfile(ctx, source)
	return true, nil
}

func (m *Manager) source(ctx context.Context) string {
	src, err := m.store.GetString(ctx, KeySource)
	if err != nil || src == "" {
		return state.SourceBackend
	}
	return src
}

// Token implements apiclient.TokenSource.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	access, err := m.store.GetString(ctx, KeyToken)
	if errors.Is(err, securestore.ErrNotFound) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	if !m.expiring(access) {
		return access, nil
	}
	return m.refresh(ctx, access)
}

// expiring is false for opaque tokens: without an exp claim there is
// nothing to schedule a refresh on.
func (m *Manager) expiring(access string) bool {
	claims, err := identity.ParseClaims(access)
	if err != nil {
		return false
	}
	exp := claims.Expiry()
	if exp.IsZero() {
		return false
	}
	return !m.now().Add(m.skew).Before(exp)
}

func (m *Manager) refresh(ctx context.Context, current string) (string, error) {
	rt, err := m.store.GetString(ctx, KeyRefreshToken)
	if errors.Is(err, securestore.ErrNotFound) {
		// Let the backend decide; it answers 401 once the token is really gone.
		return current, nil
	}
	if err != nil {
		return "", err
	}

	var access, refresh string
	if m.source(ctx) == state.SourceIdentity && m.idp != nil {
		tok, err := m.idp.Refresh(ctx, rt)
		if err != nil {
			m.logger.Warn("identity refresh failed", zap.Error(err))
			return "", err
		}
		access, refresh = tok.AccessToken, tok.RefreshToken
	} else {
		tokens, err := m.auth.RefreshToken(ctx, rt)
		if err != nil {
			m.logger.Warn("token refresh failed", zap.Error(err))
			return "", err
		}
		access, refresh = tokens.AccessToken, tokens.RefreshToken
	}
	if access == "" {
		return "", errors.New("session: refresh returned no access token")
	}
	if refresh == "" {
		refresh = rt
	}
	if err := m.persist(ctx, access, refresh); err != nil {
		return "", err
	}
	m.state.Dispatch(state.Action{Type: state.TokenRefreshed, Payload: m.now().UTC()})
	m.logger.Debug("access token refreshed")
	return access, nil
}

// Logout clears the stored tokens and, for identity sessions, ends the
// provider session. Local state is cleared even when the provider call fails.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	source := m.source(ctx)
	rt, rtErr := m.store.GetString(ctx, KeyRefreshToken)

	var errs []error
	for _, key := range []string{KeyToken, KeyRefreshToken, KeySource} {
		if err := m.store.Clear(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if source == state.SourceIdentity && m.idp != nil && rtErr == nil {
		if err := m.idp.Logout(ctx, rt); err != nil {
			m.logger.Warn("identity logout failed", zap.Error(err))
			errs = append(errs, err)
		}
	}
	m.state.Dispatch(state.Action{Type: state.LoggedOut, Payload: m.now().UTC()})
	m.logger.Info("session ended", zap.String("source", source))
	return errors.Join(errs...)
}
