package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/identity"
	"backoffice/internal/securestore"
	"backoffice/internal/state"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func jwtExpiring(t *testing.T, user string, exp time.Time) string {
	t.Helper()
	claims := &identity.Claims{PreferredUsername: user}
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return raw
}

type fakeAuth struct {
	loginTokens   models.Tokens
	loginErr      error
	refreshTokens models.Tokens
	refreshErr    error
	refreshCalls  atomic.Int32
	lastRefresh   string
	meErr         error
	mu            sync.Mutex
}

func (f *fakeAuth) Login(_ context.Context, _ models.Credentials) (models.Tokens, error) {
	return f.loginTokens, f.loginErr
}

func (f *fakeAuth) RefreshToken(_ context.Context, rt string) (models.Tokens, error) {
	f.refreshCalls.Add(1)
	f.mu.Lock()
	f.lastRefresh = rt
	f.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	return f.refreshTokens, f.refreshErr
}

func (f *fakeAuth) Me(context.Context) (models.Agent, error) {
	if f.meErr != nil {
		return models.Agent{}, f.meErr
	}
	return models.Agent{ID: 7, Username: "amina", Role: "admin"}, nil
}

type fakeIdentity struct {
	token     *identity.Token
	refreshed int
	loggedOut string
	logoutErr error
	info      *identity.UserInfo
	infoToken string
}

func (f *fakeIdentity) PasswordLogin(context.Context, string, string) (*identity.Token, error) {
	return f.token, nil
}

func (f *fakeIdentity) Refresh(context.Context, string) (*identity.Token, error) {
	f.refreshed++
	return f.token, nil
}

func (f *fakeIdentity) Logout(_ context.Context, rt string) error {
	f.loggedOut = rt
	return f.logoutErr
}

func (f *fakeIdentity) UserInfo(_ context.Context, at string) (*identity.UserInfo, error) {
	f.infoToken = at
	if f.info == nil {
		return nil, errors.New("userinfo disabled")
	}
	return f.info, nil
}

func newManager(t *testing.T, auth *fakeAuth, idp IdentityProvider) (*Manager, *securestore.Store) {
	t.Helper()
	store, err := securestore.New(securestore.NewFileBackend(filepath.Join(t.TempDir(), "s.json")), []byte("secret"))
	require.NoError(t, err)
	m, err := NewManager(Options{Store: store, Auth: auth, Identity: idp, RefreshSkew: time.Minute})
	require.NoError(t, err)
	m.now = func() time.Time { return now }
	return m, store
}

func TestNewManagerRequiresDependencies(t *testing.T) {
	_, err := NewManager(Options{})
	assert.Error(t, err)
}

func TestLoginPersistsTokensAndState(t *testing.T) {
	auth := &fakeAuth{loginTokens: models.Tokens{AccessToken: "at", RefreshToken: "rt"}}
	m, store := newManager(t, auth, nil)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, models.Credentials{Username: "amina", Password: "pw"}))

	v, err := store.GetString(ctx, KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "at", v)
	v, err = store.GetString(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "rt", v)

	st := m.State().State()
	assert.True(t, st.Authenticated)
	assert.Equal(t, "amina", st.Username)
	assert.Equal(t, state.SourceBackend, st.Source)
	require.NotNil(t, st.Agent)
	assert.Equal(t, int64(7), st.Agent.ID)
}

func TestLoginErrorReturnedUnchanged(t *testing.T) {
	sentinel := errors.New("bad credentials")
	m, store := newManager(t, &fakeAuth{loginErr: sentinel}, nil)

	err := m.Login(context.Background(), models.Credentials{Username: "amina"})
	assert.Same(t, sentinel, err)
	_, err = store.GetString(context.Background(), KeyToken)
	assert.ErrorIs(t, err, securestore.ErrNotFound)
	assert.False(t, m.State().State().Authenticated)
}

func TestLoginToleratesMissingProfile(t *testing.T) {
	auth := &fakeAuth{loginTokens: models.Tokens{AccessToken: "at"}, meErr: errors.New("502")}
	m, _ := newManager(t, auth, nil)
	require.NoError(t, m.Login(context.Background(), models.Credentials{Username: "amina"}))
	assert.True(t, m.State().State().Authenticated)
	assert.Nil(t, m.State().State().Agent)
}

func TestTokenWithoutSession(t *testing.T) {
	m, _ := newManager(t, &fakeAuth{}, nil)
	_, err := m.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestTokenFreshOrOpaqueIsReturnedAsIs(t *testing.T) {
	fresh := jwtExpiring(t, "amina", now.Add(time.Hour))
	auth := &fakeAuth{loginTokens: models.Tokens{AccessToken: fresh, RefreshToken: "rt"}}
	m, _ := newManager(t, auth, nil)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, models.Credentials{Username: "amina"}))

	tok, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, tok)
	assert.Zero(t, auth.refreshCalls.Load())

	auth.loginTokens = models.Tokens{AccessToken: "opaque", RefreshToken: "rt"}
	require.NoError(t, m.Login(ctx, models.Credentials{Username: "amina"}))
	tok, err = m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque", tok)
	assert.Zero(t, auth.refreshCalls.Load())
}

func TestTokenRefreshesOnceForConcurrentCallers(t *testing.T) {
	expiring := jwtExpiring(t, "amina", now.Add(20*time.Second))
	renewed := jwtExpiring(t, "amina", now.Add(time.Hour))
	auth := &fakeAuth{
		loginTokens:   models.Tokens{AccessToken: expiring, RefreshToken: "rt-1"},
		refreshTokens: models.Tokens{AccessToken: renewed, RefreshToken: "rt-2"},
	}
	m, store := newManager(t, auth, nil)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, models.Credentials{Username: "amina"}))

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := m.Token(ctx)
			assert.NoError(t, err)
			results[i] = tok
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, auth.refreshCalls.Load())
	assert.Equal(t, "rt-1", auth.lastRefresh)
	for _, r := range results {
		assert.Equal(t, renewed, r)
	}
	rt, err := store.GetString(ctx, KeyRefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "rt-2", rt)
}

func TestTokenRefreshErrorReturnedUnchanged(t *testing.T) {
	sentinel := errors.New("refresh rejected")
	auth := &fakeAuth{
		loginTokens: models.Tokens{AccessToken: jwtExpiring(t, "amina", now), RefreshToken: "rt"},
		refreshErr:  sentinel,
	}
	m, _ := newManager(t, auth, nil)
	require.NoError(t, m.Login(context.Background(), models.Credentials{Username: "amina"}))

	_, err := m.Token(context.Background())
	assert.Same(t, sentinel, err)
}

func TestIdentitySessionRefreshesAndLogsOutAtProvider(t *testing.T) {
	idp := &fakeIdentity{token: &identity.Token{AccessToken: jwtExpiring(t, "amina", now.Add(10*time.Second)), RefreshToken: "idp-rt"}}
	auth := &fakeAuth{}
	m, store := newManager(t, auth, idp)
	ctx := context.Background()

	require.NoError(t, m.LoginWithIdentity(ctx, "amina", "pw"))
	assert.Equal(t, state.SourceIdentity, m.State().State().Source)

	_, err := m.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, idp.refreshed)
	assert.Zero(t, auth.refreshCalls.Load())

	require.NoError(t, m.Logout(ctx))
	assert.Equal(t, "idp-rt", idp.loggedOut)
	_, err = store.GetString(ctx, KeyToken)
	assert.ErrorIs(t, err, securestore.ErrNotFound)
	assert.False(t, m.State().State().Authenticated)
}

func TestLogoutClearsEvenWhenProviderFails(t *testing.T) {
	idp := &fakeIdentity{token: &identity.Token{AccessToken: "at", RefreshToken: "rt"}, logoutErr: errors.New("provider down")}
	m, store := newManager(t, &fakeAuth{}, idp)
	ctx := context.Background()
	require.NoError(t, m.LoginWithIdentity(ctx, "amina", "pw"))

	err := m.Logout(ctx)
	assert.ErrorContains(t, err, "provider down")
	_, err = store.GetString(ctx, KeyRefreshToken)
	assert.ErrorIs(t, err, securestore.ErrNotFound)
}

func TestIdentityProfileFallsBackToUserInfo(t *testing.T) {
	access := jwtExpiring(t, "amina", now.Add(time.Hour))
	idp := &fakeIdentity{
		token: &identity.Token{AccessToken: access, RefreshToken: "idp-rt"},
		info:  &identity.UserInfo{Subject: "u-1", PreferredUsername: "amina", Email: "a@optic.ma"},
	}
	m, _ := newManager(t, &fakeAuth{meErr: errors.New("unknown agent")}, idp)

	require.NoError(t, m.LoginWithIdentity(context.Background(), "amina", "pw"))

	agent := m.State().State().Agent
	require.NotNil(t, agent)
	assert.Equal(t, "amina", agent.Username)
	assert.Equal(t, "a@optic.ma", agent.Email)
	assert.Empty(t, agent.Role)
	assert.Equal(t, access, idp.infoToken)
}

func TestBackendProfileFailureDoesNotAskProvider(t *testing.T) {
	idp := &fakeIdentity{info: &identity.UserInfo{PreferredUsername: "amina"}}
	auth := &fakeAuth{loginTokens: models.Tokens{AccessToken: "at"}, meErr: errors.New("down")}
	m, _ := newManager(t, auth, idp)

	require.NoError(t, m.Login(context.Background(), models.Credentials{Username: "amina"}))
	assert.Nil(t, m.State().State().Agent)
	assert.Empty(t, idp.infoToken)
}

func TestLoginWithIdentityRequiresProvider(t *testing.T) {
	m, _ := newManager(t, &fakeAuth{}, nil)
	assert.Error(t, m.LoginWithIdentity(context.Background(), "amina", "pw"))
}

func TestRestore(t *testing.T) {
	auth := &fakeAuth{loginTokens: models.Tokens{AccessToken: jwtExpiring(t, "amina", now.Add(time.Hour)), RefreshToken: "rt"}}
	m, store := newManager(t, auth, nil)
	ctx := context.Background()

	found, err := m.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, m.Login(ctx, models.Credentials{Username: "amina"}))

	m2, err := NewManager(Options{Store: store, Auth: auth})
	require.NoError(t, err)
	found, err = m2.Restore(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "amina", m2.State().State().Username)
}
