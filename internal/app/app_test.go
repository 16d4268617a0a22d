package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	intconfig "backoffice/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T) intconfig.Env {
	t.Helper()
	return intconfig.Env{
		AppAddr:    ":0",
		APIBaseURL: "http://127.0.0.1:1/api",
		APITimeout: time.Second,
		Store: intconfig.StoreEnv{
			Driver: "file",
			Path:   filepath.Join(t.TempDir(), "store.json"),
			Secret: "secret",
		},
	}
}

func TestBuildWiresGateway(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a, err := Build(context.Background(), testEnv(t), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Identity)
	assert.False(t, a.Session.State().State().Authenticated)

	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBuildWithIdentity(t *testing.T) {
	env := testEnv(t)
	env.Identity = intconfig.IdentityEnv{ServerURL: "http://id.local", Realm: "optics", ClientID: "admin-web"}
	a, err := Build(context.Background(), env, nil)
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.Identity)
	assert.Equal(t, "http://id.local/realms/optics/protocol/openid-connect/token", a.Identity.Endpoint("token"))
}

func TestBuildRejectsUnknownDriver(t *testing.T) {
	env := testEnv(t)
	env.Store.Driver = "redis"
	_, err := Build(context.Background(), env, nil)
	assert.ErrorContains(t, err, "redis")
}

func TestBuildRejectsEmptySecret(t *testing.T) {
	env := testEnv(t)
	env.Store.Secret = ""
	_, err := Build(context.Background(), env, nil)
	assert.Error(t, err)
}
