package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("API_TIMEOUT accepts bare seconds", func(t *testing.T) {
		t.Setenv("API_TIMEOUT", "15")
		env := defaults()
		require.NoError(t, env.applyEnvOverrides())
		assert.Equal(t, 15*time.Second, env.APITimeout)
	})

	t.Run("API_TIMEOUT accepts durations", func(t *testing.T) {
		t.Setenv("API_TIMEOUT", "1m30s")
		env := defaults()
		require.NoError(t, env.applyEnvOverrides())
		assert.Equal(t, 90*time.Second, env.APITimeout)
	})

	t.Run("API_TIMEOUT rejects garbage", func(t *testing.T) {
		t.Setenv("API_TIMEOUT", "soon")
		env := defaults()
		assert.Error(t, env.applyEnvOverrides())
	})

	t.Run("CORS_ALLOWED_ORIGINS replaces defaults", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, ,https://ops.example.com")
		env := defaults()
		require.NoError(t, env.applyEnvOverrides())
		assert.Equal(t, []string{"https://admin.example.com", "https://ops.example.com"}, env.CORSAllowedOrigins)
	})

	t.Run("gateway listens on loopback by default", func(t *testing.T) {
		env := defaults()
		assert.Equal(t, "127.0.0.1:8080", env.AppAddr)
		assert.Equal(t, 12*time.Hour, env.Gateway.SessionTTL)
	})

	t.Run("gateway settings", func(t *testing.T) {
		t.Setenv("GATEWAY_SECRET", "s3cret")
		t.Setenv("GATEWAY_SESSION_TTL", "30m")
		env := defaults()
		require.NoError(t, env.applyEnvOverrides())
		assert.Equal(t, "s3cret", env.Gateway.Secret)
		assert.Equal(t, 30*time.Minute, env.Gateway.SessionTTL)
	})

	t.Run("identity settings", func(t *testing.T) {
		t.Setenv("IDENTITY_URL", "https://sso.example.com")
		t.Setenv("IDENTITY_REALM", "optics")
		t.Setenv("IDENTITY_CLIENT_ID", "backoffice")
		env := defaults()
		require.NoError(t, env.applyEnvOverrides())
		assert.True(t, env.Identity.Enabled())
		assert.Equal(t, "optics", env.Identity.Realm)
	})
}

func TestLoadEnvFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backoffice.yaml")
	content := []byte(`
app_addr: ":9090"
api_base_url: "https://api.example.com"
api_timeout: 10s
store:
  driver: file
  path: /tmp/store.json
  secret: from-file
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("BACKOFFICE_CONFIG", path)
	t.Setenv("STORE_SECRET", "from-env")
	t.Setenv("API_BASE_URL", "")

	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, ":9090", env.AppAddr)
	assert.Equal(t, "https://api.example.com", env.APIBaseURL)
	assert.Equal(t, 10*time.Second, env.APITimeout)
	assert.Equal(t, "from-env", env.Store.Secret)
}

func TestValidate(t *testing.T) {
	env := defaults()
	assert.Error(t, env.Validate(), "secret missing")

	env.Store.Secret = "s3cret"
	assert.NoError(t, env.Validate())

	env.Store.Driver = "mysql"
	assert.Error(t, env.Validate(), "dsn missing")

	env.Store.DSN = "user:pass@tcp(localhost:3306)/backoffice"
	assert.NoError(t, env.Validate())

	env.Store.Driver = "redis"
	assert.Error(t, env.Validate())
}

func TestSQLDriverName(t *testing.T) {
	name, err := sqlDriverName("postgres")
	require.NoError(t, err)
	assert.Equal(t, "pgx", name)

	_, err = sqlDriverName("file")
	assert.Error(t, err)
}
