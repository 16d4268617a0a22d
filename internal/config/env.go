package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Env is the effective configuration. Precedence: environment variable >
// YAML file (BACKOFFICE_CONFIG) > default.
type Env struct {
	AppAddr  string `yaml:"app_addr"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`

	APIBaseURL string        `yaml:"api_base_url"`
	APITimeout time.Duration `yaml:"api_timeout"`

	Identity IdentityEnv `yaml:"identity"`
	Store    StoreEnv    `yaml:"store"`
	Gateway  GatewayEnv  `yaml:"gateway"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// IdentityEnv configures the identity-provider client.
type IdentityEnv struct {
	ServerURL    string `yaml:"server_url"`
	Realm        string `yaml:"realm"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

// Enabled reports whether enough is configured to talk to the provider.
func (i IdentityEnv) Enabled() bool {
	return i.ServerURL != "" && i.Realm != "" && i.ClientID != ""
}

// StoreEnv configures the secure local store.
type StoreEnv struct {
	Driver string `yaml:"driver"` // file, mysql, postgres
	DSN    string `yaml:"dsn"`
	Path   string `yaml:"path"`
	Secret string `yaml:"secret"`
	Prefix string `yaml:"prefix"`
}

// GatewayEnv configures the credential the gateway hands to signed-in callers.
// An empty Secret makes the gateway generate one per process, so credentials
// do not survive a restart.
type GatewayEnv struct {
	Secret     string        `yaml:"secret"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

func defaults() Env {
	return Env{
		AppAddr:    "127.0.0.1:8080",
		LogLevel:   "info",
		APIBaseURL: "http://localhost:8081/api",
		APITimeout: 30 * time.Second,
		Store: StoreEnv{
			Driver: "file",
			Path:   defaultStorePath(),
		},
		Gateway: GatewayEnv{SessionTTL: 12 * time.Hour},
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return home + string(os.PathSeparator) + ".backoffice" + string(os.PathSeparator) + "store.json"
}

// LoadEnv reads .env (when present), the optional YAML file and the
// environment, in that order.
func LoadEnv() (Env, error) {
	_ = godotenv.Load()

	env := defaults()
	if path := strings.TrimSpace(os.Getenv("BACKOFFICE_CONFIG")); path != "" {
		if err := env.loadFile(path); err != nil {
			return Env{}, err
		}
	}
	if err := env.applyEnvOverrides(); err != nil {
		return Env{}, err
	}
	return env, env.Validate()
}

func (e *Env) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, e); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (e *Env) applyEnvOverrides() error {
	setString(&e.AppAddr, "APP_ADDR")
	setString(&e.GinMode, "GIN_MODE")
	setString(&e.LogLevel, "LOG_LEVEL")
	setString(&e.APIBaseURL, "API_BASE_URL")
	setString(&e.Identity.ServerURL, "IDENTITY_URL")
	setString(&e.Identity.Realm, "IDENTITY_REALM")
	setString(&e.Identity.ClientID, "IDENTITY_CLIENT_ID")
	setString(&e.Identity.ClientSecret, "IDENTITY_CLIENT_SECRET")
	setString(&e.Store.Driver, "STORE_DRIVER")
	setString(&e.Store.DSN, "STORE_DSN")
	setString(&e.Store.Path, "STORE_PATH")
	setString(&e.Store.Secret, "STORE_SECRET")
	setString(&e.Store.Prefix, "STORE_PREFIX")
	setString(&e.Gateway.Secret, "GATEWAY_SECRET")

	if v := strings.TrimSpace(os.Getenv("API_TIMEOUT")); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid API_TIMEOUT %q: %w", v, err)
		}
		e.APITimeout = d
	}
	if v := strings.TrimSpace(os.Getenv("GATEWAY_SESSION_TTL")); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid GATEWAY_SESSION_TTL %q: %w", v, err)
		}
		e.Gateway.SessionTTL = d
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		e.CORSAllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				e.CORSAllowedOrigins = append(e.CORSAllowedOrigins, o)
			}
		}
	}
	return nil
}

// Validate rejects configurations the process cannot start with.
func (e Env) Validate() error {
	if strings.TrimSpace(e.APIBaseURL) == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if e.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	switch e.Store.Driver {
	case "file":
		if e.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required for the file store")
		}
	case "mysql", "postgres":
		if e.Store.DSN == "" {
			return fmt.Errorf("STORE_DSN is required for the %s store", e.Store.Driver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", e.Store.Driver)
	}
	if e.Store.Secret == "" {
		return fmt.Errorf("STORE_SECRET is required")
	}
	if e.Gateway.SessionTTL <= 0 {
		return fmt.Errorf("GATEWAY_SESSION_TTL must be positive")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// parseDuration accepts Go durations ("15s") or a bare number of seconds.
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}
