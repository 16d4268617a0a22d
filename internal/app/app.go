// Package app assembles the back office from configuration: secure store,
// identity client, backend HTTP client, API modules, session and gateway.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"backoffice/internal/api"
	"backoffice/internal/apiclient"
	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	router "backoffice/internal/http"
	"backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"
	"backoffice/internal/identity"
	"backoffice/internal/securestore"
	"backoffice/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// App holds the wired components. Close releases the store database.
type App struct {
	Env      intconfig.Env
	Logger   *zap.Logger
	Store    *securestore.Store
	Client   *apiclient.Client
	API      *api.Services
	Identity *identity.Client
	Session  *session.Manager
	// Gateway signs the credentials the HTTP gateway hands to callers.
	Gateway *middleware.Tokens

	db *sql.DB
}

// Build wires every component from env. Nothing is global: two Apps built
// from different envs do not share state.
func Build(ctx context.Context, env intconfig.Env, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Env: env, Logger: logger}

	backend, err := a.storeBackend(ctx)
	if err != nil {
		return nil, err
	}
	a.Store, err = securestore.New(backend, []byte(env.Store.Secret),
		securestore.WithPrefix(env.Store.Prefix),
		securestore.WithLogger(logger.Named("securestore")))
	if err != nil {
		a.Close()
		return nil, err
	}

	httpClient := &http.Client{}
	if env.Identity.Enabled() {
		a.Identity, err = identity.New(identity.Config{
			ServerURL:    env.Identity.ServerURL,
			Realm:        env.Identity.Realm,
			ClientID:     env.Identity.ClientID,
			ClientSecret: env.Identity.ClientSecret,
		}, &http.Client{Timeout: env.APITimeout}, logger.Named("identity"))
		if err != nil {
			a.Close()
			return nil, err
		}
	}

	a.Client, err = apiclient.New(apiclient.Options{
		BaseURL:    env.APIBaseURL,
		Timeout:    env.APITimeout,
		HTTPClient: httpClient,
		Logger:     logger.Named("apiclient"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.API = api.New(a.Client, logger.Named("api"))

	opts := session.Options{Store: a.Store, Auth: a.API.Auth, Logger: logger.Named("session")}
	if a.Identity != nil {
		opts.Identity = a.Identity
	}
	a.Session, err = session.NewManager(opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Client.SetTokenSource(a.Session)

	a.Gateway, err = middleware.NewTokens([]byte(env.Gateway.Secret), env.Gateway.SessionTTL)
	if err != nil {
		a.Close()
		return nil, err
	}

	if _, err := a.Session.Restore(ctx); err != nil {
		logger.Warn("stored session could not be restored", zap.Error(err))
	}
	return a, nil
}

func (a *App) storeBackend(ctx context.Context) (securestore.Backend, error) {
	switch a.Env.Store.Driver {
	case "", "file":
		return securestore.NewFileBackend(a.Env.Store.Path), nil
	case "mysql", "postgres":
		dialect, err := intdb.ParseDialect(a.Env.Store.Driver)
		if err != nil {
			return nil, err
		}
		db, err := intconfig.OpenDB(ctx, a.Env.Store)
		if err != nil {
			return nil, err
		}
		a.db = db
		backend, err := securestore.NewSQLBackend(ctx, db, dialect)
		if err != nil {
			a.Close()
			return nil, err
		}
		return backend, nil
	default:
		return nil, fmt.Errorf("unsupported store driver %q", a.Env.Store.Driver)
	}
}

// Router builds the gateway engine.
func (a *App) Router() *gin.Engine {
	hd := handlers.New(a.API, a.Session, a.Identity, a.Gateway, a.Logger.Named("http"))
	return router.NewRouter(a.Env, hd, a.Logger.Named("http"))
}

// Close releases resources held by the App.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}
