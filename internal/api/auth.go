package api

import (
	"context"
	"net/http"

	"backoffice/internal/apiclient"
	"backoffice/internal/domain/models"
)

// Auth talks to the backend's own user endpoints.
type Auth struct{ base }

// Login exchanges credentials for a token pair.
func (a *Auth) Login(ctx context.Context, creds models.Credentials) (models.Tokens, error) {
	var out models.Tokens
	err := a.decode(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/users/login",
		Body:      creds,
		Anonymous: true,
	}, &out)
	return out, err
}

// RefreshToken exchanges a refresh token for a new pair.
func (a *Auth) RefreshToken(ctx context.Context, refreshToken string) (models.Tokens, error) {
	var out models.Tokens
	err := a.decode(ctx, &apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/users/refresh-token",
		Body:      map[string]string{"refreshToken": refreshToken},
		Anonymous: true,
	}, &out)
	return out, err
}

// Me returns the authenticated agent.
func (a *Auth) Me(ctx context.Context) (models.Agent, error) {
	var out models.Agent
	err := a.decode(ctx, &apiclient.Request{Method: http.MethodGet, Path: "/agent/me"}, &out)
	return out, err
}
