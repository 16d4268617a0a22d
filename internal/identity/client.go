// Package identity talks to an OpenID Connect identity provider laid out the
// Keycloak way: every endpoint lives under /realms/{realm}/protocol/openid-connect.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/utils"

	"go.uber.org/zap"
)

// Config names the realm and client used for every handshake.
type Config struct {
	ServerURL    string
	Realm        string
	ClientID     string
	ClientSecret string
}

func (c Config) validate() error {
	switch {
	case strings.TrimSpace(c.ServerURL) == "":
		return domain.ValidationError{Field: "server_url", Msg: "identity server url is required"}
	case strings.TrimSpace(c.Realm) == "":
		return domain.ValidationError{Field: "realm", Msg: "identity realm is required"}
	case strings.TrimSpace(c.ClientID) == "":
		return domain.ValidationError{Field: "client_id", Msg: "identity client id is required"}
	}
	return nil
}

// Token is a token endpoint answer. ExpiresAt is computed on receipt.
type Token struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	IDToken          string    `json:"id_token,omitempty"`
	TokenType        string    `json:"token_type"`
	ExpiresIn        int       `json:"expires_in"`
	RefreshExpiresIn int       `json:"refresh_expires_in"`
	Scope            string    `json:"scope,omitempty"`
	ExpiresAt        time.Time `json:"-"`
}

// UserInfo is the subset of the userinfo document the back office reads.
type UserInfo struct {
	Subject           string `json:"sub"`
	PreferredUsername string `json:"preferred_username"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
}

// Client is safe for concurrent use.
type Client struct {
	cfg    Config
	base   string
	http   *http.Client
	logger *zap.Logger
	now    func() time.Time
}

// New builds a Client. A nil http client defaults to one with a 30s timeout.
func New(cfg Config, hc *http.Client, logger *zap.Logger) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	base := strings.TrimRight(cfg.ServerURL, "/") +
		"/realms/" + url.PathEscape(cfg.Realm) + "/protocol/openid-connect"
	return &Client{cfg: cfg, base: base, http: hc, logger: logger, now: time.Now}, nil
}

// Endpoint returns the absolute URL of an openid-connect endpoint
// (token, logout, userinfo, auth).
func (c *Client) Endpoint(name string) string {
	return c.base + "/" + name
}

// PasswordLogin runs the resource-owner password grant.
func (c *Client) PasswordLogin(ctx context.Context, username, password string) (*Token, error) {
	form := c.clientForm()
	form.Set("grant_type", "password")
	form.Set("username", username)
	form.Set("password", password)
	form.Set("scope", "openid")
	return c.token(ctx, form)
}

// Refresh exchanges a refresh token for a new pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	form := c.clientForm()
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	return c.token(ctx, form)
}

// ExchangeCode completes the authorization-code flow started by AuthCodeURL.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string) (*Token, error) {
	form := c.clientForm()
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	return c.token(ctx, form)
}

// AuthCodeURL is the browser redirect that starts an authorization-code login.
func (c *Client) AuthCodeURL(state, redirectURI string) string {
	q := url.Values{}
	q.Set("client_id", c.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", "openid")
	q.Set("redirect_uri", redirectURI)
	q.Set("state", state)
	return c.Endpoint("auth") + "?" + q.Encode()
}

// Logout ends the provider-side session bound to refreshToken.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	form := c.clientForm()
	form.Set("refresh_token", refreshToken)
	_, err := c.postForm(ctx, "logout", form)
	return err
}

// UserInfo returns the profile of the access token's owner.
func (c *Client) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint("userinfo"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	body, err := c.send(req, "userinfo")
	if err != nil {
		return nil, err
	}
	var info UserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	return &info, nil
}

func (c *Client) clientForm() url.Values {
	form := url.Values{}
	form.Set("client_id", c.cfg.ClientID)
	if c.cfg.ClientSecret != "" {
		form.Set("client_secret", c.cfg.ClientSecret)
	}
	return form
}

func (c *Client) token(ctx context.Context, form url.Values) (*Token, error) {
	body, err := c.postForm(ctx, "token", form)
	if err != nil {
		return nil, err
	}
	var tok Token
	if err := json.Unmarshal(body, &tok); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, errors.New("identity: token response without access_token")
	}
	if tok.ExpiresIn > 0 {
		tok.ExpiresAt = c.now().Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return &tok, nil
}

func (c *Client) postForm(ctx context.Context, endpoint string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(endpoint), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return c.send(req, endpoint)
}

func (c *Client) send(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("identity request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := domain.APIError{
			Source:  "identity",
			Method:  req.Method,
			Path:    req.URL.Path,
			Status:  resp.StatusCode,
			Message: providerMessage(body),
			Body:    body,
		}
		c.logger.Info("identity request rejected",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("message", apiErr.Message),
		)
		return nil, apiErr
	}
	return body, nil
}

// providerMessage prefers error_description over the OAuth error code.
func providerMessage(body []byte) string {
	var e struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.ErrorDescription != "" {
			return e.ErrorDescription
		}
		if e.Error != "" {
			return e.Error
		}
	}
	return utils.Truncate(strings.TrimSpace(string(body)), 200)
}
