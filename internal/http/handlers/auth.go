package handlers

import (
	"net/http"
	"strings"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	// Provider selects "identity" for the identity-provider password grant.
	Provider string `json:"provider"`
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(req.Provider)) {
	case "", state.SourceBackend:
		err = h.Sessions.Login(c.Request.Context(), models.Credentials{Username: req.Username, Password: req.Password})
	case state.SourceIdentity:
		if h.Identity == nil {
			respondError(c, http.StatusBadRequest, "identity_disabled", "identity provider is not configured", nil)
			return
		}
		err = h.Sessions.LoginWithIdentity(c.Request.Context(), req.Username, req.Password)
	default:
		respondError(c, http.StatusBadRequest, "invalid_provider", "unknown provider "+req.Provider, nil)
		return
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.issueCredential(c)
}

type loginResponse struct {
	Token     string             `json:"token"`
	ExpiresAt time.Time          `json:"expiresAt"`
	Session   state.SessionState `json:"session"`
}

// issueCredential binds a fresh credential to the operator session that just
// started, revoking any credential handed out before. The credential is both
// returned (for API clients) and set as an HttpOnly cookie (for browsers).
func (h *Handler) issueCredential(c *gin.Context) {
	st := h.Sessions.State().State()
	sessionID := uuid.NewString()
	token, exp, err := h.Tokens.Issue(st.Username, sessionID)
	if err != nil {
		h.Logger.Error("issue gateway credential", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "internal_error", "could not issue session credential", nil)
		return
	}
	h.beginCallerSession(sessionID)

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, token, int(h.Tokens.TTL().Seconds()), "/api", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, loginResponse{Token: token, ExpiresAt: exp, Session: st})
}

// GET /api/auth/identity/url?state=&redirect_uri=
func (h *Handler) IdentityURL(c *gin.Context) {
	if h.Identity == nil {
		respondError(c, http.StatusNotFound, "identity_disabled", "identity provider is not configured", nil)
		return
	}
	redirect := strings.TrimSpace(c.Query("redirect_uri"))
	if redirect == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "redirect_uri is required", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": h.Identity.AuthCodeURL(c.Query("state"), redirect)})
}

type codeRequest struct {
	Code        string `json:"code" binding:"required"`
	RedirectURI string `json:"redirectUri" binding:"required"`
}

// POST /api/auth/identity/callback
func (h *Handler) IdentityCallback(c *gin.Context) {
	if h.Identity == nil {
		respondError(c, http.StatusNotFound, "identity_disabled", "identity provider is not configured", nil)
		return
	}
	var req codeRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	tok, err := h.Identity.ExchangeCode(c.Request.Context(), req.Code, req.RedirectURI)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := h.Sessions.AdoptIdentityToken(c.Request.Context(), tok); err != nil {
		RespondDomainError(c, err)
		return
	}
	h.issueCredential(c)
}

// POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	h.endCallerSession()
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/api", "", c.Request.TLS != nil, true)
	if err := h.Sessions.Logout(c.Request.Context()); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	agent, err := h.API.Auth.Me(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, agent)
}

// GET /api/auth/session
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.Sessions.State().State())
}
