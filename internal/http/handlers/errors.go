package handlers

import (
	"errors"
	"net/http"

	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"
	"backoffice/internal/securestore"
	"backoffice/internal/session"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps errors to HTTP responses. Backend statuses pass
// through unchanged; anything the gateway cannot classify is a 502.
func RespondDomainError(c *gin.Context, err error) {
	_ = c.Error(err)

	var apiErr domain.APIError
	switch {
	case errors.As(err, &apiErr):
		code := "backend_error"
		if apiErr.Source == "identity" {
			code = "identity_error"
		}
		respondError(c, apiErr.Status, code, apiErr.Error(), nil)
	case errors.Is(err, session.ErrNoSession):
		respondError(c, http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	case errors.Is(err, securestore.ErrDecrypt):
		respondError(c, http.StatusUnauthorized, "session_unreadable", "stored session cannot be read; sign in again", nil)
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respondError(c, http.StatusBadGateway, "upstream_error", err.Error(), nil)
	}
}
