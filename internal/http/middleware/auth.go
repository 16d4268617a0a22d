package middleware

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie carries the gateway credential for browser callers.
const SessionCookie = "backoffice_session"

const ctxCallerKey = "gateway_caller"

// CallerClaims identify a caller that signed in through the gateway. ID (jti)
// names the operator session the credential was issued for.
type CallerClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Tokens issues and verifies gateway credentials.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds an issuer. An empty secret is replaced by 32 random bytes.
func NewTokens(secret []byte, ttl time.Duration) (*Tokens, error) {
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate gateway secret: %w", err)
		}
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}, nil
}

// TTL is how long issued credentials stay valid.
func (t *Tokens) TTL() time.Duration { return t.ttl }

// Issue signs a credential for username bound to sessionID.
func (t *Tokens) Issue(username, sessionID string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, CallerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Username: username,
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, algorithm and expiry.
func (t *Tokens) Verify(raw string) (*CallerClaims, error) {
	claims := &CallerClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("credential is not bound to a session")
	}
	return claims, nil
}

// credential reads "Authorization: Bearer" first, then the session cookie.
func credential(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if v, err := c.Cookie(SessionCookie); err == nil {
		return v
	}
	return ""
}

// RequireSession rejects callers without a valid gateway credential, and
// callers whose credential belongs to an operator session that has ended.
func RequireSession(tokens *Tokens, active func(sessionID string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := credential(c)
		if raw == "" {
			unauthorized(c, "not signed in")
			return
		}
		claims, err := tokens.Verify(raw)
		if err != nil {
			unauthorized(c, "invalid session credential")
			return
		}
		if !active(claims.ID) {
			unauthorized(c, "session has ended")
			return
		}
		c.Set(ctxCallerKey, claims)
		c.Next()
	}
}

// GetCaller returns the claims set by RequireSession.
func GetCaller(c *gin.Context) *CallerClaims {
	if v, ok := c.Get(ctxCallerKey); ok {
		if claims, ok := v.(*CallerClaims); ok {
			return claims
		}
	}
	return nil
}

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}
