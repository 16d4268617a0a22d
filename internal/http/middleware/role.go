package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireRoles only lets agents holding one of allowedRoles through.
// hasRole reports whether the signed-in agent holds a role.
//
//	optics.POST("/:id/activate", RequireRoles(h.HasRole, "admin"), h.ActivateOptic)
func RequireRoles(hasRole func(ctx context.Context, role string) bool, allowedRoles ...string) gin.HandlerFunc {
	allowed := make([]string, 0, len(allowedRoles))
	for _, r := range allowedRoles {
		if r = strings.ToLower(strings.TrimSpace(r)); r != "" {
			allowed = append(allowed, r)
		}
	}

	return func(c *gin.Context) {
		for _, role := range allowed {
			if hasRole(c.Request.Context(), role) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":      "requires one of the roles " + strings.Join(allowed, ", "),
			"code":       "forbidden",
			"request_id": GetRequestID(c),
		})
	}
}
