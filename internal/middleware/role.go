package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maternity/internal/pkg/response"
)

// RequirePregnant admits callers holding a pregnant profile.
func RequirePregnant() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}
		if !p.IsPregnant() {
			response.Error(c, http.StatusForbidden, "ROLE_ERROR", "A pregnant profile is required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCaregiver admits callers holding a caregiver profile.
func RequireCaregiver() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}
		if !p.IsCaregiver() {
			response.Error(c, http.StatusForbidden, "ROLE_ERROR", "A caregiver profile is required")
			c.Abort()
			return
		}
		c.Next()
	}
}
