package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"maternity/internal/domain"
	"maternity/internal/pkg/apperr"
	"maternity/internal/pkg/jwt"
	"maternity/internal/pkg/response"
)

const principalKey = "principal"

// ProfileResolver loads the role profiles of an authenticated user.
type ProfileResolver interface {
	Resolve(ctx context.Context, userID int64) (domain.Principal, error)
}

// Authenticate validates the bearer token and resolves the caller's role
// profiles once for the rest of the request.
func Authenticate(tokens *jwt.Service, resolver ProfileResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			abortUnauthorized(c, "Missing Authorization header")
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			abortUnauthorized(c, "Invalid Authorization header")
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			abortUnauthorized(c, "Empty token")
			return
		}

		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}

		principal, err := resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				abortUnauthorized(c, "User no longer exists")
				return
			}
			response.Fail(c, err)
			c.Abort()
			return
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

func SetPrincipal(c *gin.Context, p domain.Principal) {
	c.Set(principalKey, p)
	c.Set("user_id", p.UserID)
	if role, ok := p.Role(); ok {
		c.Set("role", string(role))
	}
}

func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return domain.Principal{}, false
	}
	p, ok := v.(domain.Principal)
	return p, ok && p.UserID != 0
}

// MustPrincipal writes a 401 and returns false when the request is anonymous.
func MustPrincipal(c *gin.Context) (domain.Principal, bool) {
	p, ok := PrincipalFrom(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return domain.Principal{}, false
	}
	return p, true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
}
