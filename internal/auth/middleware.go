package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// OptionalUser attaches the caller when a valid bearer token for a stored user is
// present. Anonymous requests pass through; an invalid token is rejected.
func OptionalUser(resolver ResolverInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.Resolve(c.Request.Context(), BearerToken(c))
		if err != nil {
			util.RespondWithError(c, err)
			return
		}
		if user != nil {
			util.SetUser(c, user)
		}
		c.Next()
	}
}

// RequireUser fails with UNAUTHENTICATED unless the request resolves to a stored user
func RequireUser(resolver ResolverInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.Resolve(c.Request.Context(), BearerToken(c))
		if err != nil {
			util.RespondWithError(c, err)
			return
		}
		if user == nil {
			util.RespondWithAPIError(c, errors.Unauthenticated(""))
			return
		}
		util.SetUser(c, user)
		c.Next()
	}
}
