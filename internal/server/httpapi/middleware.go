package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangvinij/user-management-micro-service/internal/common"
	"github.com/sangvinij/user-management-micro-service/internal/server/auth"
	"github.com/sangvinij/user-management-micro-service/internal/server/models"
)

const userContextKey = "authenticated_user"

// bearerToken extracts the token from an "Authorization: Bearer ..." header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

// RequireAuth authenticates the request via its bearer access token and
// stores the resolved user in the request context. A missing header is
// reported like any other failed authentication.
func RequireAuth(authenticator *auth.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, common.ErrNotAuthenticated)
			return
		}

		user, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is outside the
// allowed set. Must run after RequireAuth.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			abortWithError(c, common.ErrNotAuthenticated)
			return
		}
		if err := auth.RequireRole(user, roles...); err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// currentUser returns the user stored by RequireAuth, or nil.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}
