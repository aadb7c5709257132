package middleware

import (
	"net/http"
	"strings"

	"meditravel/models"
	"meditravel/services/session"

	"github.com/gin-gonic/gin"
)

// Routes the guard redirects to. The client router maps these onto its own
// views; the guard only decides the outcome.
const (
	LoginRoute        = "/login"
	UnauthorizedRoute = "/unauthorized"
)

const identityContextKey = "identity"

// AccessGuard gates a route subtree behind an access requirement. Evaluation
// order is fixed: authentication strictly before the role check, the role
// check strictly before the permission check. Outcomes:
//
//   - resolving: identity still loading, 503 with Retry-After, no redirect
//   - unauthenticated: 401, redirect to login, original location remembered
//   - forbidden: 403, redirect to unauthorized, original location dropped
//   - authorized: identity placed in context, chain continues
//
// The session service is injected rather than looked up ambiently.
func AccessGuard(sessions session.SessionService, requirement models.Requirement) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthenticated(c)
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		identity, err := sessions.IdentityFromToken(c.Request.Context(), token)
		if err != nil {
			abortUnauthenticated(c)
			return
		}

		if identity.Loading {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"status": "resolving",
			})
			return
		}

		if !identity.Authenticated() {
			abortUnauthenticated(c)
			return
		}

		if len(requirement.Roles) > 0 && !identity.HasAnyRole(requirement.Roles...) {
			abortForbidden(c)
			return
		}
		if len(requirement.Permissions) > 0 && !identity.HasAnyPermission(requirement.Permissions...) {
			abortForbidden(c)
			return
		}

		c.Set(identityContextKey, identity)
		c.Set("userID", identity.UserID)
		c.Next()
	}
}

// RequireAuth guards a route with an empty requirement: authentication alone
// suffices regardless of roles or permissions.
func RequireAuth(sessions session.SessionService) gin.HandlerFunc {
	return AccessGuard(sessions, models.Requirement{})
}

// IdentityFrom retrieves the authorized identity placed by AccessGuard.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	val, ok := c.Get(identityContextKey)
	if !ok {
		return models.Identity{}, false
	}
	identity, ok := val.(models.Identity)
	return identity, ok
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":    "Authentication required",
		"redirect": LoginRoute,
		"from":     c.Request.URL.RequestURI(),
	})
}

func abortForbidden(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error":    "Insufficient role or permission",
		"redirect": UnauthorizedRoute,
	})
}
