// Package gate restricts access to routes that require an authenticated user.
package gate

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"dashboard_backend/internal/feature/auth/domain/entity"
	jwtmw "dashboard_backend/internal/platform/jwt"
)

const (
	// ContextUsername is the gin context key carrying the authenticated username.
	ContextUsername = "username"

	// SessionCookie is the name of the session-ID cookie set at login.
	SessionCookie = "dashboard_session"

	// LoginPath is where unauthenticated clients are pointed to.
	LoginPath = "/login"

	// EnvKeyJWTSecret is the environment variable holding the JWT signing secret.
	EnvKeyJWTSecret = "JWT_SECRET"
)

// SessionResolver looks up sessions by ID.
// Following Go convention: interfaces are defined by the consumer (gate), not the provider (session).
type SessionResolver interface {
	FindByID(ctx context.Context, id string) (*entity.Session, error)
}

// AuthRequired returns a Gin middleware that admits only authenticated
// requests. It resolves the session cookie first; API clients without a
// cookie may instead present a Bearer JWT issued at login.
func AuthRequired(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Session cookie (browser clients)
		if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
			session, err := sessions.FindByID(c.Request.Context(), id)
			if err == nil && session.IsValid() {
				c.Set(ContextUsername, session.Username)
				c.Next()
				return
			}
		}

		// 2. Bearer JWT (API clients)
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			secret := os.Getenv(EnvKeyJWTSecret)
			if secret == "" {
				// Server misconfiguration (JWT_SECRET not set)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "server misconfigured"})
				return
			}
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			if username, err := jwtmw.ParseUsername(tokenStr, []byte(secret)); err == nil {
				c.Set(ContextUsername, username)
				c.Next()
				return
			}
		}

		// 3. Not authenticated: point the client at the login entry point
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":     "authentication required",
			"login_url": LoginPath,
		})
	}
}

// CurrentUsername returns the authenticated username bound by AuthRequired,
// or false if the request is anonymous.
func CurrentUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUsername)
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok && username != ""
}
