package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/punkdirectory/punkauth/core"
	"github.com/punkdirectory/punkauth/service"
)

const sessionContextKey = "authSession"

// sessionFromRequest reads and validates the session cookie without
// failing the request. ok is false when the cookie is absent or the token
// does not verify.
func sessionFromRequest(c *gin.Context, authService *service.AuthService) (*core.Session, bool) {
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return nil, false
	}

	session := authService.SessionFromToken(token)
	if session == nil {
		return nil, false
	}

	return session, true
}

// RequireAuth creates middleware that rejects requests without a valid
// session cookie and stores the session in the request context
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		session := authService.SessionFromToken(token)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		c.Set(sessionContextKey, session)

		c.Next()
	}
}

// SessionFromContext returns the session stored by RequireAuth
func SessionFromContext(c *gin.Context) (*core.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}

	session, ok := value.(*core.Session)
	return session, ok
}
