// Package middleware provides session loading and access control guards.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/members/service"
	"github.com/ncobase/members/structs"
	"github.com/ncobase/ncore/logging/logger"
	"github.com/ncobase/ncore/net/cookie"
)

const sessionKey = "session"

// SessionLoader is the slice of the auth service the session middleware
// needs: cookie validation and token resolution.
type SessionLoader interface {
	ParseCookie(value string) (string, bool)
	LoadSession(ctx context.Context, token string) (*structs.Session, error)
}

// Session resolves the session cookie into a typed session on the gin
// context. Requests without a cookie, with a tampered cookie, or with a
// token the store no longer knows proceed as anonymous; this middleware
// never short-circuits a request.
func Session(authService SessionLoader, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := cookie.GetSessionID(c.Request)
		if err != nil || value == "" {
			c.Next()
			return
		}

		token, ok := authService.ParseCookie(value)
		if !ok {
			cookie.ClearSessionID(c.Writer)
			c.Next()
			return
		}

		session, err := authService.LoadSession(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrSessionNotFound) {
				cookie.ClearSessionID(c.Writer)
			} else {
				log.Error(c.Request.Context(), "failed to load session", "error", err)
			}
			c.Next()
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireLogin redirects anonymous requests to the login page. The guarded
// handler never runs for an anonymous request.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole gates a route behind a role. Anonymous requests are redirected
// to login before any role check so a logged-out user gets a "please log in"
// signal rather than a forbidden one; authenticated requests with the wrong
// role get an explicit 403.
func RequireRole(role structs.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		if session.UserRole != role {
			c.String(http.StatusForbidden, fmt.Sprintf("403 Forbidden: %s role required.", role))
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetSession retrieves the current session from the gin context.
func GetSession(c *gin.Context) (*structs.Session, bool) {
	value, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*structs.Session)
	return session, ok
}
