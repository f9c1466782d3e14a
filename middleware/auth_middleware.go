package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"penquan/internal/auth"
)

const (
	sessionContextKey   = "pq_session"
	sessionIDContextKey = "pq_session_id"
)

// SessionResolver reads the session cookie on every request and, when the
// token parses and the session is still stored, puts the session in the
// request context. It never blocks: the guard decides what missing means.
func SessionResolver(sessions *auth.SessionManager, secret, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(cookieName)
		if err != nil || tokenStr == "" {
			c.Next()
			return
		}
		claims, err := auth.ParseSessionToken(secret, tokenStr)
		if err != nil {
			c.Next()
			return
		}
		sess, err := sessions.Get(c.Request.Context(), claims.SessionID)
		if err != nil || sess == nil {
			c.Next()
			return
		}
		c.Set(sessionContextKey, sess)
		c.Set(sessionIDContextKey, claims.SessionID)
		c.Next()
	}
}

// RequireSession gates protected pages. Evaluation is synchronous against
// the snapshot the resolver loaded; nothing asynchronous blocks rendering.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectIfAuthed bounces already-authenticated users off purely public
// entry points (the login page, the root path) to the landing view.
func RedirectIfAuthed(target string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) != nil {
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentSession returns the resolved session, or nil when anonymous.
func CurrentSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}

// SessionID returns the id of the resolved session, or "".
func SessionID(c *gin.Context) string {
	v, ok := c.Get(sessionIDContextKey)
	if !ok {
		return ""
	}
	sid, _ := v.(string)
	return sid
}
