package middleware

import (
	"context"
	"log"
	"net/http"

	"askmydata/domain/core"

	"github.com/gin-gonic/gin"
)

// SessionCookie carries the dashboard session id
const SessionCookie = "askmydata_session"

type sessionKey struct{}

// EnsureSession makes sure every request carries a valid session id, issuing
// a new cookie when the browser has none. The id is stored on the gin context
// and on the request context so mounted net/http handlers can read it too.
func EnsureSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		var id core.SessionID
		if raw, err := c.Cookie(SessionCookie); err == nil {
			if parsed, err := core.ParseSessionID(raw); err == nil {
				id = parsed
			}
		}
		if id == "" {
			id = core.NewSessionID()
			log.Printf("[EnsureSession] Issued session %s", id)
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id.String(), 0, "/", "", false, true)
		}

		c.Set(SessionCookie, id)
		c.Request = c.Request.WithContext(WithSessionID(c.Request.Context(), id))
		c.Next()
	}
}

// WithSessionID stores id on ctx
func WithSessionID(ctx context.Context, id core.SessionID) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionIDFrom reads the id stored by EnsureSession
func SessionIDFrom(ctx context.Context) (core.SessionID, bool) {
	id, ok := ctx.Value(sessionKey{}).(core.SessionID)
	return id, ok && id != ""
}
