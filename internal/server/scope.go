package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/portald-dev/portald/internal/portal"
)

const (
	scopeContextKey = "scope"
	scopeCookieTTL  = 365 * 24 * time.Hour
)

// scopeMiddleware gives every browser a stable scope ID, the server-side
// equivalent of the origin-scoped storage a browser would keep
func (s *Server) scopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := s.config.Session.CookieName

		id, err := c.Cookie(name)
		if err == nil {
			if _, perr := ulid.ParseStrict(id); perr != nil {
				err = perr
			}
		}

		if err != nil {
			id = ulid.Make().String()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(name, id, int(scopeCookieTTL.Seconds()), "/", "", c.Request.TLS != nil, true)
		}

		c.Set(scopeContextKey, id)
		c.Next()
	}
}

func scopeID(c *gin.Context) string {
	return c.GetString(scopeContextKey)
}

// scopeLock marks a scope as having a submission in flight. The marker lives
// in the pending map only while the submission runs.
type scopeLock struct {
	pending *sync.Map
	id      string
}

func (l scopeLock) TryLock() bool {
	_, loaded := l.pending.LoadOrStore(l.id, struct{}{})
	return !loaded
}

func (l scopeLock) Unlock() {
	l.pending.Delete(l.id)
}

// pendingLock returns the in-flight guard shared by every request of a scope
func (s *Server) pendingLock(id string) portal.Locker {
	return scopeLock{pending: &s.pending, id: id}
}

// controller builds a SessionController bound to the request's scope and path
func (s *Server) controller(c *gin.Context, mode portal.Mode) (*portal.Controller, *portal.Recorder) {
	id := scopeID(c)
	nav := &portal.Recorder{}

	ctrl := portal.NewController(s.api, s.backend.Scope(id), nav,
		portal.WithRoute(portal.StaticRoute(c.Request.URL.Path)),
		portal.WithRedirectDelay(s.config.HTTP.RedirectDelay),
		portal.WithPendingLock(s.pendingLock(id)),
		portal.WithLogger(s.logger.With().Str("scope", id).Logger()),
		portal.WithMode(mode),
	)

	return ctrl, nav
}
