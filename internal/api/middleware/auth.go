package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ayasqualli/bookshelf/internal/api/response"
	"github.com/ayasqualli/bookshelf/internal/repository"
)

// userIDKey is the gin context key the resolved user id is stored under.
const userIDKey = "auth.user_id"

// Auth resolves the session cookie to a user identity. The session is always
// taken from the request, never from any ambient state.
type Auth struct {
	sessions   repository.SessionRepository
	cookieName string
}

// NewAuth creates the auth middleware around the session store.
func NewAuth(sessions repository.SessionRepository, cookieName string) *Auth {
	return &Auth{sessions: sessions, cookieName: cookieName}
}

// RequireUser aborts with 401 unless the request carries a live session.
func (a *Auth) RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.resolve(c)
		if !ok {
			response.ErrorResponse(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// OptionalUser resolves the session when present but never rejects the
// request. Used by pages that render for anonymous visitors too.
func (a *Auth) OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, ok := a.resolve(c); ok {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

func (a *Auth) resolve(c *gin.Context) (int64, bool) {
	token, err := c.Cookie(a.cookieName)
	if err != nil || token == "" {
		return 0, false
	}
	userID, err := a.sessions.UserID(c.Request.Context(), token)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// CurrentUserID returns the authenticated user id set by the middleware.
func CurrentUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := v.(int64)
	return userID, ok
}
