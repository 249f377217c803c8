package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/studytube/internal/application"
	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/pkg/helpers"
	"github.com/oksasatya/studytube/pkg/response"
)

// Context keys set by Session.
const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
)

// SessionResolver maps a session token to its user.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*entity.User, error)
}

// Session requires a valid session cookie. On success the user id and the
// user (without its challenge) are available to handlers.
func Session(auth SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(helpers.SessionCookie)
		u, err := auth.ResolveSession(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, application.ErrUnauthorized) {
				response.Abort(c, http.StatusInternalServerError, "Internal server error")
				return
			}
			response.Abort(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Next()
	}
}

// UserID returns the id stored by Session.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}

// CurrentUser returns the user stored by Session, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
