package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/interface/middleware"
	"github.com/oksasatya/studytube/pkg/helpers"
	"github.com/oksasatya/studytube/pkg/response"
)

const (
	msgInternal     = "Internal server error"
	msgPhoneFormat  = "Phone number must be in E.164 format (e.g., +1234567890)"
	msgGatewaySlow  = "SMS gateway timed out. Please try again."
	msgUnauthorized = "Unauthorized"
)

// userView is the public shape of a user in responses.
func userView(u *entity.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"phone":     u.Phone,
		"email":     u.Email,
		"avatarUrl": u.AvatarURL,
	}
}

// internalError logs err against the request and writes a generic 500.
func internalError(c *gin.Context, logger *logrus.Logger, msg string, err error) {
	helpers.LogError(logger, msg, err, logrus.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
		"user_id":    middleware.UserID(c),
	})
	response.Error(c, http.StatusInternalServerError, msgInternal, nil)
}
