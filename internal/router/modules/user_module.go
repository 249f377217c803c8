package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/studytube/internal/interface/http"
	"github.com/oksasatya/studytube/internal/interface/middleware"
)

// UserModule serves the signed-in account routes under /user.
type UserModule struct {
	Handler *handlers.UserHandler
	Session gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, session gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Session: session}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := authenticated(rg, m.Session)
	{
		auth.GET("/user/profile", m.Handler.GetProfile)
		auth.PUT("/user/profile", m.Handler.UpdateProfile)
		// Sends an SMS, so it shares the OTP issuance quota.
		auth.POST("/user/change-phone", limit(middleware.PerMinute(5), middleware.KeyByUserID()), m.Handler.ChangePhone)
		auth.POST("/user/avatar", limit(middleware.PerMinute(10), middleware.KeyByUserID()), m.Handler.UploadAvatar)
	}
}
