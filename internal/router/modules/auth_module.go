package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/studytube/internal/interface/http"
	"github.com/oksasatya/studytube/internal/interface/middleware"
)

// AuthModule exposes the public OTP endpoints:
// POST /auth/register, /auth/login, /auth/forgot-password, /auth/verify-otp, /auth/logout
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	issue := limit(middleware.PerMinute(5), middleware.KeyByIPAndPath())
	verify := limit(middleware.PerMinute(30), middleware.KeyByIPAndPath())

	rg.POST("/auth/register", issue, m.Handler.Register)
	rg.POST("/auth/login", issue, m.Handler.Login)
	rg.POST("/auth/forgot-password", issue, m.Handler.ForgotPassword)
	rg.POST("/auth/verify-otp", verify, m.Handler.VerifyOTP)
	rg.POST("/auth/logout", m.Handler.Logout)
}
