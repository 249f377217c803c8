package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/application"
	"github.com/oksasatya/studytube/internal/interface/middleware"
	"github.com/oksasatya/studytube/pkg/helpers"
	"github.com/oksasatya/studytube/pkg/response"
	"github.com/oksasatya/studytube/pkg/validation"
)

// AuthHandler serves the public OTP flows: register, login, forgot-password,
// verify and logout.
type AuthHandler struct {
	Auth    *application.AuthService
	Cookies *helpers.Manager
	Logger  *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, cookies *helpers.Manager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Cookies: cookies, Logger: logger}
}

type registerRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
	Name  string `json:"name" binding:"required"`
}

type phoneRequest struct {
	Phone string `json:"phone" binding:"required,phone"`
}

type verifyRequest struct {
	UserID string `json:"userId" binding:"required"`
	OTP    string `json:"otp" binding:"required"`
}

// bindFailure writes the 400 for a rejected body: missingMsg when a field is
// absent or the JSON is malformed, the format message otherwise.
func bindFailure(c *gin.Context, err error, missingMsg string) {
	if validation.IsPayloadError(err) || validation.HasTag(err, "required") {
		response.Error(c, http.StatusBadRequest, missingMsg, validation.ToDetails(err))
		return
	}
	response.Error(c, http.StatusBadRequest, msgPhoneFormat, validation.ToDetails(err))
}

// Register POST /api/auth/register {phone, name}
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err, "Phone number and name are required")
		return
	}
	uid, err := h.Auth.IssueChallenge(c.Request.Context(), application.ChallengeRequest{
		Context: application.ContextRegister,
		Phone:   req.Phone,
		Name:    req.Name,
	})
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "Registration successful. Please verify your phone number.", gin.H{"userId": uid})
	case errors.Is(err, application.ErrInvalidPhone):
		response.Error(c, http.StatusBadRequest, msgPhoneFormat, nil)
	case errors.Is(err, application.ErrPhoneTaken):
		response.Error(c, http.StatusBadRequest, "User with this phone number already exists", nil)
	case errors.Is(err, application.ErrGatewayTimeout):
		response.Error(c, http.StatusGatewayTimeout, msgGatewaySlow, nil)
	case errors.Is(err, application.ErrInvalidDestination):
		response.Error(c, http.StatusBadRequest, "Invalid phone number format. Please use E.164 format (e.g., +1234567890)", nil)
	case errors.Is(err, application.ErrGatewayFailure):
		response.Error(c, http.StatusBadRequest, "Failed to send OTP. Please check your phone number and try again.", nil)
	default:
		internalError(c, h.Logger, "register failed", err)
	}
}

// Login POST /api/auth/login {phone}
func (h *AuthHandler) Login(c *gin.Context) {
	h.issueForExisting(c, application.ContextLogin)
}

// ForgotPassword POST /api/auth/forgot-password {phone}
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	h.issueForExisting(c, application.ContextForgotPassword)
}

func (h *AuthHandler) issueForExisting(c *gin.Context, ctxName application.OTPContext) {
	var req phoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err, "Phone number is required")
		return
	}
	uid, err := h.Auth.IssueChallenge(c.Request.Context(), application.ChallengeRequest{
		Context: ctxName,
		Phone:   req.Phone,
	})
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "OTP sent successfully. Please verify your phone number.", gin.H{"userId": uid})
	case errors.Is(err, application.ErrInvalidPhone):
		response.Error(c, http.StatusBadRequest, msgPhoneFormat, nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found. Please register first.", nil)
	case errors.Is(err, application.ErrGatewayTimeout):
		response.Error(c, http.StatusGatewayTimeout, msgGatewaySlow, nil)
	case errors.Is(err, application.ErrGatewayFailure), errors.Is(err, application.ErrInvalidDestination):
		response.Error(c, http.StatusInternalServerError, "Failed to send OTP", nil)
	default:
		internalError(c, h.Logger, string(ctxName)+" failed", err)
	}
}

// VerifyOTP POST /api/auth/verify-otp {userId, otp}
// On success the session cookie is set.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "User ID and OTP are required", validation.ToDetails(err))
		return
	}
	u, err := h.Auth.VerifyChallenge(c.Request.Context(), application.VerifyRequest{
		UserID:    req.UserID,
		Code:      req.OTP,
		IP:        middleware.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
	})
	switch {
	case err == nil:
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found", nil)
		return
	case errors.Is(err, application.ErrInvalidCode):
		response.Error(c, http.StatusBadRequest, "Invalid OTP", nil)
		return
	case errors.Is(err, application.ErrCodeExpired):
		response.Error(c, http.StatusBadRequest, "OTP has expired", nil)
		return
	case errors.Is(err, application.ErrPhoneTaken):
		response.Error(c, http.StatusBadRequest, "This phone number is already in use", nil)
		return
	default:
		internalError(c, h.Logger, "verify otp failed", err)
		return
	}

	token, exp, err := h.Auth.IssueSession(u)
	if err != nil {
		internalError(c, h.Logger, "session issue failed", err)
		return
	}
	h.Cookies.SetSession(c, token, h.Auth.JWT.TTL)
	helpers.LogInfo(h.Logger, "user signed in", logrus.Fields{"user_id": u.ID, "session_expires_at": exp})
	response.Success(c, http.StatusOK, "Phone number verified successfully", gin.H{"user": userView(u)})
}

// Logout POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, "Logged out successfully", nil)
}
