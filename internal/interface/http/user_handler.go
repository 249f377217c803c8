package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/application"
	"github.com/oksasatya/studytube/internal/interface/middleware"
	"github.com/oksasatya/studytube/pkg/response"
	"github.com/oksasatya/studytube/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

type changePhoneRequest struct {
	NewPhone string `json:"newPhone" binding:"required,phone"`
}

// GetProfile GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, msgUnauthorized, nil)
			return
		}
		internalError(c, h.Logger, "get profile failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved successfully", gin.H{"user": userView(u)})
}

// UpdateProfile PUT /api/user/profile {name, email?}
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Name is required", validation.ToDetails(err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.Error(c, http.StatusBadRequest, "Name is required", nil)
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), middleware.UserID(c), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, application.ErrUserNotFound) {
			response.Error(c, http.StatusUnauthorized, msgUnauthorized, nil)
			return
		}
		internalError(c, h.Logger, "update profile failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully", gin.H{"user": userView(u)})
}

// ChangePhone POST /api/user/change-phone {newPhone}
// The number is swapped when the OTP sent to it is verified.
func (h *UserHandler) ChangePhone(c *gin.Context) {
	var req changePhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailure(c, err, "New phone number is required")
		return
	}
	uid, err := h.Svc.ChangePhone(c.Request.Context(), middleware.UserID(c), req.NewPhone)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "OTP sent to new phone number. Please verify to complete the change.", gin.H{"userId": uid})
	case errors.Is(err, application.ErrInvalidPhone):
		response.Error(c, http.StatusBadRequest, msgPhoneFormat, nil)
	case errors.Is(err, application.ErrPhoneTaken):
		response.Error(c, http.StatusBadRequest, "This phone number is already in use", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusUnauthorized, msgUnauthorized, nil)
	case errors.Is(err, application.ErrGatewayTimeout):
		response.Error(c, http.StatusGatewayTimeout, msgGatewaySlow, nil)
	case errors.Is(err, application.ErrGatewayFailure), errors.Is(err, application.ErrInvalidDestination):
		response.Error(c, http.StatusBadRequest, "Failed to send OTP to new phone number", nil)
	default:
		internalError(c, h.Logger, "change phone failed", err)
	}
}

// UploadAvatar POST /api/user/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Avatar file is required", nil)
		return
	}
	if fh.Size > maxAvatarBytes {
		response.Error(c, http.StatusBadRequest, "Avatar must be 5MB or smaller", nil)
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, http.StatusBadRequest, "Avatar must be an image", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		internalError(c, h.Logger, "open avatar upload failed", err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), middleware.UserID(c), f, fh.Filename, contentType)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "Avatar updated successfully", gin.H{"avatarUrl": url})
	case errors.Is(err, application.ErrStorageDisabled):
		response.Error(c, http.StatusServiceUnavailable, "Avatar uploads are not available", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusUnauthorized, msgUnauthorized, nil)
	default:
		internalError(c, h.Logger, "avatar upload failed", err)
	}
}
