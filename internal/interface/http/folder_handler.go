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
)

type FolderHandler struct {
	Svc    *application.FolderService
	Logger *logrus.Logger
}

func NewFolderHandler(svc *application.FolderService, logger *logrus.Logger) *FolderHandler {
	return &FolderHandler{Svc: svc, Logger: logger}
}

type folderRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Color       *string `json:"color" binding:"omitempty,max=32"`
}

func (r folderRequest) input() application.FolderInput {
	return application.FolderInput{Name: r.Name, Description: r.Description, Color: r.Color}
}

func (h *FolderHandler) bind(c *gin.Context) (folderRequest, bool) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		response.Error(c, http.StatusBadRequest, "Folder name is required", nil)
		return req, false
	}
	return req, true
}

func (h *FolderHandler) folderError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, application.ErrFolderNotFound):
		response.Error(c, http.StatusNotFound, "Folder not found", nil)
	case errors.Is(err, application.ErrFolderExists):
		response.Error(c, http.StatusConflict, "Folder with this name already exists", nil)
	default:
		internalError(c, h.Logger, op+" failed", err)
	}
}

// List GET /api/folders
func (h *FolderHandler) List(c *gin.Context) {
	fs, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		internalError(c, h.Logger, "list folders failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Folders retrieved successfully", gin.H{"folders": fs})
}

// Get GET /api/folders/:id
func (h *FolderHandler) Get(c *gin.Context) {
	f, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.folderError(c, "get folder", err)
		return
	}
	response.Success(c, http.StatusOK, "Folder retrieved successfully", gin.H{"folder": f})
}

// Create POST /api/folders {name, description?, color?}
func (h *FolderHandler) Create(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	f, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), req.input())
	if err != nil {
		h.folderError(c, "create folder", err)
		return
	}
	response.Success(c, http.StatusCreated, "Folder created successfully", gin.H{"folder": f})
}

// Update PUT /api/folders/:id
func (h *FolderHandler) Update(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	f, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.input())
	if err != nil {
		h.folderError(c, "update folder", err)
		return
	}
	response.Success(c, http.StatusOK, "Folder updated successfully", gin.H{"folder": f})
}

// Delete DELETE /api/folders/:id
func (h *FolderHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.folderError(c, "delete folder", err)
		return
	}
	response.Success(c, http.StatusOK, "Folder deleted successfully", nil)
}
