package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/application"
	"github.com/oksasatya/studytube/internal/interface/middleware"
	"github.com/oksasatya/studytube/pkg/response"
)

type PlaylistHandler struct {
	Svc    *application.PlaylistService
	Logger *logrus.Logger
}

func NewPlaylistHandler(svc *application.PlaylistService, logger *logrus.Logger) *PlaylistHandler {
	return &PlaylistHandler{Svc: svc, Logger: logger}
}

type addPlaylistRequest struct {
	PlaylistURL string `json:"playlistUrl" binding:"required"`
}

type toggleVideoRequest struct {
	VideoID string `json:"videoId" binding:"required"`
}

type moveToFolderRequest struct {
	FolderID *string `json:"folderId"`
}

// playlistError maps lookup failures shared by the :id routes.
func (h *PlaylistHandler) playlistError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, application.ErrPlaylistNotFound):
		response.Error(c, http.StatusNotFound, "Playlist not found", nil)
	case errors.Is(err, application.ErrVideoNotFound):
		response.Error(c, http.StatusNotFound, "Video not found in playlist", nil)
	case errors.Is(err, application.ErrFolderNotFound):
		response.Error(c, http.StatusNotFound, "Folder not found", nil)
	default:
		internalError(c, h.Logger, op+" failed", err)
	}
}

// List GET /api/playlists
func (h *PlaylistHandler) List(c *gin.Context) {
	ps, err := h.Svc.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		internalError(c, h.Logger, "list playlists failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Playlists retrieved successfully", gin.H{"playlists": ps})
}

// Get GET /api/playlists/:id
func (h *PlaylistHandler) Get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.playlistError(c, "get playlist", err)
		return
	}
	response.Success(c, http.StatusOK, "Playlist retrieved successfully", gin.H{"playlist": p, "progress": p.Progress()})
}

// Add POST /api/playlists/add {playlistUrl}
func (h *PlaylistHandler) Add(c *gin.Context) {
	var req addPlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Playlist URL is required", nil)
		return
	}
	p, err := h.Svc.Add(c.Request.Context(), middleware.UserID(c), req.PlaylistURL)
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, "Playlist added successfully", gin.H{"playlist": p})
	case errors.Is(err, application.ErrInvalidPlaylistURL):
		response.Error(c, http.StatusBadRequest, "Invalid YouTube playlist URL", nil)
	case errors.Is(err, application.ErrPlaylistExists):
		response.Error(c, http.StatusBadRequest, "Playlist already added", nil)
	case errors.Is(err, application.ErrPlaylistFetch):
		response.Error(c, http.StatusBadRequest, "Failed to fetch playlist details or playlist not found", nil)
	case errors.Is(err, application.ErrImporterUnavailable):
		response.Error(c, http.StatusServiceUnavailable, "Playlist import is not available", nil)
	default:
		internalError(c, h.Logger, "add playlist failed", err)
	}
}

// ToggleVideo POST /api/playlists/:id/complete {videoId}
func (h *PlaylistHandler) ToggleVideo(c *gin.Context) {
	var req toggleVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Video ID is required", nil)
		return
	}
	p, done, err := h.Svc.ToggleVideo(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.VideoID)
	if err != nil {
		h.playlistError(c, "toggle video", err)
		return
	}
	msg := "Video marked as incomplete"
	if done {
		msg = "Video marked as completed"
	}
	response.Success(c, http.StatusOK, msg, gin.H{"playlist": p, "isCompleted": done})
}

// ToggleStar PUT /api/playlists/:id/star
func (h *PlaylistHandler) ToggleStar(c *gin.Context) {
	p, err := h.Svc.ToggleStar(c.Request.Context(), middleware.UserID(c), c.Param("id"))
	if err != nil {
		h.playlistError(c, "toggle star", err)
		return
	}
	msg := "Playlist unstarred"
	if p.IsStarred {
		msg = "Playlist starred"
	}
	response.Success(c, http.StatusOK, msg, gin.H{"playlist": p})
}

// MoveToFolder PUT /api/playlists/:id/folder {folderId|null}
func (h *PlaylistHandler) MoveToFolder(c *gin.Context) {
	var req moveToFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	p, err := h.Svc.MoveToFolder(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.FolderID)
	if err != nil {
		h.playlistError(c, "move playlist", err)
		return
	}
	response.Success(c, http.StatusOK, "Playlist moved successfully", gin.H{"playlist": p})
}

// Delete DELETE /api/playlists/:id
func (h *PlaylistHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.playlistError(c, "delete playlist", err)
		return
	}
	response.Success(c, http.StatusOK, "Playlist deleted successfully", nil)
}
