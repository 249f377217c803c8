package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/application"
	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/interface/middleware"
	"github.com/oksasatya/studytube/pkg/response"
	"github.com/oksasatya/studytube/pkg/validation"
)

type NoteHandler struct {
	Svc    *application.NoteService
	Logger *logrus.Logger
}

func NewNoteHandler(svc *application.NoteService, logger *logrus.Logger) *NoteHandler {
	return &NoteHandler{Svc: svc, Logger: logger}
}

type noteFields struct {
	Content     *string              `json:"content"`
	HTMLContent *string              `json:"htmlContent"`
	Timestamp   *int                 `json:"timestamp" binding:"omitempty,min=0"`
	Category    *entity.NoteCategory `json:"category" binding:"omitempty,category"`
	Tags        []string             `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	IsBookmark  *bool                `json:"isBookmark"`
}

type createNoteRequest struct {
	PlaylistID string `json:"playlistId" binding:"required"`
	VideoID    string `json:"videoId" binding:"required"`
	noteFields
}

func (f noteFields) input() application.NoteInput {
	return application.NoteInput{
		Content:     f.Content,
		HTMLContent: f.HTMLContent,
		Timestamp:   f.Timestamp,
		Category:    f.Category,
		Tags:        f.Tags,
		IsBookmark:  f.IsBookmark,
	}
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// List GET /api/notes?playlistId=&videoId=
func (h *NoteHandler) List(c *gin.Context) {
	playlistID, videoID := c.Query("playlistId"), c.Query("videoId")
	if playlistID == "" || videoID == "" {
		response.Error(c, http.StatusBadRequest, "Playlist ID and Video ID are required", nil)
		return
	}
	notes, err := h.Svc.List(c.Request.Context(), middleware.UserID(c), playlistID, videoID)
	if err != nil {
		internalError(c, h.Logger, "list notes failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Notes retrieved successfully", gin.H{"notes": notes})
}

// Create POST /api/notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req createNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if validation.IsPayloadError(err) || validation.HasTag(err, "required") {
			response.Error(c, http.StatusBadRequest, "Playlist ID, Video ID, and content are required", validation.ToDetails(err))
			return
		}
		response.Error(c, http.StatusBadRequest, "Invalid note", validation.ToDetails(err))
		return
	}
	if blank(req.Content) {
		response.Error(c, http.StatusBadRequest, "Playlist ID, Video ID, and content are required", nil)
		return
	}
	in := req.input()
	in.PlaylistID, in.VideoID = req.PlaylistID, req.VideoID
	n, err := h.Svc.Create(c.Request.Context(), middleware.UserID(c), in)
	if err != nil {
		internalError(c, h.Logger, "create note failed", err)
		return
	}
	response.Success(c, http.StatusCreated, "Note added successfully", gin.H{"note": n})
}

// Update PUT /api/notes/:id
func (h *NoteHandler) Update(c *gin.Context) {
	var req noteFields
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid note", validation.ToDetails(err))
		return
	}
	if req.Content != nil && blank(req.Content) {
		response.Error(c, http.StatusBadRequest, "Content is required", nil)
		return
	}
	n, err := h.Svc.Update(c.Request.Context(), middleware.UserID(c), c.Param("id"), req.input())
	if err != nil {
		h.noteError(c, "update note", err)
		return
	}
	response.Success(c, http.StatusOK, "Note updated successfully", gin.H{"note": n})
}

// Delete DELETE /api/notes/:id
func (h *NoteHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserID(c), c.Param("id")); err != nil {
		h.noteError(c, "delete note", err)
		return
	}
	response.Success(c, http.StatusOK, "Note deleted successfully", nil)
}

// Search GET /api/notes/search?q=
func (h *NoteHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, "Search query is required", nil)
		return
	}
	notes, err := h.Svc.Search(c.Request.Context(), middleware.UserID(c), q)
	if err != nil {
		internalError(c, h.Logger, "search notes failed", err)
		return
	}
	response.Success(c, http.StatusOK, "Notes retrieved successfully", gin.H{"notes": notes})
}

func (h *NoteHandler) noteError(c *gin.Context, op string, err error) {
	if errors.Is(err, application.ErrNoteNotFound) {
		response.Error(c, http.StatusNotFound, "Note not found", nil)
		return
	}
	internalError(c, h.Logger, op+" failed", err)
}
