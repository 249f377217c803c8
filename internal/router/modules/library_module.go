package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/studytube/internal/interface/http"
	"github.com/oksasatya/studytube/internal/interface/middleware"
)

// LibraryModule serves playlists, folders and notes. Every route needs a session.
type LibraryModule struct {
	Playlists *handlers.PlaylistHandler
	Folders   *handlers.FolderHandler
	Notes     *handlers.NoteHandler
	Session   gin.HandlerFunc
}

func NewLibraryModule(p *handlers.PlaylistHandler, f *handlers.FolderHandler, n *handlers.NoteHandler, session gin.HandlerFunc) *LibraryModule {
	return &LibraryModule{Playlists: p, Folders: f, Notes: n, Session: session}
}

func (m *LibraryModule) Register(rg *gin.RouterGroup) {
	auth := authenticated(rg, m.Session)

	// Each import costs several YouTube API calls.
	auth.POST("/playlists/add", limit(middleware.PerMinute(10), middleware.KeyByUserID()), m.Playlists.Add)
	auth.GET("/playlists", m.Playlists.List)
	auth.GET("/playlists/:id", m.Playlists.Get)
	auth.POST("/playlists/:id/complete", m.Playlists.ToggleVideo)
	auth.PUT("/playlists/:id/star", m.Playlists.ToggleStar)
	auth.PUT("/playlists/:id/folder", m.Playlists.MoveToFolder)
	auth.DELETE("/playlists/:id", m.Playlists.Delete)

	auth.GET("/folders", m.Folders.List)
	auth.POST("/folders", m.Folders.Create)
	auth.GET("/folders/:id", m.Folders.Get)
	auth.PUT("/folders/:id", m.Folders.Update)
	auth.DELETE("/folders/:id", m.Folders.Delete)

	auth.GET("/notes", m.Notes.List)
	auth.POST("/notes", m.Notes.Create)
	auth.GET("/notes/search", m.Notes.Search)
	auth.PUT("/notes/:id", m.Notes.Update)
	auth.DELETE("/notes/:id", m.Notes.Delete)
}
