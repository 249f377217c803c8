package entity

import "time"

type NoteCategory string

const (
	NoteGeneral   NoteCategory = "general"
	NoteImportant NoteCategory = "important"
	NoteQuestion  NoteCategory = "question"
	NoteSummary   NoteCategory = "summary"
	NoteTodo      NoteCategory = "todo"
	NoteInsight   NoteCategory = "insight"
)

// Valid reports whether c is a known category.
func (c NoteCategory) Valid() bool {
	switch c {
	case NoteGeneral, NoteImportant, NoteQuestion, NoteSummary, NoteTodo, NoteInsight:
		return true
	}
	return false
}

// Note is a user's note attached to a video of a playlist.
// Timestamp is the video offset in seconds, when the note was pinned to one.
type Note struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	PlaylistID  string       `json:"playlistId"`
	VideoID     string       `json:"videoId"`
	Content     string       `json:"content"`
	HTMLContent string       `json:"htmlContent"`
	Timestamp   *int         `json:"timestamp"`
	Category    NoteCategory `json:"category"`
	Tags        []string     `json:"tags"`
	IsBookmark  bool         `json:"isBookmark"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
