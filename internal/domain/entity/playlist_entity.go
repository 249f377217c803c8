package entity

import "time"

// Video is a single entry of an imported playlist.
type Video struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Duration     string `json:"duration"`
	IsCompleted  bool   `json:"isCompleted"`
	Position     int    `json:"position"`
}

// Playlist is a YouTube playlist imported by a user, with per-video progress.
type Playlist struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	PlaylistID      string    `json:"playlistId"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ThumbnailURL    string    `json:"thumbnailUrl"`
	ChannelTitle    string    `json:"channelTitle"`
	TotalVideos     int       `json:"totalVideos"`
	CompletedVideos int       `json:"completedVideos"`
	Videos          []Video   `json:"videos"`
	FolderID        *string   `json:"folderId"`
	IsStarred       bool      `json:"isStarred"`
	Tags            []string  `json:"tags"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ToggleVideo flips the completion flag of videoID and recounts completed
// videos. It returns the new flag, or false and ok=false if the video is not
// part of the playlist.
func (p *Playlist) ToggleVideo(videoID string) (completed bool, ok bool) {
	for i := range p.Videos {
		if p.Videos[i].VideoID == videoID {
			p.Videos[i].IsCompleted = !p.Videos[i].IsCompleted
			completed, ok = p.Videos[i].IsCompleted, true
			break
		}
	}
	if !ok {
		return false, false
	}
	p.CompletedVideos = 0
	for _, v := range p.Videos {
		if v.IsCompleted {
			p.CompletedVideos++
		}
	}
	return completed, true
}

// Progress returns the completed share in [0,100].
func (p *Playlist) Progress() int {
	if p.TotalVideos == 0 {
		return 0
	}
	return p.CompletedVideos * 100 / p.TotalVideos
}
