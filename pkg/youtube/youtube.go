package youtube

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
)

// ErrPlaylistNotFound is returned when the API knows no playlist with the id.
var ErrPlaylistNotFound = errors.New("playlist not found")

const pageSize = 50

var (
	listParam = regexp.MustCompile(`[&?]list=([a-zA-Z0-9_-]+)`)
	isoPT     = regexp.MustCompile(`PT(\d+H)?(\d+M)?(\d+S)?`)
)

// Video is one playlist entry as returned by the importer.
type Video struct {
	VideoID      string
	Title        string
	Description  string
	ThumbnailURL string
	Duration     string
	Position     int
}

// Playlist is the imported playlist snapshot.
type Playlist struct {
	PlaylistID   string
	Title        string
	Description  string
	ThumbnailURL string
	ChannelTitle string
	Videos       []Video
}

// ExtractPlaylistID pulls the list id out of a YouTube URL.
func ExtractPlaylistID(url string) (string, bool) {
	m := listParam.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FormatDuration renders an ISO-8601 PT duration as m:ss or h:mm:ss.
func FormatDuration(iso string) string {
	m := isoPT.FindStringSubmatch(iso)
	if m == nil {
		return "Unknown"
	}
	h, mi, s := unit(m[1]), unit(m[2]), unit(m[3])
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, mi, s)
	}
	return fmt.Sprintf("%d:%02d", mi, s)
}

func unit(s string) int {
	if len(s) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(s[:len(s)-1])
	return n
}

// Client reads public playlist data with an API key.
type Client struct {
	svc *yt.Service
}

// NewClient builds a YouTube Data API client. Extra options let tests point it elsewhere.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("youtube api key not configured")
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &Client{svc: svc}, nil
}

// FetchPlaylist loads the playlist snippet, every item, and the item durations.
func (c *Client) FetchPlaylist(ctx context.Context, playlistID string) (*Playlist, error) {
	res, err := c.svc.Playlists.List([]string{"snippet"}).Id(playlistID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}
	if len(res.Items) == 0 || res.Items[0].Snippet == nil {
		return nil, ErrPlaylistNotFound
	}
	sn := res.Items[0].Snippet
	out := &Playlist{
		PlaylistID:   playlistID,
		Title:        sn.Title,
		Description:  sn.Description,
		ThumbnailURL: thumbnail(sn.Thumbnails),
		ChannelTitle: sn.ChannelTitle,
	}

	call := c.svc.PlaylistItems.List([]string{"snippet"}).PlaylistId(playlistID).MaxResults(pageSize)
	err = call.Pages(ctx, func(page *yt.PlaylistItemListResponse) error {
		for _, it := range page.Items {
			if it.Snippet == nil || it.Snippet.ResourceId == nil || it.Snippet.ResourceId.VideoId == "" {
				continue
			}
			out.Videos = append(out.Videos, Video{
				VideoID:      it.Snippet.ResourceId.VideoId,
				Title:        it.Snippet.Title,
				Description:  it.Snippet.Description,
				ThumbnailURL: thumbnail(it.Snippet.Thumbnails),
				Position:     len(out.Videos),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch playlist videos: %w", err)
	}

	durations := c.durations(ctx, out.Videos)
	for i := range out.Videos {
		if d, ok := durations[out.Videos[i].VideoID]; ok {
			out.Videos[i].Duration = d
		} else {
			out.Videos[i].Duration = "Unknown"
		}
	}
	return out, nil
}

// durations is best effort: a failed lookup leaves the affected videos Unknown.
func (c *Client) durations(ctx context.Context, videos []Video) map[string]string {
	out := make(map[string]string, len(videos))
	for start := 0; start < len(videos); start += pageSize {
		end := min(start+pageSize, len(videos))
		ids := make([]string, 0, end-start)
		for _, v := range videos[start:end] {
			ids = append(ids, v.VideoID)
		}
		res, err := c.svc.Videos.List([]string{"contentDetails"}).Id(ids...).Context(ctx).Do()
		if err != nil {
			continue
		}
		for _, v := range res.Items {
			if v.ContentDetails != nil {
				out[v.Id] = FormatDuration(v.ContentDetails.Duration)
			}
		}
	}
	return out
}

func thumbnail(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.Medium != nil && t.Medium.Url != "" {
		return t.Medium.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}
