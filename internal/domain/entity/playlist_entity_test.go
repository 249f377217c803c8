package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaylistToggleVideo(t *testing.T) {
	p := &Playlist{
		TotalVideos: 3,
		Videos: []Video{
			{VideoID: "a", Position: 0},
			{VideoID: "b", Position: 1, IsCompleted: true},
			{VideoID: "c", Position: 2},
		},
		CompletedVideos: 1,
	}

	done, ok := p.ToggleVideo("a")
	require.True(t, ok)
	require.True(t, done)
	require.Equal(t, 2, p.CompletedVideos)
	require.Equal(t, 66, p.Progress())

	done, ok = p.ToggleVideo("b")
	require.True(t, ok)
	require.False(t, done)
	require.Equal(t, 1, p.CompletedVideos)

	_, ok = p.ToggleVideo("missing")
	require.False(t, ok)
	require.Equal(t, 1, p.CompletedVideos)
}

func TestPlaylistProgressEmpty(t *testing.T) {
	require.Zero(t, (&Playlist{}).Progress())
}

func TestNoteCategoryValid(t *testing.T) {
	require.True(t, NoteInsight.Valid())
	require.False(t, NoteCategory("random").Valid())
}
