package application

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/testutil"
	"github.com/oksasatya/studytube/pkg/helpers"
	"github.com/oksasatya/studytube/pkg/youtube"
)

type stubFetcher struct {
	calls int
	err   error
}

func (s *stubFetcher) FetchPlaylist(_ context.Context, id string) (*youtube.Playlist, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &youtube.Playlist{
		PlaylistID: id,
		Title:      "Go Course",
		Videos: []youtube.Video{
			{VideoID: "v1", Title: "Intro", Duration: "4:13", Position: 0},
			{VideoID: "v2", Title: "Types", Duration: "Unknown", Position: 1},
		},
	}, nil
}

func newPlaylistFixture() (*PlaylistService, *FolderService, *stubFetcher) {
	folders := testutil.NewFolderStore()
	yt := &stubFetcher{}
	return NewPlaylistService(testutil.NewPlaylistStore(folders), folders, yt, helpers.NopLogger()), NewFolderService(folders), yt
}

func TestPlaylistAdd(t *testing.T) {
	ctx := context.Background()
	url := "https://www.youtube.com/playlist?list=PLgo"

	t.Run("imports and rejects duplicates", func(t *testing.T) {
		svc, _, yt := newPlaylistFixture()
		p, err := svc.Add(ctx, "u1", url)
		require.NoError(t, err)
		require.Equal(t, "PLgo", p.PlaylistID)
		require.Equal(t, 2, p.TotalVideos)
		require.Zero(t, p.CompletedVideos)

		_, err = svc.Add(ctx, "u1", url)
		require.ErrorIs(t, err, ErrPlaylistExists)
		require.Equal(t, 1, yt.calls)

		_, err = svc.Add(ctx, "u2", url)
		require.NoError(t, err)
	})

	t.Run("invalid url", func(t *testing.T) {
		svc, _, yt := newPlaylistFixture()
		_, err := svc.Add(ctx, "u1", "https://www.youtube.com/watch?v=abc")
		require.ErrorIs(t, err, ErrInvalidPlaylistURL)
		require.Zero(t, yt.calls)
	})

	t.Run("fetch failure", func(t *testing.T) {
		svc, _, yt := newPlaylistFixture()
		yt.err = youtube.ErrPlaylistNotFound
		_, err := svc.Add(ctx, "u1", url)
		require.ErrorIs(t, err, ErrPlaylistFetch)
	})
}

func TestPlaylistToggles(t *testing.T) {
	ctx := context.Background()
	svc, folders, _ := newPlaylistFixture()
	p, err := svc.Add(ctx, "u1", "https://www.youtube.com/playlist?list=PLgo")
	require.NoError(t, err)

	t.Run("video completion recounts", func(t *testing.T) {
		got, done, err := svc.ToggleVideo(ctx, "u1", p.ID, "v2")
		require.NoError(t, err)
		require.True(t, done)
		require.Equal(t, 1, got.CompletedVideos)

		got, done, err = svc.ToggleVideo(ctx, "u1", p.ID, "v2")
		require.NoError(t, err)
		require.False(t, done)
		require.Zero(t, got.CompletedVideos)
	})

	t.Run("unknown video and foreign playlist", func(t *testing.T) {
		_, _, err := svc.ToggleVideo(ctx, "u1", p.ID, "nope")
		require.ErrorIs(t, err, ErrVideoNotFound)
		_, _, err = svc.ToggleVideo(ctx, "u2", p.ID, "v1")
		require.ErrorIs(t, err, ErrPlaylistNotFound)
	})

	t.Run("star", func(t *testing.T) {
		got, err := svc.ToggleStar(ctx, "u1", p.ID)
		require.NoError(t, err)
		require.True(t, got.IsStarred)
	})

	t.Run("folder must belong to the user", func(t *testing.T) {
		mine, err := folders.Create(ctx, "u1", FolderInput{Name: "Backend"})
		require.NoError(t, err)
		theirs, err := folders.Create(ctx, "u2", FolderInput{Name: "Backend"})
		require.NoError(t, err)

		got, err := svc.MoveToFolder(ctx, "u1", p.ID, &mine.ID)
		require.NoError(t, err)
		require.Equal(t, mine.ID, *got.FolderID)

		_, err = svc.MoveToFolder(ctx, "u1", p.ID, &theirs.ID)
		require.ErrorIs(t, err, ErrFolderNotFound)

		empty := ""
		got, err = svc.MoveToFolder(ctx, "u1", p.ID, &empty)
		require.NoError(t, err)
		require.Nil(t, got.FolderID)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, "u1", p.ID))
		require.ErrorIs(t, svc.Delete(ctx, "u1", p.ID), ErrPlaylistNotFound)
	})
}

func TestFolderService(t *testing.T) {
	ctx := context.Background()
	svc := NewFolderService(testutil.NewFolderStore())

	f, err := svc.Create(ctx, "u1", FolderInput{Name: " Frontend "})
	require.NoError(t, err)
	require.Equal(t, "Frontend", f.Name)
	require.Equal(t, entity.DefaultFolderColor, f.Color)

	_, err = svc.Create(ctx, "u1", FolderInput{Name: "Frontend"})
	require.ErrorIs(t, err, ErrFolderExists)

	other, err := svc.Create(ctx, "u1", FolderInput{Name: "Other"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, "u1", other.ID, FolderInput{Name: "Frontend"})
	require.ErrorIs(t, err, ErrFolderExists)

	green := "green"
	up, err := svc.Update(ctx, "u1", f.ID, FolderInput{Name: "UI", Color: &green})
	require.NoError(t, err)
	require.Equal(t, "green", up.Color)

	_, err = svc.Get(ctx, "u2", f.ID)
	require.ErrorIs(t, err, ErrFolderNotFound)
	require.NoError(t, svc.Delete(ctx, "u1", f.ID))
	require.ErrorIs(t, svc.Delete(ctx, "u1", f.ID), ErrFolderNotFound)
}

type memIndex struct {
	docs      map[string]entity.Note
	searchErr error
}

func (m *memIndex) Index(_ context.Context, n *entity.Note) error {
	m.docs[n.ID] = *n
	return nil
}

func (m *memIndex) Remove(_ context.Context, id string) error {
	delete(m.docs, id)
	return nil
}

func (m *memIndex) Search(_ context.Context, userID, q string, _ int) ([]entity.Note, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	out := []entity.Note{}
	for _, n := range m.docs {
		if n.UserID == userID && strings.Contains(n.Content, q) {
			out = append(out, n)
		}
	}
	return out, nil
}

func TestNoteService(t *testing.T) {
	ctx := context.Background()
	idx := &memIndex{docs: map[string]entity.Note{}}
	svc := NewNoteService(testutil.NewNoteStore(), idx, helpers.NopLogger())

	content := "buffered channels block when full"
	cat := entity.NoteQuestion
	n, err := svc.Create(ctx, "u1", NoteInput{PlaylistID: "p1", VideoID: "v1", Content: &content, Category: &cat})
	require.NoError(t, err)
	require.Equal(t, entity.NoteQuestion, n.Category)
	require.Contains(t, idx.docs, n.ID)

	list, err := svc.List(ctx, "u1", "p1", "v1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	bogus := entity.NoteCategory("misc")
	ts := 95
	up, err := svc.Update(ctx, "u1", n.ID, NoteInput{Category: &bogus, Timestamp: &ts})
	require.NoError(t, err)
	require.Equal(t, entity.NoteQuestion, up.Category)
	require.Equal(t, 95, *up.Timestamp)
	require.Equal(t, content, up.Content)

	found, err := svc.Search(ctx, "u1", "channels")
	require.NoError(t, err)
	require.Len(t, found, 1)

	idx.searchErr = errors.New("es down")
	found, err = svc.Search(ctx, "u1", "channels")
	require.NoError(t, err)
	require.Len(t, found, 1, "falls back to the database")

	_, err = svc.Update(ctx, "u2", n.ID, NoteInput{})
	require.ErrorIs(t, err, ErrNoteNotFound)
	require.NoError(t, svc.Delete(ctx, "u1", n.ID))
	require.NotContains(t, idx.docs, n.ID)
}

type memStore struct {
	paths []string
}

func (m *memStore) Upload(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	_, _ = io.Copy(io.Discard, r)
	m.paths = append(m.paths, objectPath)
	return "https://storage.test/" + objectPath, nil
}

func TestUserService(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	id := f.register(t, "+15551234567", "Alice")
	store := &memStore{}
	svc := NewUserService(f.users, f.svc, store, f.svc.Notify, helpers.NopLogger())

	t.Run("profile update notifies on new email", func(t *testing.T) {
		u, err := svc.UpdateProfile(ctx, id, "Alice Liddell", "alice@example.com")
		require.NoError(t, err)
		require.Equal(t, "Alice Liddell", u.Name)
		require.Equal(t, 1, f.pub.Count())

		u, err = svc.UpdateProfile(ctx, id, "Alice Liddell", "")
		require.NoError(t, err)
		require.Empty(t, u.Email)
		require.Equal(t, 1, f.pub.Count())
	})

	t.Run("malformed email is stored but never mailed", func(t *testing.T) {
		u, err := svc.UpdateProfile(ctx, id, "Alice", "not-an-address")
		require.NoError(t, err)
		require.Equal(t, "not-an-address", u.Email)
		require.Equal(t, 1, f.pub.Count())
	})

	t.Run("avatar stored under the user", func(t *testing.T) {
		url, err := svc.UploadAvatar(ctx, id, strings.NewReader("png"), "me.PNG", "image/png")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(store.paths[0], "avatars/"+id+"/"))
		require.True(t, strings.HasSuffix(store.paths[0], ".png"))

		u, err := svc.GetProfile(ctx, id)
		require.NoError(t, err)
		require.Equal(t, url, u.AvatarURL)
	})

	t.Run("change phone issues challenge to new number", func(t *testing.T) {
		got, err := svc.ChangePhone(ctx, id, "+15559876543")
		require.NoError(t, err)
		require.Equal(t, id, got)
		require.Equal(t, "+15559876543", f.sms.Sent[len(f.sms.Sent)-1].To)
	})

	t.Run("avatar without storage", func(t *testing.T) {
		bare := NewUserService(f.users, f.svc, nil, nil, helpers.NopLogger())
		_, err := bare.UploadAvatar(ctx, id, strings.NewReader("x"), "a.png", "image/png")
		require.ErrorIs(t, err, ErrStorageDisabled)
	})
}
