// Package testutil contains in-memory doubles shared by service and handler tests.
package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/domain/repository"
)

// UserStore is an in-memory repository.UserRepository with the same
// compare-and-swap semantics as the Postgres one.
type UserStore struct {
	mu    sync.Mutex
	users map[string]entity.User
	Now   func() time.Time

	// Writes counts mutating calls that reached the store.
	Writes int
}

func NewUserStore() *UserStore {
	return &UserStore{users: map[string]entity.User{}, Now: time.Now}
}

func (s *UserStore) phoneTaken(phone, exceptID string) bool {
	for id, u := range s.users {
		if id != exceptID && u.Phone == phone {
			return true
		}
	}
	return false
}

func (s *UserStore) Create(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	if s.phoneTaken(u.Phone, "") {
		return repository.ErrConflict
	}
	u.ID = uuid.NewString()
	u.CreatedAt = s.Now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByPhone(_ context.Context, phone string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Phone == phone {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *UserStore) SetChallenge(_ context.Context, id string, ch entity.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Challenge = ch
	u.UpdatedAt = s.Now()
	s.users[id] = u
	return nil
}

func (s *UserStore) ConsumeChallenge(_ context.Context, id string, expected entity.Challenge) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	u, ok := s.users[id]
	if !ok || !expected.Pending() || u.Challenge != expected {
		return nil, repository.ErrStaleChallenge
	}
	if p := expected.NewPhone(); p != "" {
		if s.phoneTaken(p, id) {
			return nil, repository.ErrConflict
		}
		u.Phone = p
	}
	u.IsVerified = true
	u.Challenge = entity.NoChallenge()
	u.UpdatedAt = s.Now()
	s.users[id] = u
	return &u, nil
}

func (s *UserStore) UpdateProfile(_ context.Context, id, name, email string) (*entity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Name, u.Email = name, email
	u.UpdatedAt = s.Now()
	s.users[id] = u
	return &u, nil
}

func (s *UserStore) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Writes++
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.AvatarURL = avatarURL
	s.users[id] = u
	return nil
}

// Count returns the number of stored users.
func (s *UserStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// SMS records every message and fails when Err is set.
type SMS struct {
	mu   sync.Mutex
	Err  error
	Sent []Message
}

type Message struct {
	To, Body string
}

func (f *SMS) Send(_ context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Sent = append(f.Sent, Message{To: to, Body: body})
	return f.Err
}

// Attempts returns the number of delivery attempts.
func (f *SMS) Attempts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Sent)
}

// Publisher records published jobs.
type Publisher struct {
	mu   sync.Mutex
	Jobs []any
	Err  error
}

func (p *Publisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Jobs = append(p.Jobs, body)
	return nil
}

func (p *Publisher) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Jobs)
}

// FixedCode returns a code generator that always yields code.
func FixedCode(code string) func() (string, error) {
	return func() (string, error) { return code, nil }
}

// Clock is a settable time source.
type Clock struct {
	mu sync.Mutex
	t  time.Time
}

func NewClock(t time.Time) *Clock { return &Clock{t: t} }

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// PlaylistStore is an in-memory repository.PlaylistRepository.
type PlaylistStore struct {
	mu        sync.Mutex
	playlists map[string]entity.Playlist
	folders   *FolderStore
	seq       int
}

func NewPlaylistStore(folders *FolderStore) *PlaylistStore {
	return &PlaylistStore{playlists: map[string]entity.Playlist{}, folders: folders}
}

func (s *PlaylistStore) ListByUser(_ context.Context, userID string) ([]entity.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entity.Playlist{}
	for _, p := range s.playlists {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *PlaylistStore) get(userID, id string) (entity.Playlist, bool) {
	p, ok := s.playlists[id]
	if !ok || p.UserID != userID {
		return entity.Playlist{}, false
	}
	p.Videos = append([]entity.Video(nil), p.Videos...)
	return p, true
}

func (s *PlaylistStore) Get(_ context.Context, userID, id string) (*entity.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(userID, id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *PlaylistStore) ExistsForUser(_ context.Context, userID, playlistID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.playlists {
		if p.UserID == userID && p.PlaylistID == playlistID {
			return true, nil
		}
	}
	return false, nil
}

func (s *PlaylistStore) Create(_ context.Context, p *entity.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.playlists {
		if other.UserID == p.UserID && other.PlaylistID == p.PlaylistID {
			return repository.ErrConflict
		}
	}
	s.seq++
	p.ID = uuid.NewString()
	p.CreatedAt = time.Unix(int64(s.seq), 0)
	p.UpdatedAt = p.CreatedAt
	s.playlists[p.ID] = *p
	return nil
}

func (s *PlaylistStore) ToggleVideo(_ context.Context, userID, id, videoID string) (*entity.Playlist, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(userID, id)
	if !ok {
		return nil, false, repository.ErrNotFound
	}
	completed, found := p.ToggleVideo(videoID)
	if !found {
		return &p, false, repository.ErrNotFound
	}
	s.playlists[id] = p
	return &p, completed, nil
}

func (s *PlaylistStore) ToggleStar(_ context.Context, userID, id string) (*entity.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(userID, id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.IsStarred = !p.IsStarred
	s.playlists[id] = p
	return &p, nil
}

func (s *PlaylistStore) SetFolder(ctx context.Context, userID, id string, folderID *string) (*entity.Playlist, error) {
	if folderID != nil && s.folders != nil {
		if _, err := s.folders.Get(ctx, userID, *folderID); err != nil {
			return nil, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.get(userID, id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.FolderID = folderID
	s.playlists[id] = p
	return &p, nil
}

func (s *PlaylistStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.get(userID, id); !ok {
		return repository.ErrNotFound
	}
	delete(s.playlists, id)
	return nil
}

// FolderStore is an in-memory repository.FolderRepository.
type FolderStore struct {
	mu      sync.Mutex
	folders map[string]entity.Folder
}

func NewFolderStore() *FolderStore {
	return &FolderStore{folders: map[string]entity.Folder{}}
}

func (s *FolderStore) nameTaken(userID, name, exceptID string) bool {
	for id, f := range s.folders {
		if id != exceptID && f.UserID == userID && f.Name == name {
			return true
		}
	}
	return false
}

func (s *FolderStore) ListByUser(_ context.Context, userID string) ([]entity.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entity.Folder{}
	for _, f := range s.folders {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *FolderStore) Get(_ context.Context, userID, id string) (*entity.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok || f.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (s *FolderStore) Create(_ context.Context, f *entity.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nameTaken(f.UserID, f.Name, "") {
		return repository.ErrConflict
	}
	f.ID = uuid.NewString()
	f.CreatedAt = time.Now()
	f.UpdatedAt = f.CreatedAt
	s.folders[f.ID] = *f
	return nil
}

func (s *FolderStore) Update(_ context.Context, f *entity.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.folders[f.ID]
	if !ok || cur.UserID != f.UserID {
		return repository.ErrNotFound
	}
	if s.nameTaken(f.UserID, f.Name, f.ID) {
		return repository.ErrConflict
	}
	f.UpdatedAt = time.Now()
	s.folders[f.ID] = *f
	return nil
}

func (s *FolderStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.folders[id]
	if !ok || f.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.folders, id)
	return nil
}

// NoteStore is an in-memory repository.NoteRepository.
type NoteStore struct {
	mu    sync.Mutex
	notes map[string]entity.Note
}

func NewNoteStore() *NoteStore {
	return &NoteStore{notes: map[string]entity.Note{}}
}

func (s *NoteStore) ListByVideo(_ context.Context, userID, playlistID, videoID string) ([]entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entity.Note{}
	for _, n := range s.notes {
		if n.UserID == userID && n.PlaylistID == playlistID && n.VideoID == videoID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *NoteStore) Get(_ context.Context, userID, id string) (*entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (s *NoteStore) Create(_ context.Context, n *entity.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	s.notes[n.ID] = *n
	return nil
}

func (s *NoteStore) Update(_ context.Context, n *entity.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.notes[n.ID]
	if !ok || cur.UserID != n.UserID {
		return repository.ErrNotFound
	}
	n.UpdatedAt = time.Now()
	s.notes[n.ID] = *n
	return nil
}

func (s *NoteStore) Delete(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notes[id]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

func (s *NoteStore) Search(_ context.Context, userID, q string, limit int) ([]entity.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []entity.Note{}
	needle := strings.ToLower(q)
	for _, n := range s.notes {
		if n.UserID != userID {
			continue
		}
		if strings.Contains(strings.ToLower(n.Content), needle) || containsTag(n.Tags, q) {
			out = append(out, n)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func containsTag(tags []string, t string) bool {
	for _, x := range tags {
		if x == t {
			return true
		}
	}
	return false
}

var (
	_ repository.UserRepository     = (*UserStore)(nil)
	_ repository.PlaylistRepository = (*PlaylistStore)(nil)
	_ repository.FolderRepository   = (*FolderStore)(nil)
	_ repository.NoteRepository     = (*NoteStore)(nil)
)
