package router

import (
	"github.com/oksasatya/studytube/internal/application"
	"github.com/oksasatya/studytube/internal/container"
	pginfra "github.com/oksasatya/studytube/internal/infrastructure/postgres"
	"github.com/oksasatya/studytube/internal/infrastructure/search"
	handlers "github.com/oksasatya/studytube/internal/interface/http"
	"github.com/oksasatya/studytube/internal/interface/middleware"
	"github.com/oksasatya/studytube/internal/router/modules"
	"github.com/oksasatya/studytube/pkg/helpers"
)

// Services holds the application layer built from the container.
type Services struct {
	Auth      *application.AuthService
	Users     *application.UserService
	Playlists *application.PlaylistService
	Folders   *application.FolderService
	Notes     *application.NoteService
}

// Optional integrations are converted to interfaces only when present, so a
// missing one is a nil interface rather than a typed nil.

func jobPublisher() application.JobPublisher {
	cfg := container.GetConfig()
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		return pub
	}
	return nil
}

func avatarStore() application.ObjectStore {
	cfg := container.GetConfig()
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		return &helpers.GCSBucket{Client: gcs, Bucket: cfg.GCSBucket}
	}
	return nil
}

func noteIndex() application.NoteIndex {
	if es := container.GetES(); es != nil {
		return search.NewNotesIndex(es, container.GetConfig().ESNotesIndex)
	}
	return nil
}

func playlistFetcher() application.PlaylistFetcher {
	if yt := container.GetYouTube(); yt != nil {
		return yt
	}
	return nil
}

func buildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	folders := pginfra.NewFolderRepository(pool)

	notify := application.NewNotifications(jobPublisher(), cfg, logger)
	auth := application.NewAuthService(users, container.GetSMS(), container.GetJWT(), notify, logger, cfg.OTPTTL, cfg.SMSSendTimeout)

	return Services{
		Auth:      auth,
		Users:     application.NewUserService(users, auth, avatarStore(), notify, logger),
		Playlists: application.NewPlaylistService(pginfra.NewPlaylistRepository(pool), folders, playlistFetcher(), logger),
		Folders:   application.NewFolderService(folders),
		Notes:     application.NewNoteService(pginfra.NewNoteRepository(pool), noteIndex(), logger),
	}
}

// InitModules wires every feature module and adds it to the registry.
// Call once at startup, after the container is populated.
func InitModules(r *Registry) {
	svc := buildServices()
	logger := container.GetLogger()
	session := middleware.Session(svc.Auth)

	r.Add(modules.NewHealthModule())
	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, container.GetCookies(), logger)))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(svc.Users, logger), session))
	r.Add(modules.NewLibraryModule(
		handlers.NewPlaylistHandler(svc.Playlists, logger),
		handlers.NewFolderHandler(svc.Folders, logger),
		handlers.NewNoteHandler(svc.Notes, logger),
		session,
	))
}
