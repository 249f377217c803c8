package application

import "errors"

// Auth and account errors. Handlers map each one to a status and message.
var (
	ErrInvalidPhone       = errors.New("phone number is not in E.164 format")
	ErrUserNotFound       = errors.New("user not found")
	ErrPhoneTaken         = errors.New("phone number already in use")
	ErrInvalidCode        = errors.New("invalid otp")
	ErrCodeExpired        = errors.New("otp expired")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrGatewayFailure     = errors.New("otp delivery failed")
	ErrGatewayTimeout     = errors.New("otp delivery timed out")
	ErrInvalidDestination = errors.New("sms provider rejected destination number")
	ErrStorageDisabled    = errors.New("object storage not configured")
)

// Playlist, folder and note errors.
var (
	ErrInvalidPlaylistURL  = errors.New("invalid playlist url")
	ErrPlaylistExists      = errors.New("playlist already added")
	ErrPlaylistFetch       = errors.New("failed to fetch playlist")
	ErrPlaylistNotFound    = errors.New("playlist not found")
	ErrVideoNotFound       = errors.New("video not found in playlist")
	ErrFolderNotFound      = errors.New("folder not found")
	ErrFolderExists        = errors.New("folder name already exists")
	ErrNoteNotFound        = errors.New("note not found")
	ErrImporterUnavailable = errors.New("playlist importer not configured")
)
