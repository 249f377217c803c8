package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/internal/domain/entity"
	repo "github.com/oksasatya/studytube/internal/domain/repository"
	"github.com/oksasatya/studytube/pkg/helpers"
	"github.com/oksasatya/studytube/pkg/sms"
)

// OTPContext names the flow a challenge is issued for.
type OTPContext string

const (
	ContextRegister       OTPContext = "register"
	ContextLogin          OTPContext = "login"
	ContextForgotPassword OTPContext = "forgot-password"
	ContextChangePhone    OTPContext = "change-phone"
)

// ChallengeRequest is the input of IssueChallenge. Phone is the destination
// number; for change-phone it is the new number and UserID is the caller.
type ChallengeRequest struct {
	Context OTPContext
	Phone   string
	Name    string
	UserID  string
}

// VerifyRequest is the input of VerifyChallenge. IP and UserAgent only feed
// the sign-in notification.
type VerifyRequest struct {
	UserID    string
	Code      string
	IP        string
	UserAgent string
}

// AuthService issues and verifies OTP challenges and mints sessions.
type AuthService struct {
	Users  repo.UserRepository
	SMS    sms.Sender
	JWT    *helpers.JWTManager
	Notify *Notifications
	Logger *logrus.Logger

	OTPTTL      time.Duration
	SendTimeout time.Duration

	// Now and GenCode default to time.Now and helpers.GenOTPCode.
	Now     func() time.Time
	GenCode func() (string, error)
}

func NewAuthService(users repo.UserRepository, sender sms.Sender, jwt *helpers.JWTManager, notify *Notifications, logger *logrus.Logger, otpTTL, sendTimeout time.Duration) *AuthService {
	if logger == nil {
		logger = helpers.NopLogger()
	}
	return &AuthService{
		Users:       users,
		SMS:         sender,
		JWT:         jwt,
		Notify:      notify,
		Logger:      logger,
		OTPTTL:      otpTTL,
		SendTimeout: sendTimeout,
		Now:         time.Now,
		GenCode:     helpers.GenOTPCode,
	}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) newChallenge() (entity.Challenge, error) {
	gen := s.GenCode
	if gen == nil {
		gen = helpers.GenOTPCode
	}
	code, err := gen()
	if err != nil {
		return entity.NoChallenge(), err
	}
	return entity.NewChallenge(code, s.now().Add(s.OTPTTL)), nil
}

// IssueChallenge creates or replaces the caller's challenge and delivers the
// code by SMS. It returns the id of the user the challenge belongs to.
func (s *AuthService) IssueChallenge(ctx context.Context, req ChallengeRequest) (string, error) {
	if !helpers.IsE164(req.Phone) {
		return "", ErrInvalidPhone
	}
	switch req.Context {
	case ContextRegister:
		return s.issueRegister(ctx, req)
	case ContextChangePhone:
		return s.issueChangePhone(ctx, req)
	default:
		return s.issueExisting(ctx, req)
	}
}

func (s *AuthService) issueRegister(ctx context.Context, req ChallengeRequest) (string, error) {
	if _, err := s.Users.GetByPhone(ctx, req.Phone); err == nil {
		return "", ErrPhoneTaken
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}

	ch, err := s.newChallenge()
	if err != nil {
		return "", err
	}
	u := &entity.User{Phone: req.Phone, Name: req.Name, Challenge: ch}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return "", ErrPhoneTaken
		}
		return "", err
	}

	if err := s.deliver(ctx, req.Phone, ch); err != nil {
		// No orphaned unverifiable accounts: undo the insert even if the request is gone.
		if derr := s.Users.Delete(context.WithoutCancel(ctx), u.ID); derr != nil {
			s.Logger.WithError(derr).WithField("user_id", u.ID).Error("rollback of unverified user failed")
		}
		return "", err
	}
	return u.ID, nil
}

func (s *AuthService) issueExisting(ctx context.Context, req ChallengeRequest) (string, error) {
	u, err := s.Users.GetByPhone(ctx, req.Phone)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	ch, err := s.newChallenge()
	if err != nil {
		return "", err
	}
	if err := s.Users.SetChallenge(ctx, u.ID, ch); err != nil {
		return "", err
	}
	if err := s.deliver(ctx, req.Phone, ch); err != nil {
		return "", err
	}
	return u.ID, nil
}

func (s *AuthService) issueChangePhone(ctx context.Context, req ChallengeRequest) (string, error) {
	if other, err := s.Users.GetByPhone(ctx, req.Phone); err == nil {
		if other.ID != req.UserID {
			return "", ErrPhoneTaken
		}
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}

	ch, err := s.newChallenge()
	if err != nil {
		return "", err
	}
	ch = ch.WithNewPhone(req.Phone)
	if err := s.Users.SetChallenge(ctx, req.UserID, ch); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if err := s.deliver(ctx, req.Phone, ch); err != nil {
		return "", err
	}
	return req.UserID, nil
}

// deliver sends the code under the gateway deadline and maps gateway errors.
func (s *AuthService) deliver(ctx context.Context, to string, ch entity.Challenge) error {
	if s.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.SendTimeout)
		defer cancel()
	}
	err := s.SMS.Send(ctx, to, sms.OTPMessage(ch.Code(), s.OTPTTL))
	if err == nil {
		return nil
	}
	s.Logger.WithError(err).Warn("otp delivery failed")
	switch {
	case errors.Is(err, sms.ErrInvalidDestination):
		return ErrInvalidDestination
	case errors.Is(err, sms.ErrTimeout):
		return ErrGatewayTimeout
	default:
		return ErrGatewayFailure
	}
}

// VerifyChallenge consumes the user's pending challenge if code matches and it
// has not expired. The returned user is verified and carries no challenge.
func (s *AuthService) VerifyChallenge(ctx context.Context, req VerifyRequest) (*entity.User, error) {
	if _, err := uuid.Parse(req.UserID); err != nil {
		return nil, ErrUserNotFound
	}
	u, err := s.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !u.Challenge.Matches(req.Code) {
		return nil, ErrInvalidCode
	}
	if u.Challenge.Expired(s.now()) {
		return nil, ErrCodeExpired
	}

	verified, err := s.Users.ConsumeChallenge(ctx, u.ID, u.Challenge)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrStaleChallenge):
		return nil, ErrInvalidCode
	case errors.Is(err, repo.ErrConflict):
		return nil, ErrPhoneTaken
	case errors.Is(err, repo.ErrNotFound):
		return nil, ErrUserNotFound
	default:
		return nil, err
	}

	if u.Challenge.NewPhone() != "" {
		s.Notify.PhoneChanged(ctx, verified, u.Phone)
	} else {
		s.Notify.SignIn(ctx, verified, req.IP, req.UserAgent)
	}
	return verified, nil
}

// IssueSession mints a session token for a verified user.
func (s *AuthService) IssueSession(u *entity.User) (string, time.Time, error) {
	return s.JWT.Generate(u.ID, u.Phone)
}

// ResolveSession maps a session token to its user. Missing, malformed,
// expired and orphaned tokens are all ErrUnauthorized.
func (s *AuthService) ResolveSession(ctx context.Context, token string) (*entity.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := s.JWT.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithError(err).Warn("session user lookup failed")
		}
		return nil, ErrUnauthorized
	}
	return u.Public(), nil
}
