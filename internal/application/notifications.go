package application

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/studytube/config"
	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/pkg/mailer"
	mailtpl "github.com/oksasatya/studytube/pkg/mailer/templates"
)

// JobPublisher puts a JSON job on the email queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Notifications enqueues account emails. A nil *Notifications, or one without
// a publisher, sends nothing. Failures are logged and never fail the caller.
type Notifications struct {
	Pub    JobPublisher
	Cfg    *config.Config
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewNotifications(pub JobPublisher, cfg *config.Config, logger *logrus.Logger) *Notifications {
	return &Notifications{Pub: pub, Cfg: cfg, Logger: logger, Now: time.Now}
}

var addrCheck = validator.New()

// enabled reports whether u can be mailed. Profiles store any email string,
// so only well-formed addresses are queued.
func (n *Notifications) enabled(u *entity.User) bool {
	if n == nil || n.Pub == nil || n.Cfg == nil || u == nil || u.Email == "" {
		return false
	}
	return addrCheck.Var(u.Email, "email") == nil
}

func (n *Notifications) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n *Notifications) enqueue(ctx context.Context, u *entity.User, template string, data map[string]any) {
	job := mailer.EmailJob{To: u.Email, Template: template, Data: data}
	if err := n.Pub.PublishJSON(ctx, job); err != nil && n.Logger != nil {
		n.Logger.WithError(err).WithField("template", template).WithField("user_id", u.ID).Warn("failed to publish email job")
	}
}

// SignIn tells the user about a successful OTP sign-in.
func (n *Notifications) SignIn(ctx context.Context, u *entity.User, ip, userAgent string) {
	if !n.enabled(u) {
		return
	}
	data := mailtpl.NewLoginNotificationData(n.Cfg, u.Name, u.Email,
		mailtpl.WithIP(ip), mailtpl.WithUserAgent(userAgent), mailtpl.WithTime(n.now()))
	n.enqueue(ctx, u, mailtpl.LoginNotification, data)
}

// ProfileUpdated lists the changed fields.
func (n *Notifications) ProfileUpdated(ctx context.Context, u *entity.User, changes map[string]string) {
	if !n.enabled(u) || len(changes) == 0 {
		return
	}
	data := mailtpl.NewProfileUpdatedData(n.Cfg, u.Name, u.Email, changes, mailtpl.WithTime(n.now()))
	n.enqueue(ctx, u, mailtpl.ProfileUpdated, data)
}

// PhoneChanged reports a completed phone change; u already carries the new number.
func (n *Notifications) PhoneChanged(ctx context.Context, u *entity.User, oldPhone string) {
	if !n.enabled(u) {
		return
	}
	data := mailtpl.NewPhoneChangedData(n.Cfg, u.Name, u.Email, oldPhone, u.Phone, mailtpl.WithTime(n.now()))
	n.enqueue(ctx, u, mailtpl.PhoneChanged, data)
}
