package templates

import (
	"strings"
	"time"

	"github.com/oksasatya/studytube/config"
)

// timeLayout renders event times, e.g. "04 March 2025, 10:30 UTC".
const timeLayout = "02 January 2006, 15:04 MST"

// Option sets optional EmailData fields.
type Option func(*EmailData)

func WithIP(ip string) Option        { return func(d *EmailData) { d.IP = ip } }
func WithUserAgent(ua string) Option { return func(d *EmailData) { d.UserAgent = ua } }
func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format(timeLayout) }
}
func WithChanges(ch map[string]string) Option {
	return func(d *EmailData) { d.Changes = ch }
}
func WithPhones(oldPhone, newPhone string) Option {
	return func(d *EmailData) {
		d.OldPhone = maskPhone(oldPhone)
		d.NewPhone = maskPhone(newPhone)
	}
}

// maskPhone keeps the country prefix and the last four digits.
func maskPhone(p string) string {
	p = strings.TrimSpace(p)
	if len(p) <= 6 {
		return p
	}
	return p[:2] + strings.Repeat("*", len(p)-6) + p[len(p)-4:]
}

// NewBaseEmailData fills common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:        name,
		Email:       email,
		Type:        typ,
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		SupportURL:  cfg.SupportURL,
		ProfileURL:  cfg.ProfileURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewLoginNotificationData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	return ToMap(NewBaseEmailData(cfg, LoginNotification, name, email, opts...))
}

func NewProfileUpdatedData(cfg *config.Config, name, email string, changes map[string]string, opts ...Option) map[string]any {
	opts = append([]Option{WithChanges(changes)}, opts...)
	return ToMap(NewBaseEmailData(cfg, ProfileUpdated, name, email, opts...))
}

func NewPhoneChangedData(cfg *config.Config, name, email, oldPhone, newPhone string, opts ...Option) map[string]any {
	opts = append([]Option{WithPhones(oldPhone, newPhone)}, opts...)
	return ToMap(NewBaseEmailData(cfg, PhoneChanged, name, email, opts...))
}
