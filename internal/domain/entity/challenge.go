package entity

import "time"

// Challenge is a pending one-time passcode. The zero value is NoChallenge:
// code and expiry are set together or not at all.
type Challenge struct {
	code      string
	expiresAt time.Time
	newPhone  string
}

// NoChallenge returns the empty challenge.
func NoChallenge() Challenge { return Challenge{} }

// NewChallenge builds a pending challenge. An empty code yields NoChallenge.
func NewChallenge(code string, expiresAt time.Time) Challenge {
	if code == "" {
		return Challenge{}
	}
	return Challenge{code: code, expiresAt: expiresAt}
}

// WithNewPhone attaches the target number of a phone change.
func (c Challenge) WithNewPhone(phone string) Challenge {
	if !c.Pending() {
		return c
	}
	c.newPhone = phone
	return c
}

func (c Challenge) Pending() bool        { return c.code != "" }
func (c Challenge) Code() string         { return c.code }
func (c Challenge) ExpiresAt() time.Time { return c.expiresAt }
func (c Challenge) NewPhone() string     { return c.newPhone }

// Matches reports whether submitted equals the pending code exactly.
func (c Challenge) Matches(submitted string) bool {
	return c.Pending() && submitted == c.code
}

// Expired reports whether now is strictly after the expiry; the expiry
// instant itself is still valid.
func (c Challenge) Expired(now time.Time) bool {
	return c.Pending() && now.After(c.expiresAt)
}
