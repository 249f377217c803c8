package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Phone is the natural key; Challenge holds the outstanding OTP, if any.
type User struct {
	ID         string
	Phone      string
	Name       string
	Email      string
	AvatarURL  string
	IsVerified bool
	Challenge  Challenge
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Public returns a copy of u without its challenge.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Challenge = NoChallenge()
	return &cp
}
