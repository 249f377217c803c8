package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChallenge(t *testing.T) {
	t.Parallel()
	exp := time.Date(2025, 3, 1, 12, 10, 0, 0, time.UTC)

	t.Run("zero value is no challenge", func(t *testing.T) {
		var c Challenge
		require.False(t, c.Pending())
		require.False(t, c.Matches(""))
		require.False(t, c.Expired(exp.Add(time.Hour)))
		require.Equal(t, NoChallenge(), c)
	})

	t.Run("empty code never becomes pending", func(t *testing.T) {
		c := NewChallenge("", exp)
		require.False(t, c.Pending())
		require.True(t, c.ExpiresAt().IsZero())
	})

	t.Run("matches exact code only", func(t *testing.T) {
		c := NewChallenge("482913", exp)
		require.True(t, c.Matches("482913"))
		require.False(t, c.Matches("482914"))
		require.False(t, c.Matches(" 482913"))
	})

	t.Run("expiry instant is still valid", func(t *testing.T) {
		c := NewChallenge("482913", exp)
		require.False(t, c.Expired(exp.Add(-time.Minute)))
		require.False(t, c.Expired(exp))
		require.True(t, c.Expired(exp.Add(time.Nanosecond)))
	})

	t.Run("new phone only attaches to pending challenge", func(t *testing.T) {
		require.Empty(t, NoChallenge().WithNewPhone("+15550001111").NewPhone())
		c := NewChallenge("123456", exp).WithNewPhone("+15550001111")
		require.Equal(t, "+15550001111", c.NewPhone())
	})
}

func TestUserPublicDropsChallenge(t *testing.T) {
	u := &User{ID: "u1", Phone: "+15551234567", Challenge: NewChallenge("123456", time.Now())}
	pub := u.Public()
	require.False(t, pub.Challenge.Pending())
	require.True(t, u.Challenge.Pending())
	require.Nil(t, (*User)(nil).Public())
}
