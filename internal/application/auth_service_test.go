package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/studytube/config"
	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/internal/testutil"
	"github.com/oksasatya/studytube/pkg/helpers"
	"github.com/oksasatya/studytube/pkg/mailer"
	"github.com/oksasatya/studytube/pkg/sms"
)

type authFixture struct {
	svc   *AuthService
	users *testutil.UserStore
	sms   *testutil.SMS
	pub   *testutil.Publisher
	clock *testutil.Clock
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	clock := testutil.NewClock(time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))
	users := testutil.NewUserStore()
	users.Now = clock.Now
	gw := &testutil.SMS{}
	pub := &testutil.Publisher{}
	jwt := helpers.NewJWTManager("test-secret", 7*24*time.Hour)
	jwt.Now = clock.Now
	notify := NewNotifications(pub, &config.Config{AppName: "StudyTube"}, helpers.NopLogger())

	svc := NewAuthService(users, gw, jwt, notify, helpers.NopLogger(), 10*time.Minute, time.Second)
	svc.Now = clock.Now
	svc.GenCode = testutil.FixedCode("482913")
	return &authFixture{svc: svc, users: users, sms: gw, pub: pub, clock: clock}
}

func (f *authFixture) register(t *testing.T, phone, name string) string {
	t.Helper()
	id, err := f.svc.IssueChallenge(context.Background(), ChallengeRequest{Context: ContextRegister, Phone: phone, Name: name})
	require.NoError(t, err)
	return id
}

func TestRegister(t *testing.T) {
	t.Run("creates one unverified user with a challenge", func(t *testing.T) {
		f := newAuthFixture(t)
		id := f.register(t, "+15551234567", "Alice")

		u, err := f.users.GetByID(context.Background(), id)
		require.NoError(t, err)
		require.False(t, u.IsVerified)
		require.True(t, u.Challenge.Pending())
		require.Equal(t, "482913", u.Challenge.Code())
		require.Equal(t, f.clock.Now().Add(10*time.Minute), u.Challenge.ExpiresAt())
		require.Equal(t, 1, f.users.Count())
		require.Equal(t, 1, f.sms.Attempts())
		require.Equal(t, "+15551234567", f.sms.Sent[0].To)
		require.Contains(t, f.sms.Sent[0].Body, "482913")
	})

	t.Run("duplicate phone is a conflict with no write", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "+15551234567", "Alice")
		writes := f.users.Writes

		_, err := f.svc.IssueChallenge(context.Background(), ChallengeRequest{Context: ContextRegister, Phone: "+15551234567", Name: "Bob"})
		require.ErrorIs(t, err, ErrPhoneTaken)
		require.Equal(t, 1, f.users.Count())
		require.Equal(t, writes, f.users.Writes)
		require.Equal(t, 1, f.sms.Attempts())
	})

	t.Run("invalid phone rejected before any store access", func(t *testing.T) {
		f := newAuthFixture(t)
		for _, phone := range []string{"5551234567", "+0123", "+1234567890123456", ""} {
			_, err := f.svc.IssueChallenge(context.Background(), ChallengeRequest{Context: ContextRegister, Phone: phone, Name: "X"})
			require.ErrorIs(t, err, ErrInvalidPhone)
		}
		require.Zero(t, f.users.Writes)
		require.Zero(t, f.sms.Attempts())
	})

	t.Run("delivery failure leaves no orphan", func(t *testing.T) {
		cases := []struct {
			gatewayErr error
			want       error
		}{
			{sms.ErrDelivery, ErrGatewayFailure},
			{sms.ErrInvalidDestination, ErrInvalidDestination},
			{sms.ErrTimeout, ErrGatewayTimeout},
		}
		for _, tc := range cases {
			f := newAuthFixture(t)
			f.sms.Err = tc.gatewayErr

			_, err := f.svc.IssueChallenge(context.Background(), ChallengeRequest{Context: ContextRegister, Phone: "+15551234567", Name: "Alice"})
			require.ErrorIs(t, err, tc.want)
			require.Zero(t, f.users.Count())
			_, err = f.users.GetByPhone(context.Background(), "+15551234567")
			require.Error(t, err)
		}
	})
}

func TestLoginAndForgotPassword(t *testing.T) {
	t.Run("unknown phone is not found", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.IssueChallenge(context.Background(), ChallengeRequest{Context: ContextLogin, Phone: "+19998887777"})
		require.ErrorIs(t, err, ErrUserNotFound)
		require.Zero(t, f.sms.Attempts())
	})

	t.Run("replaces the challenge of an existing user", func(t *testing.T) {
		f := newAuthFixture(t)
		id := f.register(t, "+15551234567", "Alice")
		f.svc.GenCode = testutil.FixedCode("111222")

		for _, c := range []OTPContext{ContextLogin, ContextForgotPassword} {
			got, err := f.svc.IssueChallenge(context.Background(), ChallengeRequest{Context: c, Phone: "+15551234567"})
			require.NoError(t, err)
			require.Equal(t, id, got)
		}
		u, _ := f.users.GetByID(context.Background(), id)
		require.Equal(t, "111222", u.Challenge.Code())
		require.Equal(t, 3, f.sms.Attempts())
	})

	t.Run("gateway failure keeps the user", func(t *testing.T) {
		f := newAuthFixture(t)
		f.register(t, "+15551234567", "Alice")
		f.sms.Err = sms.ErrDelivery

		_, err := f.svc.IssueChallenge(context.Background(), ChallengeRequest{Context: ContextLogin, Phone: "+15551234567"})
		require.ErrorIs(t, err, ErrGatewayFailure)
		require.Equal(t, 1, f.users.Count())
	})
}

func TestVerifyChallenge(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds once then reports invalid code", func(t *testing.T) {
		f := newAuthFixture(t)
		id := f.register(t, "+15551234567", "Alice")
		f.clock.Advance(5 * time.Minute)

		u, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
		require.NoError(t, err)
		require.True(t, u.IsVerified)
		require.False(t, u.Challenge.Pending())

		_, err = f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("expiry instant is still valid", func(t *testing.T) {
		f := newAuthFixture(t)
		id := f.register(t, "+15551234567", "Alice")
		f.clock.Advance(10 * time.Minute)

		_, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
		require.NoError(t, err)
	})

	t.Run("expired code leaves challenge untouched", func(t *testing.T) {
		f := newAuthFixture(t)
		id := f.register(t, "+15551234567", "Alice")
		before, _ := f.users.GetByID(ctx, id)
		f.clock.Advance(11 * time.Minute)

		_, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
		require.ErrorIs(t, err, ErrCodeExpired)

		after, _ := f.users.GetByID(ctx, id)
		require.False(t, after.IsVerified)
		require.Equal(t, before.Challenge, after.Challenge)
	})

	t.Run("wrong code", func(t *testing.T) {
		f := newAuthFixture(t)
		id := f.register(t, "+15551234567", "Alice")
		_, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "000000"})
		require.ErrorIs(t, err, ErrInvalidCode)
	})

	t.Run("unknown or malformed user id", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: uuid.NewString(), Code: "482913"})
		require.ErrorIs(t, err, ErrUserNotFound)
		_, err = f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: "not-a-uuid", Code: "482913"})
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("superseded challenge loses the race", func(t *testing.T) {
		f := newAuthFixture(t)
		id := f.register(t, "+15551234567", "Alice")
		stale, _ := f.users.GetByID(ctx, id)

		// A new challenge lands between read and write.
		require.NoError(t, f.users.SetChallenge(ctx, id, entity.NewChallenge("999999", f.clock.Now().Add(time.Minute))))
		_, err := f.users.ConsumeChallenge(ctx, id, stale.Challenge)
		require.Error(t, err)

		_, err = f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
		require.ErrorIs(t, err, ErrInvalidCode)
	})
}

func TestChangePhone(t *testing.T) {
	ctx := context.Background()

	t.Run("new number applied on verification and user stays verified", func(t *testing.T) {
		f := newAuthFixture(t)
		id := f.register(t, "+15551234567", "Alice")
		_, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
		require.NoError(t, err)
		require.NoError(t, seedEmail(f, id, "alice@example.com"))

		got, err := f.svc.IssueChallenge(ctx, ChallengeRequest{Context: ContextChangePhone, Phone: "+15559876543", UserID: id})
		require.NoError(t, err)
		require.Equal(t, id, got)

		pending, _ := f.users.GetByID(ctx, id)
		require.True(t, pending.IsVerified)
		require.Equal(t, "+15551234567", pending.Phone)
		require.Equal(t, "+15559876543", pending.Challenge.NewPhone())
		require.Equal(t, "+15559876543", f.sms.Sent[len(f.sms.Sent)-1].To)

		u, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
		require.NoError(t, err)
		require.Equal(t, "+15559876543", u.Phone)
		require.True(t, u.IsVerified)

		last := f.pub.Jobs[len(f.pub.Jobs)-1].(mailer.EmailJob)
		require.Equal(t, "phone_changed", last.Template)
	})

	t.Run("number of another user is taken", func(t *testing.T) {
		f := newAuthFixture(t)
		alice := f.register(t, "+15551234567", "Alice")
		f.register(t, "+15559876543", "Bob")

		_, err := f.svc.IssueChallenge(ctx, ChallengeRequest{Context: ContextChangePhone, Phone: "+15559876543", UserID: alice})
		require.ErrorIs(t, err, ErrPhoneTaken)
	})

	t.Run("number claimed before verification is a conflict", func(t *testing.T) {
		f := newAuthFixture(t)
		alice := f.register(t, "+15551234567", "Alice")
		_, err := f.svc.IssueChallenge(ctx, ChallengeRequest{Context: ContextChangePhone, Phone: "+15559876543", UserID: alice})
		require.NoError(t, err)
		f.register(t, "+15559876543", "Bob")

		_, err = f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: alice, Code: "482913"})
		require.ErrorIs(t, err, ErrPhoneTaken)
	})
}

func seedEmail(f *authFixture, id, email string) error {
	u, err := f.users.GetByID(context.Background(), id)
	if err != nil {
		return err
	}
	_, err = f.users.UpdateProfile(context.Background(), id, u.Name, email)
	return err
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	id := f.register(t, "+15551234567", "Alice")
	u, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
	require.NoError(t, err)

	token, exp, err := f.svc.IssueSession(u)
	require.NoError(t, err)
	require.Equal(t, f.clock.Now().Add(7*24*time.Hour), exp)

	t.Run("accepted before expiry", func(t *testing.T) {
		got, err := f.svc.ResolveSession(ctx, token)
		require.NoError(t, err)
		require.Equal(t, id, got.ID)
		require.False(t, got.Challenge.Pending())
	})

	t.Run("missing and garbage tokens are unauthorized", func(t *testing.T) {
		_, err := f.svc.ResolveSession(ctx, "")
		require.ErrorIs(t, err, ErrUnauthorized)
		_, err = f.svc.ResolveSession(ctx, "not.a.jwt")
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("rejected from expiry on", func(t *testing.T) {
		f.clock.Advance(7*24*time.Hour - time.Second)
		_, err := f.svc.ResolveSession(ctx, token)
		require.NoError(t, err)

		f.clock.Advance(time.Second)
		_, err = f.svc.ResolveSession(ctx, token)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestSignInNotification(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	id := f.register(t, "+15551234567", "Alice")

	_, err := f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913"})
	require.NoError(t, err)
	require.Zero(t, f.pub.Count(), "no email on file, nothing queued")

	require.NoError(t, seedEmail(f, id, "alice@example.com"))
	_, err = f.svc.IssueChallenge(ctx, ChallengeRequest{Context: ContextLogin, Phone: "+15551234567"})
	require.NoError(t, err)
	_, err = f.svc.VerifyChallenge(ctx, VerifyRequest{UserID: id, Code: "482913", IP: "203.0.113.9"})
	require.NoError(t, err)

	require.Equal(t, 1, f.pub.Count())
	job := f.pub.Jobs[0].(mailer.EmailJob)
	require.Equal(t, "alice@example.com", job.To)
	require.Equal(t, "login_notification", job.Template)
	require.Equal(t, "203.0.113.9", job.Data["IP"])
}
