package helpers

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestGenOTPCode(t *testing.T) {
	t.Parallel()
	for i := 0; i < 500; i++ {
		code, err := GenOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, otpMin)
		require.LessOrEqual(t, n, otpMax)
	}
}

func TestIsE164(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"+15551234567":      true,
		"+12":               true,
		"+123456789012345":  true,
		"+1234567890123456": false,
		"+1":                false,
		"15551234567":       false,
		"+05551234567":      false,
		"+1 555 123 4567":   false,
		"":                  false,
	}
	for in, want := range cases {
		require.Equal(t, want, IsE164(in), in)
	}
}

func TestJWTManagerWindow(t *testing.T) {
	t.Parallel()
	issued := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	now := issued
	m := NewJWTManager("secret", 7*24*time.Hour)
	m.Now = func() time.Time { return now }

	token, exp, err := m.Generate("user-1", "+15551234567")
	require.NoError(t, err)
	require.Equal(t, issued.Add(7*24*time.Hour), exp)

	t.Run("accepted inside window", func(t *testing.T) {
		for _, at := range []time.Time{issued, issued.Add(24 * time.Hour), exp.Add(-time.Second)} {
			now = at
			claims, err := m.Parse(token)
			require.NoError(t, err)
			require.Equal(t, "user-1", claims.UserID)
			require.Equal(t, "+15551234567", claims.Phone)
		}
	})

	t.Run("rejected from expiry on", func(t *testing.T) {
		for _, at := range []time.Time{exp, exp.Add(time.Hour)} {
			now = at
			_, err := m.Parse(token)
			require.Error(t, err)
		}
	})

	t.Run("rejects foreign signature", func(t *testing.T) {
		now = issued
		other := NewJWTManager("other", time.Hour)
		other.Now = m.Now
		forged, _, err := other.Generate("user-1", "+15551234567")
		require.NoError(t, err)
		_, err = m.Parse(forged)
		require.Error(t, err)
	})
}

func TestJWTManagerSubSecondIssue(t *testing.T) {
	t.Parallel()
	issued := time.Date(2025, 5, 1, 12, 0, 0, 700_000_000, time.UTC)
	now := issued
	m := NewJWTManager("secret", 7*24*time.Hour)
	m.Now = func() time.Time { return now }

	token, exp, err := m.Generate("user-1", "+15551234567")
	require.NoError(t, err)
	require.Equal(t, issued.Add(7*24*time.Hour), exp)

	for _, at := range []time.Time{exp.Add(-500 * time.Millisecond), exp.Add(-time.Nanosecond)} {
		now = at
		claims, err := m.Parse(token)
		require.NoError(t, err, at)
		require.Equal(t, exp.UnixNano(), claims.Deadline)
		require.False(t, claims.ExpiresAt.Time.Before(exp))
	}

	for _, at := range []time.Time{exp, exp.Add(200 * time.Millisecond), exp.Add(time.Second)} {
		now = at
		_, err := m.Parse(token)
		require.ErrorIs(t, err, jwt.ErrTokenExpired, at)
	}
}

func TestCookieManager(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("session cookie attributes", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

		NewCookie("", false).SetSession(c, "tok", 7*24*time.Hour)

		res := w.Result()
		cookies := res.Cookies()
		require.Len(t, cookies, 1)
		ck := cookies[0]
		require.Equal(t, SessionCookie, ck.Name)
		require.Equal(t, "tok", ck.Value)
		require.True(t, ck.HttpOnly)
		require.False(t, ck.Secure)
		require.Equal(t, 604800, ck.MaxAge)
		require.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	})

	t.Run("secure over tls", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", nil)
		c.Request.TLS = &tls.ConnectionState{}

		NewCookie("", false).SetSession(c, "tok", time.Hour)
		require.True(t, w.Result().Cookies()[0].Secure)
	})
}

func TestPublicURL(t *testing.T) {
	require.Equal(t, "https://storage.googleapis.com/avatars-bucket/avatars/u1/a%20b.png", PublicURL("avatars-bucket", "avatars/u1/a b.png"))
}

func TestLogErrorFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("studytube-test", "production")
	logger.SetOutput(&buf)

	LogError(logger, "send failed", errors.New("boom"), logrus.Fields{"user_id": "u1"})
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "send failed", line["msg"])
	require.Equal(t, "boom", line["error"])
	require.Equal(t, "u1", line["user_id"])
	require.Equal(t, "studytube-test", line["app"])

	LogError(nil, "ignored", nil, nil)
}
