package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/studytube/internal/application"
	"github.com/oksasatya/studytube/internal/domain/entity"
	"github.com/oksasatya/studytube/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

type stubResolver struct{ users map[string]*entity.User }

func (s stubResolver) ResolveSession(_ context.Context, token string) (*entity.User, error) {
	if u, ok := s.users[token]; ok {
		return u, nil
	}
	return nil, application.ErrUnauthorized
}

func TestSession(t *testing.T) {
	r := gin.New()
	r.Use(Session(stubResolver{users: map[string]*entity.User{"good": {ID: "u1", Name: "Alice"}}}))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c)+":"+CurrentUser(c).Name)
	})

	t.Run("valid cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: "good"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "u1:Alice", w.Body.String())
	})

	for name, cookie := range map[string]*http.Cookie{
		"no cookie":     nil,
		"unknown token": {Name: helpers.SessionCookie, Value: "forged"},
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if cookie != nil {
				req.AddCookie(cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, http.StatusUnauthorized, w.Code)
			require.Contains(t, w.Body.String(), `"error":"Unauthorized"`)
		})
	}
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, ClientIP(c)) })

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"garbage ignored", map[string]string{"CF-Connecting-IP": "nope"}, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, w.Body.String(), 36)
	require.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "0b6f1c3e-8d1a-4c55-9d8e-3f2a1b4c5d6e")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "0b6f1c3e-8d1a-4c55-9d8e-3f2a1b4c5d6e", w.Body.String())
}

func TestRateLimitKeys(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	var got []string
	r.POST("/auth/login", func(c *gin.Context) {
		got = append(got, KeyByIP()(c), KeyByIPAndPath()(c), KeyByUserID()(c))
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, []string{
		"studytube:rl:ip:198.51.100.9",
		"studytube:rl:path:/auth/login:ip:198.51.100.9",
		"studytube:rl:user:anon:ip:198.51.100.9",
	}, got)
}

func TestRateLimitFailsOpen(t *testing.T) {
	t.Run("no redis", func(t *testing.T) {
		r := gin.New()
		r.GET("/", RateLimit(nil, PerMinute(1), KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusNoContent, w.Code)
		}
	})

	t.Run("redis unreachable", func(t *testing.T) {
		rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
		defer func() { _ = rdb.Close() }()
		r := gin.New()
		r.GET("/", RateLimit(rdb, PerMinute(1), KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestPrivateOnly(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/debug", PrivateOnly(), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/debug", nil)
	req.Header.Set("X-Forwarded-For", "127.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req.Header.Set("X-Forwarded-For", "203.0.113.50")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
