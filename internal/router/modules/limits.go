package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/studytube/internal/container"
	"github.com/oksasatya/studytube/internal/interface/middleware"
)

// limit builds a Redis-backed limiter. In development loopback and private
// clients are not counted.
func limit(l middleware.Limit, key middleware.KeyFunc) gin.HandlerFunc {
	var allow middleware.AllowFunc
	if cfg := container.GetConfig(); cfg != nil && cfg.Env == "development" {
		allow = middleware.AllowPrivateIP()
	}
	return middleware.RateLimit(container.GetRedis(), l, key, allow)
}

// authenticated returns a sub-group behind the session check and the soft
// per-user limit shared by all signed-in routes.
func authenticated(rg *gin.RouterGroup, session gin.HandlerFunc) *gin.RouterGroup {
	g := rg.Group("/")
	g.Use(session, limit(middleware.PerMinute(120), middleware.KeyByUserID()))
	return g
}
