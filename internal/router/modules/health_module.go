package modules

import (
	"context"
	"expvar"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/studytube/internal/container"
	"github.com/oksasatya/studytube/internal/interface/middleware"
	"github.com/oksasatya/studytube/pkg/response"
)

// HealthModule exposes GET /health for load balancers and the expvar dump
// at GET /debug/vars for private networks only.
type HealthModule struct{}

func NewHealthModule() *HealthModule { return &HealthModule{} }

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/health", limit(middleware.PerMinute(120), middleware.KeyByIP()), m.health)
	rg.GET("/debug/vars", middleware.PrivateOnly(), gin.WrapH(expvar.Handler()))
}

func (m *HealthModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = "ok"
		if err := pool.Ping(ctx); err != nil {
			checks["postgres"], healthy = err.Error(), false
		}
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = "ok"
		if err := rdb.Ping(ctx).Err(); err != nil {
			// Redis only backs rate limiting, which fails open.
			checks["redis"] = err.Error()
		}
	}
	if !healthy {
		response.Error(c, http.StatusServiceUnavailable, "Service unavailable", checks)
		return
	}
	response.Success(c, http.StatusOK, "ok", gin.H{"checks": checks})
}
