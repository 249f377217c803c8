package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/studytube/pkg/response"
)

// Registry mounts feature modules on the /api group.
type Registry struct {
	Engine *gin.Engine
	API    *gin.RouterGroup

	shared  []gin.HandlerFunc
	modules []Module
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, API: engine.Group("/api")}
}

// Use queues middleware for every module route. It takes effect in RegisterAll.
func (r *Registry) Use(mw ...gin.HandlerFunc) { r.shared = append(r.shared, mw...) }

func (r *Registry) Add(mods ...Module) { r.modules = append(r.modules, mods...) }

// RegisterAll applies shared middleware, mounts each module in order and
// answers unknown routes with the JSON envelope.
func (r *Registry) RegisterAll() {
	r.API.Use(r.shared...)
	for _, m := range r.modules {
		m.Register(r.API)
	}
	r.Engine.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Not found", nil)
	})
}
