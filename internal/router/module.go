package router

import "github.com/gin-gonic/gin"

// Module is a feature area that mounts its own routes, limiters and
// session checks on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
