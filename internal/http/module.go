package http

import (
	"github.com/gin-gonic/gin"
)

// Module is a feature area that mounts its own routes.
type Module interface {
	// Name is used in startup logs.
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is handed to every Module during registration.
type RouterContext struct {
	// Engine is the root router, for pages and static assets.
	Engine *gin.Engine
	// V1 is mounted at /api/v1.
	V1 *gin.RouterGroup
}
