package maps

import (
	apphttp "location_picker/internal/http"

	"github.com/gin-gonic/gin"
)

// Module wires the direct lookup HTTP route.
type Module struct {
	handler   *Handler
	rateLimit gin.HandlerFunc
}

func NewModule(searcher Searcher, rateLimit gin.HandlerFunc) *Module {
	return &Module{handler: NewHandler(searcher), rateLimit: rateLimit}
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/maps")
	if m.rateLimit != nil {
		group.Use(m.rateLimit)
	}
	group.GET("/lookup", m.handler.Lookup)
}

var _ apphttp.Module = (*Module)(nil)
