package picker

import (
	"net/http"

	apphttp "location_picker/internal/http"
	"location_picker/internal/notification/sse"
	"location_picker/platform/validator"

	"github.com/gin-gonic/gin"
)

// Module wires the picker page, its session API and event stream.
type Module struct {
	handler   *Handler
	svc       *Service
	stream    *sse.Service
	rateLimit gin.HandlerFunc
}

func NewModule(svc *Service, surface MapSurface, stream *sse.Service, val *validator.Validator, rateLimit gin.HandlerFunc) *Module {
	return &Module{
		handler:   NewHandler(svc, surface, val),
		svc:       svc,
		stream:    stream,
		rateLimit: rateLimit,
	}
}

func (m *Module) Name() string {
	return "picker"
}

// Service exposes the picker service to the composition root.
func (m *Module) Service() *Service {
	return m.svc
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Engine.GET("/", m.handler.Mount)
	ctx.Engine.GET("/picker/:id", m.handler.Page)
	ctx.Engine.StaticFS("/static", http.FS(staticFiles()))

	sessions := ctx.V1.Group("/picker/sessions")
	sessions.POST("", m.handler.Create)
	sessions.GET("/:id", m.handler.Get)
	sessions.DELETE("/:id", m.handler.Delete)
	sessions.GET("/:id/events", m.stream.Handler(m.handler.resolveStream, m.svc.Touch))
	sessions.POST("/:id/click", m.handler.Click)
	sessions.POST("/:id/locate", m.handler.Locate)
	sessions.POST("/:id/geolocation", m.handler.Geolocation)

	search := []gin.HandlerFunc{m.handler.Search}
	if m.rateLimit != nil {
		search = append([]gin.HandlerFunc{m.rateLimit}, search...)
	}
	sessions.POST("/:id/search", search...)
}

var _ apphttp.Module = (*Module)(nil)
