package router

import (
	"context"
	"net/http"
	"sort"
	"time"

	apphttp "location_picker/internal/http"
	"location_picker/platform/httpkit"
	"location_picker/platform/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// New builds the gin engine and mounts every module of app.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(metrics.Middleware())
	engine.Use(cors.New(corsConfig(app.Config)))

	engine.GET("/api/health", health(app.Health))
	engine.GET("/metrics", metrics.Handler())

	rctx := &apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
	}
	for _, m := range app.Modules {
		m.RegisterRoutes(rctx)
		app.Logger.Debug("module routes registered", "module", m.Name())
	}

	return engine
}

func corsConfig(cfg apphttp.RouterConfig) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", httpkit.RequestIDHeader},
		ExposeHeaders:    []string{httpkit.RequestIDHeader},
		AllowCredentials: cfg.GetCORSAllowCreds(),
		MaxAge:           12 * time.Hour,
	}
	if cfg.GetCORSAllowAll() || len(cfg.GetCORSOrigins()) == 0 {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.GetCORSOrigins()
	}
	return c
}

// health pings every component with a shared deadline and reports each one.
func health(checks map[string]apphttp.HealthChecker) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		components := make(gin.H, len(names))
		healthy := true
		for _, name := range names {
			if err := checks[name].Ping(ctx); err != nil {
				components[name] = err.Error()
				healthy = false
				continue
			}
			components[name] = "ok"
		}

		if !healthy {
			httpkit.Error(c, http.StatusServiceUnavailable, "unhealthy", components)
			return
		}
		httpkit.OK(c, gin.H{"status": "ok", "components": components})
	}
}
