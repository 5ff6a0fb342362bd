// Package http holds the pieces main.go assembles into the HTTP server.
package http

import (
	"context"

	"location_picker/platform/config"
	"location_picker/platform/logger"
)

// RouterConfig is the slice of configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
}

// HealthChecker is one dependency probed by GET /api/health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is everything the router needs, assembled by main.go.
type App struct {
	Config RouterConfig
	Logger *logger.Logger
	// Health maps a component name to its probe. Empty means always healthy.
	Health  map[string]HealthChecker
	Modules []Module
}
