// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides HTTP server settings.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// GeocoderConfig provides settings for the remote search endpoint.
type GeocoderConfig interface {
	GetGeocoderURL() string
	GetGeocoderUserAgent() string
}

// CacheConfig provides settings for the optional geocode cache.
type CacheConfig interface {
	GetRedisURL() string
	GetGeocodeCacheTTL() time.Duration
	IsGeocodeCacheEnabled() bool
}

// MapConfig provides the basemap settings rendered into the picker page.
type MapConfig interface {
	GetTileURLTemplate() string
	GetTileAttribution() string
	GetDefaultCenter() (lat, lon float64)
	GetInitialZoom() int
	GetMarkerIconBaseURL() string
}

// SessionConfig provides picker session lifecycle settings.
type SessionConfig interface {
	GetSessionIdleTTL() time.Duration
	GetSessionSweepInterval() time.Duration
}

// RateLimitConfig provides settings for the per-IP limiter on lookup routes.
type RateLimitConfig interface {
	GetLookupRatePerSecond() float64
	GetLookupBurst() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                  string
	HTTPAddr             string
	CORSAllowAll         bool
	CORSOrigins          []string
	CORSAllowCreds       bool
	GeocoderURL          string
	GeocoderUserAgent    string
	RedisURL             string
	GeocodeCacheTTL      time.Duration
	TileURLTemplate      string
	TileAttribution      string
	DefaultCenterLat     float64
	DefaultCenterLon     float64
	InitialZoom          int
	MarkerIconBaseURL    string
	SessionIdleTTL       time.Duration
	SessionSweepInterval time.Duration
	LookupRatePerSecond  float64
	LookupBurst          int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// GeocoderConfig implementation
func (c *Config) GetGeocoderURL() string       { return c.GeocoderURL }
func (c *Config) GetGeocoderUserAgent() string { return c.GeocoderUserAgent }

// CacheConfig implementation
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) GetGeocodeCacheTTL() time.Duration { return c.GeocodeCacheTTL }
func (c *Config) IsGeocodeCacheEnabled() bool {
	return c.RedisURL != "" && c.GeocodeCacheTTL > 0
}

// MapConfig implementation
func (c *Config) GetTileURLTemplate() string { return c.TileURLTemplate }
func (c *Config) GetTileAttribution() string { return c.TileAttribution }
func (c *Config) GetDefaultCenter() (float64, float64) {
	return c.DefaultCenterLat, c.DefaultCenterLon
}
func (c *Config) GetInitialZoom() int          { return c.InitialZoom }
func (c *Config) GetMarkerIconBaseURL() string { return c.MarkerIconBaseURL }

// SessionConfig implementation
func (c *Config) GetSessionIdleTTL() time.Duration       { return c.SessionIdleTTL }
func (c *Config) GetSessionSweepInterval() time.Duration { return c.SessionSweepInterval }

// RateLimitConfig implementation
func (c *Config) GetLookupRatePerSecond() float64 { return c.LookupRatePerSecond }
func (c *Config) GetLookupBurst() int             { return c.LookupBurst }

// Load reads configuration from environment variables. Malformed numbers and
// durations are errors, never silent zeroes.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8080"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	env := &envParser{}
	cfg := &Config{
		Env:                  getEnv("APP_ENV", "development"),
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:         corsAllowAll,
		CORSOrigins:          corsOrigins,
		CORSAllowCreds:       strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		GeocoderURL:          strings.TrimRight(getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"), "/"),
		GeocoderUserAgent:    getEnv("GEOCODER_USER_AGENT", "LocationPicker/1.0"),
		RedisURL:             getEnv("REDIS_URL", ""),
		GeocodeCacheTTL:      env.duration("GEOCODE_CACHE_TTL", "1h"),
		TileURLTemplate:      getEnv("TILE_URL_TEMPLATE", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"),
		TileAttribution:      getEnv("TILE_ATTRIBUTION", `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`),
		DefaultCenterLat:     env.float("MAP_DEFAULT_LAT", "51.505"),
		DefaultCenterLon:     env.float("MAP_DEFAULT_LON", "-0.09"),
		InitialZoom:          env.integer("MAP_INITIAL_ZOOM", "13"),
		MarkerIconBaseURL:    strings.TrimRight(getEnv("MARKER_ICON_BASE_URL", "https://unpkg.com/leaflet@1.7.1/dist/images"), "/"),
		SessionIdleTTL:       env.duration("SESSION_IDLE_TTL", "30m"),
		SessionSweepInterval: env.duration("SESSION_SWEEP_INTERVAL", "1m"),
		LookupRatePerSecond:  env.float("LOOKUP_RATE_PER_SECOND", "1"),
		LookupBurst:          env.integer("LOOKUP_BURST", "5"),
	}
	if err := errors.Join(env.errs...); err != nil {
		return nil, err
	}

	if cfg.GeocoderURL == "" {
		return nil, fmt.Errorf("GEOCODER_URL is required")
	}
	if cfg.DefaultCenterLat < -90 || cfg.DefaultCenterLat > 90 || cfg.DefaultCenterLon < -180 || cfg.DefaultCenterLon > 180 {
		return nil, fmt.Errorf("MAP_DEFAULT_LAT/MAP_DEFAULT_LON out of range")
	}
	if cfg.InitialZoom < 0 || cfg.InitialZoom > 19 {
		return nil, fmt.Errorf("MAP_INITIAL_ZOOM must be between 0 and 19")
	}
	if cfg.SessionIdleTTL <= 0 || cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_IDLE_TTL and SESSION_SWEEP_INTERVAL must be positive durations")
	}
	if cfg.GeocodeCacheTTL <= 0 {
		return nil, fmt.Errorf("GEOCODE_CACHE_TTL must be a positive duration")
	}
	if cfg.LookupRatePerSecond <= 0 || cfg.LookupBurst < 1 {
		return nil, fmt.Errorf("LOOKUP_RATE_PER_SECOND must be positive and LOOKUP_BURST at least 1")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

// envParser reads typed env vars and collects every parse failure.
type envParser struct {
	errs []error
}

func (p *envParser) duration(key, fallback string) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
	return d
}

func (p *envParser) integer(key, fallback string) int {
	v, err := strconv.Atoi(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
	return v
}

func (p *envParser) float(key, fallback string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(getEnv(key, fallback)), 64)
	if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
		err = fmt.Errorf("not a finite number")
	}
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
	return v
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
