// Package httpkit provides gin middleware and response helpers.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"net/http"
	"sync"
	"time"

	"location_picker/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestIDHeader is read from incoming requests and echoed on responses.
const RequestIDHeader = "X-Request-ID"

// RequestID reuses a well-formed incoming X-Request-ID or mints one, and
// stores it in the request context for logger.WithContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs every request once it has been served.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		reqLog := log.WithContext(c.Request.Context())
		if len(c.Errors) > 0 {
			reqLog.HTTPError(c.Request.Method, path, c.Writer.Status(), c.Errors.Last(), c.ClientIP())
			return
		}
		reqLog.HTTPRequest(c.Request.Method, path, c.Writer.Status(), float64(time.Since(start).Microseconds())/1000, c.ClientIP())
	}
}

// contentSecurityPolicy admits the map library from unpkg and tiles from any
// https host, since the tile template is configurable.
const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://unpkg.com; " +
	"style-src 'self' 'unsafe-inline' https://unpkg.com; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self'"

// SecurityHeaders sets the response hardening headers. The page may read the
// device position only from its own origin.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("Permissions-Policy", "geolocation=(self), microphone=(), camera=()")
		if c.Request.TLS != nil {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	limiters sync.Map // ip -> *rate.Limiter
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &IPRateLimiter{rate: r, burst: burst, log: log}
}

func (i *IPRateLimiter) limiter(ip string) *rate.Limiter {
	if l, ok := i.limiters.Load(ip); ok {
		return l.(*rate.Limiter)
	}
	l, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return l.(*rate.Limiter)
}

// RateLimit aborts with 429 once the caller's bucket is empty.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if i.limiter(ip).Allow() {
			c.Next()
			return
		}
		if i.log != nil {
			i.log.WithContext(c.Request.Context()).RateLimitExceeded(ip, c.Request.URL.Path)
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limit exceeded"})
	}
}
