package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"location_picker/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	var seen string
	engine.GET("/", func(c *gin.Context) {
		seen, _ = c.Request.Context().Value(logger.RequestIDKey).(string)
		c.Status(http.StatusNoContent)
	})

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, incoming, rec.Header().Get(RequestIDHeader))
	assert.Equal(t, incoming, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Nop())
	engine := gin.New()
	engine.GET("/", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for range 3 {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestHandleError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	assert.False(t, HandleError(c, nil))
	assert.True(t, HandleError(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}
