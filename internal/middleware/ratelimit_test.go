package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func get(router http.Handler, client string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if client != "" {
		req.Header.Set("X-Client-ID", client)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(RateLimitConfig{
		Limit:  3,
		Window: time.Second,
	}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(router, "").Code, "request %d should succeed", i+1)
	}

	w := get(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	time.Sleep(time.Second + 100*time.Millisecond)
	assert.Equal(t, http.StatusOK, get(router, "").Code, "request after window should succeed")
}

func TestRateLimiterDifferentClients(t *testing.T) {
	router := newLimitedRouter(NewRateLimiter(RateLimitConfig{
		Limit:  2,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.GetHeader("X-Client-ID")
		},
	}))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, get(router, "client-a").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, get(router, "client-a").Code)
	assert.Equal(t, http.StatusOK, get(router, "client-b").Code)
}

func TestRateLimiterSweep(t *testing.T) {
	rl := NewLimiter(RateLimitConfig{Limit: 1, Window: 50 * time.Millisecond})

	allowed, _ := rl.Allow("a")
	require.True(t, allowed)
	allowed, retry := rl.Allow("a")
	assert.False(t, allowed)
	assert.Equal(t, 1, retry)
	assert.Equal(t, 1, rl.Len())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rl.Sweep())
	assert.Equal(t, 0, rl.Len())
}

func TestAllowSweepsIdleBuckets(t *testing.T) {
	rl := NewLimiter(RateLimitConfig{Limit: 5, Window: 10 * time.Millisecond})

	allowed, _ := rl.Allow("a")
	require.True(t, allowed)

	time.Sleep(150 * time.Millisecond)
	allowed, _ = rl.Allow("b")
	require.True(t, allowed)
	assert.Equal(t, 1, rl.Len())
}

func TestDefaultConfigs(t *testing.T) {
	defaultConfig := DefaultRateLimitConfig()
	assert.Equal(t, 100, defaultConfig.Limit)
	assert.Equal(t, time.Minute, defaultConfig.Window)
	assert.NotNil(t, defaultConfig.KeyFunc)

	assert.Equal(t, 30, WriteRateLimitConfig().Limit)
	assert.Equal(t, 20, UploadRateLimitConfig().Limit)
}

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (f *fakeCounter) IncrWithExpiry(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	return f.counts[key], nil
}

func TestRedisRateLimitMiddleware(t *testing.T) {
	counter := &fakeCounter{counts: map[string]int64{}}
	router := newLimitedRouter(RedisRateLimitMiddleware(counter, "api", RateLimitConfig{
		Limit:  2,
		Window: time.Minute,
		KeyFunc: func(c *gin.Context) string {
			return c.GetHeader("X-Client-ID")
		},
	}))

	w := get(router, "a")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, get(router, "a").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "a").Code)
	assert.Equal(t, int64(3), counter.counts["rate_limit:api:a"])
}

func TestRedisRateLimitMiddlewareFailsClosed(t *testing.T) {
	counter := &fakeCounter{err: stderrors.New("connection refused")}
	router := newLimitedRouter(RedisRateLimitMiddleware(counter, "api", DefaultRateLimitConfig()))

	assert.Equal(t, http.StatusServiceUnavailable, get(router, "").Code)
}

func TestRateLimitFallsBackToMemory(t *testing.T) {
	router := newLimitedRouter(RateLimit("api", RateLimitConfig{Limit: 1, Window: time.Minute}))

	assert.Equal(t, http.StatusOK, get(router, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, "").Code)
}
