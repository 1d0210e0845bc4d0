package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"github.com/zfogg/inkwell/backend/internal/util"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Window duration
	Window time.Duration
	// KeyFunc identifies the client; the default is the client IP
	KeyFunc func(c *gin.Context) string
}

// ClientKey keys authenticated callers by user ID and everyone else by IP
func ClientKey(c *gin.Context) string {
	if userID, ok := util.CurrentUserID(c); ok {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// DefaultRateLimitConfig returns the general API limit
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   100,
		Window:  time.Minute,
		KeyFunc: ClientKey,
	}
}

// WriteRateLimitConfig returns stricter limits for likes, follows and comments
func WriteRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   30,
		Window:  time.Minute,
		KeyFunc: ClientKey,
	}
}

// UploadRateLimitConfig returns limits for image uploads
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:   20,
		Window:  time.Minute,
		KeyFunc: ClientKey,
	}
}

// TokenBucket for rate limiting
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a full token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow takes one token if available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(time.Now())
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// RetryAfter returns whole seconds until the next token
func (tb *TokenBucket) RetryAfter() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.tokens >= 1 {
		return 0
	}
	return int((1-tb.tokens)/tb.refillRate) + 1
}

// full reports whether the bucket has refilled completely, i.e. the client went idle
func (tb *TokenBucket) full(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	return tb.tokens >= tb.maxTokens
}

func (tb *TokenBucket) refill(now time.Time) {
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = min(tb.maxTokens, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now
}

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	buckets   map[string]*TokenBucket
	config    RateLimitConfig
	lastSweep time.Time
	mu        sync.Mutex
}

// sweepEvery is how often Allow drops idle buckets, as a multiple of the window
const sweepEvery = 10

// NewLimiter creates an in-memory limiter. Idle buckets are dropped by Sweep.
func NewLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = ClientKey
	}
	return &RateLimiter{
		buckets:   make(map[string]*TokenBucket),
		config:    config,
		lastSweep: time.Now(),
	}
}

// NewRateLimiter creates an in-memory rate limiting middleware
func NewRateLimiter(config RateLimitConfig) gin.HandlerFunc {
	return NewLimiter(config).Middleware()
}

// Middleware rejects requests over the limit with RATE_LIMITED
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := rl.config.KeyFunc(c)
		if allowed, retryAfter := rl.Allow(key); !allowed {
			rejectRateLimited(c, rl.config.Limit, retryAfter)
			return
		}
		c.Next()
	}
}

// Allow checks a client key and returns the retry delay in seconds when rejected
func (rl *RateLimiter) Allow(key string) (bool, int) {
	rl.mu.Lock()
	now := time.Now()
	if now.Sub(rl.lastSweep) > sweepEvery*rl.config.Window {
		rl.sweepLocked(now)
	}
	bucket, exists := rl.buckets[key]
	if !exists {
		refillRate := float64(rl.config.Limit) / rl.config.Window.Seconds()
		bucket = NewTokenBucket(float64(rl.config.Limit), refillRate)
		rl.buckets[key] = bucket
	}
	rl.mu.Unlock()

	if bucket.Allow() {
		return true, 0
	}
	return false, bucket.RetryAfter()
}

// Sweep drops buckets that have fully refilled and returns how many were removed
func (rl *RateLimiter) Sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return rl.sweepLocked(time.Now())
}

func (rl *RateLimiter) sweepLocked(now time.Time) int {
	rl.lastSweep = now
	removed := 0
	for key, bucket := range rl.buckets {
		if bucket.full(now) {
			delete(rl.buckets, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

func rejectRateLimited(c *gin.Context, limit, retryAfter int) {
	metrics.RecordRateLimitExceeded(c.FullPath(), c.Request.Method)
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
	c.Header("X-RateLimit-Remaining", "0")
	util.RespondWithAPIError(c, errors.RateLimited("rate limit exceeded"))
}
