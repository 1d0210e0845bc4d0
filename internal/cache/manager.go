package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zfogg/inkwell/backend/internal/logger"
	"github.com/zfogg/inkwell/backend/internal/metrics"
	"go.uber.org/zap"
)

// Manager provides read-through helpers on top of Redis.
// A nil Manager, or one without a client, behaves as an always-empty cache.
type Manager struct {
	client *RedisClient
}

// NewManager creates a cache manager. client may be nil.
func NewManager(client *RedisClient) *Manager {
	return &Manager{client: client}
}

// Enabled reports whether a Redis client backs the manager
func (m *Manager) Enabled() bool {
	return m != nil && m.client != nil
}

// Key joins a prefix and values into a cache key
func Key(prefix string, values ...string) string {
	return strings.Join(append([]string{prefix}, values...), ":")
}

// GetJSON loads key into dest. It reports false on a miss, when disabled, or on any error.
func (m *Manager) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if !m.Enabled() {
		return false
	}

	name, _, _ := strings.Cut(key, ":")
	val, err := m.client.Get(ctx, key)
	if err != nil {
		metrics.RecordCacheMiss(name)
		if !stderrors.Is(err, redis.Nil) {
			logger.Log.Debug("Cache retrieval failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		logger.Log.Debug("Cache decode failed", zap.String("key", key), zap.Error(err))
		return false
	}

	metrics.RecordCacheHit(name)
	logger.Log.Debug("Cache hit", zap.String("key", key))
	return true
}

// SetJSON stores value under key with a TTL. Failures are logged and otherwise ignored.
func (m *Manager) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if !m.Enabled() || ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		logger.Log.Debug("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := m.client.SetEx(ctx, key, data, ttl); err != nil {
		logger.Log.Debug("Cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	logger.Log.Debug("Cache write successful", zap.String("key", key), zap.Duration("ttl", ttl))
}

// Invalidate deletes one or more keys
func (m *Manager) Invalidate(ctx context.Context, keys ...string) error {
	if !m.Enabled() || len(keys) == 0 {
		return nil
	}
	if err := m.client.Del(ctx, keys...); err != nil {
		logger.Log.Debug("Cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
		return err
	}
	return nil
}
