package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "feed:trending:15", Key("feed", "trending", "15"))
	assert.Equal(t, "feed", Key("feed"))
}

func TestDisabledManagerIsAlwaysEmpty(t *testing.T) {
	ctx := context.Background()

	for _, m := range []*Manager{nil, NewManager(nil)} {
		assert.False(t, m.Enabled())

		m.SetJSON(ctx, "k", map[string]int{"a": 1}, time.Minute)

		var out map[string]int
		assert.False(t, m.GetJSON(ctx, "k", &out))
		assert.Nil(t, out)
		assert.NoError(t, m.Invalidate(ctx, "k"))
	}
}

func TestGetRedisClientUnsetByDefault(t *testing.T) {
	assert.Nil(t, GetRedisClient())
	assert.NoError(t, GetRedisClient().Close())
}
