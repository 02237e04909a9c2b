package ratelimiter

import (
	"authstation/internal/core/domain/logging"
	ratelimiter "authstation/internal/core/domain/rate_limiter"
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v9"
	"github.com/stretchr/testify/require"
)

var NOW = time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)

func TestWindowKey(t *testing.T) {
	assert := require.New(t)

	k1, d := windowKey("login::a@x.com", ratelimiter.Minute, NOW)
	assert.Equal(time.Minute, d)
	k2, _ := windowKey("login::a@x.com", ratelimiter.Minute, NOW.Add(29*time.Second))
	assert.Equal(k1, k2)
	k3, _ := windowKey("login::a@x.com", ratelimiter.Minute, NOW.Add(30*time.Second))
	assert.NotEqual(k1, k3)

	k4, d := windowKey("login::a@x.com", ratelimiter.Hour, NOW)
	assert.Equal(time.Hour, d)
	k5, _ := windowKey("login::a@x.com", ratelimiter.Hour, NOW.Add(24*time.Hour))
	assert.NotEqual(k4, k5)
}

func TestFailsOpenWhenRedisIsUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	defer client.Close()
	log := logging.NewFakeLogger()
	limiter := NewRedis(client, log, func() time.Time { return NOW })

	result := limiter.CheckLimit(context.Background(), "test", ratelimiter.PerMinute(1))
	require.True(t, result.IsAllowed)
	require.Equal(t, 1, log.CountByLevel(logging.ERROR))
}

func TestCheckLimit(t *testing.T) {
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL is not set.")
	}
	opt, err := redis.ParseURL(redisURL)
	require.Nil(t, err)
	client := redis.NewClient(opt)
	defer client.Close()
	defer client.FlushDB(context.Background())

	limiter := NewRedis(client, logging.NewFakeLogger(), func() time.Time { return NOW })
	limit := ratelimiter.PerMinute(3)
	for i := 0; i < 3; i++ {
		require.True(t, limiter.CheckLimit(context.Background(), "test", limit).IsAllowed)
	}
	require.False(t, limiter.CheckLimit(context.Background(), "test", limit).IsAllowed)
	require.True(t, limiter.CheckLimit(context.Background(), "other", limit).IsAllowed)
}
