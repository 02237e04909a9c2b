package cache

import (
	"authstation/internal/core/domain/cache"
	e "authstation/internal/core/domain/errors"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
)

// Used instead of GETDEL on servers older than Redis 6.2.
var getAndDeleteScript = redis.NewScript(`
local value = redis.call("GET", KEYS[1])
if value then
	redis.call("DEL", KEYS[1])
end
return value
`)

var setAndGetPreviousScript = redis.NewScript(`
local previous = redis.call("GET", KEYS[1])
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return previous
`)

type Redis struct {
	redisClient     *redis.Client
	useGetDelScript bool
}

func NewRedis(redisClient *redis.Client, useGetDelScript bool) *Redis {
	if redisClient == nil {
		panic(e.NewNilArgumentError("redisClient"))
	}
	return &Redis{redisClient: redisClient, useGetDelScript: useGetDelScript}
}

func (r *Redis) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.redisClient.Set(ctx, key, value, ttl).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	return decodeStringResult(r.redisClient.Get(ctx, key).Result())
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *Redis) GetAndDelete(ctx context.Context, key string) (string, bool, error) {
	if r.useGetDelScript {
		return decodeScriptResult(getAndDeleteScript.Run(ctx, r.redisClient, []string{key}).Result())
	}
	return decodeStringResult(r.redisClient.GetDel(ctx, key).Result())
}

func (r *Redis) SetAndGetPrevious(
	ctx context.Context,
	key string,
	value string,
	ttl time.Duration,
) (string, bool, error) {
	return decodeScriptResult(
		setAndGetPreviousScript.Run(ctx, r.redisClient, []string{key}, value, ttl.Milliseconds()).Result(),
	)
}

func decodeStringResult(value string, err error) (string, bool, error) {
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable(err)
	}
	return value, true, nil
}

func decodeScriptResult(raw interface{}, err error) (string, bool, error) {
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, unavailable(err)
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("unexpected script result type %T", raw)
	}
	return value, true, nil
}

func unavailable(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", cache.ErrUnavailable, err)
}
