package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable wraps transport failures of the cache backend. It is a
// transient condition, callers may retry.
var ErrUnavailable = errors.New("cache is unavailable")

// Cache is a shared key-value store with native per-key expiry. Absent keys
// are reported with ok == false and a nil error.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Delete(ctx context.Context, key string) error

	// GetAndDelete must be atomic across all clients of the backend: of
	// several concurrent callers for the same key at most one observes ok.
	GetAndDelete(ctx context.Context, key string) (value string, ok bool, err error)

	// SetAndGetPrevious stores value and returns what was stored before, atomically.
	SetAndGetPrevious(ctx context.Context, key string, value string, ttl time.Duration) (previous string, ok bool, err error)
}
