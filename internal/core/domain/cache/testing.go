package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type fakeEntry struct {
	value     string
	expiresAt time.Time
}

// FakeCache is an in-memory Cache. Expiry is evaluated lazily against now.
type FakeCache struct {
	ReturnError bool
	entries     map[string]fakeEntry
	now         func() time.Time
	lock        sync.Mutex
}

func NewFakeCache(now func() time.Time) *FakeCache {
	if now == nil {
		now = time.Now
	}
	return &FakeCache{entries: make(map[string]fakeEntry), now: now}
}

func (c *FakeCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if c.ReturnError {
		return fmt.Errorf("%w: could not set %s", ErrUnavailable, key)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries[key] = fakeEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}

func (c *FakeCache) Get(ctx context.Context, key string) (string, bool, error) {
	if c.ReturnError {
		return "", false, fmt.Errorf("%w: could not get %s", ErrUnavailable, key)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	e, ok := c.live(key)
	return e.value, ok, nil
}

func (c *FakeCache) Delete(ctx context.Context, key string) error {
	if c.ReturnError {
		return fmt.Errorf("%w: could not delete %s", ErrUnavailable, key)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *FakeCache) GetAndDelete(ctx context.Context, key string) (string, bool, error) {
	if c.ReturnError {
		return "", false, fmt.Errorf("%w: could not get and delete %s", ErrUnavailable, key)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	e, ok := c.live(key)
	delete(c.entries, key)
	return e.value, ok, nil
}

func (c *FakeCache) SetAndGetPrevious(
	ctx context.Context,
	key string,
	value string,
	ttl time.Duration,
) (string, bool, error) {
	if c.ReturnError {
		return "", false, fmt.Errorf("%w: could not set %s", ErrUnavailable, key)
	}
	c.lock.Lock()
	defer c.lock.Unlock()
	e, ok := c.live(key)
	c.entries[key] = fakeEntry{value: value, expiresAt: c.now().Add(ttl)}
	return e.value, ok, nil
}

// Len returns the number of live keys.
func (c *FakeCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	n := 0
	for key := range c.entries {
		if _, ok := c.live(key); ok {
			n++
		}
	}
	return n
}

func (c *FakeCache) live(key string) (fakeEntry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return e, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return fakeEntry{}, false
	}
	return e, true
}
