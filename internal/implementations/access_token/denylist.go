package accesstoken

import (
	"authstation/internal/core/domain/cache"
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/user"
	"context"
	"time"
)

const denylistKeyPrefix = "access_token_denylist:"

// Denylist keeps a key per logged out token until the token would expire anyway.
type Denylist struct {
	cache cache.Cache
	now   func() time.Time
}

func NewDenylist(cache cache.Cache, now func() time.Time) *Denylist {
	if cache == nil {
		panic(e.NewNilArgumentError("cache"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Denylist{cache: cache, now: now}
}

func (d *Denylist) Deny(ctx context.Context, claims user.AccessTokenClaims) error {
	ttl := claims.ExpiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	return d.cache.Set(ctx, denylistKeyPrefix+claims.TokenID, "1", ttl)
}

func (d *Denylist) IsDenied(ctx context.Context, claims user.AccessTokenClaims) (bool, error) {
	_, ok, err := d.cache.Get(ctx, denylistKeyPrefix+claims.TokenID)
	return ok, err
}
