package passwordresetter

import (
	"authstation/internal/core/domain/cache"
	c "authstation/internal/core/domain/common"
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	tokenKeyPrefix   = "password_reset:"
	accountKeyPrefix = "password_reset_account:"
)

type Options struct {
	TTL time.Duration
	// SingleLiveToken revokes the previous token of an account on every new issue.
	SingleLiveToken bool
}

// Store binds reset tokens to account emails in a shared cache. It holds no
// state of its own, expiry is left to the cache.
type Store struct {
	log       logging.Logger
	cache     cache.Cache
	generator user.PasswordResetTokenGenerator
	options   Options
	now       func() time.Time
}

func NewStore(
	log logging.Logger,
	cache cache.Cache,
	generator user.PasswordResetTokenGenerator,
	options Options,
	now func() time.Time,
) *Store {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if cache == nil {
		panic(e.NewNilArgumentError("cache"))
	}
	if generator == nil {
		panic(e.NewNilArgumentError("generator"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	if options.TTL <= 0 {
		options.TTL = user.DefaultPasswordResetTokenTTL
	}
	return &Store{log: log, cache: cache, generator: generator, options: options, now: now}
}

func (s *Store) Issue(ctx context.Context, email c.Email) (issued user.IssuedPasswordResetToken, err error) {
	token, err := s.generator.GeneratePasswordResetToken()
	if err != nil {
		return issued, err
	}
	issuedAt := s.now()
	if err := s.cache.Set(ctx, tokenKey(token), string(email), s.options.TTL); err != nil {
		return issued, err
	}
	if s.options.SingleLiveToken {
		s.revokePrevious(ctx, email, token)
	}
	return user.IssuedPasswordResetToken{
		Token:     token,
		Email:     email,
		ExpiresAt: issuedAt.Add(s.options.TTL),
	}, nil
}

func (s *Store) Redeem(ctx context.Context, token user.PasswordResetToken) (user.PasswordResetRedemption, error) {
	if token == "" {
		return user.NotRedeemed(), nil
	}
	rawEmail, ok, err := s.cache.GetAndDelete(ctx, tokenKey(token))
	if err != nil {
		return user.NotRedeemed(), err
	}
	if !ok {
		return user.NotRedeemed(), nil
	}
	return user.Redeemed(c.Email(rawEmail)), nil
}

// revokePrevious swaps the account index to the new token and deletes the old
// token. Failures are logged only, the new token is already live.
func (s *Store) revokePrevious(ctx context.Context, email c.Email, token user.PasswordResetToken) {
	previous, ok, err := s.cache.SetAndGetPrevious(ctx, accountKey(email), string(token), s.options.TTL)
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not update password reset token index.",
			logging.Entry("email", email),
			logging.Entry("err", err),
		)
		return
	}
	if !ok || previous == string(token) {
		return
	}
	err = s.cache.Delete(ctx, tokenKey(user.PasswordResetToken(previous)))
	if errors.Is(err, context.Canceled) {
		return
	}
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not revoke previous password reset token.",
			logging.Entry("email", email),
			logging.Entry("err", err),
		)
		return
	}
	s.log.Info(ctx, "Previous password reset token revoked.", logging.Entry("email", email))
}

func tokenKey(token user.PasswordResetToken) string {
	return fmt.Sprintf("%s%s", tokenKeyPrefix, string(token))
}

func accountKey(email c.Email) string {
	return fmt.Sprintf("%s%s", accountKeyPrefix, string(email))
}
