package auth

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	"context"
	"errors"
)

type contextAccessToken string

const CONTEXT_ACCESS_TOKEN_KEY = contextAccessToken("accessToken")

type Input interface {
	WithAuthenticatedUser(u user.User, claims user.AccessTokenClaims) Input
}

type service[T Input, S any] struct {
	log               logging.Logger
	accessTokenIssuer user.AccessTokenIssuer
	denylist          user.AccessTokenDenylist
	userRepository    user.UserRepository
	inner             services.Service[T, S]
}

func WithAuthentication[T Input, S any](
	log logging.Logger,
	accessTokenIssuer user.AccessTokenIssuer,
	denylist user.AccessTokenDenylist,
	userRepository user.UserRepository,
	inner services.Service[T, S],
) services.Service[T, S] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if accessTokenIssuer == nil {
		panic(e.NewNilArgumentError("accessTokenIssuer"))
	}
	if denylist == nil {
		panic(e.NewNilArgumentError("denylist"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		log:               log,
		accessTokenIssuer: accessTokenIssuer,
		denylist:          denylist,
		userRepository:    userRepository,
		inner:             inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	accessToken, ok := ctx.Value(CONTEXT_ACCESS_TOKEN_KEY).(user.AccessToken)
	if !ok || accessToken == "" {
		return result, user.ErrInvalidAccessToken
	}
	claims, err := s.accessTokenIssuer.ParseAccessToken(accessToken)
	if err != nil {
		return result, user.ErrInvalidAccessToken
	}

	isDenied, err := s.denylist.IsDenied(ctx, claims)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", claims.UserID))
		return result, err
	}
	if isDenied {
		return result, user.ErrInvalidAccessToken
	}

	u, err := s.userRepository.GetByID(ctx, claims.UserID)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, user.ErrInvalidAccessToken
	}
	if err != nil {
		return result, err
	}
	if !u.IsActive() {
		return result, user.ErrUserIsNotActive
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(u, claims).(T))
}
