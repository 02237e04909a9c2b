package logout

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	"authstation/internal/core/services/auth"
	"context"
	"errors"
)

type Input struct {
	Refresh user.RefreshToken
	User    user.User
	Claims  user.AccessTokenClaims
}

func (i Input) WithAuthenticatedUser(u user.User, claims user.AccessTokenClaims) auth.Input {
	i.User = u
	i.Claims = claims
	return i
}

type Result struct{}

type service struct {
	log               logging.Logger
	sessionRepository user.SessionRepository
	denylist          user.AccessTokenDenylist
}

func New(
	log logging.Logger,
	sessionRepository user.SessionRepository,
	denylist user.AccessTokenDenylist,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if denylist == nil {
		panic(e.NewNilArgumentError("denylist"))
	}
	return &service{log: log, sessionRepository: sessionRepository, denylist: denylist}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	session, err := s.sessionRepository.GetByToken(ctx, input.Refresh)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrSessionDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}
	if session.UserID != input.User.ID {
		s.log.Warning(
			ctx,
			"Refresh token belongs to another user.",
			logging.Entry("userID", input.User.ID),
			logging.Entry("sessionUserID", session.UserID),
		)
		return result, user.ErrSessionDoesNotExist
	}

	// The access token is denied first, so a failure leaves the session intact for a retry.
	if err := s.denylist.Deny(ctx, input.Claims); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}

	_, err = s.sessionRepository.Delete(ctx, input.Refresh)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrSessionDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", input.User.ID))
		return result, err
	}

	s.log.Info(ctx, "User has been logged out.", logging.Entry("userID", input.User.ID))
	return result, nil
}
