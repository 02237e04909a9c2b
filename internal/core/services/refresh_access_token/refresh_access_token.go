package refreshaccesstoken

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	"context"
	"errors"
	"time"
)

type Input struct {
	Refresh user.RefreshToken
}

type Result struct {
	Access user.AccessToken
}

type service struct {
	log               logging.Logger
	userRepository    user.UserRepository
	sessionRepository user.SessionRepository
	accessTokenIssuer user.AccessTokenIssuer
	refreshTokenTTL   time.Duration
	now               func() time.Time
}

func New(
	log logging.Logger,
	userRepository user.UserRepository,
	sessionRepository user.SessionRepository,
	accessTokenIssuer user.AccessTokenIssuer,
	refreshTokenTTL time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if userRepository == nil {
		panic(e.NewNilArgumentError("userRepository"))
	}
	if sessionRepository == nil {
		panic(e.NewNilArgumentError("sessionRepository"))
	}
	if accessTokenIssuer == nil {
		panic(e.NewNilArgumentError("accessTokenIssuer"))
	}
	if refreshTokenTTL <= 0 {
		panic(e.NewInvalidArgumentError("refreshTokenTTL", "must be positive"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:               log,
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		accessTokenIssuer: accessTokenIssuer,
		refreshTokenTTL:   refreshTokenTTL,
		now:               now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	session, err := s.sessionRepository.GetByToken(ctx, input.Refresh)
	if errors.Is(err, context.Canceled) || errors.Is(err, user.ErrSessionDoesNotExist) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err)
		return result, err
	}

	if !s.now().Before(session.CreatedAt.Add(s.refreshTokenTTL)) {
		if _, err := s.sessionRepository.Delete(ctx, input.Refresh); err != nil &&
			!errors.Is(err, user.ErrSessionDoesNotExist) {
			logging.Error(ctx, s.log, err, logging.Entry("userID", session.UserID))
		}
		s.log.Info(ctx, "Expired session has been removed.", logging.Entry("userID", session.UserID))
		return result, user.ErrSessionExpired
	}

	u, err := s.userRepository.GetByID(ctx, session.UserID)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return result, user.ErrSessionDoesNotExist
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", session.UserID))
		return result, err
	}
	if !u.IsActive() {
		return result, user.ErrUserIsNotActive
	}

	access, _, err := s.accessTokenIssuer.IssueAccessToken(u)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}
	s.log.Info(ctx, "Access token has been refreshed.", logging.Entry("userID", u.ID))
	return Result{Access: access}, nil
}
