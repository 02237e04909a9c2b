package resetpassword

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/logging"
	uow "authstation/internal/core/domain/unit_of_work"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	"context"
	"errors"
	"time"
)

const rateLimitKeyTokenPrefixLength = 8

type Input struct {
	Token       user.PasswordResetToken
	NewPassword user.RawPassword
}

// GetRateLimitKey buckets guesses by token prefix, so brute forcing one
// prefix is throttled without linking the limit to any account.
func (i Input) GetRateLimitKey() string {
	prefix := string(i.Token)
	if len(prefix) > rateLimitKeyTokenPrefixLength {
		prefix = prefix[:rateLimitKeyTokenPrefixLength]
	}
	return "reset-password::" + prefix
}

type Result struct{}

type service struct {
	log            logging.Logger
	unitOfWork     uow.UnitOfWork
	tokenStore     user.PasswordResetTokenStore
	passwordHasher user.PasswordHasher
	now            func() time.Time
}

func New(
	log logging.Logger,
	unitOfWork uow.UnitOfWork,
	tokenStore user.PasswordResetTokenStore,
	passwordHasher user.PasswordHasher,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if unitOfWork == nil {
		panic(e.NewNilArgumentError("unitOfWork"))
	}
	if tokenStore == nil {
		panic(e.NewNilArgumentError("tokenStore"))
	}
	if passwordHasher == nil {
		panic(e.NewNilArgumentError("passwordHasher"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:            log,
		unitOfWork:     unitOfWork,
		tokenStore:     tokenStore,
		passwordHasher: passwordHasher,
		now:            now,
	}
}

// Run consumes the token before anything else. A token is spent even when a
// later step fails, the user has to request a new one.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	redemption, err := s.tokenStore.Redeem(ctx, input.Token)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not redeem password reset token.",
			logging.Entry("token", input.Token),
			logging.Entry("err", err),
		)
		return result, err
	}
	email, ok := redemption.Email()
	if !ok {
		s.log.Info(ctx, "Invalid or expired password reset token.", logging.Entry("token", input.Token))
		return result, user.ErrInvalidPasswordResetToken
	}

	newPasswordHash, err := s.passwordHasher.HashPassword(input.NewPassword)
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", email))
		return result, err
	}

	uow, err := s.unitOfWork.Begin(ctx)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", email))
		return result, err
	}
	defer uow.Rollback(ctx)

	u, err := uow.Users().GetByEmail(ctx, email)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Error(
			ctx,
			"Password reset token is bound to an account that does not exist.",
			logging.Entry("email", email),
		)
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("email", email))
		return result, err
	}

	err = uow.Users().SetPassword(ctx, u.ID, newPasswordHash, s.now())
	if errors.Is(err, user.ErrUserDoesNotExist) {
		s.log.Error(ctx, "Could not update user password, user does not exist.", logging.Entry("userID", u.ID))
		return result, user.ErrInvalidPasswordResetToken
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	revoked, err := uow.Sessions().DeleteAllForUser(ctx, u.ID)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not revoke sessions after password reset.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if err := uow.Commit(ctx); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("userID", u.ID))
		return result, err
	}

	s.log.Info(
		ctx,
		"New password has been successfully set.",
		logging.Entry("userID", u.ID),
		logging.Entry("revokedSessions", revoked),
	)
	return result, nil
}
