package services

import (
	"authstation/internal/app/deps"
	drl "authstation/internal/core/domain/rate_limiter"
	"authstation/internal/core/services"
	"authstation/internal/core/services/auth"
	changepassword "authstation/internal/core/services/change_password"
	loginwithemail "authstation/internal/core/services/log_in_with_email"
	logout "authstation/internal/core/services/log_out"
	ratelimiting "authstation/internal/core/services/rate_limiting"
	refreshaccesstoken "authstation/internal/core/services/refresh_access_token"
	resetpassword "authstation/internal/core/services/reset_password"
	sendpasswordresettoken "authstation/internal/core/services/send_password_reset_token"
	signupwithemail "authstation/internal/core/services/sign_up_with_email"
)

type Services struct {
	SignUpWithEmail        services.Service[signupwithemail.Input, signupwithemail.Result]
	LogInWithEmail         services.Service[loginwithemail.Input, loginwithemail.Result]
	LogOut                 services.Service[logout.Input, logout.Result]
	RefreshAccessToken     services.Service[refreshaccesstoken.Input, refreshaccesstoken.Result]
	SendPasswordResetToken services.Service[sendpasswordresettoken.Input, sendpasswordresettoken.Result]
	ResetPassword          services.Service[resetpassword.Input, resetpassword.Result]
	ChangePassword         services.Service[changepassword.Input, changepassword.Result]
}

func InitServices(deps *deps.Deps) *Services {
	s := &Services{}

	s.SignUpWithEmail = signupwithemail.New(
		deps.Logger,
		deps.UnitOfWork,
		deps.PasswordHasher,
		deps.Now,
	)
	s.LogInWithEmail = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerMinute(deps.Config.LoginRateLimitPerMin),
		loginwithemail.New(
			deps.Logger,
			deps.UserRepository,
			deps.SessionRepository,
			deps.PasswordHasher,
			deps.AccessTokenIssuer,
			deps.RefreshTokenGenerator,
			deps.Now,
		),
	)
	s.LogOut = auth.WithAuthentication(
		deps.Logger,
		deps.AccessTokenIssuer,
		deps.AccessTokenDenylist,
		deps.UserRepository,
		logout.New(
			deps.Logger,
			deps.SessionRepository,
			deps.AccessTokenDenylist,
		),
	)
	s.RefreshAccessToken = refreshaccesstoken.New(
		deps.Logger,
		deps.UserRepository,
		deps.SessionRepository,
		deps.AccessTokenIssuer,
		deps.Config.RefreshTokenTTL,
		deps.Now,
	)
	s.SendPasswordResetToken = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerMinute(deps.Config.PasswordResetRateLimitPerMin),
		sendpasswordresettoken.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordResetTokenStore,
			deps.PasswordResetTokenSender,
		),
	)
	s.ResetPassword = ratelimiting.WithRateLimiting(
		deps.Logger,
		deps.RateLimiter,
		drl.PerMinute(deps.Config.PasswordResetRateLimitPerMin),
		resetpassword.New(
			deps.Logger,
			deps.UnitOfWork,
			deps.PasswordResetTokenStore,
			deps.PasswordHasher,
			deps.Now,
		),
	)
	s.ChangePassword = auth.WithAuthentication(
		deps.Logger,
		deps.AccessTokenIssuer,
		deps.AccessTokenDenylist,
		deps.UserRepository,
		changepassword.New(
			deps.Logger,
			deps.UserRepository,
			deps.PasswordHasher,
			deps.Now,
		),
	)

	return s
}
