package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists        = errors.New("email already exists")
	ErrUserDoesNotExist          = errors.New("user does not exist")
	ErrInvalidCredentials        = errors.New("invalid credentials")
	ErrUserIsNotActive           = errors.New("user is not active")
	ErrSessionDoesNotExist       = errors.New("session does not exist")
	ErrSessionExpired            = errors.New("session expired")
	ErrInvalidAccessToken        = errors.New("invalid access token")
	ErrInvalidPasswordResetToken = errors.New("invalid or expired password reset token")
	ErrPasswordResetTokenNotSent = errors.New("password reset token could not be sent")
	ErrEntropySourceFailure      = errors.New("entropy source failure")
)
