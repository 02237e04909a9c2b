package user

import (
	c "authstation/internal/core/domain/common"
	"context"
	"time"
)

const DefaultPasswordResetTokenTTL = 10 * time.Minute

// PasswordResetToken is an opaque single-use value bound to one account email.
type PasswordResetToken string

// String keeps live tokens out of logs.
func (t PasswordResetToken) String() string {
	if len(t) <= 4 {
		return "***"
	}
	return string(t[:4]) + "***"
}

type PasswordResetTokenGenerator interface {
	GeneratePasswordResetToken() (PasswordResetToken, error)
}

// PasswordResetRedemption is the outcome of redeeming a token. The bound email
// is only reachable through Email, which forces the caller to look at ok.
type PasswordResetRedemption struct {
	email      c.Email
	isRedeemed bool
}

func Redeemed(email c.Email) PasswordResetRedemption {
	return PasswordResetRedemption{email: email, isRedeemed: true}
}

// NotRedeemed covers never-issued, already consumed and expired tokens alike.
func NotRedeemed() PasswordResetRedemption {
	return PasswordResetRedemption{}
}

func (r PasswordResetRedemption) Email() (email c.Email, ok bool) {
	return r.email, r.isRedeemed
}

type IssuedPasswordResetToken struct {
	Token     PasswordResetToken
	Email     c.Email
	ExpiresAt time.Time
}

type PasswordResetTokenStore interface {
	Issue(ctx context.Context, email c.Email) (IssuedPasswordResetToken, error)
	Redeem(ctx context.Context, token PasswordResetToken) (PasswordResetRedemption, error)
}

type PasswordResetTokenSender interface {
	SendPasswordResetToken(ctx context.Context, issued IssuedPasswordResetToken) error
}
