package user

import (
	"context"
	"time"
)

type AccessToken string

type RefreshToken string

type Session struct {
	UserID    ID
	Token     RefreshToken
	CreatedAt time.Time
}

type AccessTokenClaims struct {
	UserID    ID
	TokenID   string
	ExpiresAt time.Time
}

type AccessTokenIssuer interface {
	IssueAccessToken(u User) (AccessToken, AccessTokenClaims, error)
	ParseAccessToken(token AccessToken) (AccessTokenClaims, error)
}

// AccessTokenDenylist holds logged out access tokens until they expire on their own.
type AccessTokenDenylist interface {
	Deny(ctx context.Context, claims AccessTokenClaims) error
	IsDenied(ctx context.Context, claims AccessTokenClaims) (bool, error)
}

type RefreshTokenGenerator interface {
	GenerateRefreshToken() (RefreshToken, error)
}

type TokenPair struct {
	Access  AccessToken
	Refresh RefreshToken
}
