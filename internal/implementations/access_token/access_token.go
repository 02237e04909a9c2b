package accesstoken

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/user"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWT struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewJWT(secret string, issuer string, audience string, ttl time.Duration, now func() time.Time) *JWT {
	if secret == "" {
		panic(e.NewInvalidArgumentError("secret", "must not be empty"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &JWT{secret: []byte(secret), issuer: issuer, audience: audience, ttl: ttl, now: now}
}

func (j *JWT) IssueAccessToken(u user.User) (user.AccessToken, user.AccessTokenClaims, error) {
	issuedAt := j.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   strconv.FormatInt(int64(u.ID), 10),
		Issuer:    j.issuer,
		Audience:  jwt.ClaimStrings{j.audience},
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(j.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", user.AccessTokenClaims{}, err
	}
	return user.AccessToken(signed), decodeClaims(u.ID, &claims), nil
}

func (j *JWT) ParseAccessToken(token user.AccessToken) (user.AccessTokenClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		string(token),
		claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return j.secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(j.issuer),
		jwt.WithAudience(j.audience),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return user.AccessTokenClaims{}, fmt.Errorf("%w: %v", user.ErrInvalidAccessToken, err)
	}
	rawUserID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || claims.ID == "" {
		return user.AccessTokenClaims{}, user.ErrInvalidAccessToken
	}
	return decodeClaims(user.ID(rawUserID), claims), nil
}

func decodeClaims(userID user.ID, claims *jwt.RegisteredClaims) user.AccessTokenClaims {
	return user.AccessTokenClaims{
		UserID:    userID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
