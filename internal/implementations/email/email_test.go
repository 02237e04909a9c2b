package email

import (
	"authstation/internal/core/domain/user"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPasswordResetTemplateParams(t *testing.T) {
	now := time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)
	baseUrl, err := url.Parse("http://localhost:3000/reset-password")
	require.Nil(t, err)

	params := NewPasswordResetTemplateParams(
		*baseUrl,
		user.IssuedPasswordResetToken{
			Token:     user.PasswordResetToken("AbC123"),
			Email:     "a@x.com",
			ExpiresAt: now.Add(10 * time.Minute),
		},
		now,
	)
	require.Equal(t, "http://localhost:3000/reset-password?token=AbC123", params.PasswordResetUrl)
	require.Equal(t, 10, params.ExpiresInMinutes)
	require.Equal(t, "http://localhost:3000/reset-password", baseUrl.String())
}

func TestPasswordResetTemplateParamsKeepsExistingQuery(t *testing.T) {
	now := time.Date(2020, 6, 6, 15, 30, 30, 0, time.UTC)
	baseUrl, err := url.Parse("https://app.test/reset?lang=en")
	require.Nil(t, err)

	params := NewPasswordResetTemplateParams(
		*baseUrl,
		user.IssuedPasswordResetToken{Token: "t", ExpiresAt: now.Add(90 * time.Second)},
		now,
	)
	require.Equal(t, "https://app.test/reset?lang=en&token=t", params.PasswordResetUrl)
	require.Equal(t, 2, params.ExpiresInMinutes)
}
