package changepassword

import (
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const USER_ID = 1

var NOW time.Time = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type suite struct {
	log      *logging.FakeLogger
	userRepo *user.FakeUserRepository
	hasher   *user.FakePasswordHasher
}

func setupSuite() *suite {
	userRepo := user.NewFakeUserRepository()
	userRepo.Users = []user.User{{ID: USER_ID}}
	return &suite{
		log:      logging.NewFakeLogger(),
		userRepo: userRepo,
		hasher:   user.NewFakePasswordHasher(),
	}
}

func (s *suite) createService() services.Service[Input, Result] {
	return New(s.log, s.userRepo, s.hasher, func() time.Time { return NOW })
}

func TestPasswordSuccessfullyChanged(t *testing.T) {
	cases := []struct {
		id                      string
		currentPassswordInDB    string
		currentPassswordInInput string
		newPasswordInInput      string
	}{
		{
			id:                      "1",
			currentPassswordInDB:    "test-1",
			currentPassswordInInput: "test-1",
			newPasswordInInput:      "test-2",
		},
		{
			id:                      "2",
			currentPassswordInDB:    "test-2",
			currentPassswordInInput: "test-2",
			newPasswordInInput:      "test-2",
		},
		{
			id:                      "3",
			currentPassswordInDB:    "aaa",
			currentPassswordInInput: "aaa",
			newPasswordInInput:      "bbb",
		},
	}

	for _, testcase := range cases {
		testcase := testcase
		t.Run(testcase.id, func(t *testing.T) {
			// Setup ---
			suite := setupSuite()
			service := suite.createService()

			// Exercise ---
			input := Input{
				CurrentPassword: user.RawPassword(testcase.currentPassswordInInput),
				NewPassword:     user.RawPassword(testcase.newPasswordInInput),
			}
			input.User.ID = USER_ID
			input.User.PasswordHash = hashPassword(testcase.currentPassswordInDB, suite.hasher)
			_, err := service.Run(context.Background(), input)

			// Verify ---
			require.NoError(t, err)
			assertPasswordValid(t, suite, testcase.newPasswordInInput)
			require.Equal(t, NOW, suite.userRepo.Users[0].UpdatedAt)
		})
	}
}

func TestCurrentPasswordInvalid(t *testing.T) {
	// Setup ---
	suite := setupSuite()
	service := suite.createService()

	// Exercise ---
	input := Input{
		CurrentPassword: user.RawPassword("invalid-password"),
		NewPassword:     user.RawPassword("bbb"),
	}
	input.User.ID = USER_ID
	input.User.PasswordHash = hashPassword("valid-password", suite.hasher)
	_, err := service.Run(context.Background(), input)

	// Verify ---
	require.ErrorIs(t, err, user.ErrInvalidCredentials)
	require.Equal(t, user.PasswordHash(""), suite.userRepo.Users[0].PasswordHash)
}

func hashPassword(raw string, hasher user.PasswordHasher) user.PasswordHash {
	hash, err := hasher.HashPassword(user.RawPassword(raw))
	if err != nil {
		panic(err)
	}
	return hash
}

func assertPasswordValid(t *testing.T, s *suite, password string) {
	t.Helper()
	u := s.userRepo.Users[0]
	require.True(t, s.hasher.ValidatePassword(user.RawPassword(password), u.PasswordHash))
}
