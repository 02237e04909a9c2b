package logout

import (
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

const (
	USER_ID       = user.ID(1)
	REFRESH_TOKEN = user.RefreshToken("test-refresh-token")
)

var NOW time.Time = time.Now().UTC()

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	SessionRepository *user.FakeSessionRepository
	Denylist          *user.FakeAccessTokenDenylist
	Service           services.Service[Input, Result]
}

func (suite *testSuite) SetupTest() {
	suite.Logger = logging.NewFakeLogger()
	suite.SessionRepository = user.NewFakeSessionRepository()
	suite.Denylist = user.NewFakeAccessTokenDenylist()
	suite.Service = New(
		suite.Logger,
		suite.SessionRepository,
		suite.Denylist,
	)
	suite.SessionRepository.Create(context.Background(), user.CreateSessionInput{
		UserID:    USER_ID,
		Token:     REFRESH_TOKEN,
		CreatedAt: NOW,
	})
}

func TestLogOutService(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestSuccess() {
	_, err := s.Service.Run(context.Background(), s.input(USER_ID, REFRESH_TOKEN))

	s.Nil(err)
	s.False(s.SessionRepository.Exists(REFRESH_TOKEN))
	s.Contains(s.Denylist.Denied, "jti-1")
}

func (s *testSuite) TestErrorReturnedIfRefreshTokenInvalid() {
	_, err := s.Service.Run(context.Background(), s.input(USER_ID, "invalid-refresh-token"))

	s.ErrorIs(err, user.ErrSessionDoesNotExist)
	s.True(s.SessionRepository.Exists(REFRESH_TOKEN))
	s.Len(s.Denylist.Denied, 0)
}

func (s *testSuite) TestErrorReturnedIfRefreshTokenBelongsToAnotherUser() {
	_, err := s.Service.Run(context.Background(), s.input(user.ID(2), REFRESH_TOKEN))

	s.ErrorIs(err, user.ErrSessionDoesNotExist)
	s.True(s.SessionRepository.Exists(REFRESH_TOKEN))
	s.Len(s.Denylist.Denied, 0)
}

func (s *testSuite) TestSessionKeptIfDenylistFails() {
	s.Denylist.ReturnError = true

	_, err := s.Service.Run(context.Background(), s.input(USER_ID, REFRESH_TOKEN))

	s.NotNil(err)
	s.True(s.SessionRepository.Exists(REFRESH_TOKEN))
}

func (s *testSuite) input(userID user.ID, refresh user.RefreshToken) Input {
	return Input{
		Refresh: refresh,
		User:    user.User{ID: userID},
		Claims:  user.AccessTokenClaims{UserID: userID, TokenID: "jti-1", ExpiresAt: NOW.Add(time.Minute)},
	}
}
