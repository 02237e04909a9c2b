package auth

import (
	c "authstation/internal/core/domain/common"
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/core/services"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var NOW time.Time = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type input struct {
	User   user.User
	Claims user.AccessTokenClaims
}

func (i input) WithAuthenticatedUser(u user.User, claims user.AccessTokenClaims) Input {
	i.User = u
	i.Claims = claims
	return i
}

type stubService struct {
	Input input
	Calls int
}

func (s *stubService) Run(ctx context.Context, in input) (result struct{}, err error) {
	s.Calls++
	s.Input = in
	return result, nil
}

type testSuite struct {
	suite.Suite
	Logger            *logging.FakeLogger
	AccessTokenIssuer *user.FakeAccessTokenIssuer
	Denylist          *user.FakeAccessTokenDenylist
	UserRepository    *user.FakeUserRepository
	Inner             *stubService
	Service           services.Service[input, struct{}]
	now               time.Time
}

func (suite *testSuite) SetupTest() {
	suite.now = NOW
	suite.Logger = logging.NewFakeLogger()
	suite.AccessTokenIssuer = user.NewFakeAccessTokenIssuer(5*time.Minute, func() time.Time { return suite.now })
	suite.Denylist = user.NewFakeAccessTokenDenylist()
	suite.UserRepository = user.NewFakeUserRepository()
	suite.Inner = &stubService{}
	suite.Service = WithAuthentication[input, struct{}](
		suite.Logger,
		suite.AccessTokenIssuer,
		suite.Denylist,
		suite.UserRepository,
		suite.Inner,
	)
}

func TestAuthentication(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (s *testSuite) TestAuthenticated() {
	u := s.createUser(true)
	token, claims, _ := s.AccessTokenIssuer.IssueAccessToken(u)

	_, err := s.Service.Run(s.withToken(token), input{})

	s.Require().Nil(err)
	s.Equal(1, s.Inner.Calls)
	s.Equal(u.ID, s.Inner.Input.User.ID)
	s.Equal(claims, s.Inner.Input.Claims)
}

func (s *testSuite) TestMissingToken() {
	_, err := s.Service.Run(context.Background(), input{})

	s.ErrorIs(err, user.ErrInvalidAccessToken)
	s.Equal(0, s.Inner.Calls)
}

func (s *testSuite) TestExpiredToken() {
	token, _, _ := s.AccessTokenIssuer.IssueAccessToken(s.createUser(true))
	s.now = NOW.Add(5 * time.Minute)

	_, err := s.Service.Run(s.withToken(token), input{})

	s.ErrorIs(err, user.ErrInvalidAccessToken)
	s.Equal(0, s.Inner.Calls)
}

func (s *testSuite) TestDeniedToken() {
	token, claims, _ := s.AccessTokenIssuer.IssueAccessToken(s.createUser(true))
	s.Denylist.Deny(context.Background(), claims)

	_, err := s.Service.Run(s.withToken(token), input{})

	s.ErrorIs(err, user.ErrInvalidAccessToken)
	s.Equal(0, s.Inner.Calls)
}

func (s *testSuite) TestDenylistError() {
	token, _, _ := s.AccessTokenIssuer.IssueAccessToken(s.createUser(true))
	s.Denylist.ReturnError = true

	_, err := s.Service.Run(s.withToken(token), input{})

	s.NotNil(err)
	s.Equal(0, s.Inner.Calls)
	s.Equal(1, s.Logger.CountByLevel(logging.ERROR))
}

func (s *testSuite) TestInactiveUser() {
	token, _, _ := s.AccessTokenIssuer.IssueAccessToken(s.createUser(false))

	_, err := s.Service.Run(s.withToken(token), input{})

	s.ErrorIs(err, user.ErrUserIsNotActive)
}

func (s *testSuite) TestUnknownUser() {
	token, _, _ := s.AccessTokenIssuer.IssueAccessToken(user.User{ID: 999})

	_, err := s.Service.Run(s.withToken(token), input{})

	s.ErrorIs(err, user.ErrInvalidAccessToken)
}

func (s *testSuite) withToken(token user.AccessToken) context.Context {
	return context.WithValue(context.Background(), CONTEXT_ACCESS_TOKEN_KEY, token)
}

func (s *testSuite) createUser(isActive bool) user.User {
	s.T().Helper()
	u, err := s.UserRepository.Create(context.Background(), user.CreateUserInput{
		Email:        c.Email("test@test.test"),
		PasswordHash: user.PasswordHash("hash"),
		CreatedAt:    NOW,
		ActivatedAt:  c.NewOptional(NOW, isActive),
	})
	if err != nil {
		s.FailNow(err.Error())
	}
	return u
}
