package passwordresetemail

import (
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/rabbitmq"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

var NOW = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type testSuite struct {
	suite.Suite
	logger   *logging.FakeLogger
	sender   *user.FakePasswordResetTokenSender
	consumer *Consumer
}

func (suite *testSuite) SetupTest() {
	suite.logger = logging.NewFakeLogger()
	suite.sender = user.NewFakePasswordResetTokenSender()
	suite.consumer = New(
		suite.logger,
		&rabbitmq.Channel{},
		"password_reset",
		suite.sender,
		func() time.Time { return NOW },
	)
}

func TestConsumer(t *testing.T) {
	suite.Run(t, new(testSuite))
}

func (suite *testSuite) TestMessageIsSent() {
	body := []byte(`{"email":" Test@Test.test ","token":"abcdef","expiresAt":"2026-01-01T12:10:00Z"}`)

	err := suite.consumer.Handle(context.Background(), body)

	suite.Nil(err)
	suite.Require().Len(suite.sender.Sent, 1)
	sent := suite.sender.LastSent()
	suite.Equal(user.PasswordResetToken("abcdef"), sent.Token)
	suite.Equal("test@test.test", string(sent.Email))
	suite.Equal(NOW.Add(10*time.Minute), sent.ExpiresAt)
}

func (suite *testSuite) TestMalformedMessages() {
	cases := []string{
		`not json`,
		`{"email":"","token":"abcdef","expiresAt":"2026-01-01T12:10:00Z"}`,
		`{"email":"test@test.test","token":"","expiresAt":"2026-01-01T12:10:00Z"}`,
	}
	for _, body := range cases {
		err := suite.consumer.Handle(context.Background(), []byte(body))
		suite.ErrorIs(err, ErrMalformedMessage, body)
	}
	suite.Len(suite.sender.Sent, 0)
}

func (suite *testSuite) TestExpiredTokenIsDropped() {
	body := []byte(`{"email":"test@test.test","token":"abcdef","expiresAt":"2026-01-01T12:00:00Z"}`)

	err := suite.consumer.Handle(context.Background(), body)

	suite.Nil(err)
	suite.Len(suite.sender.Sent, 0)
	suite.Equal(1, suite.logger.CountByLevel(logging.WARNING))
}

func (suite *testSuite) TestSenderErrorIsReturned() {
	suite.sender.ReturnError = true
	body := []byte(`{"email":"test@test.test","token":"abcdef","expiresAt":"2026-01-01T12:10:00Z"}`)

	err := suite.consumer.Handle(context.Background(), body)

	suite.NotNil(err)
	suite.Equal(1, suite.logger.CountByLevel(logging.ERROR))
}
