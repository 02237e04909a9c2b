package passwordresetemail

import (
	"authstation/internal/core/domain/common"
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/rabbitmq"
	"authstation/internal/rabbitmq/schema"
	"context"
	"errors"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

var ErrMalformedMessage = errors.New("malformed password reset message")

type Consumer struct {
	log     logging.Logger
	channel *rabbitmq.Channel
	queue   string
	sender  user.PasswordResetTokenSender
	now     func() time.Time
}

func New(
	log logging.Logger,
	channel *rabbitmq.Channel,
	queue string,
	sender user.PasswordResetTokenSender,
	now func() time.Time,
) *Consumer {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if channel == nil {
		panic(e.NewNilArgumentError("channel"))
	}
	if queue == "" {
		panic(e.NewInvalidArgumentError("queue", "must not be empty"))
	}
	if sender == nil {
		panic(e.NewNilArgumentError("sender"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}

	return &Consumer{log: log, channel: channel, queue: queue, sender: sender, now: now}
}

func (c *Consumer) Consume() error {
	if err := c.channel.DeclareQueue(c.queue); err != nil {
		c.log.Error(context.Background(), "Could not declare queue.", logging.Entry("err", err))
		return err
	}
	deliveries, err := c.channel.Consume(c.queue, "")
	if err != nil {
		c.log.Error(context.Background(), "Could not start consuming.", logging.Entry("err", err))
		return err
	}

	go func() {
		for delivery := range deliveries {
			// Delivery is at most once, a lost email is recovered by requesting a new token.
			c.Handle(context.Background(), delivery.Body)
			c.Ack(delivery)
		}
	}()
	return nil
}

// Handle delivers one queued message. Messages whose token already expired are dropped.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	message := &schema.PasswordResetEmail{}
	if err := message.Unmarshal(body); err != nil {
		c.log.Error(ctx, "Could not unmarshal password reset message.", logging.Entry("err", err))
		return ErrMalformedMessage
	}
	email := common.NewEmail(message.Email)
	if email == "" || message.Token == "" {
		c.log.Error(ctx, "Password reset message misses email or token.", logging.Entry("email", email))
		return ErrMalformedMessage
	}

	issued := user.IssuedPasswordResetToken{
		Token:     user.PasswordResetToken(message.Token),
		Email:     email,
		ExpiresAt: message.ExpiresAt,
	}
	if !issued.ExpiresAt.After(c.now()) {
		c.log.Warning(
			ctx,
			"Password reset token expired before it could be sent.",
			logging.Entry("email", email),
			logging.Entry("token", issued.Token),
		)
		return nil
	}

	if err := c.sender.SendPasswordResetToken(ctx, issued); err != nil {
		c.log.Error(
			ctx,
			"Could not send password reset email.",
			logging.Entry("email", email),
			logging.Entry("err", err),
		)
		return err
	}
	c.log.Info(ctx, "Password reset email has been sent.", logging.Entry("email", email))
	return nil
}

func (c *Consumer) Ack(delivery amqp091.Delivery) {
	if err := delivery.Ack(false); err != nil {
		c.log.Error(context.Background(), "Could not ACK AMQP message.", logging.Entry("err", err))
	}
}
