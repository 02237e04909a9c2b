package passwordresetnotifier

import (
	"authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/logging"
	"authstation/internal/core/domain/user"
	"authstation/internal/rabbitmq/schema"
	"context"
)

type Publisher interface {
	PublishJSON(ctx context.Context, routingKey string, message interface{}) error
}

// RabbitMQ hands issued reset tokens over to the mailer through a durable queue.
type RabbitMQ struct {
	log       logging.Logger
	publisher Publisher
	queue     string
}

func NewRabbitMQ(log logging.Logger, publisher Publisher, queue string) *RabbitMQ {
	if log == nil {
		panic(errors.NewNilArgumentError("log"))
	}
	if publisher == nil {
		panic(errors.NewNilArgumentError("publisher"))
	}
	if queue == "" {
		panic(errors.NewInvalidArgumentError("queue", "must not be empty"))
	}
	return &RabbitMQ{log: log, publisher: publisher, queue: queue}
}

func (s *RabbitMQ) SendPasswordResetToken(ctx context.Context, issued user.IssuedPasswordResetToken) error {
	message := schema.PasswordResetEmail{
		Email:     string(issued.Email),
		Token:     string(issued.Token),
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.publisher.PublishJSON(ctx, s.queue, message); err != nil {
		logging.Error(ctx, s.log, err, logging.Entry("queue", s.queue))
		return err
	}
	s.log.Info(
		ctx,
		"Password reset message has been published.",
		logging.Entry("queue", s.queue),
		logging.Entry("email", issued.Email),
		logging.Entry("token", issued.Token),
	)
	return nil
}
