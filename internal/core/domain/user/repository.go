package user

import (
	c "authstation/internal/core/domain/common"
	"context"
	"time"
)

type CreateUserInput struct {
	Email        c.Email
	FullName     string
	PasswordHash PasswordHash
	CreatedAt    time.Time
	ActivatedAt  c.Optional[time.Time]
}

type UserRepository interface {
	Create(ctx context.Context, input CreateUserInput) (User, error)
	GetByID(ctx context.Context, id ID) (User, error)
	GetByEmail(ctx context.Context, email c.Email) (User, error)
	SetPassword(ctx context.Context, id ID, password PasswordHash, at time.Time) error
}

type CreateSessionInput struct {
	UserID    ID
	Token     RefreshToken
	CreatedAt time.Time
}

type SessionRepository interface {
	Create(ctx context.Context, input CreateSessionInput) error
	GetByToken(ctx context.Context, token RefreshToken) (Session, error)
	Delete(ctx context.Context, token RefreshToken) (userID ID, err error)
	DeleteAllForUser(ctx context.Context, userID ID) (count int64, err error)
}
