package user

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/user"
	"authstation/internal/db"
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
)

type PgxSessionRepository struct {
	db db.DBTX
}

func NewPgxSessionRepository(db db.DBTX) *PgxSessionRepository {
	if db == nil {
		panic(e.NewNilArgumentError("db"))
	}
	return &PgxSessionRepository{db: db}
}

func (r *PgxSessionRepository) Create(ctx context.Context, input user.CreateSessionInput) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO session (token, user_id, created_at) VALUES ($1, $2, $3)`,
		string(input.Token),
		int64(input.UserID),
		input.CreatedAt,
	)
	return err
}

func (r *PgxSessionRepository) GetByToken(ctx context.Context, token user.RefreshToken) (s user.Session, err error) {
	var userID int64
	err = r.db.QueryRow(
		ctx,
		`SELECT user_id, created_at FROM session WHERE token = $1`,
		string(token),
	).Scan(&userID, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return s, user.ErrSessionDoesNotExist
	}
	if err != nil {
		return s, err
	}
	s.UserID = user.ID(userID)
	s.Token = token
	s.CreatedAt = s.CreatedAt.UTC()
	return s, nil
}

func (r *PgxSessionRepository) Delete(ctx context.Context, token user.RefreshToken) (userID user.ID, err error) {
	var rawUserID int64
	err = r.db.QueryRow(
		ctx,
		`DELETE FROM session WHERE token = $1 RETURNING user_id`,
		string(token),
	).Scan(&rawUserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return userID, user.ErrSessionDoesNotExist
	}
	if err != nil {
		return userID, err
	}
	return user.ID(rawUserID), nil
}

func (r *PgxSessionRepository) DeleteAllForUser(ctx context.Context, userID user.ID) (count int64, err error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM session WHERE user_id = $1`, int64(userID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
