package user

import (
	c "authstation/internal/core/domain/common"
	"context"
	"crypto/md5"
	"fmt"
	"sync"
	"time"
)

type FakePasswordHasher struct{}

func NewFakePasswordHasher() *FakePasswordHasher {
	return &FakePasswordHasher{}
}

func (h *FakePasswordHasher) HashPassword(password RawPassword) (PasswordHash, error) {
	return PasswordHash(fmt.Sprintf("%x", md5.Sum([]byte(password)))), nil
}

func (h *FakePasswordHasher) ValidatePassword(password RawPassword, hash PasswordHash) bool {
	actualHash, err := h.HashPassword(password)
	if err != nil {
		return false
	}
	return actualHash == hash
}

type FakeUserRepository struct {
	Users       []User
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeUserRepository() *FakeUserRepository {
	return &FakeUserRepository{Users: make([]User, 0, 10)}
}

func (r *FakeUserRepository) Create(ctx context.Context, input CreateUserInput) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not create user %v", input.Email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	maxID := ID(0)
	for _, u := range r.Users {
		if u.Email == input.Email {
			return u, ErrEmailAlreadyExists
		}
		maxID = u.ID
	}
	u = User{
		ID:           maxID + 1,
		Email:        input.Email,
		FullName:     input.FullName,
		PasswordHash: input.PasswordHash,
		CreatedAt:    input.CreatedAt,
		UpdatedAt:    input.CreatedAt,
		ActivatedAt:  input.ActivatedAt,
	}
	r.Users = append(r.Users, u)
	return u, nil
}

func (r *FakeUserRepository) GetByID(ctx context.Context, id ID) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) GetByEmail(ctx context.Context, email c.Email) (u User, err error) {
	if r.ReturnError {
		return u, fmt.Errorf("could not get user %s", email)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for _, u := range r.Users {
		if u.Email == email {
			return u, nil
		}
	}
	return u, ErrUserDoesNotExist
}

func (r *FakeUserRepository) SetPassword(ctx context.Context, id ID, password PasswordHash, at time.Time) error {
	if r.ReturnError {
		return fmt.Errorf("could not set password for user %d", id)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	for ix, u := range r.Users {
		if u.ID == id {
			r.Users[ix].PasswordHash = password
			r.Users[ix].UpdatedAt = at
			return nil
		}
	}
	return ErrUserDoesNotExist
}

type FakeSessionRepository struct {
	Sessions    map[RefreshToken]Session
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeSessionRepository() *FakeSessionRepository {
	return &FakeSessionRepository{Sessions: make(map[RefreshToken]Session)}
}

func (r *FakeSessionRepository) Create(ctx context.Context, input CreateSessionInput) error {
	if r.ReturnError {
		return fmt.Errorf("could not create session for user %d", input.UserID)
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	r.Sessions[input.Token] = Session{UserID: input.UserID, Token: input.Token, CreatedAt: input.CreatedAt}
	return nil
}

func (r *FakeSessionRepository) GetByToken(ctx context.Context, token RefreshToken) (Session, error) {
	if r.ReturnError {
		return Session{}, fmt.Errorf("could not get session")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	s, ok := r.Sessions[token]
	if !ok {
		return s, ErrSessionDoesNotExist
	}
	return s, nil
}

func (r *FakeSessionRepository) Delete(ctx context.Context, token RefreshToken) (ID, error) {
	if r.ReturnError {
		return ID(0), fmt.Errorf("could not delete session")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	s, ok := r.Sessions[token]
	if !ok {
		return ID(0), ErrSessionDoesNotExist
	}
	delete(r.Sessions, token)
	return s.UserID, nil
}

func (r *FakeSessionRepository) DeleteAllForUser(ctx context.Context, userID ID) (int64, error) {
	if r.ReturnError {
		return 0, fmt.Errorf("could not delete sessions")
	}
	r.lock.Lock()
	defer r.lock.Unlock()
	var n int64
	for token, s := range r.Sessions {
		if s.UserID == userID {
			delete(r.Sessions, token)
			n++
		}
	}
	return n, nil
}

func (r *FakeSessionRepository) Exists(token RefreshToken) bool {
	r.lock.Lock()
	defer r.lock.Unlock()
	_, ok := r.Sessions[token]
	return ok
}

type FakeRefreshTokenGenerator struct {
	Token       RefreshToken
	ReturnError bool
}

func NewFakeRefreshTokenGenerator(token string) *FakeRefreshTokenGenerator {
	return &FakeRefreshTokenGenerator{Token: RefreshToken(token)}
}

func (g *FakeRefreshTokenGenerator) GenerateRefreshToken() (RefreshToken, error) {
	if g.ReturnError {
		return "", fmt.Errorf("%w: fake", ErrEntropySourceFailure)
	}
	return g.Token, nil
}

// FakeAccessTokenIssuer encodes claims as "<userID>:<tokenID>".
type FakeAccessTokenIssuer struct {
	TTL     time.Duration
	Now     func() time.Time
	counter int
	issued  map[AccessToken]AccessTokenClaims
	lock    sync.Mutex
}

func NewFakeAccessTokenIssuer(ttl time.Duration, now func() time.Time) *FakeAccessTokenIssuer {
	return &FakeAccessTokenIssuer{TTL: ttl, Now: now, issued: make(map[AccessToken]AccessTokenClaims)}
}

func (i *FakeAccessTokenIssuer) IssueAccessToken(u User) (AccessToken, AccessTokenClaims, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	i.counter++
	claims := AccessTokenClaims{
		UserID:    u.ID,
		TokenID:   fmt.Sprintf("jti-%d", i.counter),
		ExpiresAt: i.Now().Add(i.TTL),
	}
	token := AccessToken(fmt.Sprintf("%d:%s", u.ID, claims.TokenID))
	i.issued[token] = claims
	return token, claims, nil
}

func (i *FakeAccessTokenIssuer) ParseAccessToken(token AccessToken) (AccessTokenClaims, error) {
	i.lock.Lock()
	defer i.lock.Unlock()
	claims, ok := i.issued[token]
	if !ok || !i.Now().Before(claims.ExpiresAt) {
		return AccessTokenClaims{}, ErrInvalidAccessToken
	}
	return claims, nil
}

type FakeAccessTokenDenylist struct {
	Denied      map[string]AccessTokenClaims
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeAccessTokenDenylist() *FakeAccessTokenDenylist {
	return &FakeAccessTokenDenylist{Denied: make(map[string]AccessTokenClaims)}
}

func (d *FakeAccessTokenDenylist) Deny(ctx context.Context, claims AccessTokenClaims) error {
	if d.ReturnError {
		return fmt.Errorf("could not deny access token")
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	d.Denied[claims.TokenID] = claims
	return nil
}

func (d *FakeAccessTokenDenylist) IsDenied(ctx context.Context, claims AccessTokenClaims) (bool, error) {
	if d.ReturnError {
		return false, fmt.Errorf("could not check access token")
	}
	d.lock.Lock()
	defer d.lock.Unlock()
	_, ok := d.Denied[claims.TokenID]
	return ok, nil
}

type FakePasswordResetTokenSender struct {
	Sent        []IssuedPasswordResetToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakePasswordResetTokenSender() *FakePasswordResetTokenSender {
	return &FakePasswordResetTokenSender{}
}

func (s *FakePasswordResetTokenSender) SendPasswordResetToken(
	ctx context.Context,
	issued IssuedPasswordResetToken,
) error {
	if s.ReturnError {
		return fmt.Errorf("could not send password reset token")
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, issued)
	return nil
}

func (s *FakePasswordResetTokenSender) LastSent() IssuedPasswordResetToken {
	s.lock.Lock()
	defer s.lock.Unlock()
	l := len(s.Sent)
	if l == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[l-1]
}

// FakePasswordResetTokenStore issues sequential tokens "reset-token-N" that
// never expire on their own.
type FakePasswordResetTokenStore struct {
	Tokens      map[PasswordResetToken]c.Email
	IssueError  error
	RedeemError error
	Now         func() time.Time
	TTL         time.Duration
	counter     int
	lock        sync.Mutex
}

func NewFakePasswordResetTokenStore(now func() time.Time) *FakePasswordResetTokenStore {
	return &FakePasswordResetTokenStore{
		Tokens: make(map[PasswordResetToken]c.Email),
		Now:    now,
		TTL:    DefaultPasswordResetTokenTTL,
	}
}

func (s *FakePasswordResetTokenStore) Issue(ctx context.Context, email c.Email) (IssuedPasswordResetToken, error) {
	if s.IssueError != nil {
		return IssuedPasswordResetToken{}, s.IssueError
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.counter++
	token := PasswordResetToken(fmt.Sprintf("reset-token-%d", s.counter))
	s.Tokens[token] = email
	return IssuedPasswordResetToken{Token: token, Email: email, ExpiresAt: s.Now().Add(s.TTL)}, nil
}

func (s *FakePasswordResetTokenStore) Redeem(
	ctx context.Context,
	token PasswordResetToken,
) (PasswordResetRedemption, error) {
	if s.RedeemError != nil {
		return NotRedeemed(), s.RedeemError
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	email, ok := s.Tokens[token]
	if !ok {
		return NotRedeemed(), nil
	}
	delete(s.Tokens, token)
	return Redeemed(email), nil
}
