package randomstringgenerator

import (
	e "authstation/internal/core/domain/errors"
	"authstation/internal/core/domain/user"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	DefaultLength      = 32
	RefreshTokenLength = 32
)

var chars = []byte("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// Generator draws characters uniformly from [A-Za-z0-9] using crypto/rand.
type Generator struct {
	reader                   io.Reader
	passwordResetTokenLength int
}

func NewGenerator(passwordResetTokenLength int) *Generator {
	if passwordResetTokenLength < 1 {
		panic(e.NewInvalidArgumentError("passwordResetTokenLength", "must be positive"))
	}
	return &Generator{reader: rand.Reader, passwordResetTokenLength: passwordResetTokenLength}
}

func (g *Generator) Generate(length int) (string, error) {
	if length < 1 {
		return "", e.NewInvalidArgumentError("length", "must be positive")
	}
	max := big.NewInt(int64(len(chars)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(g.reader, max)
		if err != nil {
			return "", fmt.Errorf("%w: %v", user.ErrEntropySourceFailure, err)
		}
		b[i] = chars[n.Int64()]
	}
	return string(b), nil
}

func (g *Generator) GeneratePasswordResetToken() (user.PasswordResetToken, error) {
	s, err := g.Generate(g.passwordResetTokenLength)
	return user.PasswordResetToken(s), err
}

func (g *Generator) GenerateRefreshToken() (user.RefreshToken, error) {
	s, err := g.Generate(RefreshTokenLength)
	return user.RefreshToken(s), err
}
