package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode     bool     `env:"TEST_MODE" envDefault:"false"`
	Port           uint16   `env:"PORT" envDefault:"9090"`
	Secret         string   `env:"SECRET,required,notEmpty"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	PostgresqlURL string `env:"POSTGRESQL_URL,required,notEmpty"`

	RedisURL          string `env:"REDIS_URL,required,notEmpty"`
	RedisGetDelScript bool   `env:"REDIS_GETDEL_SCRIPT" envDefault:"false"`

	RabbitmqURL                string `env:"RABBITMQ_URL,required,notEmpty"`
	RabbitmqPasswordResetQueue string `env:"RABBITMQ_PASSWORD_RESET_QUEUE" envDefault:"password_reset_email"`

	BcryptHasherCost int `env:"BCRYPT_HASHER_COST" envDefault:"10"`

	PasswordResetTokenTTL        time.Duration `env:"PASSWORD_RESET_TOKEN_TTL" envDefault:"10m"`
	PasswordResetTokenLength     int           `env:"PASSWORD_RESET_TOKEN_LENGTH" envDefault:"32"`
	PasswordResetSingleLiveToken bool          `env:"PASSWORD_RESET_SINGLE_LIVE_TOKEN" envDefault:"false"`
	PasswordResetURL             url.URL       `env:"PASSWORD_RESET_URL,required,notEmpty"`
	PasswordResetRateLimitPerMin uint16        `env:"PASSWORD_RESET_RATE_LIMIT_PER_MINUTE" envDefault:"3"`
	LoginRateLimitPerMin         uint16        `env:"LOGIN_RATE_LIMIT_PER_MINUTE" envDefault:"5"`

	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"5m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`
	JwtIssuer       string        `env:"JWT_ISSUER" envDefault:"authstation"`
	JwtAudience     string        `env:"JWT_AUDIENCE" envDefault:"authstation"`

	AwsRegion                     string `env:"AWS_REGION" envDefault:"eu-central-1"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"PasswordReset"`

	SentryDsn *url.URL `env:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PasswordResetTokenTTL <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TOKEN_TTL must be positive")
	}
	if c.PasswordResetTokenLength < 1 {
		return fmt.Errorf("PASSWORD_RESET_TOKEN_LENGTH must be positive")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL and REFRESH_TOKEN_TTL must be positive")
	}
	if c.BcryptHasherCost < 4 || c.BcryptHasherCost > 31 {
		return fmt.Errorf("BCRYPT_HASHER_COST must be in range [4, 31]")
	}
	if len(c.Secret) < 16 {
		return fmt.Errorf("SECRET must be at least 16 characters long")
	}
	return nil
}
