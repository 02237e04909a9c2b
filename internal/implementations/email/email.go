package email

import (
	"authstation/internal/core/domain/user"
	"context"
	"encoding/json"
	"math"
	"net/url"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type EmailSender struct {
	ses *ses.Client
	// This address must be verified with Amazon SES.
	sender                string
	passwordResetTemplate string
	passwordResetBaseUrl  url.URL
	now                   func() time.Time
}

func NewEmailSender(
	awsConfig aws.Config,
	sender string,
	passwordResetTemplate string,
	passwordResetBaseUrl url.URL,
	now func() time.Time,
) *EmailSender {
	return &EmailSender{
		ses:                   ses.NewFromConfig(awsConfig),
		sender:                sender,
		passwordResetTemplate: passwordResetTemplate,
		passwordResetBaseUrl:  passwordResetBaseUrl,
		now:                   now,
	}
}

func (s *EmailSender) SendPasswordResetToken(ctx context.Context, issued user.IssuedPasswordResetToken) error {
	templateParamsBytes, err := json.Marshal(
		NewPasswordResetTemplateParams(s.passwordResetBaseUrl, issued, s.now()),
	)
	if err != nil {
		return err
	}
	templateParams := string(templateParamsBytes)

	email := string(issued.Email)
	_, err = s.ses.SendTemplatedEmail(
		ctx,
		&ses.SendTemplatedEmailInput{
			Source: &s.sender,
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{email},
			},
			Template:     &s.passwordResetTemplate,
			TemplateData: &templateParams,
		},
	)
	return err
}

type PasswordResetTemplateParams struct {
	PasswordResetUrl string `json:"passwordResetUrl"`
	ExpiresInMinutes int    `json:"expiresInMinutes"`
}

func NewPasswordResetTemplateParams(
	baseUrl url.URL,
	issued user.IssuedPasswordResetToken,
	now time.Time,
) PasswordResetTemplateParams {
	query := baseUrl.Query()
	query.Set("token", string(issued.Token))
	baseUrl.RawQuery = query.Encode()

	minutes := int(math.Ceil(issued.ExpiresAt.Sub(now).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	return PasswordResetTemplateParams{
		PasswordResetUrl: baseUrl.String(),
		ExpiresInMinutes: minutes,
	}
}
