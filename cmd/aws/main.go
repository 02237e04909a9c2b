package main

import (
	"authstation/internal/config"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const (
	passwordResetSubject = "Reset your password"
	passwordResetHtml    = `<p>Someone requested a password reset for your account.</p>
<p><a href="{{passwordResetUrl}}">Choose a new password</a></p>
<p>The link expires in {{expiresInMinutes}} minutes. If it was not you, ignore this email.</p>`
	passwordResetText = `Someone requested a password reset for your account.

Choose a new password: {{passwordResetUrl}}

The link expires in {{expiresInMinutes}} minutes. If it was not you, ignore this email.`
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: aws create-template | delete-template | send-test -to <email>")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.Load()
	exitOnError(err)
	svc := ses.NewFromConfig(loadAwsConfig(cfg))
	name := cfg.AwsEmailPasswordResetTemplate

	switch os.Args[1] {
	case "create-template":
		CreateEmailTemplate(svc, name, passwordResetSubject, passwordResetHtml, passwordResetText)
	case "delete-template":
		DeleteEmailTemplate(svc, name)
	case "send-test":
		flags := flag.NewFlagSet("send-test", flag.ExitOnError)
		to := flags.String("to", "", "recipient address")
		exitOnError(flags.Parse(os.Args[2:]))
		if *to == "" {
			usage()
		}
		args, err := json.Marshal(map[string]interface{}{
			"passwordResetUrl": cfg.PasswordResetURL.String() + "?token=test",
			"expiresInMinutes": int(cfg.PasswordResetTokenTTL.Minutes()),
		})
		exitOnError(err)
		SendEmailTemplate(svc, cfg.AwsEmailSender, *to, name, string(args))
	default:
		usage()
	}
}

func loadAwsConfig(cfg *config.Config) aws.Config {
	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(cfg.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AwsAccessKey,
				cfg.AwsSecretKey,
				"",
			),
		),
	)
	exitOnError(err)
	return awsCfg
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func CreateEmailTemplate(
	svc *ses.Client,
	name string,
	subject string,
	htmlPart string,
	textPart string,
) {
	input := &ses.CreateTemplateInput{
		Template: &types.Template{
			SubjectPart:  &subject,
			HtmlPart:     &htmlPart,
			TextPart:     &textPart,
			TemplateName: &name,
		},
	}
	result, err := svc.CreateTemplate(context.Background(), input)
	exitOnError(err)

	fmt.Println("Success:")
	fmt.Println(result)
}

func DeleteEmailTemplate(svc *ses.Client, name string) {
	result, err := svc.DeleteTemplate(
		context.Background(),
		&ses.DeleteTemplateInput{
			TemplateName: &name,
		},
	)
	exitOnError(err)

	fmt.Println("Success:")
	fmt.Println(result)
}

func SendEmailTemplate(svc *ses.Client, sender string, to string, name string, args string) {
	result, err := svc.SendTemplatedEmail(
		context.Background(),
		&ses.SendTemplatedEmailInput{
			Source: aws.String(sender),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{to},
			},
			Template:     &name,
			TemplateData: &args,
		},
	)
	exitOnError(err)

	fmt.Println("Success:")
	fmt.Println(result)
}
