package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// sesAPI is the part of the SES client the notifier uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SES sends email through Amazon SES.
type SES struct {
	client   sesAPI
	from     string
	fromName string
}

// NewSES loads the default AWS configuration for region and creates an SES notifier.
func NewSES(ctx context.Context, region, from, fromName string) (*SES, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SES{
		client:   sesv2.NewFromConfig(cfg),
		from:     from,
		fromName: fromName,
	}, nil
}

// Send implements Notifier.
func (s *SES) Send(ctx context.Context, email Email) error {
	body := &types.Body{
		Text: &types.Content{
			Data:    aws.String(email.TextBody),
			Charset: aws.String("UTF-8"),
		},
	}
	if email.HTMLBody != "" {
		body.Html = &types.Content{
			Data:    aws.String(email.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress(s.from, s.fromName)),
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(email.Subject),
					Charset: aws.String("UTF-8"),
				},
				Body: body,
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", email.To, err)
	}

	if result.MessageId != nil {
		log.Printf("Email sent: to=%s, subject=%s, id=%s", email.To, email.Subject, *result.MessageId)
	}
	return nil
}
