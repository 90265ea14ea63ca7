package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/club-backoffice/internal/config"
	"gopkg.in/gomail.v2"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, params *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSES_Send(t *testing.T) {
	fake := &fakeSES{}
	n := &SES{client: fake, from: "club@example.com", fromName: "Club"}

	err := n.Send(context.Background(), Email{
		To:       "parent@example.com",
		Subject:  "New message",
		TextBody: "hello",
	})
	require.NoError(t, err)

	require.NotNil(t, fake.input)
	assert.Equal(t, "Club <club@example.com>", *fake.input.FromEmailAddress)
	assert.Equal(t, []string{"parent@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "New message", *fake.input.Content.Simple.Subject.Data)
	assert.Equal(t, "hello", *fake.input.Content.Simple.Body.Text.Data)
	assert.Nil(t, fake.input.Content.Simple.Body.Html)
}

func TestSES_SendError(t *testing.T) {
	n := &SES{client: &fakeSES{err: errors.New("throttled")}, from: "club@example.com"}

	err := n.Send(context.Background(), Email{To: "a@example.com", Subject: "s", TextBody: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a@example.com")
}

func TestNew_SelectsProvider(t *testing.T) {
	n, err := New(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)

	n, err = New(context.Background(), &config.Config{
		MailProvider: "smtp",
		SMTPHost:     "localhost",
		SMTPPort:     "2525",
		MailFrom:     "club@example.com",
	})
	require.NoError(t, err)
	assert.IsType(t, &SMTP{}, n)

	_, err = New(context.Background(), &config.Config{MailProvider: "smtp", SMTPPort: "abc"})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{MailProvider: "pigeon"})
	assert.Error(t, err)

	_, err = New(context.Background(), &config.Config{MailProvider: "ses"})
	assert.Error(t, err)
}

func TestSMTP_SendHonoursContext(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	n := &SMTP{
		send: func(...*gomail.Message) error {
			<-release
			return nil
		},
		from: "club@example.com",
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := n.Send(ctx, Email{To: "parent@example.com", Subject: "Hi", TextBody: "Hello"})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	err = n.Send(ctx, Email{To: "parent@example.com", Subject: "Hi", TextBody: "Hello"})
	require.ErrorIs(t, err, context.DeadlineExceeded, "an expired context skips the relay")
}

func TestSMTP_SendReportsRelayError(t *testing.T) {
	n := &SMTP{
		send: func(...*gomail.Message) error {
			return errors.New("550 mailbox unavailable")
		},
		from: "club@example.com",
	}

	err := n.Send(context.Background(), Email{To: "parent@example.com", Subject: "Hi", TextBody: "Hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent@example.com")
}

func TestBuildMessage_Headers(t *testing.T) {
	m := buildMessage("Club <club@example.com>", Email{
		To:       "parent@example.com",
		ToName:   "Pat Parent",
		Subject:  "Training moved",
		TextBody: "See you at 18:00",
	})

	assert.Equal(t, []string{"Training moved"}, m.GetHeader("Subject"))
	assert.Equal(t, []string{"Club <club@example.com>"}, m.GetHeader("From"))
	require.Len(t, m.GetHeader("To"), 1)
	assert.Contains(t, m.GetHeader("To")[0], "parent@example.com")
}
