package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTP sends email through an SMTP relay.
type SMTP struct {
	send     func(...*gomail.Message) error
	from     string
	fromName string
}

// NewSMTP creates an SMTP notifier.
func NewSMTP(host string, port int, user, password, from, fromName string) *SMTP {
	return &SMTP{
		send:     gomail.NewDialer(host, port, user, password).DialAndSend,
		from:     from,
		fromName: fromName,
	}
}

// Send implements Notifier. gomail has no context support, so a relay that
// outlives ctx is abandoned and finishes in the background.
func (s *SMTP) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := buildMessage(fromAddress(s.from, s.fromName), email)
	done := make(chan error, 1)
	go func() {
		done <- s.send(message)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email to %s: %w", email.To, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email to %s: %w", email.To, ctx.Err())
	}
}

func buildMessage(from string, email Email) *gomail.Message {
	message := gomail.NewMessage()
	message.SetHeader("From", from)
	if email.ToName != "" {
		message.SetAddressHeader("To", email.To, email.ToName)
	} else {
		message.SetHeader("To", email.To)
	}
	message.SetHeader("Subject", email.Subject)
	message.SetBody("text/plain", email.TextBody)
	if email.HTMLBody != "" {
		message.AddAlternative("text/html", email.HTMLBody)
	}
	return message
}
