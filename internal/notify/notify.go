package notify

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/yukikurage/club-backoffice/internal/config"
)

// Email is a single outgoing notification.
type Email struct {
	To       string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

// Notifier delivers emails.
type Notifier interface {
	Send(ctx context.Context, email Email) error
}

// Nop drops every email. It is used when no mail provider is configured.
type Nop struct{}

// Send implements Notifier.
func (Nop) Send(_ context.Context, email Email) error {
	log.Printf("Skipping email send (mail disabled): to=%s, subject=%s", email.To, email.Subject)
	return nil
}

// New builds the notifier selected by MAIL_PROVIDER.
func New(ctx context.Context, cfg *config.Config) (Notifier, error) {
	switch cfg.MailProvider {
	case "smtp":
		port, err := strconv.Atoi(cfg.SMTPPort)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", cfg.SMTPPort, err)
		}
		from := cfg.MailFrom
		if from == "" {
			from = cfg.SMTPUser
		}
		log.Printf("Mail enabled: provider=smtp, host=%s, from=%s", cfg.SMTPHost, from)
		return NewSMTP(cfg.SMTPHost, port, cfg.SMTPUser, cfg.SMTPPassword, from, cfg.MailFromName), nil
	case "ses":
		if cfg.MailFrom == "" {
			return nil, fmt.Errorf("MAIL_FROM is required for the ses provider")
		}
		log.Printf("Mail enabled: provider=ses, region=%s, from=%s", cfg.AWSRegion, cfg.MailFrom)
		return NewSES(ctx, cfg.AWSRegion, cfg.MailFrom, cfg.MailFromName)
	case "", "none":
		log.Println("Mail disabled: MAIL_PROVIDER not configured")
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.MailProvider)
	}
}

func fromAddress(email, name string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
