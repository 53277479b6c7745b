package services

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"crmdesk/internal/config"
	"crmdesk/internal/models"
)

// Sender delivers a composed message; *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailNotifier struct {
	sender Sender
	from   string
	to     string
}

// NewEmailNotifier returns nil when SMTP or the sales inbox is not configured.
func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	if cfg.SMTPHost == "" || cfg.SalesInbox == "" {
		return nil
	}
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	return NewEmailNotifierWithSender(dialer, cfg.FromEmail, cfg.SalesInbox)
}

func NewEmailNotifierWithSender(sender Sender, from, to string) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, to: to}
}

func (s *EmailNotifier) NotifyNewLead(ctx context.Context, lead *models.Lead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Reply-To", lead.Email)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s", lead.Name))
	m.SetBody("text/html", leadEmailBody(lead))

	if err := s.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send lead email: %w", err)
	}
	return nil
}

func leadEmailBody(lead *models.Lead) string {
	phone, source := "-", "-"
	if lead.Phone != nil {
		phone = *lead.Phone
	}
	if lead.Source != nil {
		source = *lead.Source
	}
	return fmt.Sprintf(`
		<h2>New lead #%d</h2>
		<p><strong>Name:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Phone:</strong> %s</p>
		<p><strong>Source:</strong> %s</p>
		<p>Received %s</p>
	`, lead.ID, html.EscapeString(lead.Name), html.EscapeString(lead.Email),
		html.EscapeString(phone), html.EscapeString(source),
		lead.CreatedAt.Format("2006-01-02 15:04 MST"))
}
