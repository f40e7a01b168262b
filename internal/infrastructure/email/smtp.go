package email

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"github.com/Saaayurii/Chat-sub000/internal/shared/services/markdown"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTPEmailService struct {
	config   SMTPConfig
	dialer   sender
	renderer *markdown.Renderer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config:   config,
		dialer:   gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		renderer: markdown.New(),
	}
}

// Send delivers body as plain text with an HTML alternative rendered from
// its markdown. If rendering fails the HTML part is the escaped text.
func (s *SMTPEmailService) Send(ctx context.Context, recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := s.renderer.ToHTML(body)
	if err != nil {
		content = fmt.Sprintf(`<pre style="font-family: sans-serif; white-space: pre-wrap">%s</pre>`, html.EscapeString(body))
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			%s
		</body>
		</html>
	`, content)

	return s.sendEmail(recipients, subject, htmlBody, body)
}

func (s *SMTPEmailService) sendEmail(to []string, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	if s.config.FromName != "" {
		m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	} else {
		m.SetHeader("From", s.config.FromAddress)
	}
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
