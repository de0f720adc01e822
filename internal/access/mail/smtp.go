// Package mail delivers invite notifications over SMTP. Delivery is
// best-effort by contract: callers treat a failure as "share the link
// manually", never as an invite failure.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/techacademialendaria/lendarios-access/internal/access/service"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer implements service.Mailer over plain SMTP.
type SMTPMailer struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendInvite(ctx context.Context, msg service.InviteEmail) error {
	var body bytes.Buffer
	if err := inviteTemplate.Execute(&body, msg); err != nil {
		return fmt.Errorf("render invite email: %w", err)
	}

	subject := fmt.Sprintf("You have been invited as %s", msg.RoleDisplayName)
	return m.send(msg.RecipientEmail, subject, body.String())
}

func (m *SMTPMailer) send(to, subject, htmlBody string) error {
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s\r\n%s", to, subject, mime, htmlBody))

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg)
}
