package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/cyberfit/membership-service/internal/config"
)

// Notifier delivers account emails. The transport is an external
// collaborator; only the reset-link message is needed today.
type Notifier interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// SMTPNotifier sends mail over plain SMTP with optional auth.
type SMTPNotifier struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewSMTPNotifier builds the notifier from mail configuration.
func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return &SMTPNotifier{
		host:     strings.TrimSpace(cfg.Host),
		port:     strings.TrimSpace(cfg.Port),
		username: cfg.Username,
		password: cfg.Password,
		from:     strings.TrimSpace(cfg.From),
	}
}

// SendPasswordReset emails the reset link to the account address.
func (m *SMTPNotifier) SendPasswordReset(ctx context.Context, email, link string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	subject := "CyberFit - Redefinir Senha"
	body := fmt.Sprintf("Clique no link para redefinir sua senha: %s\n\nSe você não solicitou isso, ignore este e-mail.", link)

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", email))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	message.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")
	message.WriteString(body)
	message.WriteString("\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{email}, []byte(message.String()))
}
