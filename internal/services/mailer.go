package services

import (
	"fmt"
	"net/smtp"

	"github.com/commercia/commercia-backend/internal/apperrors"
	"github.com/commercia/commercia-backend/internal/config"
)

// EmailSender dispatches verification emails. Registration treats send
// failures as non-fatal, so implementations only need to report them.
type EmailSender interface {
	SendVerificationEmail(email, code string) error
}

// SMTPMailer sends verification emails over plain-auth SMTP (Mailtrap in
// development).
type SMTPMailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
		user: cfg.SMTPUser,
		pass: cfg.SMTPPass,
		from: cfg.FromEmail,
	}
}

func (m *SMTPMailer) SendVerificationEmail(email, code string) error {
	if m.host == "" || m.port == "" || m.user == "" || m.pass == "" {
		return apperrors.Delivery("email service is not configured")
	}

	msg := []byte(
		fmt.Sprintf("From: %s\r\n", m.from) +
			fmt.Sprintf("To: %s\r\n", email) +
			"Subject: Verify your email\r\n" +
			"\r\n" +
			fmt.Sprintf("Your verification code is %s", code),
	)

	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{email}, msg); err != nil {
		return apperrors.Delivery("failed to send verification email: " + err.Error())
	}
	return nil
}
