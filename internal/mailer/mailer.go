package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/sirupsen/logrus"

	"github.com/phoenixchat/phoenix/internal/config"
)

// Mailer delivers account verification emails.
type Mailer interface {
	SendVerification(to, username, verificationURL string) error
}

// New returns an SMTP mailer when the transport is configured, otherwise a
// mailer that logs the verification link.
func New(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" || cfg.SMTPUser == "" || cfg.SMTPPass == "" {
		logrus.Warn("SMTP not configured, verification emails will be logged")
		return &LogMailer{}
	}
	return &SMTPMailer{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		from: "noreply@phoenix.local",
	}
}

type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func (m *SMTPMailer) SendVerification(to, username, verificationURL string) error {
	body := fmt.Sprintf("From: \"PhoeniX\" <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: Verify your email - PhoeniX\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=utf-8\r\n"+
		"\r\n"+
		"<h2>Verify your PhoeniX account</h2>"+
		"<p>Hi %s,</p>"+
		"<p>Please verify your email by clicking the link below:</p>"+
		"<p><a href=\"%s\">%s</a></p>"+
		"<p>This link expires in 24 hours.</p>"+
		"<p>- PhoeniX</p>\r\n",
		m.from, to, username, verificationURL, verificationURL,
	)

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(body)); err != nil {
		return fmt.Errorf("sending verification email: %w", err)
	}
	return nil
}

// LogMailer prints the verification link instead of sending it. Used in
// development and in tests.
type LogMailer struct{}

func (m *LogMailer) SendVerification(to, username, verificationURL string) error {
	logrus.WithFields(logrus.Fields{
		"to":   to,
		"link": verificationURL,
	}).Info("verification email")
	return nil
}
