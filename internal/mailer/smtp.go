package mailer

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/statusdeck/statusdeck/internal/config"
)

// SMTPMailer delivers mail through a plain-auth SMTP relay. Port 465 uses
// implicit TLS; other ports go through smtp.SendMail.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		from:     cfg.EmailFrom,
	}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	if m.host == "" || m.username == "" || m.password == "" {
		return fmt.Errorf("SMTP configuration is incomplete")
	}

	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	message := m.buildMessage(to, subject, htmlBody)

	if m.port == "465" {
		return m.sendWithTLS(addr, auth, to, []byte(message))
	}

	return smtp.SendMail(addr, auth, m.fromAddress(), []string{to}, []byte(message))
}

func (m *SMTPMailer) sendWithTLS(addr string, auth smtp.Auth, to string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: m.host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		return err
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return err
	}

	if err = client.Mail(m.fromAddress()); err != nil {
		return err
	}

	if err = client.Rcpt(to); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	defer w.Close()

	_, err = w.Write(msg)
	return err
}

func (m *SMTPMailer) buildMessage(to, subject, htmlBody string) string {
	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("From: %s\r\n", m.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	return msg.String()
}

// fromAddress strips an optional display name ("Name <addr>") down to the
// bare address required by the SMTP envelope.
func (m *SMTPMailer) fromAddress() string {
	if open := strings.Index(m.from, "<"); open != -1 {
		if end := strings.Index(m.from, ">"); end > open {
			return m.from[open+1 : end]
		}
	}

	return m.from
}
