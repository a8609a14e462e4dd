// Package mailer sends the workflow's outbound email (join-request and
// kick notifications) over SMTP. Delivery is best-effort: a failed send is
// logged and never fails the membership operation that triggered it.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is one outbound message.
type Email struct {
	To       string
	Subject  string
	TextBody string
}

// Mailer sends email through a configured SMTP server (Mailpit locally,
// SES SMTP or similar in production).
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
	log      *zap.Logger
}

// New creates a Mailer. An empty host disables sending; Send becomes a
// logged no-op so local setups work without an SMTP server.
func New(host string, port int, username, password, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
		log:      logger,
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers one message. Plain-text only; the client renders nothing
// fancier than a notification.
func (m *Mailer) Send(e Email) error {
	if !m.Enabled() {
		m.log.Debug("mailer disabled; dropping email",
			zap.String("to", e.To),
			zap.String("subject", e.Subject))
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", m.fromName, m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", e.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", e.Subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(e.TextBody)

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	// Mailpit and other dev servers run without auth.
	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	if err := smtp.SendMail(addr, auth, m.from, []string{e.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", e.To, err)
	}
	return nil
}

// SendAsync sends in a goroutine and logs failure. Handlers call this so a
// slow SMTP server never delays an API response.
func (m *Mailer) SendAsync(e Email) {
	go func() {
		if err := m.Send(e); err != nil {
			m.log.Warn("email send failed",
				zap.String("to", e.To),
				zap.String("subject", e.Subject),
				zap.Error(err))
		}
	}()
}
