// Package mailer delivers one-time login codes over authenticated SMTP
// submission with STARTTLS.
package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"librarydesk/config"
	"librarydesk/library"
)

// New returns a code sender for the given SMTP settings. With no host
// configured, the returned sender reports every delivery as failed so
// login attempts surface a clear message instead of waiting for a code
// that never arrives.
func New(cfg config.SMTP, log *slog.Logger) library.CodeSender {
	if strings.TrimSpace(cfg.Host) == "" {
		return disabledSender{}
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &smtpSender{cfg: cfg, from: from, log: log}
}

type smtpSender struct {
	cfg  config.SMTP
	from string
	log  *slog.Logger
}

func (m *smtpSender) SendCode(ctx context.Context, email, code string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, m.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
		return fmt.Errorf("starttls: %w", err)
	}
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("smtp auth: %w", err)
	}

	if err := client.Mail(m.from); err != nil {
		return fmt.Errorf("smtp mail: %w", err)
	}
	if err := client.Rcpt(email); err != nil {
		return fmt.Errorf("smtp rcpt: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(Message(m.from, email, code)); err != nil {
		w.Close()
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish message: %w", err)
	}

	m.log.Info("one-time code delivered", "to", email)
	return client.Quit()
}

// Message renders the RFC 5322 message carrying the code.
func Message(from, to, code string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Library Login Code\r\n")
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Your library login code is: %s\r\n", code)
	return []byte(b.String())
}

type disabledSender struct{}

func (disabledSender) SendCode(context.Context, string, string) error {
	return errors.New("mail delivery is not configured")
}
