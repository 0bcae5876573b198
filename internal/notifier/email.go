// Package notifier delivers best-effort alerts. Delivery failures are logged
// and swallowed; a broken side channel must never affect the bot loop.
package notifier

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"sentiment-trading-bot/internal/interfaces"
	"sentiment-trading-bot/internal/logger"
)

// EmailConfig configures the SMTP notifier. Password comes from the
// environment, never from the config file.
type EmailConfig struct {
	Enabled  bool
	From     string
	To       string
	Password string
	Host     string
	Port     int
}

// EmailNotifier sends plain-text mail over implicit TLS.
type EmailNotifier struct {
	cfg EmailConfig
}

var _ interfaces.Notifier = (*EmailNotifier)(nil)

func NewEmail(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

// Notify sends one message. Fire and forget: every failure is logged and
// dropped, nothing propagates.
func (n *EmailNotifier) Notify(ctx context.Context, subject, body string) {
	if !n.cfg.Enabled {
		return
	}
	if err := n.send(subject, body); err != nil {
		logger.ErrorWithErr(ctx, "Email notification failed", err, "subject", subject)
		return
	}
	logger.Info(ctx, "Email sent", "subject", subject)
}

func (n *EmailNotifier) send(subject, body string) error {
	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: n.cfg.Host})
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	client, err := smtp.NewClient(conn, n.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Close()

	auth := smtp.PlainAuth("", n.cfg.From, n.cfg.Password, n.cfg.Host)
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := client.Mail(n.cfg.From); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := client.Rcpt(n.cfg.To); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.cfg.From, n.cfg.To, subject, body)
	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return client.Quit()
}
