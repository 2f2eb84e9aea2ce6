package alert

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"inventory.GO/config"
)

// Message is a single plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer picks the transport named by MAIL_BACKEND.
func NewMailer(cfg config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Backend {
	case "", "console":
		return &LogMailer{From: cfg.From, Logger: logger}, nil
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("MAIL_BACKEND=smtp requires SMTP_HOST")
		}
		return &SMTPMailer{
			From:   cfg.From,
			Dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		}, nil
	}
	return nil, fmt.Errorf("unknown MAIL_BACKEND %q", cfg.Backend)
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	From   string
	Logger *zap.Logger
}

func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.Logger != nil {
		m.Logger.Info("email",
			zap.String("from", m.From),
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.String("body", msg.Body),
		)
	}
	return nil
}

type SMTPMailer struct {
	From   string
	Dialer *gomail.Dialer
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gm := gomail.NewMessage()
	gm.SetHeader("From", m.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)
	if err := m.Dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}
