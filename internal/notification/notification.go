package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/ateliernoir/storefront-backend/internal/payment"
)

// Sender delivers one plain-text message to one recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPSender(host, port, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: host + ":" + port,
		auth: auth,
		from: from,
	}
}

func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	return smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg))
}

// LogSender writes messages to the log instead of delivering them.
// Used when no SMTP relay is configured.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	if log == nil {
		log = slog.Default()
	}
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, to, subject, _ string) error {
	s.log.Info("notification suppressed, no relay configured",
		slog.String("to", to),
		slog.String("subject", subject),
	)
	return nil
}

// Service composes and dispatches customer-facing messages.
type Service struct {
	sender Sender
}

func NewService(sender Sender) *Service {
	return &Service{sender: sender}
}

func (s *Service) SendPaymentConfirmation(ctx context.Context, recipient string, p payment.Payment) error {
	subject := fmt.Sprintf("Order %s confirmed", p.OrderNumber)
	body := fmt.Sprintf(
		"Hello,\n\n"+
			"We have received your payment of %s %s for order %s.\n"+
			"Your booking reference is %s.\n\n"+
			"We will let you know as soon as your order ships.\n\n"+
			"Atelier Noir",
		strings.ToUpper(p.Currency), p.Amount.StringFixed(2), p.OrderNumber, p.BookingReference,
	)
	return s.sender.Send(ctx, recipient, subject, body)
}
