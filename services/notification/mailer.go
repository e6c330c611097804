package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/joelbobai/Manzo-BE/models"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier dispatches booking emails. The saga treats both calls as
// best-effort: a failed send is logged, never fatal.
type Notifier interface {
	SendReservationNotice(ctx context.Context, order map[string]interface{}, travelers []models.Traveler) error
	SendIssuanceConfirmation(ctx context.Context, order map[string]interface{}, travelers []models.Traveler) error
}

// MailConfig holds the SMTP transport settings for the no-reply
// sender.
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// Operator receives a copy of every confirmation.
	Operator string
}

// SMTPNotifier renders and sends booking emails over SMTP.
type SMTPNotifier struct {
	cfg    MailConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

// NewSMTPNotifier builds the production notifier.
func NewSMTPNotifier(cfg MailConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		logger: logger,
	}
}

// SendReservationNotice emails the booking-reserved notice.
func (n *SMTPNotifier) SendReservationNotice(ctx context.Context, order map[string]interface{}, travelers []models.Traveler) error {
	body, err := RenderReservationNotice(order)
	if err != nil {
		return err
	}
	return n.send(ctx, "Your flight reservation with Manzo Travels", body, travelers)
}

// SendIssuanceConfirmation emails the ticket-issued confirmation.
func (n *SMTPNotifier) SendIssuanceConfirmation(ctx context.Context, order map[string]interface{}, travelers []models.Traveler) error {
	body, err := RenderIssuanceConfirmation(order)
	if err != nil {
		return err
	}
	return n.send(ctx, "Your Manzo Travels ticket has been issued", body, travelers)
}

func (n *SMTPNotifier) send(ctx context.Context, subject, body string, travelers []models.Traveler) error {
	recipients := Recipients(travelers, n.cfg.Operator)
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients for notification")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.cfg.User)
	msg.SetHeader("To", recipients...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	// gomail has no context support; honor cancellation before the
	// dial at least.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := n.dialer.DialAndSend(msg); err != nil {
		n.logger.Error("failed to send notification email",
			zap.String("subject", subject),
			zap.Int("recipients", len(recipients)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send notification email: %w", err)
	}

	n.logger.Info("notification email sent",
		zap.String("subject", subject),
		zap.Int("recipients", len(recipients)),
	)
	return nil
}

// Recipients returns the deduplicated traveler email set plus the
// operator address. Travelers without an email contribute nothing.
func Recipients(travelers []models.Traveler, operator string) []string {
	seen := make(map[string]bool)
	var recipients []string

	add := func(addr string) {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			return
		}
		key := strings.ToLower(addr)
		if seen[key] {
			return
		}
		seen[key] = true
		recipients = append(recipients, addr)
	}

	add(operator)
	for _, t := range travelers {
		add(t.Contact.EmailAddress)
	}
	return recipients
}
