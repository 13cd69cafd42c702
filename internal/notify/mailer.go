// Package notify sends best-effort email notifications to the sales team.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/verzel/leadflow/internal/config"
	"github.com/verzel/leadflow/internal/lead"
)

// Mailer emails the sales team when a meeting is booked. When SMTP is not
// configured every send is a silent no-op.
type Mailer struct {
	cfg    config.NotifyConfig
	logger *slog.Logger
}

// NewMailer builds a Mailer from config.
func NewMailer(log *slog.Logger, cfg config.NotifyConfig) *Mailer {
	if log == nil {
		log = slog.Default()
	}
	return &Mailer{
		cfg:    cfg,
		logger: log.With(slog.String("service", "notify")),
	}
}

// Enabled reports whether SMTP delivery is configured.
func (m *Mailer) Enabled() bool {
	return m.cfg.Host != "" && m.cfg.From != "" && m.cfg.To != ""
}

// MeetingBooked notifies the sales team about a new booking. Errors are
// logged, never returned: a mail outage must not fail the booking.
func (m *Mailer) MeetingBooked(ctx context.Context, record lead.Record) {
	if !m.Enabled() {
		return
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		m.logger.Warn("invalid from address", slog.String("error", err.Error()))
		return
	}
	if err := msg.To(m.cfg.To); err != nil {
		m.logger.Warn("invalid to address", slog.String("error", err.Error()))
		return
	}
	msg.Subject(fmt.Sprintf("Nova reunião agendada: %s", record.Name))
	msg.SetBodyString(mail.TypeTextPlain, meetingBody(record))

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		m.logger.Warn("mail client setup failed", slog.String("error", err.Error()))
		return
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Warn("meeting notification failed", slog.String("error", err.Error()))
		return
	}
	m.logger.Info("meeting notification sent", slog.String("lead", record.Email))
}

func meetingBody(record lead.Record) string {
	start := ""
	if record.MeetingStart != nil {
		start = record.MeetingStart.Format(time.RFC3339)
	}
	return fmt.Sprintf(
		"Lead: %s <%s>\nEmpresa: %s\nTelefone: %s\nNecessidade: %s\nPrazo: %s\nInício: %s\nLink: %s\n",
		record.Name,
		record.Email,
		record.Company,
		record.Phone,
		record.Need,
		record.Deadline,
		start,
		record.MeetingLink,
	)
}
