package services

import (
	"context"
	"fmt"
	"log/slog"

	"eventosapi/internal/domain"
)

type emailService struct {
	logger *slog.Logger
	mailer domain.Mailer
}

// NewEmailService returns a ReminderDispatcher that delivers rendered reminders through the given Mailer.
func NewEmailService(logger *slog.Logger, mailer domain.Mailer) domain.ReminderDispatcher {
	return &emailService{logger: logger, mailer: mailer}
}

// SendReminder sends one participant's reminder using the subject and bodies rendered by the evaluator.
func (s *emailService) SendReminder(ctx context.Context, msg *domain.ReminderMessage) error {
	if msg == nil {
		return fmt.Errorf("reminder message is nil")
	}
	if err := s.mailer.Send(msg.Correo, msg.Subject, msg.HTML, msg.Mensaje); err != nil {
		s.logger.WarnContext(ctx, "reminder email failed", "to", msg.Correo, "err", err)
		return fmt.Errorf("failed to send reminder email: %w", err)
	}
	s.logger.InfoContext(ctx, "reminder email sent", "to", msg.Correo)
	return nil
}
