package services

import (
	"fmt"
	"strings"
	"time"

	"eventosapi/internal/domain"
)

// localDateLayout renders the event start the way the reminder reads it ("1/3/2025, 12:00:00").
const localDateLayout = "2/1/2006, 15:04:05"

type reminderEvaluator struct {
	renderer domain.EmailTemplateRenderer
	loc      *time.Location
}

// NewReminderEvaluator returns a ReminderEvaluator that renders messages with the "reminder" template
// and shows the start time in loc (UTC when nil).
func NewReminderEvaluator(renderer domain.EmailTemplateRenderer, loc *time.Location) domain.ReminderEvaluator {
	if loc == nil {
		loc = time.UTC
	}
	return &reminderEvaluator{renderer: renderer, loc: loc}
}

// Evaluate is pure: it only decides and renders. Every participant gets a message, confirmed or not.
func (r *reminderEvaluator) Evaluate(event *domain.Event, now time.Time) (*domain.ReminderPlan, error) {
	if event.FechaInicio.IsZero() {
		return nil, domain.ErrInvalidEventDate
	}
	days := domain.DaysUntil(event.FechaInicio, now)
	if days >= domain.ReminderLeadDays {
		return nil, fmt.Errorf("%w: event starts in %d days", domain.ErrReminderWindowNotOpen, days)
	}

	plan := &domain.ReminderPlan{
		EventID:       event.ID,
		Participantes: make([]domain.ReminderMessage, 0, len(event.Participantes)),
	}
	if len(event.Participantes) == 0 {
		plan.Status = domain.ReminderStatusNoParticipants
		return plan, nil
	}

	fecha := event.FechaInicio.In(r.loc).Format(localDateLayout)
	for _, p := range event.Participantes {
		subject, html, text, err := r.renderer.Render("reminder", &domain.ReminderEmailData{
			Correo:     p.Correo,
			Titulo:     event.Titulo,
			FechaLocal: fecha,
			EventID:    event.ID,
		})
		if err != nil {
			return nil, fmt.Errorf("render reminder for %s: %w", p.Correo, err)
		}
		plan.Participantes = append(plan.Participantes, domain.ReminderMessage{
			Correo:  p.Correo,
			Mensaje: strings.TrimSpace(text),
			Subject: subject,
			HTML:    html,
		})
	}
	plan.Status = domain.ReminderStatusSent
	return plan, nil
}
