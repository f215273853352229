package domain

import (
	"context"
	"math"
	"time"
)

// ReminderLeadDays is the reminder window: reminders go out only when the event starts in fewer days than this.
const ReminderLeadDays = 5

// Reminder plan statuses.
const (
	ReminderStatusSent           = "Recordatorio enviado"
	ReminderStatusNoParticipants = "No hay participantes para enviar recordatorios"
)

// ReminderMessage is one participant's rendered reminder.
// swagger:model ReminderMessage
type ReminderMessage struct {
	Correo  string `json:"correo"`
	Mensaje string `json:"mensaje"`
	Subject string `json:"-"`
	HTML    string `json:"-"`
}

// ReminderPlan is the outcome of evaluating an event for reminders.
// swagger:model ReminderPlan
type ReminderPlan struct {
	EventID       string            `json:"eventId"`
	Status        string            `json:"message"`
	Participantes []ReminderMessage `json:"participantes"`
	Fallidos      []string          `json:"fallidos,omitempty"`
}

// ReminderEmailData holds data for the reminder template.
type ReminderEmailData struct {
	Correo     string
	Titulo     string
	FechaLocal string
	EventID    string
}

// DaysUntil returns floor((start - now) / 24h). Past events yield negative values.
func DaysUntil(start, now time.Time) int {
	return int(math.Floor(start.Sub(now).Hours() / 24))
}

// ReminderEvaluator decides whether reminders may be sent for an event and renders them.
type ReminderEvaluator interface {
	Evaluate(event *Event, now time.Time) (*ReminderPlan, error)
}

// ReminderDispatcher delivers a rendered reminder. Delivery is outside this service; the default is a no-op.
type ReminderDispatcher interface {
	SendReminder(ctx context.Context, msg *ReminderMessage) error
}
