package domain

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Participant is an attendee record embedded in an Event. Correo is its identity within the event.
// swagger:model Participant
type Participant struct {
	Correo               string `json:"correo"`
	AsistenciaConfirmada bool   `json:"asistenciaConfirmada"`
}

// Event represents a schedulable occurrence with a capacity and a participant roster.
// swagger:model Event
type Event struct {
	ID                 string        `json:"id"`
	Titulo             string        `json:"titulo"`
	FechaInicio        time.Time     `json:"fechaInicio"`
	FechaFin           *time.Time    `json:"fechaFin"`
	CapacidadMaxima    int           `json:"capacidadMaxima"`
	LugaresDisponibles int           `json:"lugaresDisponibles"`
	Participantes      []Participant `json:"participantes"`
}

// NewEvent returns a new Event with the given fields. ID is set by the repository on create and
// LugaresDisponibles by the capacity reconciliation.
func NewEvent(titulo string, fechaInicio time.Time, fechaFin *time.Time, capacidadMaxima int, participantes []Participant) *Event {
	if participantes == nil {
		participantes = []Participant{}
	}
	return &Event{
		Titulo:          titulo,
		FechaInicio:     fechaInicio,
		FechaFin:        fechaFin,
		CapacidadMaxima: capacidadMaxima,
		Participantes:   participantes,
	}
}

// ConfirmedCount returns the number of participants whose attendance is confirmed.
func (e *Event) ConfirmedCount() int {
	return ConfirmedCount(e.Participantes)
}

// FindParticipant returns the index of the participant with exactly the given correo, or -1.
func (e *Event) FindParticipant(correo string) int {
	for i, p := range e.Participantes {
		if p.Correo == correo {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate it without touching the original.
func (e *Event) Clone() *Event {
	c := *e
	if e.FechaFin != nil {
		fin := *e.FechaFin
		c.FechaFin = &fin
	}
	c.Participantes = make([]Participant, len(e.Participantes))
	copy(c.Participantes, e.Participantes)
	return &c
}

// EventInput carries caller-supplied event fields. A nil field was not supplied.
// Create requires Titulo, FechaInicio and CapacidadMaxima; Update merges whatever is present.
type EventInput struct {
	Titulo             *string
	FechaInicio        *time.Time
	FechaFin           *time.Time
	CapacidadMaxima    *int
	LugaresDisponibles *int
	Participantes      *[]Participant
}

// TouchesCapacity reports whether the input edits capacity, availability or the roster.
func (in *EventInput) TouchesCapacity() bool {
	return in.CapacidadMaxima != nil || in.LugaresDisponibles != nil || in.Participantes != nil
}

// ValidateFields checks the supplied fields for well-formedness. It does not check presence.
func (in *EventInput) ValidateFields() error {
	if in.Titulo != nil && strings.TrimSpace(*in.Titulo) == "" {
		return fmt.Errorf("%w: titulo must not be empty", ErrValidation)
	}
	if in.CapacidadMaxima != nil && *in.CapacidadMaxima < 0 {
		return fmt.Errorf("%w: capacidadMaxima must be >= 0", ErrValidation)
	}
	if in.FechaInicio != nil && in.FechaFin != nil && in.FechaFin.Before(*in.FechaInicio) {
		return fmt.Errorf("%w: fechaFin must not be before fechaInicio", ErrValidation)
	}
	if in.Participantes != nil {
		seen := make(map[string]struct{}, len(*in.Participantes))
		for _, p := range *in.Participantes {
			if strings.TrimSpace(p.Correo) == "" {
				return fmt.Errorf("%w: participant correo is required", ErrValidation)
			}
			if _, ok := seen[p.Correo]; ok {
				return fmt.Errorf("%w: %s", ErrDuplicateParticipant, p.Correo)
			}
			seen[p.Correo] = struct{}{}
		}
	}
	return nil
}

// Apply merges the supplied fields into a copy of e and returns it. LugaresDisponibles is not
// merged; it is always derived by Reconcile.
func (in *EventInput) Apply(e *Event) *Event {
	out := e.Clone()
	if in.Titulo != nil {
		out.Titulo = *in.Titulo
	}
	if in.FechaInicio != nil {
		out.FechaInicio = *in.FechaInicio
	}
	if in.FechaFin != nil {
		fin := *in.FechaFin
		out.FechaFin = &fin
	}
	if in.CapacidadMaxima != nil {
		out.CapacidadMaxima = *in.CapacidadMaxima
	}
	if in.Participantes != nil {
		out.Participantes = make([]Participant, len(*in.Participantes))
		copy(out.Participantes, *in.Participantes)
	}
	return out
}

// EventPatch is a merge write against a stored event document. Nil fields are left untouched.
type EventPatch struct {
	Titulo             *string
	FechaInicio        *time.Time
	FechaFin           *time.Time
	CapacidadMaxima    *int
	LugaresDisponibles *int
	Participantes      []Participant // nil means unchanged
}

// IsEmpty reports whether the patch writes nothing.
func (p *EventPatch) IsEmpty() bool {
	return p.Titulo == nil && p.FechaInicio == nil && p.FechaFin == nil &&
		p.CapacidadMaxima == nil && p.LugaresDisponibles == nil && p.Participantes == nil
}

// Merge applies the patch to a copy of e, the way the store merges it into the document.
func (p *EventPatch) Merge(e *Event) *Event {
	out := e.Clone()
	if p.Titulo != nil {
		out.Titulo = *p.Titulo
	}
	if p.FechaInicio != nil {
		out.FechaInicio = *p.FechaInicio
	}
	if p.FechaFin != nil {
		fin := *p.FechaFin
		out.FechaFin = &fin
	}
	if p.CapacidadMaxima != nil {
		out.CapacidadMaxima = *p.CapacidadMaxima
	}
	if p.LugaresDisponibles != nil {
		out.LugaresDisponibles = *p.LugaresDisponibles
	}
	if p.Participantes != nil {
		out.Participantes = make([]Participant, len(p.Participantes))
		copy(out.Participantes, p.Participantes)
	}
	return out
}

// PatchFromInput builds the merge write for an input, without any derived field.
func PatchFromInput(in *EventInput) *EventPatch {
	p := &EventPatch{
		Titulo:          in.Titulo,
		FechaInicio:     in.FechaInicio,
		FechaFin:        in.FechaFin,
		CapacidadMaxima: in.CapacidadMaxima,
	}
	if in.Participantes != nil {
		p.Participantes = make([]Participant, len(*in.Participantes))
		copy(p.Participantes, *in.Participantes)
	}
	return p
}

// ModifyFunc receives the current stored event and returns the patch to merge into it.
// Returning an error aborts the write.
type ModifyFunc func(current *Event) (*EventPatch, error)

// EventRepository defines the interface for event document storage (a single collection keyed by id).
type EventRepository interface {
	List(ctx context.Context) ([]*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	// Create stores the event and sets its ID.
	Create(ctx context.Context, event *Event) error
	// Update merges patch into the stored document and returns the merged event.
	Update(ctx context.Context, id string, patch *EventPatch) (*Event, error)
	// Modify runs fn against the current document and merges its patch atomically: no other
	// Modify on the same id can interleave between the read and the write.
	Modify(ctx context.Context, id string, fn ModifyFunc) (*Event, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// CalendarEncoder writes an event as an iCalendar document.
type CalendarEncoder interface {
	Encode(w io.Writer, event *Event) error
}

// EventService defines the business logic for events, attendance and reminders.
type EventService interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	CreateEvent(ctx context.Context, in *EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, id string, in *EventInput) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
	ConfirmAttendance(ctx context.Context, eventID, correo string) (*Participant, error)
	SendReminders(ctx context.Context, eventID string) (*ReminderPlan, error)
	ExportCalendar(ctx context.Context, eventID string, w io.Writer) error
	Health(ctx context.Context) error
}
