package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"eventosapi/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	evaluator      domain.ReminderEvaluator
	dispatcher     domain.ReminderDispatcher
	calendar       domain.CalendarEncoder
	now            func() time.Time
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	evaluator domain.ReminderEvaluator,
	dispatcher domain.ReminderDispatcher,
	calendar domain.CalendarEncoder,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		evaluator:      evaluator,
		dispatcher:     dispatcher,
		calendar:       calendar,
		now:            time.Now,
		contextTimeout: timeout,
	}
}

// wrapStoreError adds operation context to store failures. Domain errors pass through unchanged
// so their message reaches the client as is.
func wrapStoreError(op string, err error) error {
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return err
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, wrapStoreError("list events", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStoreError("get event", err)
	}
	return event, nil
}

func (s *eventService) CreateEvent(ctx context.Context, in *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch {
	case in.Titulo == nil:
		return nil, fmt.Errorf("%w: titulo is required", domain.ErrValidation)
	case in.FechaInicio == nil:
		return nil, fmt.Errorf("%w: fechaInicio is required", domain.ErrValidation)
	case in.CapacidadMaxima == nil:
		return nil, fmt.Errorf("%w: capacidadMaxima is required", domain.ErrValidation)
	}
	if err := in.ValidateFields(); err != nil {
		return nil, err
	}

	// Availability is derived from the roster on create exactly as on update.
	event, err := domain.ReconcileEdit(domain.NewEvent("", time.Time{}, nil, 0, nil), in)
	if err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, wrapStoreError("create event", err)
	}
	return event, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, in *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := in.ValidateFields(); err != nil {
		return nil, err
	}

	touchesCapacity := in.TouchesCapacity()
	touchesDates := in.FechaInicio != nil || in.FechaFin != nil

	// Edits that leave capacity, roster and dates alone cannot break an invariant: plain merge.
	if !touchesCapacity && !touchesDates {
		updated, err := s.eventRepo.Update(ctx, id, domain.PatchFromInput(in))
		if err != nil {
			return nil, wrapStoreError("update event", err)
		}
		return updated, nil
	}

	updated, err := s.eventRepo.Modify(ctx, id, func(current *domain.Event) (*domain.EventPatch, error) {
		patch := domain.PatchFromInput(in)
		next := in.Apply(current)
		if touchesCapacity {
			reconciled, err := domain.ReconcileEdit(current, in)
			if err != nil {
				return nil, err
			}
			next = reconciled
			patch.LugaresDisponibles = &next.LugaresDisponibles
		}
		if next.FechaFin != nil && next.FechaFin.Before(next.FechaInicio) {
			return nil, fmt.Errorf("%w: fechaFin must not be before fechaInicio", domain.ErrValidation)
		}
		return patch, nil
	})
	if err != nil {
		return nil, wrapStoreError("update event", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return wrapStoreError("delete event", err)
	}
	return nil
}

// ConfirmAttendance flips one participant's asistenciaConfirmada and recomputes lugaresDisponibles in
// the same locked write. A second call for the same participant fails with ErrAlreadyConfirmed and
// leaves the event untouched.
func (s *eventService) ConfirmAttendance(ctx context.Context, eventID, correo string) (*domain.Participant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var confirmed domain.Participant
	_, err := s.eventRepo.Modify(ctx, eventID, func(current *domain.Event) (*domain.EventPatch, error) {
		i := current.FindParticipant(correo)
		if i < 0 {
			return nil, domain.ErrParticipantNotFound
		}
		if current.Participantes[i].AsistenciaConfirmada {
			return nil, domain.ErrAlreadyConfirmed
		}
		roster := current.Clone().Participantes
		roster[i].AsistenciaConfirmada = true
		available, err := domain.Reconcile(current.CapacidadMaxima, roster)
		if err != nil {
			return nil, err
		}
		confirmed = roster[i]
		return &domain.EventPatch{Participantes: roster, LugaresDisponibles: &available}, nil
	})
	if err != nil {
		return nil, wrapStoreError("confirm attendance", err)
	}
	return &confirmed, nil
}

// SendReminders evaluates the reminder window for the event and hands every rendered message to the
// dispatcher. A failed delivery is recorded in the plan and does not stop the others.
func (s *eventService) SendReminders(ctx context.Context, eventID string) (*domain.ReminderPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, wrapStoreError("get event", err)
	}
	plan, err := s.evaluator.Evaluate(event, s.now())
	if err != nil {
		return nil, err
	}
	for i := range plan.Participantes {
		if err := s.dispatcher.SendReminder(ctx, &plan.Participantes[i]); err != nil {
			plan.Fallidos = append(plan.Fallidos, plan.Participantes[i].Correo)
		}
	}
	return plan, nil
}

func (s *eventService) ExportCalendar(ctx context.Context, eventID string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return wrapStoreError("get event", err)
	}
	if event.FechaInicio.IsZero() {
		return domain.ErrInvalidEventDate
	}
	if err := s.calendar.Encode(w, event); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	return nil
}

func (s *eventService) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.eventRepo.Ping(ctx)
}
