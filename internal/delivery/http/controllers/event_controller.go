package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"eventosapi/internal/delivery/http/helpers"
	"eventosapi/internal/domain"
)

// Client-facing messages.
const (
	msgEventNotFound       = "Evento no encontrado"
	msgParticipantNotFound = "Participante no encontrado en este evento"
	msgAlreadyConfirmed    = "La asistencia ya fue confirmada previamente"
	msgEventUpdated        = "Evento actualizado correctamente"
	msgEventDeleted        = "Evento eliminado correctamente"
	msgAttendanceConfirmed = "Asistencia confirmada exitosamente"

	msgInconsistentCapacity = "Los lugares disponibles no pueden ser mayores que la capacidad máxima"
	msgRosterExceeds        = "El número de participantes excede la capacidad máxima"
	msgCapacityExceeded     = "La capacidad máxima ha sido superada"
	msgReminderWindow       = "Fecha no óptima para enviar las notificaciones. El evento es dentro de más de 5 días."
	msgInvalidEventDate     = "Fecha de evento no válida"
)

// EventRequest is the request body for POST /events and PUT /events/{eventID}. Dates are ISO-8601
// strings. On update every field is optional and omitted fields are unchanged.
type EventRequest struct {
	Titulo             *string               `json:"titulo"`
	FechaInicio        *string               `json:"fechaInicio"`
	FechaFin           *string               `json:"fechaFin"`
	CapacidadMaxima    *int                  `json:"capacidadMaxima"`
	LugaresDisponibles *int                  `json:"lugaresDisponibles"`
	Participantes      *[]domain.Participant `json:"participantes"`
}

// Validate implements Validator. Checks date formats only; presence rules belong to CreateEventRequest.
func (e EventRequest) Validate() []string {
	var errs []string
	if e.FechaInicio != nil {
		if _, err := domain.ParseDate(*e.FechaInicio); err != nil {
			errs = append(errs, "fechaInicio must be an ISO-8601 date")
		}
	}
	if e.FechaFin != nil {
		if _, err := domain.ParseDate(*e.FechaFin); err != nil {
			errs = append(errs, "fechaFin must be an ISO-8601 date")
		}
	}
	return errs
}

// toInput converts the request to a domain.EventInput, parsing the dates.
func (e EventRequest) toInput() (*domain.EventInput, error) {
	in := &domain.EventInput{
		Titulo:             e.Titulo,
		CapacidadMaxima:    e.CapacidadMaxima,
		LugaresDisponibles: e.LugaresDisponibles,
		Participantes:      e.Participantes,
	}
	parse := func(s *string) (*time.Time, error) {
		if s == nil {
			return nil, nil
		}
		t, err := domain.ParseDate(*s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	var err error
	if in.FechaInicio, err = parse(e.FechaInicio); err != nil {
		return nil, err
	}
	if in.FechaFin, err = parse(e.FechaFin); err != nil {
		return nil, err
	}
	return in, nil
}

// CreateEventRequest is the request body for POST /events. titulo, fechaInicio and capacidadMaxima are required.
type CreateEventRequest struct {
	EventRequest
}

// Validate implements Validator. Returns error messages for required and format rules.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Titulo == nil || *c.Titulo == "" {
		errs = append(errs, "titulo is required")
	}
	if c.FechaInicio == nil {
		errs = append(errs, "fechaInicio is required")
	}
	if c.CapacidadMaxima == nil {
		errs = append(errs, "capacidadMaxima is required")
	}
	return append(errs, c.EventRequest.Validate()...)
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsSuccessResponse is the success response envelope for GET /events (200).
type ListEventsSuccessResponse struct {
	Data  []*domain.Event   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateEventResponse is the data payload for PUT /events/{eventID}.
type UpdateEventResponse struct {
	Message string        `json:"message"`
	Event   *domain.Event `json:"event"`
}

// UpdateEventSuccessResponse is the success response envelope for PUT /events/{eventID} (200).
type UpdateEventSuccessResponse struct {
	Data  UpdateEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// ConfirmAttendanceResponse is the data payload for PATCH /events/{eventID}/confirmar/{email}.
type ConfirmAttendanceResponse struct {
	Message      string              `json:"message"`
	Participante *domain.Participant `json:"participante"`
}

// ConfirmAttendanceSuccessResponse is the success response envelope for the confirmation endpoint (200).
type ConfirmAttendanceSuccessResponse struct {
	Data  ConfirmAttendanceResponse `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// ReminderSuccessResponse is the success response envelope for POST /events/{eventID}/recordatorio (200).
type ReminderSuccessResponse struct {
	Data  *domain.ReminderPlan `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeServiceError maps service errors to the API envelope. Only server faults are logged.
func (c *EventController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var storeErr *domain.StoreError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, msgEventNotFound)
	case errors.Is(err, domain.ErrParticipantNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, msgParticipantNotFound)
	case errors.Is(err, domain.ErrAlreadyConfirmed):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msgAlreadyConfirmed)
	case errors.Is(err, domain.ErrInconsistentCapacityEdit):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msgInconsistentCapacity)
	case errors.Is(err, domain.ErrRosterExceedsCapacity):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msgRosterExceeds)
	case errors.Is(err, domain.ErrCapacityExceeded):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msgCapacityExceeded)
	case errors.Is(err, domain.ErrReminderWindowNotOpen):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msgReminderWindow)
	case errors.Is(err, domain.ErrInvalidEventDate):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, msgInvalidEventDate)
	case errors.Is(err, domain.ErrValidation):
		// Field-level detail names the offending field.
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.As(err, &storeErr):
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeStoreError, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns every stored event with its participants.
// @Tags events
// @Produce json
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains the events"
// @Failure 500 {object} helpers.APIResponse "error.code: store_error or internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Service.ListEvents(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: store_error or internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Creates an event. lugaresDisponibles is derived from capacidadMaxima and the confirmed participants.
// @Tags events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: store_error or internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), in)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Merges the supplied fields into the event. Changes to capacidadMaxima, lugaresDisponibles or participantes are reconciled against the stored roster.
// @Tags events
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param event body EventRequest true "Fields to update"
// @Success 200 {object} controllers.UpdateEventSuccessResponse "data contains a message and the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: store_error or internal_error"
// @Router /events/{eventID} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, in)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateEventResponse{Message: msgEventUpdated, Event: event})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event and its participants.
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data.message: Evento eliminado correctamente"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: store_error or internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.MessageResponse{Message: msgEventDeleted})
}

// ConfirmAttendance godoc
// @Summary Confirm a participant's attendance
// @Description Marks the participant with the given email as confirmed and recomputes lugaresDisponibles. A participant can be confirmed only once.
// @Tags attendance
// @Produce json
// @Param eventID path string true "Event ID"
// @Param email path string true "Participant email (exact match)"
// @Success 200 {object} controllers.ConfirmAttendanceSuccessResponse "data contains a message and the participant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (already confirmed or capacity exceeded)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: store_error or internal_error"
// @Router /events/{eventID}/confirmar/{email} [patch]
func (c *EventController) ConfirmAttendance(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	email := r.PathValue("email")
	if eventID == "" || email == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID or email")
		return
	}
	participant, err := c.Service.ConfirmAttendance(r.Context(), eventID, email)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ConfirmAttendanceResponse{Message: msgAttendanceConfirmed, Participante: participant})
}

// SendReminders godoc
// @Summary Send reminders to the event participants
// @Description Allowed only when the event starts in fewer than 5 days. Every participant receives a reminder, confirmed or not. Deliveries that failed are listed in fallidos.
// @Tags reminders
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.ReminderSuccessResponse "data contains the reminder plan"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (window not open or invalid date)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: store_error or internal_error"
// @Router /events/{eventID}/recordatorio [post]
func (c *EventController) SendReminders(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	plan, err := c.Service.SendReminders(r.Context(), eventID)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	if len(plan.Fallidos) > 0 {
		c.Logger.WarnContext(r.Context(), "some reminders were not delivered", "event_id", eventID, "failed", len(plan.Fallidos))
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, plan)
}

// ExportCalendar godoc
// @Summary Export an event as iCalendar
// @Description Returns a VCALENDAR with one VEVENT; participants are attendees with PARTSTAT ACCEPTED when confirmed.
// @Tags events
// @Produce text/calendar
// @Param eventID path string true "Event ID"
// @Success 200 {string} string "text/calendar document"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid date)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: store_error or internal_error"
// @Router /events/{eventID}/calendar.ics [get]
func (c *EventController) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var buf bytes.Buffer
	if err := c.Service.ExportCalendar(r.Context(), eventID, &buf); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", eventID+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Health godoc
// @Summary Health check
// @Description Pings the document store.
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data.message: ok"
// @Failure 503 {object} helpers.APIResponse "error.code: store_error"
// @Router /health [get]
func (c *EventController) Health(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.Health(r.Context()); err != nil {
		c.Logger.ErrorContext(r.Context(), "health check failed", "err", err)
		helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeStoreError, "store unavailable")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.MessageResponse{Message: "ok"})
}
