package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventosapi/internal/delivery/http/controllers"
	"eventosapi/internal/delivery/http/middleware"
)

// NewRouter initializes the HTTP router with all application routes, wrapped in CORS and request logging.
func NewRouter(eventController *controllers.EventController, logger *slog.Logger, allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("GET /events", eventController.ListEvents)
	mux.HandleFunc("POST /events", eventController.CreateEvent)
	mux.HandleFunc("GET /events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("PUT /events/{eventID}", eventController.UpdateEvent)
	mux.HandleFunc("DELETE /events/{eventID}", eventController.DeleteEvent)
	mux.HandleFunc("GET /events/{eventID}/calendar.ics", eventController.ExportCalendar)

	// Attendance and reminders
	mux.HandleFunc("PATCH /events/{eventID}/confirmar/{email}", eventController.ConfirmAttendance)
	mux.HandleFunc("POST /events/{eventID}/recordatorio", eventController.SendReminders)

	mux.HandleFunc("GET /health", eventController.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(logger, middleware.CORS(allowedOrigins, mux))
}
