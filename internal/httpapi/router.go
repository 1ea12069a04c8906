package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"vendordesk/internal/api"
	"vendordesk/internal/availability"
	"vendordesk/internal/dashboard"
	"vendordesk/internal/modal"
	"vendordesk/pkg/config"
)

type Dependencies struct {
	Cfg       config.Config
	Log       *slog.Logger
	Modal     *modal.Orchestrator
	Dashboard *dashboard.Dashboard
	Calendar  *availability.Aggregator
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(api.RequestID)
	r.Use(middleware.Recoverer)
	if deps.Log != nil {
		r.Use(api.AccessLog(deps.Log))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	h := Handlers{Modal: deps.Modal, Dashboard: deps.Dashboard, Calendar: deps.Calendar}

	// v1
	r.Route("/v1", func(r chi.Router) {
		// The browser dashboard is served from its own origin.
		r.Use(api.CORSMiddleware(api.CORSOptions{
			AllowedOrigins: deps.Cfg.DashboardAllowedOrigins,
			MaxAgeSeconds:  600,
		}))

		// Booking list and details view
		r.Get("/bookings", h.ListBookings)
		r.Post("/bookings/reload", h.ReloadBookings)
		r.Post("/bookings/{id}/details", h.OpenDetails)
		r.Get("/details", h.Details)
		r.Delete("/details", h.CloseDetails)

		// Modal lifecycle
		r.Get("/modal", h.ActiveModal)
		r.Post("/modal/close", h.CloseModal)
		r.Post("/modal/click", h.ClickModal)

		// Status change
		r.Post("/bookings/{id}/status/open", h.OpenStatus)
		r.Post("/modal/status/select", h.SelectStatus)
		r.Post("/modal/status/submit", h.SubmitStatus)

		// Notes
		r.Post("/bookings/{id}/notes/open", h.OpenNote)
		r.Post("/modal/note/submit", h.SubmitNote)

		// Rejection
		r.Post("/bookings/{id}/reject/open", h.OpenReject)
		r.Post("/modal/reject/input", h.InputReject)
		r.Post("/modal/reject/submit", h.SubmitReject)
		r.Post("/modal/reject/confirm", h.ConfirmReject)
		r.Post("/modal/reject/back", h.BackReject)

		// Payment cancellation
		r.Post("/bookings/{id}/payment-cancel/open", h.OpenPaymentCancel)
		r.Post("/modal/payment-cancel/submit", h.SubmitPaymentCancel)

		// Availability calendar
		r.Get("/calendar", h.FetchCalendar)
		r.Get("/calendar/view", h.CalendarView)
	})

	return r
}
