package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"vendordesk/internal/api"
	"vendordesk/internal/availability"
	"vendordesk/internal/booking"
	"vendordesk/internal/dashboard"
	"vendordesk/internal/flow"
	"vendordesk/internal/modal"
	"vendordesk/internal/statuschange"
)

type Handlers struct {
	Modal     *modal.Orchestrator
	Dashboard *dashboard.Dashboard
	Calendar  *availability.Aggregator
}

type bookingList struct {
	Bookings []booking.Booking     `json:"bookings"`
	Counts   map[booking.Status]int `json:"counts"`
	LoadedAt *time.Time            `json:"loaded_at,omitempty"`
}

func (h Handlers) ListBookings(w http.ResponseWriter, r *http.Request) {
	api.WriteOK(w, h.list())
}

func (h Handlers) ReloadBookings(w http.ResponseWriter, r *http.Request) {
	if err := h.Dashboard.Reload(r.Context()); err != nil {
		api.WriteError(w, http.StatusBadGateway, "FETCH_ERROR", flow.Fetch("list bookings", err).Error(), h.list())
		return
	}
	api.WriteOK(w, h.list())
}

func (h Handlers) list() bookingList {
	store := h.Dashboard.Store()
	out := bookingList{Bookings: store.List(), Counts: store.CountByStatus()}
	if at := store.LoadedAt(); !at.IsZero() {
		out.LoadedAt = &at
	}
	return out
}

func (h Handlers) OpenDetails(w http.ResponseWriter, r *http.Request) {
	b, err := h.Modal.OpenDetails(bookingID(r))
	if err != nil {
		writeFlowError(w, err, nil)
		return
	}
	h.Dashboard.ShowDetails(b)
	api.WriteOK(w, b)
}

func (h Handlers) Details(w http.ResponseWriter, r *http.Request) {
	b, ok := h.Dashboard.Details()
	if !ok {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no booking details are open", nil)
		return
	}
	api.WriteOK(w, b)
}

func (h Handlers) CloseDetails(w http.ResponseWriter, r *http.Request) {
	h.Modal.CloseDetails()
	h.Dashboard.HideDetails()
	w.WriteHeader(http.StatusNoContent)
}

func (h Handlers) ActiveModal(w http.ResponseWriter, r *http.Request) {
	v, ok := h.Modal.Active()
	if !ok {
		api.WriteError(w, http.StatusNotFound, "NOT_FOUND", modal.ErrNoActiveModal.Error(), nil)
		return
	}
	api.WriteOK(w, v)
}

func (h Handlers) CloseModal(w http.ResponseWriter, r *http.Request) {
	api.WriteOK(w, map[string]bool{"closed": h.Modal.Close()})
}

func (h Handlers) ClickModal(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Target string `json:"target"`
	}
	if !decode(w, r, &body) {
		return
	}
	api.WriteOK(w, map[string]bool{"closed": h.Modal.Click(body.Target)})
}

func (h Handlers) OpenStatus(w http.ResponseWriter, r *http.Request) {
	respond(w)(h.Modal.OpenStatus(bookingID(r)))
}

func (h Handlers) SelectStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &body) {
		return
	}
	respond(w)(h.Modal.SelectStatus(body.Status))
}

func (h Handlers) SubmitStatus(w http.ResponseWriter, r *http.Request) {
	var in statuschange.Input
	if !decode(w, r, &in) {
		return
	}
	respond(w)(h.Modal.SubmitStatus(r.Context(), in))
}

func (h Handlers) OpenNote(w http.ResponseWriter, r *http.Request) {
	respond(w)(h.Modal.OpenNote(bookingID(r)))
}

func (h Handlers) SubmitNote(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Note string `json:"note"`
	}
	if !decode(w, r, &body) {
		return
	}
	respond(w)(h.Modal.SubmitNote(r.Context(), body.Note))
}

func (h Handlers) OpenReject(w http.ResponseWriter, r *http.Request) {
	respond(w)(h.Modal.OpenReject(bookingID(r)))
}

func (h Handlers) InputReject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if !decode(w, r, &body) {
		return
	}
	respond(w)(h.Modal.InputReject(body.Reason))
}

func (h Handlers) SubmitReject(w http.ResponseWriter, r *http.Request) {
	respond(w)(h.Modal.SubmitReject())
}

func (h Handlers) ConfirmReject(w http.ResponseWriter, r *http.Request) {
	respond(w)(h.Modal.ConfirmReject(r.Context()))
}

func (h Handlers) BackReject(w http.ResponseWriter, r *http.Request) {
	respond(w)(h.Modal.BackReject())
}

func (h Handlers) OpenPaymentCancel(w http.ResponseWriter, r *http.Request) {
	respond(w)(h.Modal.OpenPaymentCancel(r.Context(), bookingID(r)))
}

func (h Handlers) SubmitPaymentCancel(w http.ResponseWriter, r *http.Request) {
	respond(w)(h.Modal.SubmitPaymentCancel(r.Context()))
}

func (h Handlers) FetchCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := h.Calendar.Fetch(r.Context(), q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeFlowError(w, err, v)
		return
	}
	api.WriteOK(w, v)
}

func (h Handlers) CalendarView(w http.ResponseWriter, r *http.Request) {
	api.WriteOK(w, h.Calendar.View())
}

func bookingID(r *http.Request) booking.ID {
	return booking.ID(strings.TrimSpace(chi.URLParam(r, "id")))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := api.DecodeJSON(r, dst); err != nil {
		api.WriteError(w, http.StatusBadRequest, "INVALID_JSON", "invalid json body", nil)
		return false
	}
	return true
}

// respond writes a modal step's outcome. On error the view, when there is
// one, rides along so the dialog can render its inline message.
func respond(w http.ResponseWriter) func(modal.View, error) {
	return func(v modal.View, err error) {
		if err != nil {
			var data any
			if v.SessionID != "" {
				data = v
			}
			writeFlowError(w, err, data)
			return
		}
		api.WriteOK(w, v)
	}
}

func writeFlowError(w http.ResponseWriter, err error, data any) {
	switch {
	case flow.IsValidation(err):
		api.WriteError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), data)
	case errors.Is(err, modal.ErrNoActiveModal):
		api.WriteError(w, http.StatusNotFound, "NO_ACTIVE_MODAL", err.Error(), data)
	case errors.Is(err, modal.ErrModalActive),
		errors.Is(err, modal.ErrWrongModal),
		errors.Is(err, flow.ErrRequestInFlight),
		errors.Is(err, flow.ErrSessionClosed):
		api.WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), data)
	case flow.IsFetch(err):
		api.WriteError(w, http.StatusBadGateway, "FETCH_ERROR", err.Error(), data)
	default:
		api.WriteError(w, http.StatusInternalServerError, "INTERNAL", "internal error", data)
	}
}
