// Package vendortest is an in-memory vendor booking API that speaks the same
// envelope as the real one. It backs the package tests and cmd/dev/fakebackend.
package vendortest

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"vendordesk/pkg/vendorapi"
)

// Request is one call the server received.
type Request struct {
	Method string
	Path   string
	Body   map[string]any
}

// Failure makes every call to an operation fail with the given status and message.
type Failure struct {
	Status  int
	Message string
	// Success200 answers HTTP 200 with success=false.
	Success200 bool
}

const (
	OpList          = "list"
	OpGet           = "get"
	OpStatus        = "status"
	OpNote          = "note"
	OpReject        = "reject"
	OpCalendar      = "calendar"
	OpPaymentStatus = "payment_status"
	OpPaymentCancel = "payment_cancel"
)

type Server struct {
	// Secret, when set, requires a valid service token on every request.
	Secret   string
	Audience string
	Now      func() time.Time

	mu       sync.Mutex
	bookings map[string]*vendorapi.Booking
	order    []string
	payments map[string]vendorapi.PaymentDetail
	failures map[string]Failure
	requests []Request
}

func NewServer() *Server {
	return &Server{
		bookings: map[string]*vendorapi.Booking{},
		payments: map[string]vendorapi.PaymentDetail{},
		failures: map[string]Failure{},
	}
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Put adds or replaces a booking.
func (s *Server) Put(b vendorapi.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := string(b.ID)
	if _, ok := s.bookings[id]; !ok {
		s.order = append(s.order, id)
	}
	s.bookings[id] = &b
}

// PutPayment sets the payment detail returned for a booking.
func (s *Server) PutPayment(id string, d vendorapi.PaymentDetail) {
	s.mu.Lock()
	s.payments[id] = d
	s.mu.Unlock()
}

func (s *Server) Booking(id string) (vendorapi.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return vendorapi.Booking{}, false
	}
	return *b, true
}

func (s *Server) Fail(op string, f Failure) {
	s.mu.Lock()
	s.failures[op] = f
	s.mu.Unlock()
}

func (s *Server) ClearFailures() {
	s.mu.Lock()
	s.failures = map[string]Failure{}
	s.mu.Unlock()
}

// Requests returns the calls received so far, optionally filtered by method and path suffix.
func (s *Server) Requests(method, pathSuffix string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if method != "" && r.Method != method {
			continue
		}
		if pathSuffix != "" && !strings.HasSuffix(r.Path, pathSuffix) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Handler mounts the API under prefix, e.g. "/api/vendor".
func (s *Server) Handler(prefix string) http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequest)
	if s.Secret != "" {
		r.Use(s.requireToken)
	}

	r.Route("/"+strings.Trim(prefix, "/"), func(r chi.Router) {
		r.Get("/bookings", s.op(OpList, s.list))
		r.Get("/bookings/calendar", s.op(OpCalendar, s.calendar))
		r.Get("/bookings/{id}", s.op(OpGet, s.get))
		r.Put("/bookings/{id}/status", s.op(OpStatus, s.updateStatus))
		r.Post("/bookings/{id}/notes", s.op(OpNote, s.addNote))
		r.Post("/bookings/{id}/reject", s.op(OpReject, s.reject))
		r.Get("/payments/status/{id}", s.op(OpPaymentStatus, s.paymentStatus))
		r.Post("/payments/cancel/{id}", s.op(OpPaymentCancel, s.cancelPayment))
	})
	return r
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		s.mu.Lock()
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Body: body})
		s.mu.Unlock()
		r = r.WithContext(withBody(r.Context(), body))
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, err := vendorapi.VerifyServiceToken(tok, s.Secret, s.Audience, s.now()); err != nil {
			writeFail(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) op(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		f, failing := s.failures[name]
		s.mu.Unlock()
		if failing {
			status := f.Status
			if f.Success200 || status == 0 {
				status = http.StatusOK
			}
			writeFail(w, status, f.Message)
			return
		}
		h(w, r)
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]vendorapi.Booking, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.bookings[id])
	}
	s.mu.Unlock()
	writeOK(w, out)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	b, ok := s.Booking(chi.URLParam(r, "id"))
	if !ok {
		writeFail(w, http.StatusNotFound, "Booking not found")
		return
	}
	writeOK(w, b)
}

// mutate runs fn on the booking under the lock. It answers 404 itself.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(b *vendorapi.Booking) (string, bool)) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	b, ok := s.bookings[id]
	if !ok {
		s.mu.Unlock()
		writeFail(w, http.StatusNotFound, "Booking not found")
		return
	}
	msg, good := fn(b)
	out := *b
	s.mu.Unlock()
	if !good {
		writeFail(w, http.StatusUnprocessableEntity, msg)
		return
	}
	writeOK(w, out)
}

func (s *Server) updateStatus(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	status := str(body, "status")
	s.mutate(w, r, func(b *vendorapi.Booking) (string, bool) {
		if status == "" {
			return "Status is required", false
		}
		if status == "cancelled" && str(body, "cancellation_reason") == "" {
			return "Cancellation reason is required", false
		}
		b.Status = status
		if n := str(body, "notes"); n != "" {
			b.Notes = append(b.Notes, vendorapi.Note{Note: n, CreatedAt: s.now()})
		}
		return "", true
	})
}

func (s *Server) addNote(w http.ResponseWriter, r *http.Request) {
	note := str(bodyFrom(r.Context()), "note")
	s.mutate(w, r, func(b *vendorapi.Booking) (string, bool) {
		if strings.TrimSpace(note) == "" {
			return "Note is required", false
		}
		b.Notes = append(b.Notes, vendorapi.Note{Note: note, CreatedAt: s.now()})
		return "", true
	})
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request) {
	reason := str(bodyFrom(r.Context()), "reason")
	s.mutate(w, r, func(b *vendorapi.Booking) (string, bool) {
		if len([]rune(strings.TrimSpace(reason))) < 10 {
			return "Rejection reason must be at least 10 characters", false
		}
		b.Status = "rejected"
		return "", true
	})
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	start, err1 := time.Parse(vendorapi.DateLayout, r.URL.Query().Get("start_date"))
	end, err2 := time.Parse(vendorapi.DateLayout, r.URL.Query().Get("end_date"))
	if err1 != nil || err2 != nil || end.Before(start) {
		writeFail(w, http.StatusBadRequest, "Invalid date range")
		return
	}

	s.mu.Lock()
	var events []vendorapi.CalendarEvent
	booked := map[string]bool{}
	for _, id := range s.order {
		b := s.bookings[id]
		if b.Status == "cancelled" || b.Status == "rejected" {
			continue
		}
		if b.EndDate.Before(start) || b.StartDate.After(end) {
			continue
		}
		events = append(events, vendorapi.CalendarEvent{
			ID:            b.ID,
			Title:         b.Title,
			Start:         b.StartDate,
			End:           b.EndDate,
			Status:        b.Status,
			Amount:        b.Amount,
			Currency:      b.Currency,
			PaymentStatus: b.PaymentStatus,
			BookingType:   b.BookingType,
		})
		for d := maxTime(b.StartDate.Time, start); !d.After(minTime(b.EndDate.Time, end)); d = d.AddDate(0, 0, 1) {
			booked[d.Format(vendorapi.DateLayout)] = true
		}
	}
	s.mu.Unlock()

	sort.SliceStable(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	total := int(end.Sub(start).Hours()/24) + 1
	avail := vendorapi.Availability{
		TotalDays:     total,
		BookedDays:    len(booked),
		AvailableDays: total - len(booked),
	}
	if total > 0 {
		avail.AvailabilityPercentage, _ = decimal.NewFromInt(int64(avail.AvailableDays)).
			Div(decimal.NewFromInt(int64(total))).Mul(decimal.NewFromInt(100)).Round(1).Float64()
	}
	writeOK(w, vendorapi.Calendar{Availability: avail, Events: events})
}

func (s *Server) paymentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	d, ok := s.payments[id]
	s.mu.Unlock()
	if !ok {
		writeFail(w, http.StatusNotFound, "Payment not found")
		return
	}
	writeOK(w, d)
}

func (s *Server) cancelPayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	d, ok := s.payments[id]
	if ok {
		d.Status = "cancelled"
		s.payments[id] = d
		if b, has := s.bookings[id]; has {
			b.PaymentStatus = "cancelled"
		}
	}
	s.mu.Unlock()
	if !ok {
		writeFail(w, http.StatusNotFound, "Payment not found")
		return
	}
	writeOK(w, map[string]string{"reference": d.Reference, "status": d.Status})
}

func str(body map[string]any, key string) string {
	v, _ := body[key].(string)
	return v
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
