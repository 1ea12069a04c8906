package flow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"vendordesk/internal/booking"
)

type Kind string

const (
	KindStatus        Kind = "status"
	KindNote          Kind = "note"
	KindReject        Kind = "reject"
	KindPaymentCancel Kind = "payment_cancel"
)

// Bookings is the read path every flow uses to reach the booking store.
type Bookings interface {
	Booking(id booking.ID) (booking.Booking, error)
}

// Session is one open modal: which flow, which booking, its error slot and
// the flow's own form state. Flows receive it as a handle; the orchestrator
// owns its lifecycle.
type Session struct {
	ID        string
	Kind      Kind
	BookingID booking.ID
	OpenedAt  time.Time

	mu       sync.Mutex
	err      error
	inFlight bool
	closed   bool
	form     any
}

func NewSession(kind Kind, id booking.ID, now time.Time) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		BookingID: id,
		OpenedAt:  now,
	}
}

// Backdrop is the id of the element behind this modal; a click on it closes the session.
func (s *Session) Backdrop() string {
	return "modal-backdrop-" + string(s.Kind)
}

func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) SetErr(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// Begin claims the session's single request slot. It fails if a request is
// already running or the session was closed.
func (s *Session) Begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if s.inFlight {
		return ErrRequestInFlight
	}
	s.inFlight = true
	return nil
}

func (s *Session) End() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

// InFlight doubles as "submit control disabled".
func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// Close drops the target context and any error or form state.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.err = nil
	s.form = nil
	s.mu.Unlock()
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) Form() any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *Session) SetForm(form any) {
	s.mu.Lock()
	s.form = form
	s.mu.Unlock()
}

// Update runs fn on the form under the session lock.
func Update[T any](s *Session, fn func(form *T)) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.form.(*T)
	if !ok || f == nil {
		var zero T
		return zero, false
	}
	fn(f)
	return *f, true
}

// FormOf returns a copy of the session's form when it has type T.
func FormOf[T any](s *Session) (T, bool) {
	return Update(s, func(*T) {})
}
