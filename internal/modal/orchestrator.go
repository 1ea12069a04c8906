package modal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vendordesk/internal/audit"
	"vendordesk/internal/booking"
	"vendordesk/internal/flow"
	"vendordesk/internal/note"
	"vendordesk/internal/paymentcancel"
	"vendordesk/internal/rejection"
	"vendordesk/internal/statuschange"
	"vendordesk/pkg/logger"
)

var (
	ErrModalActive   = errors.New("another dialog is already open")
	ErrNoActiveModal = errors.New("no dialog is open")
	ErrWrongModal    = errors.New("the open dialog is for a different action")
)

// Signals is how the orchestrator tells the hosting dashboard to re-query.
type Signals interface {
	Reload()
	RefreshOne(id booking.ID)
}

type Recorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

// API is everything the four flows send to the vendor backend.
type API interface {
	statuschange.API
	note.API
	rejection.API
	paymentcancel.API
}

type Config struct {
	Store    *booking.Store
	API      API
	Signals  Signals
	Recorder Recorder
	Log      *slog.Logger

	// PaymentCancelReloadDelay postpones the reload after a payment cancellation.
	PaymentCancelReloadDelay time.Duration

	Now   func() time.Time
	After func(d time.Duration, fn func())
}

type signal int

const (
	signalNone signal = iota
	signalReload
	signalRefreshDetails
	signalDelayedReload
)

// Orchestrator owns the single live modal session and the booking details
// view, and is the only path from flows to the booking store.
type Orchestrator struct {
	store    *booking.Store
	signals  Signals
	recorder Recorder
	log      *slog.Logger
	now      func() time.Time
	after    func(time.Duration, func())
	delay    time.Duration

	status        statuschange.Flow
	notes         note.Flow
	rejection     rejection.Flow
	paymentCancel paymentcancel.Flow

	mu      sync.Mutex
	active  *flow.Session
	details booking.ID
}

func New(cfg Config) *Orchestrator {
	o := &Orchestrator{
		store:    cfg.Store,
		signals:  cfg.Signals,
		recorder: cfg.Recorder,
		log:      cfg.Log,
		now:      cfg.Now,
		after:    cfg.After,
		delay:    cfg.PaymentCancelReloadDelay,
	}
	if o.store == nil {
		o.store = booking.NewStore()
	}
	if o.signals == nil {
		o.signals = noSignals{}
	}
	if o.recorder == nil {
		o.recorder = audit.Discard{}
	}
	if o.log == nil {
		o.log = logger.Discard()
	}
	if o.now == nil {
		o.now = time.Now
	}
	if o.after == nil {
		o.after = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}

	o.status = statuschange.Flow{API: cfg.API, Bookings: o}
	o.notes = note.Flow{API: cfg.API, Bookings: o}
	o.rejection = rejection.Flow{API: cfg.API, Bookings: o}
	o.paymentCancel = paymentcancel.Flow{API: cfg.API, Bookings: o}
	return o
}

// Booking is the shared getBooking accessor. A missing id means the caller
// holds a stale context; it surfaces as a fetch error.
func (o *Orchestrator) Booking(id booking.ID) (booking.Booking, error) {
	b, err := o.store.Get(id)
	if err != nil {
		return booking.Booking{}, flow.FetchError{
			Op:  "lookup booking",
			Msg: fmt.Sprintf("Booking #%s was not found. Please reload and try again.", id),
			Err: err,
		}
	}
	return b, nil
}

func (o *Orchestrator) Store() *booking.Store { return o.store }

// Active returns the live session's view.
func (o *Orchestrator) Active() (View, bool) {
	o.mu.Lock()
	s := o.active
	o.mu.Unlock()
	if s == nil {
		return View{}, false
	}
	return newView(s), true
}

func (o *Orchestrator) open(kind flow.Kind, id booking.ID) (*flow.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active != nil {
		return nil, ErrModalActive
	}
	s := flow.NewSession(kind, id, o.now())
	o.active = s
	return s, nil
}

// discard drops s without signalling, used when opening fails.
func (o *Orchestrator) discard(s *flow.Session) {
	o.mu.Lock()
	if o.active == s {
		o.active = nil
	}
	o.mu.Unlock()
	s.Close()
}

// Close ends the live session, whatever its state. It reports whether one was open.
func (o *Orchestrator) Close() bool {
	o.mu.Lock()
	s := o.active
	o.active = nil
	o.mu.Unlock()
	if s == nil {
		return false
	}
	s.Close()
	o.log.Debug("modal closed", "session_id", s.ID, "flow", s.Kind)
	return true
}

// Click closes the live session when target is its backdrop element.
func (o *Orchestrator) Click(target string) bool {
	o.mu.Lock()
	s := o.active
	if s == nil || target != s.Backdrop() {
		o.mu.Unlock()
		return false
	}
	o.active = nil
	o.mu.Unlock()
	s.Close()
	return true
}

func (o *Orchestrator) current(kind flow.Kind) (*flow.Session, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.active == nil {
		return nil, ErrNoActiveModal
	}
	if o.active.Kind != kind {
		return nil, ErrWrongModal
	}
	return o.active, nil
}

// OpenDetails marks the booking details view as showing id, for targeted refreshes.
func (o *Orchestrator) OpenDetails(id booking.ID) (booking.Booking, error) {
	b, err := o.Booking(id)
	if err != nil {
		return booking.Booking{}, err
	}
	o.mu.Lock()
	o.details = id
	o.mu.Unlock()
	return b, nil
}

func (o *Orchestrator) CloseDetails() {
	o.mu.Lock()
	o.details = ""
	o.mu.Unlock()
}

func (o *Orchestrator) DetailsOpen() booking.ID {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.details
}

// submit runs one request-bearing step of the live session's flow: it holds
// the session's request slot, fills the error slot on failure, and on
// success closes the session and emits sig.
func (o *Orchestrator) submit(ctx context.Context, kind flow.Kind, sig signal, fn func(context.Context, *flow.Session) error) (View, error) {
	s, err := o.current(kind)
	if err != nil {
		return View{}, err
	}
	if err := s.Begin(); err != nil {
		return newView(s), err
	}
	started := o.now()
	err = fn(ctx, s)
	s.End()

	log := logger.FromContext(ctx, o.log).With("session_id", s.ID, "flow", s.Kind, "booking_id", s.BookingID)
	if err != nil {
		s.SetErr(err)
		if flow.IsValidation(err) {
			log.Debug("flow input rejected", "error", err)
		} else {
			log.Warn("flow request failed", "error", err)
			o.record(ctx, s, audit.OutcomeFailed, err, started)
		}
		return newView(s), err
	}

	log.Info("flow request succeeded")
	o.record(ctx, s, audit.OutcomeSucceeded, nil, started)
	v := newView(s)
	o.finish(s, sig)
	v.Closed = true
	v.Error, v.ErrorField, v.ErrorKind = "", "", ""
	return v, nil
}

// local runs a step that never touches the network.
func (o *Orchestrator) local(kind flow.Kind, fn func(*flow.Session) error) (View, error) {
	s, err := o.current(kind)
	if err != nil {
		return View{}, err
	}
	err = fn(s)
	if err == nil || flow.IsValidation(err) {
		s.SetErr(err)
	}
	return newView(s), err
}

func (o *Orchestrator) finish(s *flow.Session, sig signal) {
	o.mu.Lock()
	if o.active == s {
		o.active = nil
	}
	details := o.details
	o.mu.Unlock()
	s.Close()

	switch sig {
	case signalReload:
		o.signals.Reload()
	case signalRefreshDetails:
		if details == s.BookingID {
			o.signals.RefreshOne(s.BookingID)
		}
	case signalDelayedReload:
		o.after(o.delay, o.signals.Reload)
	}
}

func (o *Orchestrator) record(ctx context.Context, s *flow.Session, outcome audit.Outcome, err error, started time.Time) {
	e := audit.Entry{
		SessionID: s.ID,
		Flow:      string(s.Kind),
		BookingID: string(s.BookingID),
		Outcome:   outcome,
		Metadata:  map[string]any{"duration_ms": o.now().Sub(started).Milliseconds()},
	}
	if err != nil {
		e.Message = err.Error()
	}
	if rerr := o.recorder.Record(ctx, e); rerr != nil {
		logger.FromContext(ctx, o.log).Error("audit record failed", "session_id", s.ID, "error", rerr)
	}
}

type noSignals struct{}

func (noSignals) Reload()               {}
func (noSignals) RefreshOne(booking.ID) {}
