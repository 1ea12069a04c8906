package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vendordesk/internal/booking"
	"vendordesk/pkg/logger"
	"vendordesk/pkg/vendorapi"
)

type API interface {
	ListBookings(ctx context.Context) ([]vendorapi.Booking, error)
	GetBooking(ctx context.Context, id string) (vendorapi.Booking, error)
}

// Dashboard is the host page: it owns the booking list reload and the open
// booking details view, and consumes the orchestrator's signals.
type Dashboard struct {
	api   API
	store *booking.Store
	log   *slog.Logger
	now   func() time.Time

	// base is the context signal-driven work runs under; it ends on shutdown.
	base context.Context
	wg   sync.WaitGroup
	sf   singleflight.Group

	mu         sync.Mutex
	details    *booking.Booking
	lastErr    error
	refreshErr error
}

func New(base context.Context, api API, store *booking.Store, log *slog.Logger) *Dashboard {
	if log == nil {
		log = logger.Discard()
	}
	if store == nil {
		store = booking.NewStore()
	}
	return &Dashboard{api: api, store: store, log: log, now: time.Now, base: base}
}

func (d *Dashboard) Store() *booking.Store { return d.store }

// Reload re-queries the booking list and replaces the store. Concurrent
// calls share one request.
func (d *Dashboard) Reload(ctx context.Context) error {
	_, err, shared := d.sf.Do("reload", func() (any, error) {
		list, err := d.api.ListBookings(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		out := make([]booking.Booking, 0, len(list))
		for _, r := range list {
			out = append(out, booking.FromAPI(r))
		}
		d.store.Replace(out, d.now())
		return nil, nil
	})

	d.mu.Lock()
	d.lastErr = err
	d.mu.Unlock()

	log := logger.FromContext(ctx, d.log)
	if err != nil {
		log.Warn("booking reload failed", "error", err)
		return err
	}
	log.Debug("bookings reloaded", "count", d.store.Len(), "shared", shared)
	return nil
}

// RefreshOne re-fetches id for the details view. It is a no-op unless the
// details view is showing that booking. The store is left alone.
func (d *Dashboard) RefreshOne(ctx context.Context, id booking.ID) error {
	d.mu.Lock()
	showing := d.details != nil && d.details.ID == id
	d.mu.Unlock()
	if !showing {
		return nil
	}

	r, err := d.api.GetBooking(ctx, string(id))
	if err != nil {
		d.mu.Lock()
		d.refreshErr = err
		d.mu.Unlock()
		logger.FromContext(ctx, d.log).Warn("booking refresh failed", "booking_id", id, "error", err)
		return fmt.Errorf("get booking %s: %w", id, err)
	}
	b := booking.FromAPI(r)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.refreshErr = nil
	// The view may have moved on while the request ran.
	if d.details != nil && d.details.ID == id {
		d.details = &b
	}
	return nil
}

func (d *Dashboard) ShowDetails(b booking.Booking) {
	d.mu.Lock()
	d.details = &b
	d.refreshErr = nil
	d.mu.Unlock()
}

func (d *Dashboard) HideDetails() {
	d.mu.Lock()
	d.details = nil
	d.mu.Unlock()
}

// Details returns the booking shown in the details view, if any.
func (d *Dashboard) Details() (booking.Booking, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.details == nil {
		return booking.Booking{}, false
	}
	return *d.details, true
}

// LastError is the outcome of the most recent reload.
func (d *Dashboard) LastError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastErr
}

// RefreshError is the outcome of the most recent details refresh.
func (d *Dashboard) RefreshError() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refreshErr
}

// Signals adapts the dashboard to the orchestrator's signal sink. Each
// signal runs in the background under the dashboard's base context.
func (d *Dashboard) Signals() Signals { return Signals{d: d} }

type Signals struct{ d *Dashboard }

func (s Signals) Reload() {
	s.d.wg.Add(1)
	go func() {
		defer s.d.wg.Done()
		_ = s.d.Reload(s.d.base)
	}()
}

func (s Signals) RefreshOne(id booking.ID) {
	s.d.wg.Add(1)
	go func() {
		defer s.d.wg.Done()
		_ = s.d.RefreshOne(s.d.base, id)
	}()
}

// Wait blocks until background signal work has finished.
func (d *Dashboard) Wait() { d.wg.Wait() }
