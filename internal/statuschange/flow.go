package statuschange

import (
	"context"
	"strings"

	"vendordesk/internal/booking"
	"vendordesk/internal/flow"
	"vendordesk/pkg/vendorapi"
)

type API interface {
	UpdateStatus(ctx context.Context, id string, update vendorapi.StatusUpdate) error
}

type Form struct {
	BookingID booking.ID     `json:"booking_id"`
	Current   booking.Status `json:"current_status"`
	// Options is empty when Current is terminal.
	Options                    []booking.Status `json:"options"`
	Selected                   booking.Status   `json:"selected,omitempty"`
	RequiresCancellationReason bool             `json:"requires_cancellation_reason"`
	Notes                      string           `json:"notes,omitempty"`
	CancellationReason         string           `json:"cancellation_reason,omitempty"`
}

type Input struct {
	Status             string `json:"status"`
	Notes              string `json:"notes"`
	CancellationReason string `json:"cancellation_reason"`
}

type Flow struct {
	API      API
	Bookings flow.Bookings
}

func (f Flow) Open(s *flow.Session) (Form, error) {
	b, err := f.Bookings.Booking(s.BookingID)
	if err != nil {
		return Form{}, err
	}
	form := &Form{
		BookingID: b.ID,
		Current:   b.Status,
		Options:   booking.NextStatuses(b.Status),
	}
	s.SetForm(form)
	return *form, nil
}

// Select records the menu choice and primes the cancellation-reason flag.
func (f Flow) Select(s *flow.Session, status string) (Form, error) {
	form, ok := flow.Update(s, func(form *Form) {
		form.Selected = booking.Status(strings.TrimSpace(status))
		form.RequiresCancellationReason = booking.RequiresCancellationReason(form.Selected)
	})
	if !ok {
		return Form{}, flow.ErrSessionClosed
	}
	return form, nil
}

// Validate checks in against the snapshot taken on Open.
func Validate(form Form, in Input) (booking.Status, error) {
	next := booking.Status(strings.TrimSpace(in.Status))
	if next == "" {
		return "", flow.ValidationError{Field: "status", Msg: "Please select a new status"}
	}
	if !booking.CanTransition(form.Current, next) {
		return "", flow.ValidationError{Field: "status", Msg: "This booking cannot be moved to " + next.Label()}
	}
	if booking.RequiresCancellationReason(next) && strings.TrimSpace(in.CancellationReason) == "" {
		return "", flow.ValidationError{Field: "cancellation_reason", Msg: "Please provide a reason for cancellation"}
	}
	return next, nil
}

func (f Flow) Submit(ctx context.Context, s *flow.Session, in Input) error {
	form, ok := flow.Update(s, func(form *Form) {
		form.Selected = booking.Status(strings.TrimSpace(in.Status))
		form.RequiresCancellationReason = booking.RequiresCancellationReason(form.Selected)
		form.Notes = in.Notes
		form.CancellationReason = in.CancellationReason
	})
	if !ok {
		return flow.ErrSessionClosed
	}

	next, err := Validate(form, in)
	if err != nil {
		return err
	}

	update := vendorapi.StatusUpdate{
		Status: string(next),
		Notes:  strings.TrimSpace(in.Notes),
	}
	if booking.RequiresCancellationReason(next) {
		update.CancellationReason = strings.TrimSpace(in.CancellationReason)
	}
	return flow.Fetch("update status", f.API.UpdateStatus(ctx, string(s.BookingID), update))
}
