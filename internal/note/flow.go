package note

import (
	"context"
	"strings"

	"vendordesk/internal/booking"
	"vendordesk/internal/flow"
)

type API interface {
	AddNote(ctx context.Context, id string, note string) error
}

type Form struct {
	BookingID booking.ID `json:"booking_id"`
	Body      string     `json:"body"`
	// Existing is the note history as of the last reload, oldest first.
	Existing []booking.Note `json:"existing,omitempty"`
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
	form := &Form{BookingID: b.ID, Existing: b.Notes}
	s.SetForm(form)
	return *form, nil
}

func (f Flow) Submit(ctx context.Context, s *flow.Session, body string) error {
	if _, ok := flow.Update(s, func(form *Form) { form.Body = body }); !ok {
		return flow.ErrSessionClosed
	}
	text := strings.TrimSpace(body)
	if text == "" {
		return flow.ValidationError{Field: "note", Msg: "Please enter a note"}
	}
	return flow.Fetch("add note", f.API.AddNote(ctx, string(s.BookingID), text))
}
